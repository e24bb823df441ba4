package dataprocessing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"mortalitydash/pkg/contracts/domain"
)

func TestZfill(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"5", 2, "05"},
		{"", 3, "000"},
		{"42", 2, "42"},
		{"1234", 3, "1234"},
		{"-7", 3, "-07"},
		{"+7", 4, "+007"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.in, tt.width), func(t *testing.T) {
			assert.Equal(t, tt.want, Zfill(tt.in, tt.width))
		})
	}
}

func TestCompositeKey(t *testing.T) {
	tests := []struct {
		name      string
		region    string
		subRegion string
		want      string
	}{
		{"padded", "5", "1", "05001"},
		{"already padded", "05", "001", "05001"},
		{"float cells", "5.0", "1.0", "05001"},
		{"whitespace", " 11 ", " 1", "11001"},
		{"empty region", "", "1", ""},
		{"non-numeric", "AB", "001", ""},
		{"long sub-region kept", "5", "1234", "051234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompositeKey(tt.region, tt.subRegion))
		})
	}
}

func TestCompositeKey_AllValidCodes(t *testing.T) {
	for r := 0; r <= 99; r++ {
		for _, s := range []int{0, 1, 9, 10, 99, 100, 999} {
			want := fmt.Sprintf("%02d%03d", r, s)
			assert.Equal(t, want, CompositeKey(fmt.Sprint(r), fmt.Sprint(s)))
		}
	}
}

func TestRegionAndPopulationKey(t *testing.T) {
	assert.Equal(t, "05", RegionKey("5"))
	assert.Equal(t, "", RegionKey("x"))
	assert.Equal(t, "05001", PopulationKey("5001.0"))
	assert.Equal(t, "11001", PopulationKey("11001"))
	assert.Equal(t, "", PopulationKey(""))
}

func TestNormalizeKeys(t *testing.T) {
	records := []domain.MortalityRecord{
		{RegionCode: "5", SubRegionCode: "1"},
		{RegionCode: "", SubRegionCode: "1"},
	}
	NormalizeKeys(records)

	assert.Equal(t, "05001", records[0].CompositeKey)
	assert.Equal(t, "05", records[0].RegionKey)
	assert.Empty(t, records[1].CompositeKey)
	assert.Empty(t, records[1].RegionKey)
}
