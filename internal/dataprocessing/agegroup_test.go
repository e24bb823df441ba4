package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeGroupFor(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, AgeNeonatal},
		{4, AgeNeonatal},
		{5, AgeInfant},
		{6, AgeInfant},
		{7, AgeEarlyChildhood},
		{8, AgeEarlyChildhood},
		{9, AgeChildhood},
		{10, AgeChildhood},
		{11, AgeAdolescence},
		{12, AgeYouth},
		{13, AgeYouth},
		{14, AgeEarlyAdulthood},
		{16, AgeEarlyAdulthood},
		{17, AgeMidAdulthood},
		{19, AgeMidAdulthood},
		{20, AgeOlderAdulthood},
		{24, AgeOlderAdulthood},
		{25, AgeLongevity},
		{28, AgeLongevity},
		{29, AgeUnknown},
		{-1, AgeInvalidCode},
		{30, AgeInvalidCode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AgeGroupFor(tt.code), "code %d", tt.code)
	}
}

func TestAgeGroupFor_TotalOverKnownRange(t *testing.T) {
	order := AgeGroupOrder()
	require.Len(t, order, 11)

	valid := make(map[string]bool, len(order))
	for _, label := range order {
		valid[label] = true
	}
	seen := make(map[string]bool)
	for c := 0; c <= 29; c++ {
		label := AgeGroupFor(c)
		assert.True(t, valid[label], "code %d mapped to %q", c, label)
		seen[label] = true
	}
	assert.Len(t, seen, 11, "every label is reachable")
}

func TestCategorizeAgeGroup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"integer", "17", AgeMidAdulthood},
		{"integral float", "11.0", AgeAdolescence},
		{"truncated float", "4.9", AgeNeonatal},
		{"whitespace", " 29 ", AgeUnknown},
		{"out of range", "45", AgeInvalidCode},
		{"empty", "", AgeMissingOrBadInput},
		{"text", "abc", AgeMissingOrBadInput},
		{"nan", "NaN", AgeMissingOrBadInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeAgeGroup(tt.raw))
		})
	}
}

func TestAgeGroupOrder_ReturnsCopy(t *testing.T) {
	order := AgeGroupOrder()
	order[0] = "changed"
	assert.Equal(t, AgeNeonatal, AgeGroupOrder()[0])
}
