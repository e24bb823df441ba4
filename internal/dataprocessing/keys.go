package dataprocessing

import (
	"strings"

	"mortalitydash/pkg/contracts/domain"
)

const (
	regionWidth    = 2
	subRegionWidth = 3
	compositeWidth = regionWidth + subRegionWidth
)

// Zfill left-pads s with zeros to width. A leading sign stays in front and
// strings already at or beyond width are returned unchanged.
func Zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := strings.Repeat("0", width-len(s))
	if s != "" && (s[0] == '+' || s[0] == '-') {
		return s[:1] + pad + s[1:]
	}
	return pad + s
}

// CleanCode trims whitespace and strips one trailing ".0" left behind by
// numeric spreadsheet cells.
func CleanCode(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.TrimSuffix(s, ".0")
}

// CompositeKey joins a region and sub-region code into the 5-digit key used
// by every join. Empty or non-numeric codes yield "".
func CompositeKey(region, subRegion string) string {
	r := CleanCode(region)
	s := CleanCode(subRegion)
	if !isDigits(r) || !isDigits(s) {
		return ""
	}
	return Zfill(r, regionWidth) + Zfill(s, subRegionWidth)
}

// RegionKey is the 2-digit region code the boundary features are keyed by
func RegionKey(region string) string {
	r := CleanCode(region)
	if !isDigits(r) {
		return ""
	}
	return Zfill(r, regionWidth)
}

// PopulationKey pads a population table municipality code to 5 digits
func PopulationKey(code string) string {
	c := CleanCode(code)
	if !isDigits(c) {
		return ""
	}
	return Zfill(c, compositeWidth)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeKeys fills CompositeKey and RegionKey on every record in place
func NormalizeKeys(records []domain.MortalityRecord) {
	for i := range records {
		records[i].CompositeKey = CompositeKey(records[i].RegionCode, records[i].SubRegionCode)
		records[i].RegionKey = RegionKey(records[i].RegionCode)
	}
}
