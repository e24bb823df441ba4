package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// Age-group labels in chart order
const (
	AgeNeonatal          = "Mortalidad neonatal (<1 mes)"
	AgeInfant            = "Mortalidad infantil (1 a 11 meses)"
	AgeEarlyChildhood    = "Primera infancia (1 a 4 años)"
	AgeChildhood         = "Niñez (5 a 14 años)"
	AgeAdolescence       = "Adolescencia (15 a 19 años)"
	AgeYouth             = "Juventud (20 a 29 años)"
	AgeEarlyAdulthood    = "Adultez temprana (30 a 44 años)"
	AgeMidAdulthood      = "Adultez intermedia (45 a 59 años)"
	AgeOlderAdulthood    = "Vejez (60 a 84 años)"
	AgeLongevity         = "Longevidad / Centenarios (85+)"
	AgeUnknown           = "Edad desconocida"
	AgeInvalidCode       = "Código no válido"
	AgeMissingOrBadInput = "Dato faltante o incorrecto"
)

// ageBin covers codes in [lo, hi)
type ageBin struct {
	lo, hi int
	label  string
}

var ageBins = []ageBin{
	{0, 5, AgeNeonatal},
	{5, 7, AgeInfant},
	{7, 9, AgeEarlyChildhood},
	{9, 11, AgeChildhood},
	{11, 12, AgeAdolescence},
	{12, 14, AgeYouth},
	{14, 17, AgeEarlyAdulthood},
	{17, 20, AgeMidAdulthood},
	{20, 25, AgeOlderAdulthood},
	{25, 29, AgeLongevity},
	{29, 30, AgeUnknown},
}

// AgeGroupOrder returns the fixed axis order of the age histogram
func AgeGroupOrder() []string {
	out := make([]string, len(ageBins))
	for i, b := range ageBins {
		out[i] = b.label
	}
	return out
}

// AgeGroupFor maps a DANE GRUPO_EDAD1 code to its label.
// Codes outside 0-29 return AgeInvalidCode.
func AgeGroupFor(code int) string {
	for _, b := range ageBins {
		if code >= b.lo && code < b.hi {
			return b.label
		}
	}
	return AgeInvalidCode
}

// CategorizeAgeGroup maps a raw cell value. Finite numbers are truncated
// toward zero; anything else returns AgeMissingOrBadInput.
func CategorizeAgeGroup(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return AgeMissingOrBadInput
	}
	if n, err := strconv.Atoi(s); err == nil {
		return AgeGroupFor(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return AgeMissingOrBadInput
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return AgeInvalidCode
	}
	return AgeGroupFor(int(t))
}
