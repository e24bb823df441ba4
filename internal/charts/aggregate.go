package charts

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

type count struct {
	key string
	n   int
}

// counter tallies string keys
type counter map[string]int

// sorted returns the counts by descending total. Equal totals keep
// ascending key order, as a grouped then stably sorted table would.
func (c counter) sorted() []count {
	out := make([]count, 0, len(c))
	for k, n := range c {
		out = append(out, count{k, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}

func head(counts []count, n int) []count {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// pairKey joins two group-by columns into one counter key
func pairKey(a, b string) string {
	return a + "\x00" + b
}

func splitPair(key string) (string, string) {
	a, b, _ := strings.Cut(key, "\x00")
	return a, b
}

// roundedLabel renders a rate to one decimal, keeping a trailing ".0"
func roundedLabel(v float64) string {
	r := math.Round(v*10) / 10
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
