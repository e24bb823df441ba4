package exporter

import (
	"strconv"
	"time"

	"mortalitydash/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate formats a death date, leaving the zero time empty
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// formatNull writes a missing join result as an empty cell
func formatNull(n domain.NullString) string {
	return n.ValueOr("")
}
