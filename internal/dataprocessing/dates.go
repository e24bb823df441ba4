package dataprocessing

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidDate is returned for a death date no layout accepts
var ErrInvalidDate = errors.New("invalid death date")

// Single-digit month and day layouts also accept zero-padded input
var isoLayouts = []string{
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2T15:04",
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05.000",
	"2006-1-2T15:04:05.000",
	time.RFC3339,
	"2006/1/2",
	"2006/1/2 15:04",
	"2006/1/2 15:04:05",
}

// Month-first is tried before day-first, so 03/04/2019 is March 4th
var slashLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2/1/2006",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"1-2-2006",
}

// ParseDeathDate parses an Excel serial number, an ISO date or a slash date
func ParseDeathDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
			return time.Time{}, ErrInvalidDate
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		return t, nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range slashLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}
