package normalize

import (
	"strconv"
	"strings"
	"time"
)

// Date formats tried in order. Day-first variants come before month-first
// because most statement locales in the wild are day-first; ISO wins outright
// since it is unambiguous.
var dateFormats = []string{
	// ISO
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",

	// Day-first
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"02/01/06",

	// Month-first
	"01/02/2006",
	"01-02-2006",
	"1/2/2006",

	// Spelled months
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",

	// Date with time
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"02/01/2006 15:04:05",
}

// Spreadsheet serial dates count days since this epoch (the 1900 date system
// with its historical leap-year offset already folded in).
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial values outside this window are treated as plain numbers, not dates.
var (
	serialMin = time.Date(1960, time.January, 1, 0, 0, 0, 0, time.UTC)
	serialMax = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// ParseDate runs the raw string through the format cascade, falling back to
// a spreadsheet-epoch serial number. The second return is false when nothing
// matched.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	if t, ok := parseSerialDate(s); ok {
		return t, true
	}

	return time.Time{}, false
}

// LooksDate reports whether raw resolves through the date cascade.
func LooksDate(raw string) bool {
	_, ok := ParseDate(raw)
	return ok
}

func parseSerialDate(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	days := int(serial)
	t := serialEpoch.AddDate(0, 0, days)
	if t.Before(serialMin) || t.After(serialMax) {
		return time.Time{}, false
	}
	return t, true
}
