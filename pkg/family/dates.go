package family

import (
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate. Dates are free text in the
// store, so anything outside this list is kept but never compared.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01",
	"2006",
	"2006/01/02",
	"02/01/2006",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
}

// ParseDate parses a loosely formatted date. The second result is false when
// s is empty or matches none of the supported layouts.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Year returns the display year of a date string: the parsed year when the
// date is understood, otherwise its first four characters.
func Year(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if t, ok := ParseDate(s); ok {
		return t.Format("2006")
	}
	if len(s) > 4 {
		return s[:4]
	}
	return s
}
