package period

import (
	"fmt"
	"strings"
	"time"
)

// Layouts that carry their own UTC offset; the instant is taken as-is.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

// Wall-clock layouts interpreted in the caller's timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	LocalDateLayout,
}

// LocalDate formats t as the calendar day it falls on in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(LocalDateLayout)
}

// ParseLocalDate converts a client-supplied date into a UTC instant.
//
// Strings with an explicit offset are absolute. Anything else is a wall-clock time
// and requires loc; a nil loc is rejected rather than defaulted.
func ParseLocalDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	for _, layout := range localLayouts {
		if _, err := time.Parse(layout, s); err != nil {
			continue
		}
		if loc == nil {
			return time.Time{}, fmt.Errorf("date %q has no UTC offset and no timezone was given", s)
		}
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("unable to parse date %q: %w", s, err)
		}
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
