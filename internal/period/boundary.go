// Package period converts local calendar periods into UTC instant ranges.
//
// Transactions are stored as absolute instants, so "March" only has a meaning once a
// timezone is supplied. Every boundary here is half-open: [Start, End).
package period

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // resolvable on hosts without a zoneinfo database

	"github.com/ashmitsharp/moneylens-api/internal/models"
)

const (
	minYear = 1
	maxYear = 9999

	// LocalDateLayout is the calendar day key used across reports.
	LocalDateLayout = "2006-01-02"
)

// Boundary is the UTC range covering one local calendar period.
type Boundary struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// Contains reports whether t falls inside [Start, End).
func (b Boundary) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// LoadLocation resolves an IANA timezone name. An empty name is an error:
// report periods are undefined without a timezone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: timezone is required", models.ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTimezone, name)
	}
	return loc, nil
}

// ResolveMonth returns the UTC range for the given local month.
func ResolveMonth(year, month int, timezone string) (Boundary, error) {
	if err := validateYear(year); err != nil {
		return Boundary{}, err
	}
	if month < 1 || month > 12 {
		return Boundary{}, fmt.Errorf("%w: month %d outside 1-12", models.ErrInvalidPeriod, month)
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Boundary{}, err
	}
	return MonthIn(year, time.Month(month), loc), nil
}

// ResolveYear returns the UTC range for the given local year.
func ResolveYear(year int, timezone string) (Boundary, error) {
	if err := validateYear(year); err != nil {
		return Boundary{}, err
	}
	loc, err := LoadLocation(timezone)
	if err != nil {
		return Boundary{}, err
	}
	return YearIn(year, loc), nil
}

// MonthIn builds the month boundary for an already loaded location.
// time.Date normalises month 13 into January of the following year.
func MonthIn(year int, month time.Month, loc *time.Location) Boundary {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	return Boundary{Start: start.UTC(), End: end.UTC(), Location: loc}
}

// YearIn builds the year boundary for an already loaded location.
func YearIn(year int, loc *time.Location) Boundary {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc)
	return Boundary{Start: start.UTC(), End: end.UTC(), Location: loc}
}

func validateYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: year %d outside %d-%d", models.ErrInvalidPeriod, year, minYear, maxYear)
	}
	return nil
}
