package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-bday/internal/config"
)

// Entry is one validated birthday record. It is immutable: edits replace the
// whole value through NewEntry.
type Entry struct {
	name  string
	month time.Month
	day   int
	year  int // 0 when unknown
	loc   *time.Location
}

// NewEntry validates and builds an Entry.
//
// year 0 means the birth year is unknown. A nil loc means the entry follows the
// zone of whatever reference instant it is queried with.
// Feb 29 is accepted without a year, or with a leap birth year.
func NewEntry(name string, month time.Month, day, year int, loc *time.Location) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, ErrEmptyName
	}
	if month < time.January || month > time.December {
		return Entry{}, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}
	if year < 0 || year > 9999 {
		return Entry{}, fmt.Errorf("%w: year %d", ErrInvalidDate, year)
	}

	probe := config.DefaultLeapYear
	if year != 0 {
		probe = year
	}
	if day < 1 || day > DaysIn(month, probe) {
		if year != 0 {
			return Entry{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
		}
		return Entry{}, fmt.Errorf("%w: --%02d-%02d", ErrInvalidDate, int(month), day)
	}

	return Entry{name: name, month: month, day: day, year: year, loc: loc}, nil
}

// Name returns the display label.
func (e Entry) Name() string { return e.name }

// Month returns the birth month.
func (e Entry) Month() time.Month { return e.month }

// Day returns the birth day of month.
func (e Entry) Day() int { return e.day }

// Year returns the birth year and whether it is known.
func (e Entry) Year() (int, bool) { return e.year, e.year != 0 }

// YearKnown reports whether the birth year was recorded.
func (e Entry) YearKnown() bool { return e.year != 0 }

// Location returns the entry's own zone, or nil when it has none.
func (e Entry) Location() *time.Location { return e.loc }

// ZoneOr returns the entry's zone, falling back to def.
func (e Entry) ZoneOr(def *time.Location) *time.Location {
	if e.loc != nil {
		return e.loc
	}
	if def == nil {
		return time.Local
	}
	return def
}

// BirthDate returns the full birth date when the year is known.
func (e Entry) BirthDate() (Date, bool) {
	if e.year == 0 {
		return Date{}, false
	}
	return Date{Year: e.year, Month: e.month, Day: e.day}, true
}

// IsLeapDay reports whether the entry falls on Feb 29.
func (e Entry) IsLeapDay() bool {
	return e.month == time.February && e.day == 29
}

// DateString renders the birth date the way it is persisted:
// YYYY-MM-DD, or --MM-DD when the year is unknown.
func (e Entry) DateString() string {
	if e.year == 0 {
		return fmt.Sprintf("--%02d-%02d", int(e.month), e.day)
	}
	return Date{Year: e.year, Month: e.month, Day: e.day}.String()
}

// ParseDate handles the accepted birth date notations.
// The returned Date has Year 0 when the notation carries no year.
func ParseDate(value string) (Date, error) {
	value = strings.TrimSpace(value)

	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			if y == 0 {
				continue
			}
			return Date{Year: y, Month: m, Day: d}, nil
		}
	}

	// Truncated dates (Year unknown). time.Parse leaves year 0, which is a
	// leap year, so --02-29 parses.
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB, config.DateFormatNoYearS}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			return Date{Month: t.Month(), Day: t.Day()}, nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// ParseLocation resolves an IANA zone name. An empty name yields nil.
func ParseLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// EntryFromDate is a convenience around NewEntry for parsed dates.
func EntryFromDate(name string, d Date, loc *time.Location) (Entry, error) {
	return NewEntry(name, d.Month, d.Day, d.Year, loc)
}
