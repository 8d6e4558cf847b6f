package engine

import "time"

// Occurrence is the next day, at or after the reference date, on which an
// entry's birthday is observed. It is derived on every query and never stored.
type Occurrence struct {
	// Date is the observed calendar date in Location.
	Date Date

	// Start is midnight of Date in Location.
	Start time.Time

	// Location is the zone "today" was evaluated in (the entry's, or the reference's).
	Location *time.Location

	// Today is true when Date is the reference date in Location.
	Today bool

	// Substituted is true when a Feb 29 birthday is observed on Feb 28 of a non-leap year.
	Substituted bool
}

// Age is the derived age of an entry at a reference instant.
type Age struct {
	// Known is false when the birth year is absent, or the person is not born yet.
	Known bool

	// Current is the age on the reference date.
	Current int

	// Next is the age reached on the occurrence date. Equal to Current on the day itself.
	Next int

	// Turning is true when the occurrence is today. Displays show Next-1 → Next.
	Turning bool
}

// Previous is the age before the birthday being celebrated.
func (a Age) Previous() int {
	return a.Next - 1
}

// ObservedDate returns the day a (month, day) birthday is observed in year.
// Feb 29 falls back to Feb 28 when year is not a leap year.
func ObservedDate(month time.Month, day, year int) Date {
	if month == time.February && day == 29 && !IsLeap(year) {
		return Date{Year: year, Month: time.February, Day: 28}
	}
	return Date{Year: year, Month: month, Day: day}
}

// NextOccurrence computes when e is next observed relative to ref.
// "Today" is evaluated in the entry's own zone, so an entry living ahead of the
// reference zone may already be on its birthday while the reference is not.
func NextOccurrence(e Entry, ref time.Time) Occurrence {
	loc := e.ZoneOr(ref.Location())
	today := DateOf(ref, loc)

	candidate := ObservedDate(e.month, e.day, today.Year)
	if candidate.Before(today) {
		candidate = ObservedDate(e.month, e.day, today.Year+1)
	}

	return Occurrence{
		Date:        candidate,
		Start:       candidate.Midnight(loc),
		Location:    loc,
		Today:       candidate == today,
		Substituted: candidate.Day != e.day,
	}
}

// AgeAt derives the age of e for occurrence occ computed at ref.
func AgeAt(e Entry, occ Occurrence, ref time.Time) Age {
	birth, ok := e.BirthDate()
	if !ok {
		return Age{}
	}

	today := DateOf(ref, occ.Location)
	if today.Before(birth) {
		return Age{}
	}

	next := occ.Date.Year - birth.Year
	current := next - 1
	if occ.Today {
		current = next
	}

	return Age{
		Known:   true,
		Current: current,
		Next:    next,
		Turning: occ.Today,
	}
}
