package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// Result is one display-ready row of a List query.
type Result struct {
	// Index is the position of Entry in the slice given to List.
	Index int

	Entry      Entry
	Occurrence Occurrence
	Age        Age

	// Distance is Occurrence.Start - reference, or zero when the occurrence is today.
	Distance time.Duration

	// Days is the number of calendar days from the reference date (in the
	// occurrence zone) to the occurrence date.
	Days int
}

// Option tunes a List query.
type Option func(*query)

type query struct {
	before   time.Time
	hasCut   bool
	limit    int
	hasLimit bool
}

// WithBefore drops every entry whose occurrence starts strictly after cutoff.
func WithBefore(cutoff time.Time) Option {
	return func(q *query) {
		q.before = cutoff
		q.hasCut = true
	}
}

// WithLimit keeps only the n soonest entries. n == 0 yields nothing.
func WithLimit(n int) Option {
	return func(q *query) {
		q.limit = n
		q.hasLimit = true
	}
}

// Evaluate computes the occurrence, age and distance of a single entry.
func Evaluate(e Entry, ref time.Time) Result {
	occ := NextOccurrence(e, ref)

	var distance time.Duration
	if !occ.Today {
		distance = occ.Start.Sub(ref)
	}

	return Result{
		Entry:      e,
		Occurrence: occ,
		Age:        AgeAt(e, occ, ref),
		Distance:   distance,
		Days:       DateOf(ref, occ.Location).DaysUntil(occ.Date),
	}
}

// List evaluates entries at ref and returns them soonest first, ties broken by
// name. The input slice is left untouched and no state survives the call.
func List(entries []Entry, ref time.Time, opts ...Option) ([]Result, error) {
	var q query
	for _, opt := range opts {
		opt(&q)
	}

	if q.hasLimit && q.limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrInvalidArgument, q.limit)
	}
	if q.hasCut && q.before.Before(ref) {
		return nil, fmt.Errorf("%w: %s < %s", ErrInvalidRange,
			q.before.Format(time.RFC3339), ref.Format(time.RFC3339))
	}

	results := make([]Result, 0, len(entries))
	for i, e := range entries {
		r := Evaluate(e, ref)
		r.Index = i
		if q.hasCut && r.Occurrence.Start.After(q.before) {
			continue
		}
		results = append(results, r)
	}

	slices.SortFunc(results, func(a, b Result) int {
		return cmp.Or(
			cmp.Compare(a.Distance, b.Distance),
			cmp.Compare(a.Entry.name, b.Entry.name),
			cmp.Compare(a.Index, b.Index),
		)
	})

	if q.hasLimit && q.limit < len(results) {
		results = results[:q.limit]
	}
	return results, nil
}
