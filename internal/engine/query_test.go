package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-bday/internal/engine"

	_ "time/tzdata"
)

func mustEntry(t *testing.T, name string, month time.Month, day, year int, loc *time.Location) engine.Entry {
	t.Helper()
	e, err := engine.NewEntry(name, month, day, year, loc)
	require.NoError(t, err)
	return e
}

func names(results []engine.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Entry.Name())
	}
	return out
}

// endOfDay mirrors how the CLI turns a --before date into a cutoff instant.
func endOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
}

func TestList_AkihaTodayScenario(t *testing.T) {
	// Scenario: "today" is Akiha's birthday (year unknown), Hiyajo's is months away.
	ref := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		mustEntry(t, "Hiyajo Maho", time.November, 2, 1989, nil),
		mustEntry(t, "Akiha Rumiho", time.March, 4, 0, nil),
	}

	results, err := engine.List(entries, ref)
	require.NoError(t, err)
	require.Len(t, results, 2)

	akiha, hiyajo := results[0], results[1]
	assert.Equal(t, "Akiha Rumiho", akiha.Entry.Name())
	assert.True(t, akiha.Occurrence.Today)
	assert.Zero(t, akiha.Distance, "Today's birthday is a zero-distance occurrence")
	assert.Zero(t, akiha.Days)
	assert.False(t, akiha.Age.Known, "No year means unknown age")
	assert.Equal(t, 1, akiha.Index)

	assert.Equal(t, "Hiyajo Maho", hiyajo.Entry.Name())
	assert.False(t, hiyajo.Occurrence.Today)
	assert.Equal(t, engine.Date{Year: 2024, Month: time.November, Day: 2}, hiyajo.Occurrence.Date)
	assert.Equal(t, 243, hiyajo.Days)
	assert.Equal(t, time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC).Sub(ref), hiyajo.Distance)
	assert.Equal(t, engine.Age{Known: true, Current: 34, Next: 35}, hiyajo.Age)

	t.Run("before cutoff keeps only Akiha", func(t *testing.T) {
		results, err := engine.List(entries, ref, engine.WithBefore(endOfDay(2024, time.May, 15, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, []string{"Akiha Rumiho"}, names(results))
	})

	t.Run("limit 1 keeps the soonest", func(t *testing.T) {
		results, err := engine.List(entries, ref, engine.WithLimit(1))
		require.NoError(t, err)
		assert.Equal(t, []string{"Akiha Rumiho"}, names(results))
	})

	t.Run("a week later Akiha moves to the end", func(t *testing.T) {
		results, err := engine.List(entries, ref.AddDate(0, 0, 7))
		require.NoError(t, err)
		assert.Equal(t, []string{"Hiyajo Maho", "Akiha Rumiho"}, names(results))
		assert.Equal(t, 2025, results[1].Occurrence.Date.Year)
	})
}

func TestList_TiesBrokenByName(t *testing.T) {
	ref := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		mustEntry(t, "Suzuha", time.September, 27, 0, nil),
		mustEntry(t, "Daru", time.May, 19, 1991, nil),
		mustEntry(t, "Faris", time.May, 19, 0, nil),
		mustEntry(t, "Daru", time.May, 19, 0, nil),
		mustEntry(t, "Amane", time.September, 27, 0, nil),
	}

	results, err := engine.List(entries, ref)
	require.NoError(t, err)
	assert.Equal(t, []string{"Daru", "Daru", "Faris", "Amane", "Suzuha"}, names(results))
	// Same name and distance: input order decides.
	assert.Equal(t, 1, results[0].Index)
	assert.Equal(t, 3, results[1].Index)
}

func TestList_LimitSemantics(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		mustEntry(t, "C", time.March, 1, 0, nil),
		mustEntry(t, "A", time.January, 10, 0, nil),
		mustEntry(t, "B", time.February, 1, 0, nil),
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"zero", 0, []string{}},
		{"one", 1, []string{"A"}},
		{"two", 2, []string{"A", "B"}},
		{"more than available", 10, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.List(entries, ref, engine.WithLimit(tt.limit))
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(results))
		})
	}

	t.Run("negative is rejected", func(t *testing.T) {
		_, err := engine.List(entries, ref, engine.WithLimit(-1))
		assert.ErrorIs(t, err, engine.ErrInvalidArgument)
	})

	t.Run("limit applies after the before filter", func(t *testing.T) {
		results, err := engine.List(entries, ref,
			engine.WithBefore(endOfDay(2025, time.February, 1, time.UTC)),
			engine.WithLimit(5))
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, names(results))
	})
}

func TestList_BeforeSemantics(t *testing.T) {
	ref := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		mustEntry(t, "On cutoff", time.February, 1, 0, nil),
		mustEntry(t, "After cutoff", time.February, 2, 0, nil),
	}

	t.Run("occurrence exactly at the cutoff is kept", func(t *testing.T) {
		results, err := engine.List(entries, ref, engine.WithBefore(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, err)
		assert.Equal(t, []string{"On cutoff"}, names(results))
	})

	t.Run("nothing matches gives an empty result", func(t *testing.T) {
		results, err := engine.List(entries, ref, engine.WithBefore(ref.Add(time.Hour)))
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("cutoff earlier than reference is rejected", func(t *testing.T) {
		_, err := engine.List(entries, ref, engine.WithBefore(ref.Add(-time.Second)))
		assert.ErrorIs(t, err, engine.ErrInvalidRange)
	})

	t.Run("empty input", func(t *testing.T) {
		results, err := engine.List(nil, ref)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestList_PerEntryTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	t.Run("friend ahead of us reaches midnight first", func(t *testing.T) {
		// 20:00 UTC on June 14th is already 05:00 on June 15th in Tokyo.
		ref := time.Date(2024, 6, 14, 20, 0, 0, 0, time.UTC)
		entries := []engine.Entry{
			mustEntry(t, "Local friend", time.June, 15, 1990, nil),
			mustEntry(t, "Tokyo friend", time.June, 15, 1990, tokyo),
		}

		results, err := engine.List(entries, ref)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "Tokyo friend", results[0].Entry.Name())
		assert.True(t, results[0].Occurrence.Today)
		assert.True(t, results[0].Age.Turning)
		assert.Equal(t, 34, results[0].Age.Current)
		assert.True(t, time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC).Equal(results[0].Occurrence.Start))

		assert.Equal(t, "Local friend", results[1].Entry.Name())
		assert.False(t, results[1].Occurrence.Today)
		assert.Equal(t, 4*time.Hour, results[1].Distance)
		assert.Equal(t, 33, results[1].Age.Current)
	})

	t.Run("friend behind us is still on their day", func(t *testing.T) {
		// 03:00 UTC on June 15th is 20:00 on June 14th in Los Angeles.
		ref := time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)
		entries := []engine.Entry{
			mustEntry(t, "Local friend", time.June, 14, 0, nil),
			mustEntry(t, "LA friend", time.June, 14, 0, la),
		}

		results, err := engine.List(entries, ref)
		require.NoError(t, err)
		assert.Equal(t, []string{"LA friend", "Local friend"}, names(results))
		assert.True(t, results[0].Occurrence.Today)
		assert.Equal(t, 2025, results[1].Occurrence.Date.Year)
	})

	t.Run("midnight skipped by a DST jump", func(t *testing.T) {
		santiago, err := time.LoadLocation("America/Santiago")
		require.NoError(t, err)
		e := mustEntry(t, "Santi", time.September, 8, 0, santiago)

		// 23:30 on the eve; clocks go from 00:00 -04 to 01:00 -03.
		eve := time.Date(2024, 9, 7, 23, 30, 0, 0, santiago)
		r := engine.Evaluate(e, eve)
		assert.False(t, r.Occurrence.Today)
		assert.Equal(t, engine.Date{Year: 2024, Month: time.September, Day: 8}, r.Occurrence.Date)
		assert.Equal(t, 30*time.Minute, r.Distance)
		assert.Equal(t, 1, r.Days)

		r = engine.Evaluate(e, time.Date(2024, 9, 8, 4, 30, 0, 0, time.UTC))
		assert.True(t, r.Occurrence.Today)
		assert.Zero(t, r.Distance)

		results, err := engine.List([]engine.Entry{e, mustEntry(t, "Local", time.September, 7, 0, santiago)}, eve)
		require.NoError(t, err)
		assert.Equal(t, []string{"Local", "Santi"}, names(results), "today sorts ahead of tomorrow")
	})

	t.Run("entries without zone follow the reference zone", func(t *testing.T) {
		ref := time.Date(2024, 6, 15, 1, 0, 0, 0, tokyo)
		e := mustEntry(t, "Zoneless", time.June, 15, 0, nil)
		occ := engine.NextOccurrence(e, ref)
		assert.True(t, occ.Today)
		assert.Equal(t, tokyo, occ.Location)
	})
}

func TestList_DoesNotMutateAndIsIdempotent(t *testing.T) {
	ref := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	entries := []engine.Entry{
		mustEntry(t, "Zeta", time.December, 1, 1980, nil),
		mustEntry(t, "Alpha", time.April, 1, 0, nil),
		mustEntry(t, "Mid", time.July, 1, 2001, nil),
	}
	snapshot := append([]engine.Entry(nil), entries...)

	first, err := engine.List(entries, ref, engine.WithLimit(2))
	require.NoError(t, err)
	second, err := engine.List(entries, ref, engine.WithLimit(2))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, entries, "Input order must be preserved")

	// A different reference instant in between does not leak into later calls.
	_, err = engine.List(entries, ref.AddDate(0, 6, 0))
	require.NoError(t, err)
	third, err := engine.List(entries, ref, engine.WithLimit(2))
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

// TestNextOccurrence_NeverInThePast walks three years of reference dates.
func TestNextOccurrence_NeverInThePast(t *testing.T) {
	// Santiago and Havana skip midnight when DST starts.
	zones := []string{"UTC", "America/Santiago", "America/Havana", "Asia/Tokyo", "America/Los_Angeles"}
	days := []struct {
		month time.Month
		day   int
	}{
		{time.February, 29},
		{time.January, 1},
		{time.December, 31},
		{time.July, 14},
		{time.March, 10},
		{time.September, 7},
		{time.September, 8},
	}

	for _, zone := range zones {
		t.Run(zone, func(t *testing.T) {
			loc, err := time.LoadLocation(zone)
			require.NoError(t, err)

			entries := make([]engine.Entry, 0, len(days))
			for _, d := range days {
				entries = append(entries, mustEntry(t, d.month.String(), d.month, d.day, 0, loc))
			}

			start := time.Date(2023, 1, 1, 0, 30, 0, 0, time.UTC)
			for ref := start; ref.Year() < 2026; ref = ref.Add(5 * time.Hour) {
				today := engine.DateOf(ref, loc)
				for _, e := range entries {
					r := engine.Evaluate(e, ref)
					occ := r.Occurrence
					ok := assert.False(t, occ.Date.Before(today), "%s at %s", e.Name(), ref) &&
						assert.GreaterOrEqual(t, r.Distance, time.Duration(0), "%s at %s", e.Name(), ref) &&
						assert.Equal(t, occ.Date, engine.DateOf(occ.Start, loc), "%s at %s", e.Name(), ref) &&
						assert.True(t, engine.DateOf(occ.Start.Add(-time.Nanosecond), loc).Before(occ.Date),
							"%s at %s: start is the first instant of the day", e.Name(), ref) &&
						assert.LessOrEqual(t, today.DaysUntil(occ.Date), 366) &&
						assert.Equal(t, occ.Date == today, occ.Today)
					if !ok {
						return
					}
				}
			}
		})
	}
}

// TestLeapling_ConsistentSubstitution checks Feb 28 is used for every non-leap year.
func TestLeapling_ConsistentSubstitution(t *testing.T) {
	e := mustEntry(t, "Leap", time.February, 29, 1996, nil)

	for year := 2025; year <= 2033; year++ {
		occ := engine.NextOccurrence(e, time.Date(year, 1, 15, 0, 0, 0, 0, time.UTC))
		if engine.IsLeap(year) {
			assert.Equal(t, engine.Date{Year: year, Month: time.February, Day: 29}, occ.Date)
			assert.False(t, occ.Substituted)
		} else {
			assert.Equal(t, engine.Date{Year: year, Month: time.February, Day: 28}, occ.Date)
			assert.True(t, occ.Substituted)
		}
	}
}

// TestAge_IncrementsExactlyOnTheDay tracks the age of a leapling day by day.
func TestAge_IncrementsExactlyOnTheDay(t *testing.T) {
	e := mustEntry(t, "Leap", time.February, 29, 2000, nil)

	start := time.Date(2023, 1, 1, 8, 0, 0, 0, time.UTC)
	prev := engine.Evaluate(e, start)
	require.True(t, prev.Age.Known)

	for ref := start.AddDate(0, 0, 1); ref.Year() < 2026; ref = ref.AddDate(0, 0, 1) {
		cur := engine.Evaluate(e, ref)
		if cur.Occurrence.Today {
			assert.Equal(t, prev.Age.Current+1, cur.Age.Current, "birthday on %s", cur.Occurrence.Date)
			assert.True(t, cur.Age.Turning)
			assert.Equal(t, cur.Age.Current, cur.Age.Next)
		} else {
			assert.Equal(t, prev.Age.Current, cur.Age.Current, "no birthday on %s", engine.DateOf(ref, time.UTC))
			assert.Equal(t, cur.Age.Current+1, cur.Age.Next)
		}
		prev = cur
	}
}

func TestAge_UnknownWithoutYear(t *testing.T) {
	e := mustEntry(t, "Yearless", time.August, 21, 0, nil)
	for _, ref := range []time.Time{
		time.Date(2020, 8, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 12, 31, 23, 0, 0, 0, time.UTC),
	} {
		assert.False(t, engine.Evaluate(e, ref).Age.Known)
	}
}

func TestAge_NotBornYet(t *testing.T) {
	e := mustEntry(t, "Future Baby", time.May, 1, 2027, nil)
	r := engine.Evaluate(e, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, r.Age.Known)

	born := engine.Evaluate(e, time.Date(2027, 5, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, engine.Age{Known: true, Current: 0, Next: 0, Turning: true}, born.Age)
}
