package render

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/locale"
)

// AgeText renders the Age column: "-" when unknown, otherwise the age before
// and after the upcoming birthday ("34 → 35"). Today's rows are told apart by
// the table highlight. Someone born on the reference day is shown as "0".
func AgeText(a engine.Age) string {
	switch {
	case !a.Known:
		return config.AgeUnknown
	case a.Next == 0:
		return "0"
	default:
		return fmt.Sprintf(config.AgeTransition, a.Previous(), a.Next)
	}
}

// DateText formats the birth day of e with layout. Year-less entries are
// formatted inside a leap year so that Feb 29 survives.
func DateText(e engine.Entry, layout string) string {
	if layout == "" {
		layout = config.DefaultDateFormat
	}
	year, ok := e.Year()
	if !ok {
		year = config.DefaultLeapYear
	}
	return time.Date(year, e.Month(), e.Day(), 0, 0, 0, 0, time.UTC).Format(layout)
}

// RelativeText renders the In column: the localized "today", or the humanized
// distance between ref and the start of the occurrence.
func RelativeText(r engine.Result, ref time.Time, tr *locale.Translator) string {
	if r.Occurrence.Today {
		return tr.T(config.TKeyToday)
	}
	return humanize.CustomRelTime(r.Occurrence.Start, ref,
		tr.T(config.TKeyRelPast), tr.T(config.TKeyRelFuture), magnitudes(tr))
}

// magnitudes mirrors humanize's defaults with localized formats. The longest
// distance an occurrence can have is a little over a year.
func magnitudes(tr *locale.Translator) []humanize.RelTimeMagnitude {
	return []humanize.RelTimeMagnitude{
		{D: time.Minute, Format: tr.T(config.TKeyRelNow), DivBy: 1},
		{D: 2 * time.Minute, Format: tr.T(config.TKeyRelMinute), DivBy: 1},
		{D: time.Hour, Format: tr.T(config.TKeyRelMinutes), DivBy: time.Minute},
		{D: 2 * time.Hour, Format: tr.T(config.TKeyRelHour), DivBy: 1},
		{D: humanize.Day, Format: tr.T(config.TKeyRelHours), DivBy: time.Hour},
		{D: 2 * humanize.Day, Format: tr.T(config.TKeyRelDay), DivBy: 1},
		{D: humanize.Week, Format: tr.T(config.TKeyRelDays), DivBy: humanize.Day},
		{D: 2 * humanize.Week, Format: tr.T(config.TKeyRelWeek), DivBy: 1},
		{D: humanize.Month, Format: tr.T(config.TKeyRelWeeks), DivBy: humanize.Week},
		{D: 2 * humanize.Month, Format: tr.T(config.TKeyRelMonth), DivBy: 1},
		{D: humanize.Year, Format: tr.T(config.TKeyRelMonths), DivBy: humanize.Month},
		{D: math.MaxInt64, Format: tr.T(config.TKeyRelYear), DivBy: 1},
	}
}
