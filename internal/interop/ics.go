package interop

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/locale"
)

// ErrInvalidReminder is returned when the reminder trigger is not an ISO8601 duration.
var ErrInvalidReminder = errors.New(config.ErrMsgInvalidReminder)

// ExportOptions tunes ExportICS.
type ExportOptions struct {
	// Reminder is an ISO8601 duration (e.g. "-P1D"). Empty disables alarms.
	Reminder string

	// Translator localizes event summaries. Nil means English.
	Translator *locale.Translator
}

// ExportICS writes an iCalendar feed with one all-day event per entry for the
// previous, current and next year around ref. It returns the number of events.
func ExportICS(ctx context.Context, w io.Writer, entries []engine.Entry, ref time.Time, opts ExportOptions) (int, error) {
	start := time.Now()
	if opts.Reminder != "" {
		if err := validateTrigger(opts.Reminder); err != nil {
			return 0, err
		}
	}
	tr := opts.Translator
	if tr == nil {
		tr = locale.New(config.DefaultLanguage)
	}

	cal := ical.NewCalendar()

	// Set standard iCalendar headers
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(ref.UTC())

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		for _, event := range createEvents(e, ref, opts.Reminder, tr) {
			event.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, event.Component)
		}
	}

	var buf bytes.Buffer
	if len(cal.Children) == 0 {
		// go-ical refuses a calendar without components; emit a valid empty feed.
		buf.WriteString(config.StubVCalendar)
	} else if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgExportDone,
		config.LogKeyComponent, config.CompInterop,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return len(cal.Children), nil
}

// EventUID returns the stable identifier shared by the events of e. The
// per-year UID is "<base>-<year>@gobday".
func EventUID(e engine.Entry) string {
	input := fmt.Sprintf(config.FormatHashInput, e.Name(), e.DateString(), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// createEvents generates events for CurrentYear-1, CurrentYear and CurrentYear+1,
// the current year being the one of ref in the entry's zone.
// No event is created before the person is born.
func createEvents(e engine.Entry, ref time.Time, trigger string, tr *locale.Translator) []*ical.Event {
	loc := e.ZoneOr(ref.Location())
	currentYear := engine.DateOf(ref, loc).Year
	birthYear, yearKnown := e.Year()
	uidBase := EventUID(e)

	var events []*ical.Event
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if yearKnown && y < birthYear {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		summary := eventSummary(tr, e.Name(), y-birthYear, yearKnown)
		event.Props.SetText(config.PropSummary, summary)

		// All-day events are floating dates: format the civil date, not an instant.
		observed := engine.ObservedDate(e.Month(), e.Day(), y)
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(observed.Year, observed.Month, observed.Day, 0, 0, 0, 0, time.UTC))
		event.Props.Set(dtStartProp)

		if trigger != "" {
			addAlarm(event, trigger, summary)
		}
		events = append(events, event)
	}
	return events
}

func eventSummary(tr *locale.Translator, name string, age int, yearKnown bool) string {
	data := map[string]any{"Name": name, "Age": age}
	switch {
	case !yearKnown:
		return tr.Tf(config.TKeyEvtSummary, data)
	case age == 0:
		return tr.Tf(config.TKeyEvtBirth, data)
	default:
		return tr.Tf(config.TKeyEvtSummaryAge, data)
	}
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

func validateTrigger(trigger string) error {
	prop := ical.NewProp(config.PropTrigger)
	prop.Value = trigger
	if _, err := prop.Duration(); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidReminder, trigger)
	}
	return nil
}
