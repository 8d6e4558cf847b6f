package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/interop"
	"github.com/tartampluch/go-bday/internal/render"
)

func (a *App) addCommand() *Command {
	var name, date, timezone string

	return &Command{
		Name:    "add",
		Summary: "Add a birthday",
		Usage:   "bday add --name NAME --date DATE [--timezone ZONE]",
		Examples: []Example{
			{Description: "Year known", Command: "bday add --name Hiyajo --date 1989-11-02"},
			{Description: "Year unknown, celebrated in Tokyo", Command: "bday add -n Akiha -d --03-04 -t Asia/Tokyo"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("add", pflag.ContinueOnError)
			fs.StringVarP(&name, config.FlagName, "n", "", config.FlagDescName)
			fs.StringVarP(&date, config.FlagDate, "d", "", config.FlagDescDate)
			fs.StringVarP(&timezone, config.FlagTimezone, "t", "", config.FlagDescTimezone)
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			if name == "" || date == "" {
				return usageErrorf("--%s and --%s are required", config.FlagName, config.FlagDate)
			}

			entry, err := buildEntry(name, date, timezone)
			if err != nil {
				return usageError(err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			rec := s.Add(entry)
			if err := a.save(s); err != nil {
				return err
			}

			a.logger("add").Info(config.MsgStoreSaved,
				config.LogKeyID, rec.ID,
				config.LogKeyName, rec.Name,
				config.LogKeyDOB, rec.Date)
			fmt.Fprintln(a.Stdout, a.translator().Tf(config.TKeyAdded, map[string]any{"Name": rec.Name, "Date": rec.Date}))
			return nil
		},
	}
}

func (a *App) listCommand() *Command {
	var (
		flags         *pflag.FlagSet
		before, nowAt string
		output        string
		limit         int
		showIDs       bool
		plain         bool
	)

	return &Command{
		Name:    "list",
		Summary: "List birthdays, soonest first",
		Usage:   "bday list [--before DATE] [--limit N] [--now INSTANT] [--ids] [--output FORMAT] [--plain]",
		Examples: []Example{
			{Description: "The next three birthdays", Command: "bday list --limit 3"},
			{Description: "Everything until the end of May, as JSON", Command: "bday list --before 2024-05-31 -o json"},
		},
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("list", pflag.ContinueOnError)
			flags.StringVarP(&before, config.FlagBefore, "b", "", config.FlagDescBefore)
			flags.IntVarP(&limit, config.FlagLimit, "l", 0, config.FlagDescLimit)
			flags.StringVar(&nowAt, config.FlagNow, "", config.FlagDescNow)
			flags.BoolVar(&showIDs, config.FlagIDs, false, config.FlagDescIDs)
			flags.StringVarP(&output, config.FlagOutput, "o", config.OutputTable, config.FlagDescOutput)
			flags.BoolVar(&plain, config.FlagPlain, false, config.FlagDescPlain)
			return flags
		},
		Run: func(ctx context.Context, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}
			if !render.ValidFormat(output) {
				return usageError(fmt.Errorf("%w: %q", render.ErrUnknownFormat, output))
			}

			loc := a.location()
			ref := a.now()
			if nowAt != "" {
				t, err := parseInstant(nowAt, loc)
				if err != nil {
					return err
				}
				ref = t
			}

			var opts []engine.Option
			if before != "" {
				cutoff, err := parseCutoff(before, loc)
				if err != nil {
					return err
				}
				opts = append(opts, engine.WithBefore(cutoff))
			}
			if flags.Changed(config.FlagLimit) {
				opts = append(opts, engine.WithLimit(limit))
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			entries, records, err := s.Entries()
			if err != nil {
				return dataError(err)
			}

			results, err := engine.List(entries, ref, opts...)
			if err != nil {
				return usageError(err)
			}

			log := a.logger("list")
			rows := make([]render.Row, 0, len(results))
			today := 0
			for _, r := range results {
				rows = append(rows, render.Row{ID: records[r.Index].ID, Result: r})
				if r.Occurrence.Today {
					today++
					log.Debug(config.MsgBdayToday,
						config.LogKeyName, r.Entry.Name(),
						config.LogKeyDOB, r.Entry.DateString())
				}
			}
			log.Debug(config.MsgListed,
				config.LogKeyCount, len(rows),
				config.LogKeyTotal, len(entries),
				config.LogKeyToday, today)

			if s.Len() == 0 && (output == "" || output == config.OutputTable) {
				fmt.Fprintln(a.Stderr, a.translator().T(config.TKeyNoEntries))
				return nil
			}

			return render.Write(a.Stdout, rows, ref, render.Options{
				Format:     output,
				ShowIDs:    showIDs,
				Plain:      plain,
				DateFormat: a.Settings.DateFormat,
				Translator: a.translator(),
			})
		},
	}
}

func (a *App) editCommand() *Command {
	var (
		flags                *pflag.FlagSet
		name, date, timezone string
		clearTimezone        bool
	)

	return &Command{
		Name:    "edit",
		Summary: "Change the name, date or timezone of a birthday",
		Usage:   "bday edit <id|name> [--name NAME] [--date DATE] [--timezone ZONE | --clear-timezone]",
		Examples: []Example{
			{Description: "Fix a date, referring to the entry by id prefix", Command: "bday edit 3f2a --date 1989-11-02"},
		},
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("edit", pflag.ContinueOnError)
			flags.StringVarP(&name, config.FlagName, "n", "", config.FlagDescName)
			flags.StringVarP(&date, config.FlagDate, "d", "", config.FlagDescDate)
			flags.StringVarP(&timezone, config.FlagTimezone, "t", "", config.FlagDescTimezone)
			flags.BoolVar(&clearTimezone, config.FlagClearTimezone, false, config.FlagDescClearTimezone)
			return flags
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageErrorf("expected exactly one entry reference, got %d", len(args))
			}
			changed := flags.Changed(config.FlagName) || flags.Changed(config.FlagDate) ||
				flags.Changed(config.FlagTimezone) || clearTimezone
			if !changed {
				return usageErrorf("nothing to change")
			}
			if clearTimezone && flags.Changed(config.FlagTimezone) {
				return usageErrorf("--%s and --%s are mutually exclusive", config.FlagTimezone, config.FlagClearTimezone)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			rec, err := s.Find(args[0])
			if err != nil {
				return err
			}

			if flags.Changed(config.FlagName) {
				rec.Name = name
			}
			if flags.Changed(config.FlagDate) {
				rec.Date = date
			}
			if flags.Changed(config.FlagTimezone) {
				rec.Timezone = timezone
			}
			if clearTimezone {
				rec.Timezone = ""
			}

			entry, err := buildEntry(rec.Name, rec.Date, rec.Timezone)
			if err != nil {
				return usageError(err)
			}
			updated, err := s.Replace(rec.ID, entry)
			if err != nil {
				return err
			}
			if err := a.save(s); err != nil {
				return err
			}

			a.logger("edit").Info(config.MsgStoreSaved, config.LogKeyID, updated.ID)
			fmt.Fprintln(a.Stdout, a.translator().Tf(config.TKeyUpdated, map[string]any{"Name": updated.Name}))
			return nil
		},
	}
}

func (a *App) removeCommand() *Command {
	return &Command{
		Name:    "remove",
		Summary: "Remove a birthday",
		Usage:   "bday remove <id|name>",
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageErrorf("expected exactly one entry reference, got %d", len(args))
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			rec, err := s.Find(args[0])
			if err != nil {
				return err
			}
			if _, err := s.Remove(rec.ID); err != nil {
				return err
			}
			if err := a.save(s); err != nil {
				return err
			}

			a.logger("remove").Info(config.MsgStoreSaved, config.LogKeyID, rec.ID)
			fmt.Fprintln(a.Stdout, a.translator().Tf(config.TKeyRemoved, map[string]any{"Name": rec.Name}))
			return nil
		},
	}
}

func (a *App) importCommand() *Command {
	return &Command{
		Name:    "import",
		Summary: "Import birthdays from a vCard file",
		Usage:   "bday import <file.vcf|->",
		Examples: []Example{
			{Description: "Import an address book export", Command: "bday import contacts.vcf"},
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageErrorf("expected exactly one vCard file, got %d", len(args))
			}

			var src io.Reader = a.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				// Best effort close. Errors in Close() for read-only files are rarely actionable here.
				defer func() { _ = f.Close() }()
				src = f
			}

			entries, stats, err := interop.ImportVCard(ctx, src)
			if err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}

			log := a.logger("import")
			added := 0
			for _, e := range entries {
				if s.Contains(e) {
					log.Debug(config.MsgSkippedDup, config.LogKeyName, e.Name(), config.LogKeyDOB, e.DateString())
					continue
				}
				s.Add(e)
				added++
			}
			if added > 0 {
				if err := a.save(s); err != nil {
					return err
				}
			}

			log.Info(config.MsgImportDone,
				config.LogKeyTotal, stats.Cards,
				config.LogKeyFound, stats.WithDate,
				config.LogKeyAdded, added)
			fmt.Fprintln(a.Stdout, a.translator().Tf(config.TKeyImported, map[string]any{"Added": added, "Found": stats.WithDate}))
			return nil
		},
	}
}

func (a *App) exportCommand() *Command {
	var out, remind string

	return &Command{
		Name:    "export",
		Summary: "Export birthdays as an iCalendar feed",
		Usage:   "bday export [--out FILE] [--remind DURATION]",
		Examples: []Example{
			{Description: "Calendar with a reminder the day before", Command: "bday export --out birthdays.ics --remind -P1D"},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
			fs.StringVar(&out, config.FlagOut, "", config.FlagDescOut)
			fs.StringVar(&remind, config.FlagRemind, "", config.FlagDescRemind)
			return fs
		},
		Run: func(ctx context.Context, args []string) error {
			if err := noArgs(args); err != nil {
				return err
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			entries, _, err := s.Entries()
			if err != nil {
				return dataError(err)
			}

			var buf bytes.Buffer
			if _, err := interop.ExportICS(ctx, &buf, entries, a.now(), interop.ExportOptions{
				Reminder:   remind,
				Translator: a.translator(),
			}); err != nil {
				return err
			}

			if out == "" {
				_, err := a.Stdout.Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), config.FilePermUserRW)
		},
	}
}

// buildEntry validates raw user or record values into an Entry.
func buildEntry(name, date, timezone string) (engine.Entry, error) {
	d, err := engine.ParseDate(date)
	if err != nil {
		return engine.Entry{}, err
	}
	loc, err := engine.ParseLocation(timezone)
	if err != nil {
		return engine.Entry{}, err
	}
	return engine.EntryFromDate(name, d, loc)
}

// parseInstant accepts RFC3339, a local date-time or a plain date (midnight),
// the last two in loc.
func parseInstant(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{config.InstantFormatLocal, config.DateFormatFullDash} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, usageErrorf("--%s: cannot parse %q", config.FlagNow, value)
}

// parseCutoff turns --before into an instant. A plain date covers that whole
// day in loc; an RFC3339 instant is used as is.
func parseCutoff(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(config.DateFormatFullDash, value, loc)
	if err != nil {
		return time.Time{}, usageErrorf("--%s: cannot parse %q", config.FlagBefore, value)
	}
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return usageErrorf("unexpected argument %q", args[0])
	}
	return nil
}
