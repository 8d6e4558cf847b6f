// Package render writes list results as a terminal table or as JSON/YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
	"github.com/tartampluch/go-bday/internal/locale"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an output format other than table, json or yaml.
var ErrUnknownFormat = errors.New(config.ErrMsgUnknownFormat)

// Row pairs a query result with the identifier of the record it came from.
type Row struct {
	ID string
	engine.Result
}

// Options controls the output.
type Options struct {
	Format     string // config.OutputTable (default), OutputJSON or OutputYAML
	ShowIDs    bool
	Plain      bool   // no colours, ASCII borders
	DateFormat string // Go layout of the Date column
	Translator *locale.Translator
}

// Item is the machine-readable form of a Row.
type Item struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Name         string `json:"name" yaml:"name"`
	Birthday     string `json:"birthday" yaml:"birthday"`
	Timezone     string `json:"timezone" yaml:"timezone"`
	Next         string `json:"next" yaml:"next"`
	Today        bool   `json:"today" yaml:"today"`
	Substituted  bool   `json:"substituted,omitempty" yaml:"substituted,omitempty"`
	Age          *int   `json:"age,omitempty" yaml:"age,omitempty"`
	Turning      *int   `json:"turning,omitempty" yaml:"turning,omitempty"`
	DaysUntil    int    `json:"days_until" yaml:"days_until"`
	SecondsUntil int64  `json:"seconds_until" yaml:"seconds_until"`
}

// ValidFormat reports whether format is accepted by Write.
func ValidFormat(format string) bool {
	switch format {
	case "", config.OutputTable, config.OutputJSON, config.OutputYAML:
		return true
	}
	return false
}

// Write renders rows to w. ref is the reference instant the rows were computed at.
func Write(w io.Writer, rows []Row, ref time.Time, opts Options) error {
	if opts.Translator == nil {
		opts.Translator = locale.New(config.DefaultLanguage)
	}

	var err error
	switch opts.Format {
	case "", config.OutputTable:
		err = writeTable(w, rows, ref, opts)
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(Items(rows, opts.ShowIDs))
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(Items(rows, opts.ShowIDs)); err == nil {
			err = enc.Close()
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrRender, err)
	}
	return nil
}

// Items converts rows for the JSON and YAML encoders. The slice is never nil.
func Items(rows []Row, withIDs bool) []Item {
	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		it := Item{
			Name:         r.Entry.Name(),
			Birthday:     r.Entry.DateString(),
			Timezone:     r.Occurrence.Location.String(),
			Next:         r.Occurrence.Date.String(),
			Today:        r.Occurrence.Today,
			Substituted:  r.Occurrence.Substituted,
			DaysUntil:    r.Days,
			SecondsUntil: int64(r.Distance / time.Second),
		}
		if withIDs {
			it.ID = r.ID
		}
		if r.Age.Known {
			current, next := r.Age.Current, r.Age.Next
			it.Age = &current
			it.Turning = &next
		}
		items = append(items, it)
	}
	return items
}

func writeTable(w io.Writer, rows []Row, ref time.Time, opts Options) error {
	tr := opts.Translator

	re := lipgloss.NewRenderer(w)
	border := lipgloss.NormalBorder()
	if opts.Plain {
		re.SetColorProfile(termenv.Ascii)
		border = lipgloss.ASCIIBorder()
	}

	cell := re.NewStyle().Padding(0, 1)
	header := cell.Bold(true)
	turning := cell.Bold(true).Foreground(lipgloss.Color("212"))

	headers := []string{tr.T(config.TKeyColName), tr.T(config.TKeyColDate), tr.T(config.TKeyColAge), tr.T(config.TKeyColIn)}
	if opts.ShowIDs {
		headers = append([]string{tr.T(config.TKeyColID)}, headers...)
	}

	t := table.New().
		Border(border).
		BorderStyle(re.NewStyle()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case row >= 0 && row < len(rows) && rows[row].Occurrence.Today:
				return turning
			default:
				return cell
			}
		})

	for _, r := range rows {
		line := []string{
			r.Entry.Name(),
			DateText(r.Entry, opts.DateFormat),
			AgeText(r.Age),
			RelativeText(r.Result, ref, tr),
		}
		if opts.ShowIDs {
			line = append([]string{shortID(r.ID)}, line...)
		}
		t.Row(line...)
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func shortID(id string) string {
	if len(id) <= config.ShortIDLength {
		return id
	}
	return id[:config.ShortIDLength]
}
