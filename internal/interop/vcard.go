// Package interop converts birthdays to and from the address book and
// calendar formats: vCard in, iCalendar out.
package interop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
)

// Stats summarizes an import run.
type Stats struct {
	Cards    int // cards decoded
	WithDate int // cards yielding a valid entry
	Skipped  int // malformed cards, dates or entries
}

// ImportVCard decodes every card of r and returns one entry per card carrying
// a usable BDAY. Malformed cards are logged and skipped; only a failing reader
// aborts the import.
func ImportVCard(ctx context.Context, r io.Reader) ([]engine.Entry, Stats, error) {
	log := slog.With(config.LogKeyComponent, config.CompInterop)
	src := &trackingReader{r: r}
	decoder := vcard.NewDecoder(src)

	var (
		stats   Stats
		entries []engine.Entry
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if src.err != nil {
			return nil, stats, fmt.Errorf("%s: %w", config.ErrVCardParse, src.err)
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			stats.Skipped++
			log.Warn(config.MsgSkippedCard, config.LogKeyError, err)
			continue
		}

		stats.Cards++
		bday := strings.TrimSpace(card.Value(config.VCardBDAY))
		if bday == "" {
			continue
		}

		name := cardName(card)
		date, err := engine.ParseDate(bday)
		if err != nil {
			stats.Skipped++
			log.Debug(config.MsgSkippedDate,
				config.LogKeyName, name,
				config.LogKeyValue, bday)
			continue
		}

		loc, err := engine.ParseLocation(card.Value(config.VCardTZ))
		if err != nil {
			// Non-IANA values such as UTC offsets are ignored.
			log.Debug(config.MsgSkippedTZ,
				config.LogKeyName, name,
				config.LogKeyError, err)
			loc = nil
		}

		entry, err := engine.EntryFromDate(name, date, loc)
		if err != nil {
			stats.Skipped++
			log.Debug(config.MsgSkippedDate,
				config.LogKeyName, name,
				config.LogKeyValue, bday,
				config.LogKeyError, err)
			continue
		}

		stats.WithDate++
		entries = append(entries, entry)
	}

	log.Info(config.MsgImportDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Cards),
			slog.Int(config.LogKeyFound, stats.WithDate),
		),
	)
	return entries, stats, nil
}

// cardName applies the naming strategy: FN (Formatted) > N (Structured) > Fallback.
func cardName(card vcard.Card) string {
	if fn := strings.TrimSpace(card.PreferredValue(config.VCardFN)); fn != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		var parts []string
		for _, p := range []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return config.FallbackName
}

// trackingReader remembers the first non-EOF read error so that a broken
// stream is told apart from a malformed card.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}
	return n, err
}
