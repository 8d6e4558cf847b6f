package store

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/tartampluch/go-bday/internal/config"
	"github.com/tartampluch/go-bday/internal/engine"
)

// Record is one persisted birthday, as written in the TOML file.
type Record struct {
	ID       string `toml:"id"`
	Name     string `toml:"name"`
	Date     string `toml:"date"`
	Timezone string `toml:"timezone,omitempty"`
}

// Entry validates the record into an engine.Entry.
func (r Record) Entry() (engine.Entry, error) {
	d, err := engine.ParseDate(r.Date)
	if err != nil {
		return engine.Entry{}, err
	}
	loc, err := engine.ParseLocation(r.Timezone)
	if err != nil {
		return engine.Entry{}, err
	}
	return engine.EntryFromDate(r.Name, d, loc)
}

// ShortID returns the leading characters of the ID, enough to be typed back.
func (r Record) ShortID() string {
	if len(r.ID) <= config.ShortIDLength {
		return r.ID
	}
	return r.ID[:config.ShortIDLength]
}

// NewRecord captures e under a fresh identifier.
func NewRecord(e engine.Entry) Record {
	return recordFor(uuid.NewString(), e)
}

func recordFor(id string, e engine.Entry) Record {
	r := Record{ID: id, Name: e.Name(), Date: e.DateString()}
	if loc := e.Location(); loc != nil {
		r.Timezone = loc.String()
	}
	return r
}

type document struct {
	Birthdays []Record `toml:"birthdays"`
}

// Store is the in-memory view of one data file. Changes are kept in memory
// until Save is called.
type Store struct {
	path    string
	records []Record
}

// Load reads the data file at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	log := slog.With(config.LogKeyComponent, config.CompStore, config.LogKeyFile, path)
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug(config.MsgStoreMissing)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadStore, err)
	}

	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrParseStore, err)
	}

	// Files written by hand may lack identifiers; they are assigned now and
	// persisted on the next Save.
	for i := range doc.Birthdays {
		if doc.Birthdays[i].ID == "" {
			doc.Birthdays[i].ID = uuid.NewString()
		}
	}
	s.records = doc.Birthdays

	log.Debug(config.MsgStoreLoaded, config.LogKeyCount, len(s.records))
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Records returns a copy of the records in file order.
func (s *Store) Records() []Record {
	return append([]Record(nil), s.records...)
}

// Entries validates every record. Entries and records share indexes.
func (s *Store) Entries() ([]engine.Entry, []Record, error) {
	entries := make([]engine.Entry, 0, len(s.records))
	for _, r := range s.records {
		e, err := r.Entry()
		if err != nil {
			return nil, nil, fmt.Errorf("%w %q (%s): %w", ErrInvalid, r.Name, r.ShortID(), err)
		}
		entries = append(entries, e)
	}
	return entries, s.Records(), nil
}

// Add appends e and returns the stored record.
func (s *Store) Add(e engine.Entry) Record {
	r := NewRecord(e)
	s.records = append(s.records, r)
	return r
}

// Contains reports whether a record with the same name (case-insensitive) and
// date already exists.
func (s *Store) Contains(e engine.Entry) bool {
	date := e.DateString()
	for _, r := range s.records {
		if strings.EqualFold(r.Name, e.Name()) && r.Date == date {
			return true
		}
	}
	return false
}

// Replace swaps the record identified by id for e, keeping the id and position.
func (s *Store) Replace(id string, e engine.Entry) (Record, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	s.records[i] = recordFor(id, e)
	return s.records[i], nil
}

// Remove deletes the record identified by id and returns it.
func (s *Store) Remove(id string) (Record, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	r := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	return r, nil
}

// Find resolves a user-supplied reference: a full id, an id prefix of at
// least config.IDPrefixMinLength characters, or an exact name (case-insensitive).
func (s *Store) Find(ref string) (Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Record{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	if i := s.indexOf(ref); i >= 0 {
		return s.records[i], nil
	}

	match := func(pred func(Record) bool) []Record {
		var out []Record
		for _, r := range s.records {
			if pred(r) {
				out = append(out, r)
			}
		}
		return out
	}

	var matches []Record
	if len(ref) >= config.IDPrefixMinLength {
		matches = match(func(r Record) bool { return strings.HasPrefix(r.ID, ref) })
	}
	if len(matches) == 0 {
		matches = match(func(r Record) bool { return strings.EqualFold(r.Name, ref) })
	}

	switch len(matches) {
	case 0:
		return Record{}, fmt.Errorf("%w: %q", ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, 0, len(matches))
		for _, m := range matches {
			ids = append(ids, m.ShortID())
		}
		return Record{}, fmt.Errorf("%w %q: %s", ErrAmbiguous, ref, strings.Join(ids, ", "))
	}
}

// Save writes the store atomically: a temporary file in the same directory is
// renamed over the data file.
func (s *Store) Save() error {
	start := time.Now()
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(document{Birthdays: s.records}); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}

	tmp, err := os.CreateTemp(dir, "."+config.DataFileName+".*")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}
	// Best effort cleanup; after a successful rename the temp path no longer exists.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}
	if err := tmp.Chmod(config.FilePermUserRW); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteStore, err)
	}

	slog.Debug(config.MsgStoreSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyFile, s.path,
		config.LogKeyCount, len(s.records),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
