// Package sink persists and publishes solutions as the search finds them.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/search"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Record is the stored form of a solution.
type Record struct {
	ID         string    `json:"id" yaml:"id"`
	Signature  string    `json:"signature" yaml:"signature"`
	Words      []string  `json:"words" yaml:"words,flow"`
	LetterSets []string  `json:"letter_sets" yaml:"letter_sets,flow"`
	Leftover   string    `json:"leftover,omitempty" yaml:"leftover,omitempty"`
	FoundAt    time.Time `json:"found_at" yaml:"found_at"`
}

func (r Record) Perfect() bool {
	return r.Leftover == ""
}

func NewRecord(sol search.Solution, dict *lexicon.Dictionary) Record {
	alph := dict.Alphabet()
	sets := make([]string, len(sol.LetterSets))
	for i, ls := range sol.LetterSets {
		sets[i] = alph.Decode(ls)
	}
	return Record{
		ID:         strconv.FormatUint(sol.ID(), 16),
		Signature:  sol.Signature,
		Words:      sol.Words(dict),
		LetterSets: sets,
		Leftover:   alph.Decode(sol.Leftover),
		FoundAt:    time.Now().UTC(),
	}
}

type Sink interface {
	Write(ctx context.Context, r Record) error
	Close() error
}

// Open picks a file sink by extension: .yaml/.yml for a YAML stream, and
// .db/.sqlite/.sqlite3 for a SQLite database.
func Open(path string) (Sink, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return CreateYAML(path)
	case ".db", ".sqlite", ".sqlite3":
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Read loads records back from a file written by one of the sinks Open
// returns. It reads at most limit records, or all of them if limit is zero
// or less, and also returns the total number the file holds.
func Read(ctx context.Context, path string, limit int) ([]Record, int, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		recs, err := ReadYAML(f)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		total := len(recs)
		if limit > 0 && limit < total {
			recs = recs[:limit]
		}
		return recs, total, nil
	case ".db", ".sqlite", ".sqlite3":
		// Opening a missing database would create an empty one.
		if _, err := os.Stat(path); err != nil {
			return nil, 0, err
		}
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, 0, err
		}
		defer s.Close()
		total, err := s.Count(ctx)
		if err != nil {
			return nil, 0, err
		}
		recs, err := s.List(ctx, limit)
		if err != nil {
			return nil, 0, err
		}
		return recs, total, nil
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Multi writes every record to each of its sinks. It keeps going when one
// of them fails and returns the joined errors.
type Multi []Sink

func (m Multi) Write(ctx context.Context, r Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
