package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pangrammer/lexicon"
)

func TestLoadCaches(t *testing.T) {
	is := is.New(t)
	Reset()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.txt")
	is.NoErr(os.WriteFile(path, []byte("bad\nrig\nbig\n"), 0o644))

	spec := LexiconSpec{Paths: []string{path}, Alphabet: "ABDGIR", MinWordLength: 1}
	lex, err := Load(ctx, spec)
	is.NoErr(err)
	is.Equal(lex.Dictionary.Len(), 3)
	is.Equal(lex.Corpus.TrigramOccurrences(), 3)

	// the file is not read again
	is.NoErr(os.Remove(path))
	again, err := Load(ctx, spec)
	is.NoErr(err)
	is.True(again == lex)

	spec.MinWordLength = 2
	_, err = Load(ctx, spec)
	is.True(err != nil)
}

func TestLoadErrorsAreNotCached(t *testing.T) {
	is := is.New(t)
	Reset()
	calls := 0
	c := &cache{objects: make(map[string]*Lexicon)}
	load := func(ctx context.Context, spec LexiconSpec) (*Lexicon, error) {
		calls++
		return nil, os.ErrNotExist
	}
	spec := LexiconSpec{Alphabet: "AB", Encoding: lexicon.EncodingLatin1}
	_, err := c.get(context.Background(), spec, load)
	is.Equal(err, os.ErrNotExist)
	_, err = c.get(context.Background(), spec, load)
	is.Equal(err, os.ErrNotExist)
	is.Equal(calls, 2)
}
