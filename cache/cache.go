package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/stats"
)

// The cache holds compiled lexica so that reloading the same word lists in
// the shell, or searching them again with other settings, does not read and
// compile them again.

// Lexicon is a compiled dictionary and the corpus statistics built from it.
type Lexicon struct {
	Dictionary *lexicon.Dictionary
	Corpus     *stats.Corpus
}

// LexiconSpec says how to build a Lexicon.
type LexiconSpec struct {
	Paths         []string
	Alphabet      string
	MinWordLength int
	Encoding      lexicon.Encoding
}

// Key identifies a spec. Two specs with the same key build the same lexicon.
func (s LexiconSpec) Key() string {
	return fmt.Sprintf("%s|%s|%d|%s", strings.Join(s.Paths, ","), s.Alphabet, s.MinWordLength, s.Encoding)
}

type loadFunc func(ctx context.Context, spec LexiconSpec) (*Lexicon, error)

type cache struct {
	sync.Mutex
	objects map[string]*Lexicon
}

// GlobalLexiconCache is the process-wide cache.
var GlobalLexiconCache = &cache{objects: make(map[string]*Lexicon)}

func (c *cache) get(ctx context.Context, spec LexiconSpec, load loadFunc) (*Lexicon, error) {
	logger := zerolog.Ctx(ctx)
	key := spec.Key()
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		logger.Debug().Str("key", key).Msg("getting-lexicon-from-cache")
		return obj, nil
	}
	logger.Debug().Str("key", key).Msg("loading-lexicon-into-cache")
	obj, err := load(ctx, spec)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) reset() {
	c.Lock()
	defer c.Unlock()
	clear(c.objects)
}

// Load returns the lexicon for spec, reading and compiling the word lists
// the first time.
func Load(ctx context.Context, spec LexiconSpec) (*Lexicon, error) {
	return GlobalLexiconCache.get(ctx, spec, build)
}

// Reset empties the global cache.
func Reset() {
	GlobalLexiconCache.reset()
}

func build(ctx context.Context, spec LexiconSpec) (*Lexicon, error) {
	alph, err := alphabet.New(spec.Alphabet)
	if err != nil {
		return nil, err
	}
	words, err := lexicon.LoadWordLists(ctx, spec.Paths, spec.Encoding)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, alph, words, spec.MinWordLength), nil
}

// Compile builds a lexicon from words already in memory.
func Compile(ctx context.Context, alph *alphabet.Alphabet, words []string, minWordLength int) *Lexicon {
	dict := lexicon.Compile(alph, words, minWordLength)
	zerolog.Ctx(ctx).Info().Int("words", dict.NumWords()).Int("letter-sets", dict.Len()).
		Int("rejected", dict.NumRejected()).Str("alphabet", alph.String()).Msg("lexicon-compiled")
	return &Lexicon{
		Dictionary: dict,
		Corpus:     stats.NewCorpus(alph, dict.Keys()),
	}
}
