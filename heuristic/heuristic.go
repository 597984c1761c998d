// Package heuristic orders search states. The score is a desirability
// measure built from corpus statistics, not a distance estimate: every state
// gets visited eventually, and the score only decides which ones come first.
package heuristic

import (
	"math"
	"unicode"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/lexicon"
	"github.com/domino14/pangrammer/stats"
)

// Won is the score of a state with no letters left. Such states are never
// expanded, so it is never compared against anything.
var Won = math.Inf(1)

const DefaultVowels = "AEIOUY"

// Weights scale the components of a score. Lower scores are preferred.
type Weights struct {
	Trigram float64
	Letter  float64
	Vowel   float64
	// Finishable is the score of a state whose remaining letters are
	// exactly one dictionary entry.
	Finishable float64
}

// DefaultWeights were tuned by hand on English word lists.
func DefaultWeights() Weights {
	return Weights{
		Trigram:    1,
		Letter:     1.0 / 100,
		Vowel:      1.0 / 1000,
		Finishable: 0,
	}
}

// RandSource is the source of jitter.
type RandSource interface {
	Float64() float64
}

type Options struct {
	Weights Weights
	// Vowels lists the letters counted as vowels. Letters outside the
	// alphabet are ignored; case does not matter.
	Vowels string
	// Jitter is the exclusive upper bound of a uniform random amount added
	// to every score. It needs a Rand.
	Jitter float64
	Rand   RandSource
}

type Scorer struct {
	dict    *lexicon.Dictionary
	corpus  *stats.Corpus
	weights Weights
	vowels  alphabet.LetterSet
	jitter  float64
	rnd     RandSource

	idxs []uint8
}

func NewScorer(dict *lexicon.Dictionary, corpus *stats.Corpus, opts Options) *Scorer {
	alph := dict.Alphabet()
	var vowels alphabet.LetterSet
	for _, r := range opts.Vowels {
		for _, c := range []rune{unicode.ToUpper(r), unicode.ToLower(r)} {
			if v, ok := alph.Val(c); ok {
				vowels |= 1 << v
			}
		}
	}
	jitter := opts.Jitter
	if opts.Rand == nil || jitter < 0 {
		jitter = 0
	}
	return &Scorer{
		dict:    dict,
		corpus:  corpus,
		weights: opts.Weights,
		vowels:  vowels,
		jitter:  jitter,
		rnd:     opts.Rand,
		idxs:    make([]uint8, 0, alphabet.MaxAlphabetSize),
	}
}

// Score returns the heuristic value of a state with the given letters
// remaining. Lower is better.
func (s *Scorer) Score(remaining alphabet.LetterSet) float64 {
	if remaining.Empty() {
		return Won
	}
	var h float64
	if s.dict.Has(remaining) {
		h = s.weights.Finishable
	} else {
		h = s.weights.Trigram*s.TrigramRate(remaining) +
			s.weights.Letter*s.LetterRate(remaining) +
			s.weights.Vowel*s.VowelRatio(remaining)
	}
	if s.jitter > 0 {
		h += s.jitter * s.rnd.Float64()
	}
	return h
}

// TrigramRate is the mean trigram share over every three-letter combination
// of ls. Sets with fewer than three letters have a rate of zero.
func (s *Scorer) TrigramRate(ls alphabet.LetterSet) float64 {
	n := ls.Len()
	if n < 3 {
		return 0
	}
	idxs := ls.AppendIndices(s.idxs[:0])
	if n == 3 {
		return s.corpus.TrigramShare(idxs[0], idxs[1], idxs[2])
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				sum += s.corpus.TrigramShare(idxs[i], idxs[j], idxs[k])
			}
		}
	}
	return sum / float64(combin.Binomial(n, 3))
}

// LetterRate is the mean letter share of the letters in ls.
func (s *Scorer) LetterRate(ls alphabet.LetterSet) float64 {
	n := ls.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for idx := range ls.Indices() {
		sum += s.corpus.LetterShare(idx)
	}
	return sum / float64(n)
}

// VowelRatio is the fraction of the letters in ls that are vowels.
func (s *Scorer) VowelRatio(ls alphabet.LetterSet) float64 {
	n := ls.Len()
	if n == 0 {
		return 0
	}
	return float64((ls & s.vowels).Len()) / float64(n)
}

// VowelString returns the vowels known to the scorer, for display.
func (s *Scorer) VowelString() string {
	return s.dict.Alphabet().Decode(s.vowels)
}
