package stats

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/lexicon"
)

func smallCorpus(t *testing.T) (*alphabet.Alphabet, *Corpus) {
	alph, err := alphabet.New("ABDGIR")
	if err != nil {
		t.Fatal(err)
	}
	d := lexicon.Compile(alph, []string{"A", "I", "BIG", "BAD", "AD", "RIG"}, 1)
	return alph, NewCorpus(alph, d.Keys())
}

func TestLetterShare(t *testing.T) {
	is := is.New(t)
	alph, c := smallCorpus(t)
	is.Equal(c.LetterOccurrences(), 13)

	val := func(r rune) uint8 {
		v, ok := alph.Val(r)
		is.True(ok)
		return v
	}
	is.True(FuzzyEqual(c.LetterShare(val('A')), 3.0/13))
	is.True(FuzzyEqual(c.LetterShare(val('R')), 1.0/13))

	sum := 0.0
	for i := 0; i < c.NumLetters(); i++ {
		sum += c.LetterShare(uint8(i))
	}
	is.True(FuzzyEqual(sum, 1))
}

func TestTrigramShare(t *testing.T) {
	is := is.New(t)
	alph, c := smallCorpus(t)
	is.Equal(c.TrigramOccurrences(), 3)

	idx := func(word string) []uint8 {
		return alph.MustEncode(word).AppendIndices(nil)
	}
	abd := idx("ABD")
	is.True(FuzzyEqual(c.TrigramShare(abd[0], abd[1], abd[2]), 1.0/3))
	// order of arguments does not matter
	is.True(FuzzyEqual(c.TrigramShare(abd[2], abd[0], abd[1]), 1.0/3))

	// never seen, but defined
	air := idx("AIR")
	is.Equal(c.TrigramShare(air[0], air[1], air[2]), 0.0)

	sum := 0.0
	n := uint8(c.NumLetters())
	for i := uint8(0); i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				sum += c.TrigramShare(i, j, k)
			}
		}
	}
	is.True(FuzzyEqual(sum, 1))
}

func TestEmptyCorpusHasNoNaN(t *testing.T) {
	is := is.New(t)
	alph, err := alphabet.New(alphabet.DefaultAlphabet)
	is.NoErr(err)
	c := NewCorpus(alph, nil)
	is.Equal(c.LetterShare(0), 0.0)
	is.True(!math.IsNaN(c.TrigramShare(0, 1, 2)))

	// two-letter words only: letters counted, no trigrams
	d := lexicon.Compile(alph, []string{"AT", "OX"}, 1)
	c = NewCorpus(alph, d.Keys())
	is.Equal(c.TrigramOccurrences(), 0)
	is.Equal(c.TrigramShare(0, 19, 23), 0.0)
	is.True(FuzzyEqual(c.LetterShare(0), 0.25))
}
