package lexicon

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/pangrammer/alphabet"
)

func TestCompile(t *testing.T) {
	is := is.New(t)
	alph, err := alphabet.New("ABDGIR")
	is.NoErr(err)
	d := Compile(alph, []string{"A", "I", "BIG", "BAD", "AD", "RIG", "DAB", "BIRD", "BOOT", "ABBA", "GRID"}, 1)

	is.Equal(d.Len(), 8) // A I BGI ABD AD GIR BDIR DGIR
	is.Equal(d.NumWords(), 9)
	is.Equal(d.NumRejected(), 2)
	abd := alph.MustEncode("ABD")
	is.Equal(d.Words(abd), []string{"BAD", "DAB"})
	is.Equal(d.Representative(abd), "BAD")
	is.True(d.Has(alph.MustEncode("GIR")))
	is.True(!d.Has(alph.MustEncode("GR")))
	is.Equal(d.Representative(alph.MustEncode("GR")), "GR")
}

func TestCompileKeysAreCanonical(t *testing.T) {
	is := is.New(t)
	alph, err := alphabet.New(alphabet.DefaultAlphabet)
	is.NoErr(err)
	words := []string{"STOP", "POTS", "TOPS", "SPOT", "OPTS", "LETTER", "QUIZ", "ZQUI"}
	d := Compile(alph, words, 1)
	for _, ls := range d.Keys() {
		for _, w := range d.Words(ls) {
			enc, ok := alph.Encode(w)
			is.True(ok)
			is.Equal(enc, ls) // every word maps to its own letter set
			is.Equal(len(w), ls.Len())
		}
	}
	is.Equal(d.Len(), 2)
}

func TestCompileMinLength(t *testing.T) {
	is := is.New(t)
	alph, err := alphabet.New("ABDGIR")
	is.NoErr(err)
	d := Compile(alph, []string{"A", "I", "AD", "BAD"}, 2)
	is.Equal(d.Len(), 2)
	is.Equal(d.NumRejected(), 2)
}

func TestAppendCandidates(t *testing.T) {
	is := is.New(t)
	alph, err := alphabet.New("ABDGIR")
	is.NoErr(err)
	d := Compile(alph, []string{"A", "I", "BIG", "BAD", "AD", "RIG"}, 1)

	cands := d.AppendCandidates(nil, alph.MustEncode("GIR"))
	is.Equal(cands, []alphabet.LetterSet{alph.MustEncode("I"), alph.MustEncode("GIR")})
	is.Equal(len(d.AppendCandidates(nil, 0)), 0)
	is.Equal(len(d.AppendCandidates(nil, alph.Full())), 6)
}
