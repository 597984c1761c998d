package alphabet

import (
	"slices"
	"testing"

	"github.com/matryer/is"
)

func TestNewSortsAndDedups(t *testing.T) {
	is := is.New(t)
	alph, err := New("RIGBADA")
	is.NoErr(err)
	is.Equal(alph.String(), "ABDGIR")
	is.Equal(alph.NumLetters(), 6)
	is.Equal(alph.Full(), LetterSet(0b111111))
	v, ok := alph.Val('G')
	is.True(ok)
	is.Equal(v, uint8(3))
	is.Equal(alph.Letter(5), 'R')
}

func TestNewErrors(t *testing.T) {
	is := is.New(t)
	_, err := New("")
	is.Equal(err, ErrEmptyAlphabet)

	var big []rune
	for i := 0; i < MaxAlphabetSize+1; i++ {
		big = append(big, rune(0x100+i))
	}
	_, err = New(string(big))
	is.Equal(err, ErrAlphabetTooLarge)

	_, err = New(string(big[:MaxAlphabetSize]))
	is.NoErr(err)
}

func TestEncode(t *testing.T) {
	is := is.New(t)
	alph, err := New(DefaultAlphabet)
	is.NoErr(err)

	bad, ok := alph.Encode("BAD")
	is.True(ok)
	dab, ok := alph.Encode("DAB")
	is.True(ok)
	is.Equal(bad, dab)
	is.Equal(alph.Decode(bad), "ABD")

	type testcase struct {
		word string
		ok   bool
	}
	for _, tc := range []testcase{
		{"BOOT", false},
		{"", false},
		{"bad", false},
		{"CAN'T", false},
		{"QUIZ", true},
		{"UNCOPYRIGHTABLE", true},
	} {
		_, ok := alph.Encode(tc.word)
		is.Equal(ok, tc.ok) // word validity
	}
}

func TestLetterSetOps(t *testing.T) {
	is := is.New(t)
	alph, err := New("ABDGIR")
	is.NoErr(err)
	abd := alph.MustEncode("ABD")
	gir := alph.MustEncode("GIR")
	big := alph.MustEncode("BIG")

	is.Equal(abd.Len(), 3)
	is.True(!abd.Overlaps(gir))
	is.True(abd.Overlaps(big))
	is.Equal(abd.Union(gir), alph.Full())
	is.Equal(alph.Full().Minus(abd), gir)
	is.True(abd.SubsetOf(alph.Full()))
	is.True(!big.SubsetOf(abd))
	is.True(LetterSet(0).Empty())
	is.True(abd.Contains(0))
	is.True(!abd.Contains(3))

	is.Equal(slices.Collect(gir.Indices()), []uint8{3, 4, 5})
	is.Equal(gir.AppendIndices(nil), []uint8{3, 4, 5})
}
