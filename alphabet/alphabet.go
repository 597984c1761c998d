package alphabet

import (
	"errors"
	"slices"
	"strings"

	"github.com/samber/lo"
)

const (
	// MaxAlphabetSize is the maximum size of the alphabet. Every letter
	// gets one bit of a LetterSet, so it has to fit in one 64-bit word.
	MaxAlphabetSize = 64

	// DefaultAlphabet is the 26-letter Latin alphabet.
	DefaultAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var (
	ErrEmptyAlphabet    = errors.New("alphabet has no letters")
	ErrAlphabetTooLarge = errors.New("alphabet exceeds max alphabet size")
)

// Alphabet defines an alphabet: an ordered set of distinct symbols.
type Alphabet struct {
	// vals is a map of the actual physical letter rune (like 'A') to its
	// index in the sorted alphabet, from 0 to MaxAlphabetSize-1.
	vals map[rune]uint8
	// letters maps an index back to the rune.
	letters []rune
	full    LetterSet
}

// New creates an alphabet out of the given symbols. Symbols are sorted and
// duplicates are silently dropped.
func New(symbols string) (*Alphabet, error) {
	letters := lo.Uniq([]rune(symbols))
	if len(letters) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if len(letters) > MaxAlphabetSize {
		return nil, ErrAlphabetTooLarge
	}
	slices.Sort(letters)

	a := &Alphabet{
		vals:    make(map[rune]uint8, len(letters)),
		letters: letters,
	}
	for idx, rn := range letters {
		a.vals[rn] = uint8(idx)
		a.full |= 1 << idx
	}
	return a, nil
}

// Val returns the index of this rune in the alphabet.
func (a *Alphabet) Val(r rune) (uint8, bool) {
	val, ok := a.vals[r]
	return val, ok
}

// Letter returns the letter that this position in the alphabet corresponds to.
func (a *Alphabet) Letter(idx uint8) rune {
	return a.letters[idx]
}

// NumLetters returns the number of letters in this alphabet.
func (a *Alphabet) NumLetters() int {
	return len(a.letters)
}

// Full is the letter set containing every letter of the alphabet.
func (a *Alphabet) Full() LetterSet {
	return a.full
}

// String returns the sorted alphabet.
func (a *Alphabet) String() string {
	return string(a.letters)
}

// Encode returns the letter set of a word. The second return value is false
// if the word is empty, repeats a letter, or uses a letter that is not in
// the alphabet; such words can never be part of a perfect pangram.
func (a *Alphabet) Encode(word string) (LetterSet, bool) {
	var ls LetterSet
	if word == "" {
		return 0, false
	}
	for _, r := range word {
		val, ok := a.vals[r]
		if !ok {
			return 0, false
		}
		bit := LetterSet(1) << val
		if ls&bit != 0 {
			return 0, false
		}
		ls |= bit
	}
	return ls, true
}

// MustEncode is Encode for letters known to be valid, such as in tests.
func (a *Alphabet) MustEncode(word string) LetterSet {
	ls, ok := a.Encode(word)
	if !ok {
		panic("cannot encode " + word + " with alphabet " + a.String())
	}
	return ls
}

// Decode returns the letters of the set, in alphabet order.
func (a *Alphabet) Decode(ls LetterSet) string {
	var sb strings.Builder
	sb.Grow(ls.Len())
	for idx := range ls.Indices() {
		sb.WriteRune(a.letters[idx])
	}
	return sb.String()
}
