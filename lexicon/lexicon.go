// Package lexicon compiles word lists into compact dictionaries: maps from
// letter sets to the anagram class of words built out of exactly those
// letters.
package lexicon

import "github.com/domino14/pangrammer/alphabet"

// Dictionary is a compact dictionary. For example, with the default alphabet
// the letter set ABD maps to [BAD DAB].
type Dictionary struct {
	alph    *alphabet.Alphabet
	classes map[alphabet.LetterSet][]string
	// keys are kept in the order they were first seen, so that iteration
	// over the dictionary is deterministic.
	keys     []alphabet.LetterSet
	numWords int
	rejected int
}

// Compile creates a compact dictionary from a list of words. Words that
// repeat a letter, use a letter outside the alphabet, or are shorter than
// minLength are left out; no perfect pangram could use them.
func Compile(alph *alphabet.Alphabet, words []string, minLength int) *Dictionary {
	d := &Dictionary{
		alph:    alph,
		classes: make(map[alphabet.LetterSet][]string),
	}
	for _, word := range words {
		ls, ok := alph.Encode(word)
		if !ok || ls.Len() < minLength {
			d.rejected++
			continue
		}
		class, seen := d.classes[ls]
		if !seen {
			d.keys = append(d.keys, ls)
		}
		d.classes[ls] = append(class, word)
		d.numWords++
	}
	return d
}

// Alphabet returns the alphabet the dictionary was compiled for.
func (d *Dictionary) Alphabet() *alphabet.Alphabet {
	return d.alph
}

// Keys returns every letter set in the dictionary. The returned slice must
// not be modified.
func (d *Dictionary) Keys() []alphabet.LetterSet {
	return d.keys
}

// Len returns the number of distinct letter sets.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// NumWords returns the number of accepted words.
func (d *Dictionary) NumWords() int {
	return d.numWords
}

// NumRejected returns the number of words that were left out.
func (d *Dictionary) NumRejected() int {
	return d.rejected
}

// Has returns true if at least one word is made out of exactly these letters.
func (d *Dictionary) Has(ls alphabet.LetterSet) bool {
	_, ok := d.classes[ls]
	return ok
}

// Words returns the anagram class for the letter set, in the order the words
// were given to Compile.
func (d *Dictionary) Words(ls alphabet.LetterSet) []string {
	return d.classes[ls]
}

// Representative returns a word to display for the letter set. If no word
// exists, the letters themselves are returned.
func (d *Dictionary) Representative(ls alphabet.LetterSet) string {
	if class := d.classes[ls]; len(class) > 0 {
		return class[0]
	}
	return d.alph.Decode(ls)
}

// AppendCandidates appends to dst every letter set of the dictionary that
// can still be made out of the remaining letters.
func (d *Dictionary) AppendCandidates(dst []alphabet.LetterSet, remaining alphabet.LetterSet) []alphabet.LetterSet {
	if remaining.Empty() {
		return dst
	}
	for _, ls := range d.keys {
		if ls.SubsetOf(remaining) {
			dst = append(dst, ls)
		}
	}
	return dst
}
