package alphabet

import (
	"iter"
	"math/bits"
)

// LetterSet is a bit mask of letters, with indices from 0 to the alphabet
// size. Bit i is set if the i-th letter of the sorted alphabet is present.
type LetterSet uint64

// Len returns the number of letters in the set.
func (ls LetterSet) Len() int {
	return bits.OnesCount64(uint64(ls))
}

// Empty returns true if there are no letters in the set.
func (ls LetterSet) Empty() bool {
	return ls == 0
}

// Contains returns true if the letter at index idx is in the set.
func (ls LetterSet) Contains(idx uint8) bool {
	return ls&(1<<idx) != 0
}

// SubsetOf returns true if every letter of ls is also in other.
func (ls LetterSet) SubsetOf(other LetterSet) bool {
	return ls&^other == 0
}

// Overlaps returns true if the two sets share a letter.
func (ls LetterSet) Overlaps(other LetterSet) bool {
	return ls&other != 0
}

// Minus returns the letters of ls that are not in other.
func (ls LetterSet) Minus(other LetterSet) LetterSet {
	return ls &^ other
}

// Union returns the letters in either set.
func (ls LetterSet) Union(other LetterSet) LetterSet {
	return ls | other
}

// Indices iterates over the alphabet indices in the set, in increasing order.
func (ls LetterSet) Indices() iter.Seq[uint8] {
	return func(yield func(uint8) bool) {
		for rest := uint64(ls); rest != 0; rest &= rest - 1 {
			if !yield(uint8(bits.TrailingZeros64(rest))) {
				return
			}
		}
	}
}

// AppendIndices appends the indices in the set to dst, in increasing order.
func (ls LetterSet) AppendIndices(dst []uint8) []uint8 {
	for rest := uint64(ls); rest != 0; rest &= rest - 1 {
		dst = append(dst, uint8(bits.TrailingZeros64(rest)))
	}
	return dst
}
