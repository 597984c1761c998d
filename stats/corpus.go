package stats

import (
	"github.com/domino14/pangrammer/alphabet"
)

// Corpus holds normalized letter and trigram histograms over the letter sets
// of a compact dictionary. Higher values mean more common letters or letter
// combinations. Every entry is defined; combinations that never occur have a
// share of zero.
type Corpus struct {
	n        int
	letters  []float64
	trigrams []float64

	letterTotal  int
	trigramTotal int
}

// NewCorpus builds the histograms for the given letter sets.
func NewCorpus(alph *alphabet.Alphabet, letterSets []alphabet.LetterSet) *Corpus {
	n := alph.NumLetters()
	c := &Corpus{
		n:        n,
		letters:  make([]float64, n),
		trigrams: make([]float64, n*n*n),
	}

	idxs := make([]uint8, 0, alphabet.MaxAlphabetSize)
	for _, ls := range letterSets {
		idxs = ls.AppendIndices(idxs[:0])
		for _, i := range idxs {
			c.letters[i]++
			c.letterTotal++
		}
		// Indices come out sorted, so every combination is already in
		// canonical i < j < k order.
		for a := 0; a < len(idxs); a++ {
			for b := a + 1; b < len(idxs); b++ {
				for k := b + 1; k < len(idxs); k++ {
					c.trigrams[c.trigramIndex(idxs[a], idxs[b], idxs[k])]++
					c.trigramTotal++
				}
			}
		}
	}

	if c.letterTotal > 0 {
		for i := range c.letters {
			c.letters[i] /= float64(c.letterTotal)
		}
	}
	if c.trigramTotal > 0 {
		for i := range c.trigrams {
			c.trigrams[i] /= float64(c.trigramTotal)
		}
	}
	return c
}

func (c *Corpus) trigramIndex(i, j, k uint8) int {
	return (int(i)*c.n+int(j))*c.n + int(k)
}

// LetterShare returns the share of all letter occurrences taken by the
// letter at alphabet index idx.
func (c *Corpus) LetterShare(idx uint8) float64 {
	return c.letters[idx]
}

// TrigramShare returns the share of all three-letter combinations taken by
// the combination of the letters at indices i, j and k. The indices may be
// given in any order but must be distinct.
func (c *Corpus) TrigramShare(i, j, k uint8) float64 {
	if i > j {
		i, j = j, i
	}
	if j > k {
		j, k = k, j
	}
	if i > j {
		i, j = j, i
	}
	return c.trigrams[c.trigramIndex(i, j, k)]
}

// NumLetters returns the size of the alphabet the corpus was built for.
func (c *Corpus) NumLetters() int {
	return c.n
}

// LetterOccurrences is the total count the letter histogram was normalized by.
func (c *Corpus) LetterOccurrences() int {
	return c.letterTotal
}

// TrigramOccurrences is the total count the trigram histogram was normalized by.
func (c *Corpus) TrigramOccurrences() int {
	return c.trigramTotal
}
