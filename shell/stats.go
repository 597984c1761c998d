package shell

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
)

const histogramBins = 15

func (sc *ShellController) stats(cmd *shellcmd) (*Response, error) {
	if sc.lex == nil {
		return nil, errNoLexicon
	}
	d := sc.lex.Dictionary
	c := sc.lex.Corpus
	alph := d.Alphabet()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Alphabet:    %s\n", alph)
	fmt.Fprintf(&sb, "Words:       %d (%d rejected)\n", d.NumWords(), d.NumRejected())
	fmt.Fprintf(&sb, "Letter sets: %d\n", d.Len())
	fmt.Fprintf(&sb, "Letters:     %d occurrences, %d trigrams\n", c.LetterOccurrences(), c.TrigramOccurrences())

	type share struct {
		letter rune
		share  float64
	}
	shares := make([]share, alph.NumLetters())
	for i := range shares {
		shares[i] = share{alph.Letter(uint8(i)), c.LetterShare(uint8(i))}
	}
	slices.SortStableFunc(shares, func(a, b share) int {
		return cmp.Compare(a.share, b.share)
	})
	sb.WriteString("Rarest letters:")
	for _, s := range shares[:min(len(shares), 8)] {
		fmt.Fprintf(&sb, " %c %.2f%%", s.letter, 100*s.share)
	}
	sb.WriteString("\n")

	if sc.isSearching() {
		sb.WriteString("Frontier histogram is not available while a search is running.")
		return msg(sb.String()), nil
	}
	sc.mu.Lock()
	s := sc.searcher
	sc.mu.Unlock()
	if s == nil {
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	utilities := s.FrontierUtilities()
	if len(utilities) == 0 {
		sb.WriteString("The frontier is empty.")
		return msg(sb.String()), nil
	}
	fmt.Fprintf(&sb, "Frontier utilities (%d nodes):\n", len(utilities))
	lo, hi := slices.Min(utilities), slices.Max(utilities)
	if lo == hi {
		fmt.Fprintf(&sb, "all at %g", lo)
		return msg(sb.String()), nil
	}
	hist := histogram.Hist(histogramBins, utilities)
	if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
		return nil, err
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}
