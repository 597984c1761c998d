package search

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/domino14/pangrammer/alphabet"
	"github.com/domino14/pangrammer/lexicon"
)

// Solution is a set of disjoint dictionary letter sets. For a perfect
// pangram the sets cover the whole alphabet and Leftover is empty.
type Solution struct {
	LetterSets []alphabet.LetterSet
	Leftover   alphabet.LetterSet
	// Signature is the canonical text form: each set's letters, sorted and
	// joined with semicolons. Two solutions are the same iff their
	// signatures are.
	Signature string
}

// ID is a stable hash of the signature, suitable as a storage key.
func (s Solution) ID() uint64 {
	return xxhash.Sum64String(s.Signature)
}

func (s Solution) Perfect() bool {
	return s.Leftover.Empty()
}

// Words returns one representative word for each letter set.
func (s Solution) Words(dict *lexicon.Dictionary) []string {
	words := make([]string, len(s.LetterSets))
	for i, ls := range s.LetterSets {
		words[i] = dict.Representative(ls)
	}
	return words
}

func signature(alph *alphabet.Alphabet, sets []alphabet.LetterSet) string {
	parts := make([]string, len(sets))
	for i, ls := range sets {
		parts[i] = alph.Decode(ls)
	}
	slices.Sort(parts)
	return strings.Join(parts, ";")
}

type frame struct {
	id nodeID
	c  completion
}

// propagate records c as a completion of node id and carries it up every
// parent edge. A node that already holds a completion stops the walk there,
// since its ancestors have already received it.
func (s *Searcher) propagate(id nodeID, c completion) {
	stack := append(s.stack[:0], frame{id, c})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &s.graph.nodes[f.id]
		if !n.record(f.c) {
			continue
		}
		if f.id == rootID {
			s.discover(f.c)
			continue
		}
		for _, p := range n.parents {
			word := s.graph.nodes[p].remaining.Minus(n.remaining)
			stack = append(stack, frame{p, f.c.with(word)})
		}
	}
	s.stack = stack[:0]
}

func (s *Searcher) discover(c completion) {
	if len(c) == 0 {
		return
	}
	sets := slices.Clone([]alphabet.LetterSet(c))
	sig := signature(s.dict.Alphabet(), sets)
	if _, ok := s.discovered[sig]; ok {
		return
	}
	s.discovered[sig] = struct{}{}

	var used alphabet.LetterSet
	for _, ls := range sets {
		used = used.Union(ls)
	}
	sol := Solution{
		LetterSets: sets,
		Leftover:   s.full.Minus(used),
		Signature:  sig,
	}
	s.solutions = append(s.solutions, sol)
	if s.streaming {
		s.pending = append(s.pending, sol)
	}
	if s.cfg.OnSolution != nil {
		s.cfg.OnSolution(sol)
	}
}
