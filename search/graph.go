package search

import (
	"container/heap"
	"encoding/binary"
	"slices"

	"github.com/domino14/pangrammer/alphabet"
)

// nodeID indexes the node arena. Node IDs are handed out in creation order.
type nodeID int32

const rootID nodeID = 0

// completion is a set of letter sets that, chosen after reaching a node,
// uses up exactly the letters that node has remaining. It is kept sorted.
type completion []alphabet.LetterSet

// with returns a copy of c with ls added.
func (c completion) with(ls alphabet.LetterSet) completion {
	i, _ := slices.BinarySearch(c, ls)
	out := make(completion, len(c)+1)
	copy(out, c[:i])
	out[i] = ls
	copy(out[i+1:], c[i:])
	return out
}

func (c completion) key() string {
	b := make([]byte, 0, 8*len(c))
	for _, ls := range c {
		b = binary.LittleEndian.AppendUint64(b, uint64(ls))
	}
	return string(b)
}

type node struct {
	remaining alphabet.LetterSet
	// parents are the nodes that reach this one by choosing one letter set.
	// A node is expanded at most once, so a parent never appears twice.
	parents  []nodeID
	utility  float64
	expanded bool
	// heapIdx is the position in the frontier, or -1.
	heapIdx int

	completions []completion
	seen        map[string]struct{}
}

// record adds c to the node's completions. It returns false if an equal
// completion was already there.
func (n *node) record(c completion) bool {
	k := c.key()
	if n.seen == nil {
		n.seen = make(map[string]struct{})
	}
	if _, ok := n.seen[k]; ok {
		return false
	}
	n.seen[k] = struct{}{}
	n.completions = append(n.completions, c)
	return true
}

// graph owns every node. There is at most one node per remaining letter set.
type graph struct {
	nodes []node
	index map[alphabet.LetterSet]nodeID
}

func (g *graph) add(remaining alphabet.LetterSet, utility float64, parent nodeID, hasParent bool) nodeID {
	id := nodeID(len(g.nodes))
	n := node{remaining: remaining, utility: utility, heapIdx: -1}
	if hasParent {
		n.parents = []nodeID{parent}
	}
	g.nodes = append(g.nodes, n)
	g.index[remaining] = id
	return id
}

func (g *graph) lookup(remaining alphabet.LetterSet) (nodeID, bool) {
	id, ok := g.index[remaining]
	return id, ok
}

// frontier is a min-heap of unexpanded nodes, ordered by utility and then by
// creation order, so that ties break the same way on every run.
type frontier struct {
	g   *graph
	ids []nodeID
}

func (f *frontier) Len() int { return len(f.ids) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.ids[i], f.ids[j]
	ua, ub := f.g.nodes[a].utility, f.g.nodes[b].utility
	if ua != ub {
		return ua < ub
	}
	return a < b
}

func (f *frontier) Swap(i, j int) {
	f.ids[i], f.ids[j] = f.ids[j], f.ids[i]
	f.g.nodes[f.ids[i]].heapIdx = i
	f.g.nodes[f.ids[j]].heapIdx = j
}

func (f *frontier) Push(x any) {
	id := x.(nodeID)
	f.g.nodes[id].heapIdx = len(f.ids)
	f.ids = append(f.ids, id)
}

func (f *frontier) Pop() any {
	n := len(f.ids)
	id := f.ids[n-1]
	f.ids = f.ids[:n-1]
	f.g.nodes[id].heapIdx = -1
	return id
}

func (f *frontier) push(id nodeID) {
	heap.Push(f, id)
}

func (f *frontier) popMin() nodeID {
	return heap.Pop(f).(nodeID)
}

// remove takes out the node at heap position i.
func (f *frontier) remove(i int) nodeID {
	return heap.Remove(f, i).(nodeID)
}

func (f *frontier) utilities() []float64 {
	out := make([]float64, len(f.ids))
	for i, id := range f.ids {
		out[i] = f.g.nodes[id].utility
	}
	return out
}
