package search

import (
	"unsafe"

	"github.com/pbnjay/memory"
	"lukechampine.com/frand"
)

// nodeOverhead approximates what a node costs beyond the struct itself:
// its index entry, a parent or two, and its completion bookkeeping.
const nodeOverhead = 160

// NodeBudget returns how many graph nodes fit in the given fraction of the
// machine's memory. It returns 0, meaning no limit, if the fraction is not
// positive or the total memory is unknown.
func NodeBudget(fractionOfMemory float64) int {
	if fractionOfMemory <= 0 {
		return 0
	}
	totalMem := memory.TotalMemory()
	if totalMem == 0 {
		return 0
	}
	perNode := float64(unsafe.Sizeof(node{})) + nodeOverhead
	return int(fractionOfMemory * float64(totalMem) / perNode)
}

// RandSource drives exploration and jitter.
type RandSource interface {
	Float64() float64
	IntN(n int) int
}

type frandSource struct{}

func (frandSource) Float64() float64 { return frand.Float64() }
func (frandSource) IntN(n int) int    { return frand.Intn(n) }
