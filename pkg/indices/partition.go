package indices

import (
	"fmt"
	"iter"
	"math"

	"github.com/emirpasic/gods/sets/hashset"
)

// Partition is an ordered list of domains whose union is duplicate-free: no
// index appears in two parts, nor twice in one part. Each part may therefore be
// processed by its own goroutine.
type Partition struct {
	parts []Domain
}

// NewPartition validates that the given domains are mutually disjoint with a
// single pass over all of their indices. It returns a *NotDisjointError whose
// Position is counted across the concatenation of the domains.
func NewPartition(domains ...Domain) (*Partition, error) {
	seen := hashset.New()
	position := 0
	for _, d := range domains {
		for idx := range All(d) {
			if seen.Contains(idx) {
				return nil, &NotDisjointError{Index: idx, Position: position}
			}
			seen.Add(idx)
			position++
		}
	}
	return &Partition{parts: append([]Domain(nil), domains...)}, nil
}

// Interleaved splits r into parts step ranges: part k holds r.Start+k,
// r.Start+k+parts, ... The parts are disjoint by construction.
func Interleaved(r Range, parts int) *Partition {
	if parts <= 0 {
		panic(fmt.Sprintf("indices: invalid part count %d", parts))
	}
	p := &Partition{parts: make([]Domain, parts)}
	for k := range parts {
		p.parts[k] = StepRange{Start: r.Start + k, End: r.End, Step: parts}
	}
	return p
}

// Chunked splits r into consecutive ranges of at most size indices. The parts
// are disjoint by construction.
func Chunked(r Range, size int) *Partition {
	if size <= 0 {
		panic(fmt.Sprintf("indices: invalid chunk size %d", size))
	}
	p := &Partition{}
	for start := r.Start; start < r.End; start += size {
		p.parts = append(p.parts, Range{Start: start, End: min(start+size, r.End)})
	}
	return p
}

// Len returns the number of parts.
func (p *Partition) Len() int {
	return len(p.parts)
}

// Part returns the k-th part.
func (p *Partition) Part(k int) Domain {
	return p.parts[k]
}

// Parts yields each part with its position.
func (p *Partition) Parts() iter.Seq2[int, Domain] {
	return func(yield func(int, Domain) bool) {
		for k, d := range p.parts {
			if !yield(k, d) {
				return
			}
		}
	}
}

// NumIndices returns the total number of indices across all parts, saturating
// at math.MaxInt.
func (p *Partition) NumIndices() int {
	var n uint
	for _, d := range p.parts {
		n += uint(d.NumIndices())
		if n > math.MaxInt {
			return math.MaxInt
		}
	}
	return int(n)
}

// Bounds returns the smallest range containing every index of every part. It
// is empty if some non-empty part reports empty bounds.
func (p *Partition) Bounds() Range {
	var out Range
	for _, d := range p.parts {
		b := d.Bounds()
		if b.Empty() {
			if d.NumIndices() > 0 {
				return Range{}
			}
			continue
		}
		if out.Empty() {
			out = b
			continue
		}
		out = Range{Start: min(out.Start, b.Start), End: max(out.End, b.End)}
	}
	return out
}
