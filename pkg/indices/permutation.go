package indices

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/emirpasic/gods/sets/hashset"
)

// ErrNotDisjoint is reported when an index source contains a repeated index.
var ErrNotDisjoint = errors.New("indices: not disjoint")

// NotDisjointError describes the first repeated index found in a source.
type NotDisjointError struct {
	// Index is the repeated index.
	Index int
	// Position is the position in the source at which the repetition occurred.
	Position int
}

func (e *NotDisjointError) Error() string {
	return fmt.Sprintf("%s: index %d repeated at position %d", ErrNotDisjoint, e.Index, e.Position)
}

func (e *NotDisjointError) Is(target error) bool {
	return target == ErrNotDisjoint
}

// Permutation is an explicit, validated sequence of distinct indices. It is
// immutable once built.
type Permutation struct {
	indices []int
	// lo and hi are the smallest and largest index, inclusive.
	lo, hi int
}

var _ Domain = (*Permutation)(nil)

// NewPermutation consumes src once and returns the permutation of its indices
// in source order. On the first repeated index it stops and returns a
// *NotDisjointError; nothing seen before the duplicate is retained.
func NewPermutation(src iter.Seq[int]) (*Permutation, error) {
	seen := hashset.New()
	p := &Permutation{}

	for idx := range src {
		if seen.Contains(idx) {
			return nil, &NotDisjointError{Index: idx, Position: len(p.indices)}
		}
		seen.Add(idx)
		if len(p.indices) == 0 || idx < p.lo {
			p.lo = idx
		}
		if len(p.indices) == 0 || idx > p.hi {
			p.hi = idx
		}
		p.indices = append(p.indices, idx)
	}
	return p, nil
}

// PermutationOf returns the permutation of the given indices. The argument is
// copied.
func PermutationOf(indices ...int) (*Permutation, error) {
	return NewPermutation(slices.Values(indices))
}

// MustPermutationOf is like PermutationOf but panics on a repeated index.
func MustPermutationOf(indices ...int) *Permutation {
	p, err := PermutationOf(indices...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Permutation) NumIndices() int {
	return len(p.indices)
}

func (p *Permutation) GetUnchecked(i int) int {
	return p.indices[i]
}

// Bounds returns [lo, hi+1). A permutation holding math.MaxInt has no such
// range and reports an empty one.
func (p *Permutation) Bounds() Range {
	if len(p.indices) == 0 || p.hi == math.MaxInt {
		return Range{}
	}
	return Range{Start: p.lo, End: p.hi + 1}
}

// Indices returns a copy of the validated indices.
func (p *Permutation) Indices() []int {
	return slices.Clone(p.indices)
}
