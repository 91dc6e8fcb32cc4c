// Package indices provides disjoint index domains: enumerations of indices that
// are proven pairwise distinct when the domain is built.
//
// Distinct logical positions of a domain never map to the same index. This is
// what makes it sound to hand the records of two disjoint position windows to
// two goroutines at once.
package indices

import (
	"fmt"
	"iter"
)

// Domain is a duplicate-free enumeration of indices.
type Domain interface {
	// NumIndices returns the number of logical positions.
	NumIndices() int

	// GetUnchecked returns the index at logical position i, which must lie in
	// [0, NumIndices()).
	GetUnchecked(i int) int

	// Bounds returns the smallest range containing every index of the domain.
	// An empty domain returns an empty range. So does a non-empty domain
	// holding math.MaxInt, since no Range can contain it.
	Bounds() Range
}

// PositionError is the panic value of [Get] for a position outside the domain.
type PositionError struct {
	Position   int
	NumIndices int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("indices: position %d out of range [0, %d)", e.Position, e.NumIndices)
}

// Get returns the index at logical position i, panicking if i is not in
// [0, d.NumIndices()).
func Get(d Domain, i int) int {
	if n := d.NumIndices(); i < 0 || i >= n {
		panic(&PositionError{Position: i, NumIndices: n})
	}
	return d.GetUnchecked(i)
}

// All returns the indices of d in position order.
func All(d Domain) iter.Seq[int] {
	return func(yield func(int) bool) {
		n := d.NumIndices()
		for i := 0; i < n; i++ {
			if !yield(d.GetUnchecked(i)) {
				return
			}
		}
	}
}

// Collect returns the indices of d as a slice.
func Collect(d Domain) []int {
	out := make([]int, 0, d.NumIndices())
	for idx := range All(d) {
		out = append(out, idx)
	}
	return out
}
