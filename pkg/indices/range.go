package indices

import "math"

// Range is the contiguous domain Start, Start+1, ..., End-1. It is empty when
// End <= Start.
type Range struct {
	Start int
	End   int
}

var _ Domain = Range{}

// NumIndices returns End-Start, or zero when End < Start. A span wider than
// math.MaxInt saturates at math.MaxInt.
func (r Range) NumIndices() int {
	if r.End <= r.Start {
		return 0
	}
	return saturate(uint(r.End) - uint(r.Start))
}

func (r Range) GetUnchecked(i int) int {
	return r.Start + i
}

func (r Range) Bounds() Range {
	if r.End <= r.Start {
		return Range{}
	}
	return r
}

// Empty reports whether r contains no index.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Contains reports whether index lies in r.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// StepRange is the domain Start, Start+Step, ... up to but excluding End.
// Step must be positive.
type StepRange struct {
	Start int
	End   int
	Step  int
}

var _ Domain = StepRange{}

func (r StepRange) NumIndices() int {
	if r.Step <= 0 || r.End <= r.Start {
		return 0
	}
	return saturate((uint(r.End)-uint(r.Start)-1)/uint(r.Step) + 1)
}

func (r StepRange) GetUnchecked(i int) int {
	return r.Start + i*r.Step
}

func (r StepRange) Bounds() Range {
	n := r.NumIndices()
	if n == 0 {
		return Range{}
	}
	return Range{Start: r.Start, End: r.GetUnchecked(n-1) + 1}
}

// saturate converts a count computed in unsigned arithmetic back to int.
func saturate(n uint) int {
	return int(min(n, math.MaxInt))
}
