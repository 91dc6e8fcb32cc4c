package parallel

import (
	"fmt"
	"iter"

	"github.com/openfga/paradis/pkg/access"
	"github.com/openfga/paradis/pkg/indices"
	"github.com/openfga/paradis/pkg/plumbing"
)

// AccessProducer yields the mutable records selected by a disjoint domain
// over the window [start, end) of logical positions. Splitting hands each half
// its own clone of the capability; because the domain is injective, the halves
// never reach the same record.
type AccessProducer[R, M any] struct {
	access access.Unsync[R, M]
	domain indices.Domain
	start  int
	end    int
}

var _ plumbing.Producer[*int] = (*AccessProducer[int, *int])(nil)

// NewAccessProducer returns a producer over every position of d. Every index
// of d must be in bounds for a; the producer never checks.
func NewAccessProducer[R, M any](a access.Unsync[R, M], d indices.Domain) *AccessProducer[R, M] {
	return &AccessProducer[R, M]{
		access: a,
		domain: d,
		end:    d.NumIndices(),
	}
}

func (p *AccessProducer[R, M]) Len() int {
	return p.end - p.start
}

// SplitAt panics unless 0 < at < Len().
func (p *AccessProducer[R, M]) SplitAt(at int) (plumbing.Producer[M], plumbing.Producer[M]) {
	if at <= 0 || at >= p.Len() {
		panic(fmt.Sprintf("parallel: split offset %d outside (0, %d)", at, p.Len()))
	}
	mid := p.start + at
	left := &AccessProducer[R, M]{access: p.access.CloneAccess(), domain: p.domain, start: p.start, end: mid}
	right := &AccessProducer[R, M]{access: p.access.CloneAccess(), domain: p.domain, start: mid, end: p.end}
	return left, right
}

func (p *AccessProducer[R, M]) Next() (M, bool) {
	if p.start >= p.end {
		var zero M
		return zero, false
	}
	m := p.access.GetUncheckedMut(p.domain.GetUnchecked(p.start))
	p.start++
	return m, true
}

func (p *AccessProducer[R, M]) NextBack() (M, bool) {
	if p.start >= p.end {
		var zero M
		return zero, false
	}
	p.end--
	return p.access.GetUncheckedMut(p.domain.GetUnchecked(p.end)), true
}

// All drains the producer front to back.
func (p *AccessProducer[R, M]) All() iter.Seq[M] {
	return func(yield func(M) bool) {
		for m, ok := p.Next(); ok; m, ok = p.Next() {
			if !yield(m) {
				return
			}
		}
	}
}

// Backward drains the producer back to front.
func (p *AccessProducer[R, M]) Backward() iter.Seq[M] {
	return func(yield func(M) bool) {
		for m, ok := p.NextBack(); ok; m, ok = p.NextBack() {
			if !yield(m) {
				return
			}
		}
	}
}
