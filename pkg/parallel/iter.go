// Package parallel runs closures over the mutable records of a capability in
// parallel, one record per index of a disjoint domain.
//
// An [Iter] pairs an [access.Unsync] capability with an [indices.Domain]. The
// domain is checked against the capability once, when the Iter is built;
// afterwards records are reached through the unchecked accessors only. Work is
// split by [plumbing.Bridge] and run on a [plumbing.Joiner], a process-wide
// [forkjoin.Pool] unless [WithJoiner] says otherwise.
//
// Each record is visited exactly once. No ordering holds across the halves of
// a split. Cancellation of ctx is observed before each record: records not
// reached by then are left untouched.
package parallel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/openfga/paradis/pkg/access"
	"github.com/openfga/paradis/pkg/indices"
	"github.com/openfga/paradis/pkg/plumbing"
	"github.com/openfga/paradis/pkg/telemetry"
)

var tracer = otel.Tracer("pkg/parallel")

// ErrOutOfBounds is returned when a domain holds an index the capability
// cannot address.
var ErrOutOfBounds = errors.New("domain exceeds the capability bounds")

// Iter is a parallel iterator over the mutable records M of a capability.
type Iter[R, M any] struct {
	access access.Unsync[R, M]
	domain indices.Domain
	opts   options
}

// FromAccess iterates over every record of a, in index order.
func FromAccess[R, M any](a access.SizedUnsync[R, M], opts ...Option) *Iter[R, M] {
	return &Iter[R, M]{
		access: a,
		domain: indices.Range{Start: 0, End: a.Len()},
		opts:   newOptions(opts),
	}
}

// FromSlice iterates over pointers to the elements of s. The caller must not
// touch s while the iteration runs.
func FromSlice[T any](s []T, opts ...Option) *Iter[T, *T] {
	return FromAccess[T, *T](access.FromSlice(s), opts...)
}

// FromDisjointIndices iterates over the records of a selected by d, in the
// order of d. It fails with [ErrOutOfBounds] if some index of d is not in
// bounds for a, and with [access.ErrScopeEnded] if a is bound to an ended
// scope.
func FromDisjointIndices[R, M any](a access.Unsync[R, M], d indices.Domain, opts ...Option) (*Iter[R, M], error) {
	o := newOptions(opts)
	if err := checkBounds(a, d); err != nil {
		o.logger.Debug("rejected domain", zap.Error(err), zap.Int("num_indices", d.NumIndices()))
		return nil, err
	}
	return &Iter[R, M]{access: a, domain: d, opts: o}, nil
}

// spanned is what checkBounds needs from a domain or a partition.
type spanned interface {
	NumIndices() int
	Bounds() indices.Range
}

// checkBounds relies on valid indices forming a contiguous range starting at
// zero: testing both ends of the bounds covers every index in between.
func checkBounds[R, M any](a access.Unsync[R, M], d spanned) error {
	if bound, ok := a.(access.Bound); ok && !bound.Alive() {
		return access.ErrScopeEnded
	}
	if d.NumIndices() == 0 {
		return nil
	}
	b := d.Bounds()
	if b.Empty() {
		return fmt.Errorf("%w: indices span past math.MaxInt", ErrOutOfBounds)
	}
	if !a.InBounds(b.Start) || !a.InBounds(b.End-1) {
		return fmt.Errorf("%w: indices span [%d, %d)", ErrOutOfBounds, b.Start, b.End)
	}
	return nil
}

// Len returns the number of records the iteration visits.
func (it *Iter[R, M]) Len() int {
	return it.domain.NumIndices()
}

// Producer returns a fresh producer over the whole iteration. Each call
// aliases the same records, so at most one producer may be consumed at a time.
func (it *Iter[R, M]) Producer() *AccessProducer[R, M] {
	return NewAccessProducer(it.access.CloneAccess(), it.domain)
}

// WithProducer hands a fresh producer to cb, for callers driving their own
// scheduler.
func (it *Iter[R, M]) WithProducer(cb func(plumbing.Producer[M])) {
	cb(it.Producer())
}

// ForEach calls fn on every record, in parallel. It returns ctx.Err() only if
// ctx ended before every record was visited. A panic in fn is re-raised here.
func (it *Iter[R, M]) ForEach(ctx context.Context, fn func(M)) error {
	ctx, span := it.startSpan(ctx, "parallel.ForEach")
	defer span.End()

	c := plumbing.NewForEachConsumer(ctx, fn)
	Drive[R, M, struct{}](it, c)
	if c.Skipped() {
		err := ctx.Err()
		telemetry.TraceError(span, err)
		return err
	}
	return nil
}

// TryForEach calls fn on every record, in parallel, until a call fails. After
// the first failure no new leaf starts; leaves already running stop before
// their next record. One of the errors returned by fn is returned: the
// leftmost among the leaves that failed.
func (it *Iter[R, M]) TryForEach(ctx context.Context, fn func(M) error) error {
	ctx, span := it.startSpan(ctx, "parallel.TryForEach")
	defer span.End()

	if err := Drive[R, M, error](it, plumbing.NewTryForEachConsumer(ctx, fn)); err != nil {
		telemetry.TraceError(span, err)
		return err
	}
	return nil
}

func (it *Iter[R, M]) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("paradis.len", it.Len()),
		attribute.Int("paradis.workers", it.opts.joiner.NumWorkers()),
		attribute.Int("paradis.min_len", it.opts.minLen),
	))
}

// Drive bridges the iteration into c on the configured joiner.
func Drive[R, M, T any](it *Iter[R, M], c plumbing.Consumer[M, T]) T {
	return plumbing.Bridge[M, T](it.opts.joiner, it.Producer(), c, it.opts.minLen)
}

// Reduce folds every record into a value. Each leaf starts from identity()
// and folds its records in order; leaf results are merged with combine, left
// before right. combine must be associative.
func Reduce[R, M, T any](it *Iter[R, M], identity func() T, fold func(T, M) T, combine func(T, T) T) T {
	return Drive[R, M, T](it, plumbing.NewReduceConsumer(identity, fold, combine))
}
