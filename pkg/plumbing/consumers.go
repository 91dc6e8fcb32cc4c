package plumbing

import (
	"context"
	"sync/atomic"
)

// ForEachConsumer calls fn for every item. It becomes full when ctx is done,
// and a running leaf stops before its next item.
type ForEachConsumer[T any] struct {
	ctx     context.Context
	fn      func(T)
	skipped *atomic.Bool
}

var _ Consumer[int, struct{}] = (*ForEachConsumer[int])(nil)

// NewForEachConsumer returns a consumer calling fn for every item.
func NewForEachConsumer[T any](ctx context.Context, fn func(T)) *ForEachConsumer[T] {
	return &ForEachConsumer[T]{ctx: ctx, fn: fn, skipped: &atomic.Bool{}}
}

func (c *ForEachConsumer[T]) SplitAt(int) (Consumer[T, struct{}], Consumer[T, struct{}], Reducer[struct{}]) {
	return c, c, func(struct{}, struct{}) struct{} { return struct{}{} }
}

func (c *ForEachConsumer[T]) Consume(p Producer[T]) struct{} {
	for p.Len() > 0 {
		if c.Full() {
			c.skipped.Store(true)
			break
		}
		item, _ := p.Next()
		c.fn(item)
	}
	return struct{}{}
}

func (c *ForEachConsumer[T]) Full() bool {
	return done(c.ctx)
}

// Skipped reports whether some item was left unvisited because ctx ended.
func (c *ForEachConsumer[T]) Skipped() bool {
	return c.skipped.Load()
}

// TryForEachConsumer calls fn for every item until fn fails. The first error
// makes every split of the consumer full, and running leaves stop before their
// next item. The reduced result is the leftmost error among the leaves that
// failed, which is not necessarily the error of the leftmost item that would
// have failed.
type TryForEachConsumer[T any] struct {
	ctx    context.Context
	fn     func(T) error
	failed *atomic.Bool
}

var _ Consumer[int, error] = (*TryForEachConsumer[int])(nil)

// NewTryForEachConsumer returns a consumer calling fn for every item.
func NewTryForEachConsumer[T any](ctx context.Context, fn func(T) error) *TryForEachConsumer[T] {
	return &TryForEachConsumer[T]{ctx: ctx, fn: fn, failed: &atomic.Bool{}}
}

func (c *TryForEachConsumer[T]) SplitAt(int) (Consumer[T, error], Consumer[T, error], Reducer[error]) {
	return c, c, func(left, right error) error {
		if left != nil {
			return left
		}
		return right
	}
}

// Consume returns ctx.Err() only if ctx ended with items left, and nil when it
// stops because another leaf failed.
func (c *TryForEachConsumer[T]) Consume(p Producer[T]) error {
	for p.Len() > 0 {
		if c.failed.Load() {
			return nil
		}
		if done(c.ctx) {
			return c.ctx.Err()
		}
		item, _ := p.Next()
		if err := c.fn(item); err != nil {
			c.failed.Store(true)
			return err
		}
	}
	return nil
}

func (c *TryForEachConsumer[T]) Full() bool {
	return c.failed.Load() || done(c.ctx)
}

func done(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// ReduceConsumer folds items into an accumulator per leaf and combines leaf
// results with a reducer.
type ReduceConsumer[T, R any] struct {
	identity func() R
	fold     func(R, T) R
	combine  func(R, R) R
}

var _ Consumer[int, int] = (*ReduceConsumer[int, int])(nil)

// NewReduceConsumer returns a consumer folding items with fold, starting each
// leaf from identity() and merging leaves with combine. combine must be
// associative for the result to be independent of the split tree.
func NewReduceConsumer[T, R any](identity func() R, fold func(R, T) R, combine func(R, R) R) *ReduceConsumer[T, R] {
	return &ReduceConsumer[T, R]{identity: identity, fold: fold, combine: combine}
}

func (c *ReduceConsumer[T, R]) SplitAt(int) (Consumer[T, R], Consumer[T, R], Reducer[R]) {
	return c, c, Reducer[R](c.combine)
}

func (c *ReduceConsumer[T, R]) Consume(p Producer[T]) R {
	acc := c.identity()
	for item, ok := p.Next(); ok; item, ok = p.Next() {
		acc = c.fold(acc, item)
	}
	return acc
}

func (c *ReduceConsumer[T, R]) Full() bool {
	return false
}
