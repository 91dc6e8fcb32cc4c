//go:generate mockgen -destination ../../internal/mocks/mock_joiner.go -package mocks github.com/openfga/paradis/pkg/plumbing Joiner

// Package plumbing defines the protocol between splittable producers and a
// divide-and-conquer engine.
//
// A [Producer] reports its length, splits in two at an offset, and yields one
// item at a time from either end. A [Joiner] runs two closures, possibly in
// parallel. [Bridge] ties them together: it bisects the producer while the
// splitter allows it, forks the halves through the Joiner and folds each leaf
// sequentially with a [Consumer].
//
// Any engine able to join two closures is a valid collaborator.
package plumbing

// Producer is a splittable, indexed, finite source of items.
type Producer[T any] interface {
	// Len returns the number of items left.
	Len() int

	// SplitAt divides the producer into the first at items and the rest. The
	// offset must satisfy 0 < at < Len(). The receiver must not be used
	// afterwards.
	SplitAt(at int) (left, right Producer[T])

	// Next yields the front item.
	Next() (T, bool)

	// NextBack yields the back item.
	NextBack() (T, bool)
}

// Joiner runs two closures and returns once both have completed. Either may
// run on the calling goroutine. A panic in either closure propagates to the
// caller of Join.
type Joiner interface {
	Join(left, right func())

	// NumWorkers returns the degree of parallelism the Joiner can offer.
	NumWorkers() int
}

// Reducer merges the results of two adjacent halves, left first.
type Reducer[R any] func(left, right R) R

// Consumer folds the items of a producer into a result.
type Consumer[T, R any] interface {
	// SplitAt divides the consumer to match a producer split at the same
	// offset.
	SplitAt(at int) (left, right Consumer[T, R], reducer Reducer[R])

	// Consume folds every item of p sequentially.
	Consume(p Producer[T]) R

	// Full reports whether the consumer needs no more items. Bridge stops
	// splitting and consuming once it returns true.
	Full() bool
}
