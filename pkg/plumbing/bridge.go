package plumbing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	splitCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "paradis",
		Name:      "bridge_splits_total",
		Help:      "The total number of producer splits performed by Bridge.",
	})

	leafLengthHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "paradis",
		Name:      "bridge_leaf_length",
		Help:      "The number of items in each producer consumed sequentially by Bridge.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 12),
	})
)

// Bridge drives p into c, splitting recursively and forking halves through j.
// No half handed to a leaf has fewer than minLen items unless p itself is
// shorter.
func Bridge[T, R any](j Joiner, p Producer[T], c Consumer[T, R], minLen int) R {
	return bridge(j, newSplitter(j.NumWorkers(), minLen), p, c)
}

func bridge[T, R any](j Joiner, s splitter, p Producer[T], c Consumer[T, R]) R {
	n := p.Len()
	if c.Full() || !s.trySplit(n) {
		leafLengthHistogram.Observe(float64(n))
		return c.Consume(p)
	}

	mid := n / 2
	lp, rp := p.SplitAt(mid)
	lc, rc, reduce := c.SplitAt(mid)
	splitCounter.Inc()

	var left, right R
	j.Join(
		func() { left = bridge(j, s, lp, lc) },
		func() { right = bridge(j, s, rp, rc) },
	)
	return reduce(left, right)
}

// splitter decides how deep Bridge bisects. It starts with one split per
// worker and halves the budget at each level, so the tree has roughly twice as
// many leaves as workers, and never produces halves shorter than minLen.
type splitter struct {
	splits int
	minLen int
}

func newSplitter(workers, minLen int) splitter {
	return splitter{splits: max(workers, 1), minLen: max(minLen, 1)}
}

func (s *splitter) trySplit(n int) bool {
	if n/2 < s.minLen || s.splits == 0 {
		return false
	}
	s.splits /= 2
	return true
}

// SequentialJoiner runs both closures on the calling goroutine, left first.
type SequentialJoiner struct{}

var _ Joiner = SequentialJoiner{}

func (SequentialJoiner) Join(left, right func()) {
	left()
	right()
}

func (SequentialJoiner) NumWorkers() int {
	return 1
}
