// Package forkjoin provides a bounded fork-join [plumbing.Joiner].
//
// A Pool forks the right closure of a Join onto a new goroutine only when one
// of its numWorkers-1 spare slots is free, and otherwise runs both closures on
// the caller. Join never blocks waiting for a slot, so nested joins cannot
// deadlock.
package forkjoin

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/openfga/paradis/pkg/logger"
	"github.com/openfga/paradis/pkg/plumbing"
)

var joinCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "paradis",
	Name:      "forkjoin_joins_total",
	Help:      "The total number of joins performed by fork-join pools, labeled by whether the right closure was forked or run inline.",
}, []string{"mode"})

const (
	modeForked = "forked"
	modeInline = "inline"
)

type Pool struct {
	numWorkers int
	spare      *semaphore.Weighted
	logger     logger.Logger
}

var _ plumbing.Joiner = (*Pool)(nil)

type PoolOption func(*Pool)

// WithNumWorkers bounds the number of goroutines executing closures at once.
// Values below 1 are treated as 1.
func WithNumWorkers(n int) PoolOption {
	return func(p *Pool) {
		p.numWorkers = n
	}
}

func WithLogger(l logger.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = l
	}
}

// New returns a Pool sized to GOMAXPROCS unless configured otherwise.
func New(opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers: runtime.GOMAXPROCS(0),
		logger:     logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.numWorkers = max(p.numWorkers, 1)
	p.spare = semaphore.NewWeighted(int64(p.numWorkers - 1))

	p.logger.Debug("fork-join pool created", zap.Int("workers", p.numWorkers))
	return p
}

// Join runs left on the calling goroutine and right on a spare worker if one
// is free. If either closure panics, the panic is re-raised on the caller
// after both have finished.
func (p *Pool) Join(left, right func()) {
	if !p.spare.TryAcquire(1) {
		joinCounter.WithLabelValues(modeInline).Inc()
		left()
		right()
		return
	}
	joinCounter.WithLabelValues(modeForked).Inc()

	var pc panics.Catcher
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer p.spare.Release(1)
		pc.Try(right)
	}()

	pc.Try(left)
	<-done
	pc.Repanic()
}

func (p *Pool) NumWorkers() int {
	return p.numWorkers
}
