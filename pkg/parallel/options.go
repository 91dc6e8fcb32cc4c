package parallel

import (
	"sync"

	"github.com/openfga/paradis/pkg/forkjoin"
	"github.com/openfga/paradis/pkg/logger"
	"github.com/openfga/paradis/pkg/plumbing"
)

// DefaultMinLen is the default lower bound on the number of records a leaf
// processes sequentially.
const DefaultMinLen = 1

var defaultJoiner = sync.OnceValue(func() *forkjoin.Pool {
	return forkjoin.New()
})

type options struct {
	joiner plumbing.Joiner
	minLen int
	logger logger.Logger
}

type Option func(*options)

// WithJoiner selects the engine running the two halves of every split. It
// defaults to a process-wide [forkjoin.Pool] sized to GOMAXPROCS.
func WithJoiner(j plumbing.Joiner) Option {
	return func(o *options) {
		o.joiner = j
	}
}

// WithMinLen stops splitting once a half would hold fewer than n records.
func WithMinLen(n int) Option {
	return func(o *options) {
		o.minLen = n
	}
}

func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{
		minLen: DefaultMinLen,
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.joiner == nil {
		o.joiner = defaultJoiner()
	}
	return o
}
