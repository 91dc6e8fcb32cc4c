package concurrency

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// NewPool returns a pool running at most maxGoroutines tasks at once. The
// first task error cancels the context handed to the remaining tasks, and
// Wait returns that error. A panicking task is re-raised by Wait.
func NewPool(ctx context.Context, maxGoroutines int) *pool.ContextPool {
	return pool.New().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError().
		WithMaxGoroutines(max(maxGoroutines, 1))
}
