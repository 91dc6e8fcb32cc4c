package concurrency

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestNewPool(t *testing.T) {
	t.Cleanup(func() {
		goleak.VerifyNone(t)
	})

	t.Run("runs_every_task", func(t *testing.T) {
		var sum atomic.Int64
		p := NewPool(context.Background(), 3)
		for i := range 10 {
			p.Go(func(context.Context) error {
				sum.Add(int64(i))
				return nil
			})
		}
		require.NoError(t, p.Wait())
		require.Equal(t, int64(45), sum.Load())
	})

	t.Run("first_error_cancels_the_rest", func(t *testing.T) {
		errBoom := errors.New("boom")
		p := NewPool(context.Background(), 1)
		p.Go(func(context.Context) error { return errBoom })
		p.Go(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		})
		require.ErrorIs(t, p.Wait(), errBoom)
	})

	t.Run("non_positive_limit", func(t *testing.T) {
		var ran atomic.Bool
		p := NewPool(context.Background(), 0)
		p.Go(func(context.Context) error {
			ran.Store(true)
			return nil
		})
		require.NoError(t, p.Wait())
		require.True(t, ran.Load())
	})

	t.Run("panics_reach_wait", func(t *testing.T) {
		p := NewPool(context.Background(), 2)
		p.Go(func(context.Context) error { panic("boom") })
		require.Panics(t, func() { _ = p.Wait() })
	})
}
