package parallel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/openfga/paradis/internal/concurrency"
	"github.com/openfga/paradis/pkg/access"
	"github.com/openfga/paradis/pkg/indices"
	"github.com/openfga/paradis/pkg/telemetry"
)

// ForEachPartition runs every part of p on its own goroutine, at most
// NumWorkers of the configured joiner at once. Within a part, fn sees the
// records in the order of the part's domain. The first error returned by fn
// cancels the parts still running and is returned, wrapped with its part
// number. A panic in fn is re-raised here.
func ForEachPartition[R, M any](ctx context.Context, a access.Unsync[R, M], p *indices.Partition, fn func(part int, m M) error, opts ...Option) error {
	o := newOptions(opts)

	ctx, span := tracer.Start(ctx, "parallel.ForEachPartition", trace.WithAttributes(
		attribute.Int("paradis.parts", p.Len()),
		attribute.Int("paradis.len", p.NumIndices()),
	))
	defer span.End()

	if err := checkBounds(a, p); err != nil {
		o.logger.DebugWithContext(ctx, "rejected partition", zap.Error(err), zap.Int("parts", p.Len()))
		telemetry.TraceError(span, err)
		return err
	}

	pool := concurrency.NewPool(ctx, o.joiner.NumWorkers())
	for k, d := range p.Parts() {
		clone := a.CloneAccess()
		pool.Go(func(ctx context.Context) error {
			for idx := range indices.All(d) {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(k, clone.GetUncheckedMut(idx)); err != nil {
					return fmt.Errorf("part %d: %w", k, err)
				}
			}
			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		telemetry.TraceError(span, err)
		return err
	}

	o.logger.DebugWithContext(ctx, "partition run finished", zap.Int("parts", p.Len()), zap.Int("num_indices", p.NumIndices()))
	return nil
}
