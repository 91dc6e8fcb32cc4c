package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/openfga/paradis/pkg/access"
	"github.com/openfga/paradis/pkg/access/dense"
	"github.com/openfga/paradis/pkg/forkjoin"
	"github.com/openfga/paradis/pkg/indices"
	"github.com/openfga/paradis/pkg/logger"
	"github.com/openfga/paradis/pkg/plumbing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestEvenOddFromDisjointIndices(t *testing.T) {
	data := ascending(8)
	a := access.FromSlice(data)

	even, err := FromDisjointIndices[int, *int](a.CloneAccess(), indices.StepRange{Start: 0, End: 8, Step: 2})
	require.NoError(t, err)
	odd, err := FromDisjointIndices[int, *int](a.CloneAccess(), indices.StepRange{Start: 1, End: 8, Step: 2})
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error { return even.ForEach(context.Background(), func(m *int) { *m *= 2 }) })
	g.Go(func() error { return odd.ForEach(context.Background(), func(m *int) { *m *= 4 }) })
	require.NoError(t, g.Wait())

	require.Equal(t, []int{0, 4, 4, 12, 8, 20, 12, 28}, data)
}

func TestDoublingAtEveryGranularity(t *testing.T) {
	const n = 10_000
	expected := ascending(n)
	for i := range expected {
		expected[i] *= 2
	}

	for _, workers := range []int{1, 2, 8, 64} {
		for _, minLen := range []int{0, 1, 2, 7, 100, n, 2 * n} {
			t.Run(fmt.Sprintf("workers=%d/min_len=%d", workers, minLen), func(t *testing.T) {
				data := ascending(n)
				it := FromSlice(data, WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(workers))), WithMinLen(minLen))
				require.Equal(t, n, it.Len())

				require.NoError(t, it.ForEach(context.Background(), func(m *int) { *m *= 2 }))
				if diff := cmp.Diff(expected, data); diff != "" {
					t.Fatalf("mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestEveryRecordVisitedOnce(t *testing.T) {
	data := make([]int, 4097)
	it := FromSlice(data, WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(16))))

	require.NoError(t, it.ForEach(context.Background(), func(m *int) { *m++ }))
	for i, v := range data {
		require.Equal(t, 1, v, "index %d", i)
	}
}

func TestPermutationDomain(t *testing.T) {
	data := []int{0, 0, 0, 0}
	it, err := FromDisjointIndices[int, *int](access.FromSlice(data), indices.MustPermutationOf(3, 1, 2))
	require.NoError(t, err)
	require.Equal(t, 3, it.Len())

	var visited atomic.Int64
	require.NoError(t, it.ForEach(context.Background(), func(m *int) {
		visited.Add(1)
		*m = 7
	}))
	require.Equal(t, int64(3), visited.Load())
	require.Equal(t, []int{0, 7, 7, 7}, data)
}

func TestFromDisjointIndicesValidation(t *testing.T) {
	data := make([]int, 4)

	for _, tc := range []struct {
		name   string
		domain indices.Domain
		err    error
	}{
		{name: "fits", domain: indices.Range{Start: 0, End: 4}},
		{name: "empty", domain: indices.Range{Start: 9, End: 9}},
		{name: "past_end", domain: indices.Range{Start: 0, End: 5}, err: ErrOutOfBounds},
		{name: "negative", domain: indices.MustPermutationOf(-1, 2), err: ErrOutOfBounds},
		{name: "sparse_past_end", domain: indices.StepRange{Start: 1, End: 6, Step: 4}, err: ErrOutOfBounds},
		{name: "max_int", domain: indices.MustPermutationOf(math.MaxInt), err: ErrOutOfBounds},
		{name: "fits_and_max_int", domain: indices.MustPermutationOf(0, math.MaxInt), err: ErrOutOfBounds},
		{name: "full_int_range", domain: indices.Range{Start: math.MinInt, End: math.MaxInt}, err: ErrOutOfBounds},
		{name: "wide_step", domain: indices.StepRange{Start: 0, End: math.MaxInt, Step: 2}, err: ErrOutOfBounds},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l, logs := logger.NewObserverLogger("debug")
			it, err := FromDisjointIndices[int, *int](access.FromSlice(data), tc.domain, WithLogger(l))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.Nil(t, it)
				require.Equal(t, 1, logs.FilterMessage("rejected domain").Len())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.domain.NumIndices(), it.Len())
			require.Zero(t, logs.Len())
		})
	}
}

func TestFromDisjointIndicesEndedScope(t *testing.T) {
	scope := access.NewScope()
	a := access.ScopedSlice(scope, make([]int, 4))
	scope.End()

	_, err := FromDisjointIndices[int, *int](a, indices.Range{Start: 0, End: 4})
	require.ErrorIs(t, err, access.ErrScopeEnded)
}

func TestForEachCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := ascending(100)
	err := FromSlice(data).ForEach(ctx, func(m *int) { *m = -1 })
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, ascending(100), data)
}

func TestForEachCancelledAfterLastRecord(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data := ascending(100)
	err := FromSlice(data, WithJoiner(plumbing.SequentialJoiner{})).ForEach(ctx, func(m *int) {
		if *m == 99 {
			cancel()
		}
		*m = -1
	})
	require.NoError(t, err)
	require.Equal(t, -1, data[99])
}

func TestForEachCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	data := ascending(100)
	err := FromSlice(data, WithJoiner(plumbing.SequentialJoiner{})).ForEach(ctx, func(m *int) {
		if *m == 10 {
			cancel()
		}
		*m = -1
	})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, -1, data[10])
	require.Equal(t, 11, data[11])
	require.Equal(t, 99, data[99])
}

func TestForEachPropagatesPanic(t *testing.T) {
	data := ascending(1000)
	it := FromSlice(data, WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(4))))

	require.Panics(t, func() {
		_ = it.ForEach(context.Background(), func(m *int) {
			if *m == 777 {
				panic("boom")
			}
		})
	})
}

func TestTryForEach(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("stops_after_failure", func(t *testing.T) {
		data := ascending(10_000)
		it := FromSlice(data, WithJoiner(plumbing.SequentialJoiner{}))

		err := it.TryForEach(context.Background(), func(m *int) error {
			if *m == 500 {
				return errBoom
			}
			*m = -1
			return nil
		})
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, -1, data[499])
		require.Equal(t, 500, data[500])
		require.Equal(t, 9999, data[9999])
	})

	t.Run("leftmost_error_wins", func(t *testing.T) {
		errLeft := errors.New("left")
		errRight := errors.New("right")
		it := FromSlice(ascending(1000), WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(8))))

		err := it.TryForEach(context.Background(), func(m *int) error {
			switch *m {
			case 0:
				return errLeft
			case 999:
				return errRight
			}
			return nil
		})
		require.Error(t, err)
		if !errors.Is(err, errLeft) {
			// the right leaf may only win if the left leaf never started
			require.ErrorIs(t, err, errRight)
		}
	})

	t.Run("success", func(t *testing.T) {
		data := ascending(100)
		require.NoError(t, FromSlice(data).TryForEach(context.Background(), func(m *int) error {
			*m++
			return nil
		}))
		require.Equal(t, 100, data[99])
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := FromSlice(ascending(10)).TryForEach(ctx, func(*int) error { return nil })
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestReduce(t *testing.T) {
	for _, workers := range []int{1, 3, 16} {
		data := ascending(101)
		it := FromSlice(data, WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(workers))))

		sum := Reduce(it,
			func() int { return 0 },
			func(acc int, m *int) int { return acc + *m },
			func(l, r int) int { return l + r },
		)
		require.Equal(t, 5050, sum)

		order := Reduce(it,
			func() []int { return nil },
			func(acc []int, m *int) []int { return append(acc, *m) },
			func(l, r []int) []int { return append(l, r...) },
		)
		require.Equal(t, ascending(101), order)
	}
}

func TestWithProducer(t *testing.T) {
	data := ascending(6)
	it, err := FromDisjointIndices[int, *int](access.FromSlice(data), indices.StepRange{Start: 0, End: 6, Step: 3})
	require.NoError(t, err)

	it.WithProducer(func(p plumbing.Producer[*int]) {
		require.Equal(t, 2, p.Len())
		for m, ok := p.Next(); ok; m, ok = p.Next() {
			*m = 100
		}
	})
	require.Equal(t, []int{100, 1, 2, 100, 4, 5}, data)
}

func TestChunkRecords(t *testing.T) {
	data := make([]int, 10)
	it := FromAccess[[]int, []int](access.Chunks(data, 3), WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(4))))
	require.Equal(t, 3, it.Len())

	var next atomic.Int64
	require.NoError(t, it.ForEach(context.Background(), func(chunk []int) {
		v := int(next.Add(1))
		for i := range chunk {
			chunk[i] = v
		}
	}))

	for c := range 3 {
		chunk := data[c*3 : c*3+3]
		require.Equal(t, chunk[0], chunk[1])
		require.Equal(t, chunk[0], chunk[2])
		require.NotZero(t, chunk[0])
	}
	require.Zero(t, data[9])
}

func TestDenseColumnDoubling(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})
	it := FromAccess[mat.Vector, *mat.VecDense](dense.Columns(m), WithJoiner(forkjoin.New(forkjoin.WithNumWorkers(4))))
	require.NoError(t, it.ForEach(context.Background(), func(col *mat.VecDense) {
		col.ScaleVec(2, col)
	}))

	require.Equal(t, []float64{
		2, 4, 6, 8,
		10, 12, 14, 16,
		18, 20, 22, 24,
	}, m.RawMatrix().Data)
}

func TestForEachRecordsSpans(t *testing.T) {
	spanRecorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
	})

	require.NoError(t, FromSlice(ascending(5)).ForEach(context.Background(), func(*int) {}))
	errBoom := errors.New("boom")
	require.Error(t, FromSlice(ascending(5)).TryForEach(context.Background(), func(*int) error { return errBoom }))

	spans := spanRecorder.Ended()
	require.Len(t, spans, 2)
	require.Equal(t, "parallel.ForEach", spans[0].Name())
	require.Equal(t, codes.Unset, spans[0].Status().Code)
	require.Equal(t, "parallel.TryForEach", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)

	var length int64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "paradis.len" {
			length = kv.Value.AsInt64()
		}
	}
	require.Equal(t, int64(5), length)
}
