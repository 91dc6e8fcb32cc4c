package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/openfga/paradis/internal/config"
	"github.com/openfga/paradis/pkg/access"
	"github.com/openfga/paradis/pkg/access/dense"
	"github.com/openfga/paradis/pkg/indices"
	"github.com/openfga/paradis/pkg/parallel"
)

// ErrVerification is returned when a scenario leaves data different from the
// sequential computation of the same workload.
var ErrVerification = errors.New("result verification failed")

// scenario runs a workload and returns the number of records it touched per
// iteration.
type scenario func(ctx context.Context, cfg *config.BenchConfig, opts []parallel.Option) (int, error)

var scenarios = map[string]scenario{
	"double":      doubleScenario,
	"even-odd":    evenOddScenario,
	"columns":     columnsScenario,
	"permutation": permutationScenario,
}

// doubleScenario doubles every element of a slice.
func doubleScenario(ctx context.Context, cfg *config.BenchConfig, opts []parallel.Option) (int, error) {
	data := ascending(cfg.Size)
	it := parallel.FromSlice(data, opts...)

	for range cfg.Iterations {
		if err := it.ForEach(ctx, func(m *int) { *m *= 2 }); err != nil {
			return 0, err
		}
	}

	for i, v := range data {
		if v != i<<cfg.Iterations {
			return 0, fmt.Errorf("%w: element %d is %d", ErrVerification, i, v)
		}
	}
	return len(data), nil
}

// evenOddScenario multiplies even positions by 2 and odd positions by 4, each
// class on its own goroutine.
func evenOddScenario(ctx context.Context, cfg *config.BenchConfig, opts []parallel.Option) (int, error) {
	data := ascending(cfg.Size)
	a := access.FromSlice(data)
	p := indices.Interleaved(indices.Range{Start: 0, End: cfg.Size}, 2)

	for range cfg.Iterations {
		err := parallel.ForEachPartition(ctx, a.CloneAccess(), p, func(part int, m *int) error {
			*m *= 2 << part
			return nil
		}, opts...)
		if err != nil {
			return 0, err
		}
	}

	for i, v := range data {
		want := i
		for range cfg.Iterations {
			want *= 2 << (i % 2)
		}
		if v != want {
			return 0, fmt.Errorf("%w: element %d is %d, want %d", ErrVerification, i, v, want)
		}
	}
	return len(data), nil
}

// columnsScenario doubles every column of a row-major matrix in parallel.
func columnsScenario(ctx context.Context, cfg *config.BenchConfig, opts []parallel.Option) (int, error) {
	if cfg.Rows == 0 || cfg.Cols == 0 {
		return 0, nil
	}

	values := make([]float64, cfg.Rows*cfg.Cols)
	for i := range values {
		values[i] = float64(i)
	}
	m := mat.NewDense(cfg.Rows, cfg.Cols, values)
	it := parallel.FromAccess[mat.Vector, *mat.VecDense](dense.Columns(m), opts...)

	for range cfg.Iterations {
		if err := it.ForEach(ctx, func(col *mat.VecDense) { col.ScaleVec(2, col) }); err != nil {
			return 0, err
		}
	}

	scale := float64(uint64(1) << cfg.Iterations)
	for i, v := range m.RawMatrix().Data {
		if v != float64(i)*scale {
			return 0, fmt.Errorf("%w: element %d is %v", ErrVerification, i, v)
		}
	}
	return cfg.Cols, nil
}

// permutationScenario increments every element through a random permutation
// of its indices.
func permutationScenario(ctx context.Context, cfg *config.BenchConfig, opts []parallel.Option) (int, error) {
	data := make([]int, cfg.Size)
	perm, err := indices.PermutationOf(rand.Perm(cfg.Size)...)
	if err != nil {
		return 0, err
	}

	it, err := parallel.FromDisjointIndices[int, *int](access.FromSlice(data), perm, opts...)
	if err != nil {
		return 0, err
	}

	for range cfg.Iterations {
		if err := it.ForEach(ctx, func(m *int) { *m++ }); err != nil {
			return 0, err
		}
	}

	for i, v := range data {
		if v != cfg.Iterations {
			return 0, fmt.Errorf("%w: element %d visited %d times", ErrVerification, i, v)
		}
	}
	return len(data), nil
}

func ascending(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
