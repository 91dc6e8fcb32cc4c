// Package dense provides capabilities over the rows and columns of a gonum
// dense matrix, so that distinct rows or columns can be mutated in parallel.
package dense

import (
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/openfga/paradis/pkg/access"
)

// ColumnAccess addresses the columns of a *mat.Dense. Column j starts at
// offset j of the backing data and advances by the matrix stride. The mutable
// record is a *mat.VecDense aliasing the matrix storage.
type ColumnAccess struct {
	raw blas64.General
}

// RowAccess addresses the rows of a *mat.Dense. Row i is the contiguous block
// starting at offset i*stride.
type RowAccess struct {
	raw blas64.General
}

var (
	_ access.SizedUnsync[mat.Vector, *mat.VecDense] = (*ColumnAccess)(nil)
	_ access.SizedUnsync[mat.Vector, *mat.VecDense] = (*RowAccess)(nil)
)

// Columns converts m into a column capability. The caller must not use m
// directly while the capability is in use.
func Columns(m *mat.Dense) *ColumnAccess {
	return &ColumnAccess{raw: m.RawMatrix()}
}

func (a *ColumnAccess) CloneAccess() access.Unsync[mat.Vector, *mat.VecDense] {
	return a
}

func (a *ColumnAccess) GetUnchecked(index int) mat.Vector {
	return a.column(index)
}

func (a *ColumnAccess) GetUncheckedMut(index int) *mat.VecDense {
	return a.column(index)
}

func (a *ColumnAccess) InBounds(index int) bool {
	return index >= 0 && index < a.raw.Cols
}

func (a *ColumnAccess) Len() int {
	return a.raw.Cols
}

func (a *ColumnAccess) column(j int) *mat.VecDense {
	rows, stride := a.raw.Rows, a.raw.Stride
	var v mat.VecDense
	v.SetRawVector(blas64.Vector{
		N:    rows,
		Inc:  stride,
		Data: a.raw.Data[j : j+(rows-1)*stride+1],
	})
	return &v
}

// Rows converts m into a row capability. The caller must not use m directly
// while the capability is in use.
func Rows(m *mat.Dense) *RowAccess {
	return &RowAccess{raw: m.RawMatrix()}
}

func (a *RowAccess) CloneAccess() access.Unsync[mat.Vector, *mat.VecDense] {
	return a
}

func (a *RowAccess) GetUnchecked(index int) mat.Vector {
	return a.row(index)
}

func (a *RowAccess) GetUncheckedMut(index int) *mat.VecDense {
	return a.row(index)
}

func (a *RowAccess) InBounds(index int) bool {
	return index >= 0 && index < a.raw.Rows
}

func (a *RowAccess) Len() int {
	return a.raw.Rows
}

func (a *RowAccess) row(i int) *mat.VecDense {
	offset := i * a.raw.Stride
	return mat.NewVecDense(a.raw.Cols, a.raw.Data[offset:offset+a.raw.Cols])
}
