package access

import "unsafe"

// ChunkAccess addresses a slice as consecutive fixed-size chunks: record i is
// the sub-slice [i*size, (i+1)*size). A trailing partial chunk is not
// addressable. This is the layout of a column-major block of fixed height.
//
// Go cannot express a read-only slice, so the immutable record is a slice as
// well; callers must not write through it.
type ChunkAccess[T any] struct {
	base    unsafe.Pointer
	n       int
	chunk   int
	stride  uintptr
	binding binding
}

var _ SizedUnsync[[]int, []int] = (*ChunkAccess[int])(nil)

// Chunks converts s into a capability over chunks of the given size. It panics
// if size is not positive.
func Chunks[T any](s []T, size int) *ChunkAccess[T] {
	if size <= 0 {
		panic("access: chunk size must be positive")
	}
	var zero T
	return &ChunkAccess[T]{
		base:   unsafe.Pointer(unsafe.SliceData(s)),
		n:      len(s) / size,
		chunk:  size,
		stride: uintptr(size) * unsafe.Sizeof(zero),
	}
}

func (a *ChunkAccess[T]) CloneAccess() Unsync[[]T, []T] {
	return a
}

func (a *ChunkAccess[T]) GetUnchecked(index int) []T {
	return a.at(index)
}

func (a *ChunkAccess[T]) GetUncheckedMut(index int) []T {
	return a.at(index)
}

func (a *ChunkAccess[T]) InBounds(index int) bool {
	return index >= 0 && index < a.n
}

// Len returns the number of whole chunks.
func (a *ChunkAccess[T]) Len() int {
	return a.n
}

// ChunkSize returns the number of elements per record.
func (a *ChunkAccess[T]) ChunkSize() int {
	return a.chunk
}

func (a *ChunkAccess[T]) Alive() bool {
	return a.binding.alive()
}

func (a *ChunkAccess[T]) at(index int) []T {
	p := (*T)(unsafe.Add(a.base, uintptr(index)*a.stride))
	return unsafe.Slice(p, a.chunk)
}
