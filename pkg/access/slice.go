package access

import "unsafe"

// SliceAccess is the capability over a contiguous slice. Records are addressed
// as base + index*size, so the unchecked accessors perform no bounds check.
//
// A SliceAccess is immutable once built: CloneAccess shares the handle.
type SliceAccess[T any] struct {
	base    unsafe.Pointer
	n       int
	size    uintptr
	binding binding
}

var (
	_ SizedUnsync[int, *int] = (*SliceAccess[int])(nil)
	_ Bound                  = (*SliceAccess[int])(nil)
)

// FromSlice converts s into a capability. The caller must not read or write s
// directly while the capability, or any clone of it, is in use.
func FromSlice[T any](s []T) *SliceAccess[T] {
	var zero T
	return &SliceAccess[T]{
		base: unsafe.Pointer(unsafe.SliceData(s)),
		n:    len(s),
		size: unsafe.Sizeof(zero),
	}
}

func (a *SliceAccess[T]) CloneAccess() Unsync[T, *T] {
	return a
}

func (a *SliceAccess[T]) GetUnchecked(index int) T {
	return *a.at(index)
}

func (a *SliceAccess[T]) GetUncheckedMut(index int) *T {
	return a.at(index)
}

func (a *SliceAccess[T]) InBounds(index int) bool {
	return index >= 0 && index < a.n
}

func (a *SliceAccess[T]) Len() int {
	return a.n
}

func (a *SliceAccess[T]) Alive() bool {
	return a.binding.alive()
}

func (a *SliceAccess[T]) at(index int) *T {
	return (*T)(unsafe.Add(a.base, uintptr(index)*a.size))
}
