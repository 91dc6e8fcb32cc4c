// Package access defines capabilities for unsynchronized, indexed access to the
// records of a collection.
//
// A capability lets several goroutines read and write records of one backing
// store at the same time without locks or atomics. It does not track which
// indices have been handed out: soundness rests entirely on the caller.
//
// # Safety
//
// An implementation must guarantee that it is sound for multiple goroutines to
// access a single record immutably, provided that no goroutine accesses the same
// record mutably, and that it is sound for multiple goroutines to access
// disjoint records mutably.
//
// The consumer of a capability is responsible for the following:
//
//  1. Concurrent immutable access to the same record from multiple goroutines is
//     sound.
//  2. Concurrent mutable access is sound only if the accessed records are
//     pairwise distinct across all simultaneously live mutable handles, and no
//     record is simultaneously held both mutably and immutably.
//  3. A single goroutine must never hold two live handles to the same record if
//     either of them is mutable, even without concurrency.
//
// Violating these rules is a data race, not a reported error. The checked
// accessors [Get] and [GetMut] exist to validate assumptions in tests and
// during development before switching to the unchecked methods.
package access

import (
	"errors"
	"fmt"
)

// ErrScopeEnded is the panic value of a checked accessor called on a
// capability whose binding [Scope] has ended.
var ErrScopeEnded = errors.New("access: capability used after its scope ended")

// Unsync facilitates unsynchronized access to the records of a collection.
// R is the type of an immutable record and M the type of a mutable record.
//
// Implementations must uphold the safety contract described in the package
// documentation. Every method must be safe to call from several goroutines at
// once.
type Unsync[R, M any] interface {
	// CloneAccess returns a handle aliasing the same storage. The two handles
	// must subsequently be used only to reach disjoint records, or only for
	// concurrent immutable reads of the same record.
	CloneAccess() Unsync[R, M]

	// GetUnchecked returns the immutable record at index. The index must
	// satisfy InBounds.
	GetUnchecked(index int) R

	// GetUncheckedMut returns the mutable record at index. The index must
	// satisfy InBounds, and the caller must hold no other live handle to it.
	GetUncheckedMut(index int) M

	// InBounds reports whether index addresses a record. Valid indices form
	// the contiguous range [0, n) for some n.
	InBounds(index int) bool
}

// Sized is implemented by capabilities that know their record count.
type Sized interface {
	Len() int
}

// SizedUnsync is a capability over a whole collection of known length.
type SizedUnsync[R, M any] interface {
	Unsync[R, M]
	Sized
}

// Bound is implemented by capabilities tied to a [Scope].
type Bound interface {
	// Alive reports whether the binding scope is still open.
	Alive() bool
}

// OutOfBoundsError is the panic value of a checked accessor called with an
// index outside the capability's bounds.
type OutOfBoundsError struct {
	Index int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("access: index %d out of bounds", e.Index)
}

// Get returns the immutable record at index, panicking if the index is out of
// bounds or the capability's scope has ended.
func Get[R, M any](a Unsync[R, M], index int) R {
	check(a, index)
	return a.GetUnchecked(index)
}

// GetMut returns the mutable record at index, panicking if the index is out of
// bounds or the capability's scope has ended.
func GetMut[R, M any](a Unsync[R, M], index int) M {
	check(a, index)
	return a.GetUncheckedMut(index)
}

// Len returns the record count of a when it implements [Sized].
func Len[R, M any](a Unsync[R, M]) (int, bool) {
	if s, ok := a.(Sized); ok {
		return s.Len(), true
	}
	return 0, false
}

func check[R, M any](a Unsync[R, M], index int) {
	if b, ok := a.(Bound); ok && !b.Alive() {
		panic(ErrScopeEnded)
	}
	if !a.InBounds(index) {
		panic(&OutOfBoundsError{Index: index})
	}
}
