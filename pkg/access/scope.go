package access

import "sync/atomic"

// Scope bounds the lifetime of the capabilities created through it. Ending a
// scope invalidates every capability bound to it, clones included. A scope may
// be reused after End: capabilities created afterwards belong to the new
// generation.
//
// Only the checked accessors consult the scope.
type Scope struct {
	generation atomic.Uint64
}

// NewScope returns an open scope.
func NewScope() *Scope {
	return &Scope{}
}

// End closes the current generation of the scope.
func (s *Scope) End() {
	s.generation.Add(1)
}

func (s *Scope) bind() binding {
	return binding{scope: s, generation: s.generation.Load()}
}

// binding ties a capability to one generation of a Scope. The zero value is
// never expired.
type binding struct {
	scope      *Scope
	generation uint64
}

func (b binding) alive() bool {
	return b.scope == nil || b.scope.generation.Load() == b.generation
}

// ScopedSlice returns a capability over s bound to the scope.
func ScopedSlice[T any](scope *Scope, s []T) *SliceAccess[T] {
	a := FromSlice(s)
	a.binding = scope.bind()
	return a
}

// ScopedChunks returns a chunk capability over s bound to the scope.
func ScopedChunks[T any](scope *Scope, s []T, size int) *ChunkAccess[T] {
	a := Chunks(s, size)
	a.binding = scope.bind()
	return a
}
