package shadercache

import "sync/atomic"

// Shared is an atomic reference-counted handle to a GPU resource.
//
// Compiled shader modules and initializer buffers are owned jointly by the
// module set and every front object that was handed a copy; owners span
// goroutines, so the count is atomic. Copies obtained through Retain share
// the same underlying resource; the last Release destroys it.
//
// The zero value is an empty handle: Valid reports false, Raw returns the
// zero T, and Retain/Release are no-ops.
type Shared[T any] struct {
	state *sharedState[T]
}

type sharedState[T any] struct {
	refs    atomic.Int64
	value   T
	destroy func(T)
}

// newShared creates a handle owning value with an initial count of one.
// destroy runs exactly once, when the count drops to zero.
func newShared[T any](value T, destroy func(T)) Shared[T] {
	st := &sharedState[T]{value: value, destroy: destroy}
	st.refs.Store(1)
	return Shared[T]{state: st}
}

// Valid reports whether the handle refers to a resource.
func (s Shared[T]) Valid() bool {
	return s.state != nil
}

// Raw returns the underlying resource, or the zero T for an empty handle.
//
// The caller must hold a reference for as long as the returned value is in
// use.
func (s Shared[T]) Raw() T {
	if s.state == nil {
		var zero T
		return zero
	}
	return s.state.value
}

// Retain increments the reference count and returns a handle sharing the
// same resource.
func (s Shared[T]) Retain() Shared[T] {
	if s.state != nil {
		s.state.refs.Add(1)
	}
	return s
}

// Release decrements the reference count. When the count reaches zero the
// resource is destroyed. Releasing an empty handle is a no-op.
func (s Shared[T]) Release() {
	if s.state == nil {
		return
	}
	if s.state.refs.Add(-1) == 0 {
		if s.state.destroy != nil {
			s.state.destroy(s.state.value)
		}
	}
}

// Refs returns the current reference count. Zero for an empty handle.
//
// The value is a snapshot; under concurrent use it may be stale by the time
// the caller observes it.
func (s Shared[T]) Refs() int64 {
	if s.state == nil {
		return 0
	}
	return s.state.refs.Load()
}
