package shadercache

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSharedZeroValue(t *testing.T) {
	var s Shared[*mockShaderModule]

	if s.Valid() {
		t.Error("zero handle should not be valid")
	}
	if s.Raw() != nil {
		t.Error("zero handle Raw() should return the zero value")
	}
	if s.Refs() != 0 {
		t.Errorf("zero handle Refs() = %d, want 0", s.Refs())
	}
	// Must not panic.
	s.Retain()
	s.Release()
}

func TestSharedRetainRelease(t *testing.T) {
	var destroyed atomic.Int32
	module := &mockShaderModule{label: "m"}

	s := newShared(module, func(*mockShaderModule) { destroyed.Add(1) })
	if !s.Valid() {
		t.Fatal("new handle should be valid")
	}
	if s.Raw() != module {
		t.Error("Raw() should return the owned resource")
	}
	if s.Refs() != 1 {
		t.Errorf("Refs() = %d, want 1", s.Refs())
	}

	c := s.Retain()
	if c.Raw() != module {
		t.Error("retained copy should share the resource")
	}
	if s.Refs() != 2 {
		t.Errorf("Refs() after Retain = %d, want 2", s.Refs())
	}

	c.Release()
	if destroyed.Load() != 0 {
		t.Error("resource destroyed while a reference remains")
	}

	s.Release()
	if destroyed.Load() != 1 {
		t.Errorf("destroy ran %d times, want exactly once", destroyed.Load())
	}
}

func TestSharedConcurrentOwnership(t *testing.T) {
	const owners = 64

	var destroyed atomic.Int32
	s := newShared(&mockBuffer{}, func(*mockBuffer) { destroyed.Add(1) })

	var wg sync.WaitGroup
	for range owners {
		c := s.Retain()
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Release()
		}()
	}
	wg.Wait()

	if destroyed.Load() != 0 {
		t.Error("resource destroyed while the original reference remains")
	}
	s.Release()
	if destroyed.Load() != 1 {
		t.Errorf("destroy ran %d times, want exactly once", destroyed.Load())
	}
}
