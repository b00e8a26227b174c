package shadercache

import (
	"sync"
	"sync/atomic"
)

// ModuleSet caches translation results by shader identity.
//
// Some applications submit the same shader many times, so translation
// results are cached and shared rather than rebuilt. The set is safe for
// arbitrarily many concurrent callers and guarantees that a given identity
// is translated at most once over the set's lifetime.
//
// One mutex spans the whole lookup-or-insert-and-compile sequence for all
// identities. That serializes unrelated translations, which is acceptable
// because shader translation is a cold-path, load-time operation; the
// trivially correct exclusivity is worth more than parallel compiles.
// Sharding by [Identity.BucketHash] with a per-shard compute-once section
// is the known optimization path if that assumption ever breaks.
//
// There is no eviction and no expiry: entries persist until Release,
// bounded by the finite number of distinct shaders an application submits.
// Failed translations are never cached; an identical resubmission retries.
type ModuleSet struct {
	mu      sync.Mutex
	modules map[Identity]CommonShader

	// Statistics (atomic for lock-free reads).
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewModuleSet creates an empty module set.
func NewModuleSet() *ModuleSet {
	return &ModuleSet{
		modules: make(map[Identity]CommonShader),
	}
}

// GetOrCompile returns the cached record for (stage, bytecode), translating
// on first sight.
//
// The returned record is a retained copy: it shares ownership of the
// underlying program and buffer with the cache entry, and the caller must
// Release it. Concurrent callers with the same identity either observe the
// completed record or block until it exists; the compiler runs exactly once
// per identity. A compiler failure leaves no entry behind and is returned
// to every caller it affects.
func (s *ModuleSet) GetOrCompile(
	device *Device,
	cfg *CompileConfig,
	bytecode []byte,
	stage Stage,
) (CommonShader, error) {
	id := NewIdentity(stage, bytecode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if module, ok := s.modules[id]; ok {
		s.hits.Add(1)
		Logger().Debug("shader cache hit", "shader", module.Name())
		return module.retain(), nil
	}

	// Translate under the lock so the identity is compiled at most once.
	module, err := newCommonShader(device, id, cfg, bytecode)
	if err != nil {
		return CommonShader{}, err
	}

	s.modules[id] = module
	s.misses.Add(1)
	Logger().Debug("shader compiled", "shader", module.Name())

	return module.retain(), nil
}

// Lookup returns a retained copy of the record for id, without compiling.
func (s *ModuleSet) Lookup(id Identity) (CommonShader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	module, ok := s.modules[id]
	if !ok {
		return CommonShader{}, false
	}
	return module.retain(), true
}

// Len returns the number of cached records.
func (s *ModuleSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.modules)
}

// Stats returns the cache hit and miss counts.
func (s *ModuleSet) Stats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// Release drops the cache's reference on every record and empties the set.
// Records still shared with live front objects survive until those objects
// release them.
func (s *ModuleSet) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, module := range s.modules {
		module.Release()
	}
	s.modules = make(map[Identity]CommonShader)
}
