package shadercache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical encoding so store files are deterministic for
// identical contents.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("shadercache: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// storeVersion is the on-disk format version. Files with a different
// version are discarded on load.
const storeVersion = 1

// storeFile is the CBOR-serialized layout of a store file.
type storeFile struct {
	Version uint32
	Entries []storeEntry
}

// storeEntry is one persisted translation result.
type storeEntry struct {
	Stage       uint8
	Digest      []byte
	SPIRV       []uint32
	Initializer []byte `cbor:",omitempty"`
}

// Store persists translation results between runs, keyed by shader
// identity, so a repeated run skips translation entirely.
//
// A Store is safe for concurrent use. Lookups and puts operate on an
// in-memory table; Save writes the table to disk atomically (temp file plus
// rename). Corrupt or version-mismatched files are discarded on open
// rather than failing: the store is an accelerator, never an authority.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[Identity]CompileResult
	dirty   bool
	closed  bool
}

// OpenStore opens or creates a store backed by the file at path.
//
// A missing file yields an empty store. An unreadable, corrupt, or
// version-mismatched file yields an empty store with a logged warning; the
// next Save replaces it.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("shadercache: store path is empty")
	}

	s := &Store{
		path:    path,
		entries: make(map[Identity]CompileResult),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("shadercache: read store %s: %w", path, err)
	}

	var file storeFile
	if err := cbor.Unmarshal(data, &file); err != nil {
		Logger().Warn("discarding corrupt shader store", "path", path, "error", err)
		return s, nil
	}
	if file.Version != storeVersion {
		Logger().Warn("discarding shader store with unknown version",
			"path", path, "version", file.Version)
		return s, nil
	}

	for i := range file.Entries {
		e := &file.Entries[i]
		if len(e.Digest) != DigestSize || !Stage(e.Stage).Valid() {
			Logger().Warn("skipping malformed shader store entry", "path", path)
			continue
		}
		var digest Digest
		copy(digest[:], e.Digest)
		s.entries[IdentityOf(Stage(e.Stage), digest)] = CompileResult{
			SPIRV:           e.SPIRV,
			InitializerData: e.Initializer,
		}
	}

	Logger().Debug("shader store opened", "path", path, "entries", len(s.entries))
	return s, nil
}

// Lookup returns the persisted translation result for id, if present. The
// returned slices are copies; callers may not mutate store contents.
func (s *Store) Lookup(id Identity) (CompileResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.entries[id]
	if !ok {
		return CompileResult{}, false
	}
	return CompileResult{
		SPIRV:           slices.Clone(res.SPIRV),
		InitializerData: slices.Clone(res.InitializerData),
	}, true
}

// Put records a translation result for id. The result is copied. Put only
// updates the in-memory table; call Save to write it out.
func (s *Store) Put(id Identity, res CompileResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	s.entries[id] = CompileResult{
		SPIRV:           slices.Clone(res.SPIRV),
		InitializerData: slices.Clone(res.InitializerData),
	}
	s.dirty = true
	return nil
}

// Len returns the number of persisted entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Save writes the store to disk if it changed since the last save. The
// write is atomic: a temp file in the same directory is renamed over the
// target path.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if !s.dirty {
		return nil
	}

	file := storeFile{Version: storeVersion}
	file.Entries = make([]storeEntry, 0, len(s.entries))
	for id, res := range s.entries {
		digest := id.Digest()
		file.Entries = append(file.Entries, storeEntry{
			Stage:       uint8(id.Stage()),
			Digest:      digest[:],
			SPIRV:       res.SPIRV,
			Initializer: res.InitializerData,
		})
	}
	// Deterministic file contents regardless of map order.
	slices.SortFunc(file.Entries, func(a, b storeEntry) int {
		if a.Stage != b.Stage {
			return int(a.Stage) - int(b.Stage)
		}
		return slices.Compare(a.Digest, b.Digest)
	})

	data, err := cborEncMode.Marshal(&file)
	if err != nil {
		return fmt.Errorf("shadercache: marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".shadercache-*")
	if err != nil {
		return fmt.Errorf("shadercache: write store: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("shadercache: write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("shadercache: write store: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("shadercache: write store: %w", err)
	}

	s.dirty = false
	Logger().Debug("shader store saved", "path", s.path, "entries", len(s.entries))
	return nil
}

// Close saves pending changes and marks the store closed. Further Puts
// fail with [ErrStoreClosed]; Lookups continue to work.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	err := s.saveLocked()
	s.closed = true
	return err
}
