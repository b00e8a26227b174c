package shadercache

import (
	"crypto/sha1" //nolint:gosec // G505: content fingerprint, not authentication
	"encoding/hex"
	"hash/fnv"
)

// DigestSize is the size in bytes of a shader content digest.
const DigestSize = sha1.Size

// Digest is the SHA-1 hash of a shader's raw bytecode. It serves as a
// collision-resistant content fingerprint, not as a security primitive.
type Digest [DigestSize]byte

// String returns the digest rendered as lowercase hexadecimal.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Identity uniquely names a submitted shader program for caching purposes.
//
// An Identity is the pair of the pipeline stage and the content digest of
// the raw bytecode. It is an immutable comparable value: two identities are
// equal iff both fields are equal, so byte-identical bytecode submitted for
// two different stages is tracked as two independent cache entries.
type Identity struct {
	stage  Stage
	digest Digest
}

// NewIdentity computes the identity of a shader submission.
//
// The digest covers exactly the bytecode bytes; the stage is not fed into
// the digest and only participates in equality and bucket hashing.
func NewIdentity(stage Stage, bytecode []byte) Identity {
	return Identity{
		stage:  stage,
		digest: sha1.Sum(bytecode), //nolint:gosec // G401: content fingerprint
	}
}

// IdentityOf reconstructs an identity from a previously computed digest.
// Used by the persistent store when loading entries from disk.
func IdentityOf(stage Stage, digest Digest) Identity {
	return Identity{stage: stage, digest: digest}
}

// Stage returns the pipeline stage of the submission.
func (id Identity) Stage() Stage {
	return id.stage
}

// Digest returns the content digest of the bytecode.
func (id Identity) Digest() Digest {
	return id.digest
}

// Name returns the deterministic display name for the shader: the stage tag
// followed by the hex-encoded digest, e.g. "VS:79c2…". Equal identities
// produce identical names.
func (id Identity) Name() string {
	return id.stage.String() + ":" + id.digest.String()
}

// BucketHash combines the stage and the digest into a single scalar
// suitable for shard selection or hash-table bucketing.
//
// Both fields are hashed, so identical bytecode submitted under two
// different stages lands in different buckets. The result is stable across
// calls for equal identities. Map lookups in this package never rely on
// BucketHash alone; the full Identity is the key.
func (id Identity) BucketHash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte{byte(id.stage)})
	_, _ = h.Write(id.digest[:])
	return h.Sum64()
}
