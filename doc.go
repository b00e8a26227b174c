// Package shadercache provides the shader-identity and deduplication layer
// used by graphics-API translation front ends in the GoGPU ecosystem.
//
// # Overview
//
// Applications submit raw shader programs as opaque byte buffers tagged with
// a pipeline stage. Translating the same program repeatedly is wasted work,
// so this package derives a collision-resistant [Identity] for every
// submission (stage + SHA-1 content digest), deduplicates submissions in a
// concurrent [ModuleSet] that guarantees at-most-once translation per
// identity, and exposes each cached result through a stage-specific front
// object ([Shader]) that answers interface queries for two API generations.
//
// # Quick Start
//
//	import "github.com/gogpu/shadercache"
//
//	// Wrap a HAL device. The default compiler treats bytecode as WGSL.
//	dev := shadercache.NewDevice(halDevice, shadercache.WithQueue(queue))
//	defer dev.Release()
//
//	// Identical bytecode is translated once and shared.
//	vs, err := dev.CreateVertexShader(bytecode, nil)
//	if err != nil {
//	    // translation failed; nothing was cached
//	}
//	defer vs.Release()
//
//	// Callers written against the legacy generation retrieve the same
//	// translation result through the embedded adapter.
//	child, err := vs.QueryInterface(shadercache.IfaceLegacyVertexShader)
//
// # Ownership
//
// Compiled programs and initializer buffers are shared through atomic
// reference-counted handles. The module set holds one reference for its own
// lifetime; every front object holds another. The underlying GPU resource is
// destroyed exactly when the last owner releases it.
//
// # Logging
//
// The package produces no log output by default. Call [SetLogger] to enable
// diagnostics (unsupported interface queries, cache activity, store errors).
package shadercache
