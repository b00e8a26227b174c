package shadercache

import "github.com/gogpu/naga/spirv"

// CompileConfig is the translation configuration handed to the compiler.
//
// The configuration does not participate in shader identity: the cache
// assumes a device uses one configuration for its lifetime, so identical
// bytecode always yields an identical translation result.
type CompileConfig struct {
	// Debug includes debug info (names, line numbers) in the output.
	Debug bool

	// Validate runs IR validation before code generation.
	Validate bool

	// SPIRVVersion is the target SPIR-V version. The zero value targets
	// SPIR-V 1.3.
	SPIRVVersion spirv.Version
}

// DefaultCompileConfig returns the configuration used when a caller passes
// a nil config: validation on, no debug info, SPIR-V 1.3.
func DefaultCompileConfig() CompileConfig {
	return CompileConfig{
		Validate:     true,
		SPIRVVersion: spirv.Version1_3,
	}
}

// CompileResult is the output of a successful translation.
type CompileResult struct {
	// SPIRV is the translated program as SPIR-V words.
	SPIRV []uint32

	// InitializerData holds constant data embedded in the shader, to be
	// uploaded into an immutable initializer buffer. Nil when the program
	// defines none.
	InitializerData []byte
}

// Compiler translates raw shader bytecode into portable SPIR-V.
//
// The cache layer is agnostic to the bytecode format and translation
// strategy; it only sequences calls to the compiler and deduplicates by
// identity. Implementations may consult the device for capability limits
// but must not retain it. A compiler must be safe for use from multiple
// goroutines; the module set serializes calls for correctness, not for the
// compiler's benefit.
//
// Errors are propagated to the submitter unchanged; the cache stores
// nothing for a failed identity, so a later identical submission retries.
type Compiler interface {
	Compile(device *Device, cfg *CompileConfig, id Identity, bytecode []byte) (CompileResult, error)
}

// spirvWords converts a little-endian SPIR-V byte stream into 32-bit words.
func spirvWords(spirvBytes []byte) []uint32 {
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words
}
