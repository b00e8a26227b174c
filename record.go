package shadercache

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// CommonShader stores the translation result for one shader identity: the
// compiled SPIR-V shader module and, when the program embeds constant data,
// an immutable initializer buffer.
//
// The zero value is the distinguished empty state (no program, no buffer,
// empty name), usable as a placeholder before real assignment; it is never
// handed to a caller as a ready shader. Once built, a CommonShader is never
// mutated, which is what makes sharing across goroutines safe without
// per-record locking.
//
// Copies of a CommonShader share ownership of the underlying program and
// buffer; the module set holds one reference for its own lifetime, and each
// front object holds another.
type CommonShader struct {
	name    string
	program Shared[hal.ShaderModule]
	icb     Shared[hal.Buffer]
}

// newCommonShader translates bytecode into a ready record.
//
// The persistent store, when configured, is consulted before the compiler
// and written through after a successful translation. Compiler failures
// propagate to the caller; nothing is retained for a failed identity.
func newCommonShader(device *Device, id Identity, cfg *CompileConfig, bytecode []byte) (CommonShader, error) {
	if device == nil {
		return CommonShader{}, ErrNilDevice
	}
	if len(bytecode) == 0 {
		return CommonShader{}, ErrEmptyBytecode
	}
	if cfg == nil {
		def := DefaultCompileConfig()
		cfg = &def
	}

	name := id.Name()

	res, restored := device.restoreResult(id)
	if !restored {
		if device.compiler == nil {
			return CommonShader{}, ErrNilCompiler
		}
		var err error
		res, err = device.compiler.Compile(device, cfg, id, bytecode)
		if err != nil {
			return CommonShader{}, fmt.Errorf("shadercache: compile %s: %w", name, err)
		}
		device.persistResult(id, res)
	}

	module, err := device.NewShaderModule(name, res.SPIRV)
	if err != nil {
		return CommonShader{}, fmt.Errorf("shadercache: shader module %s: %w", name, err)
	}

	shader := CommonShader{
		name:    name,
		program: newShared(module, device.destroyModule),
	}

	if len(res.InitializerData) > 0 {
		buf, err := device.newInitializerBuffer(name+"/icb", res.InitializerData)
		if err != nil {
			shader.program.Release()
			return CommonShader{}, fmt.Errorf("shadercache: initializer buffer %s: %w", name, err)
		}
		shader.icb = newShared(buf, device.destroyBuffer)
	}

	return shader, nil
}

// Name returns the display name derived from the shader's identity, or the
// empty string for the empty state.
func (s *CommonShader) Name() string {
	return s.name
}

// Program returns the shared handle to the compiled shader module. The
// handle is empty for the empty state. The caller does not receive a new
// reference; use Retain on the handle to extend its lifetime.
func (s *CommonShader) Program() Shared[hal.ShaderModule] {
	return s.program
}

// InitializerBuffer returns the shared handle to the immutable constant
// buffer extracted during translation, or an empty handle when the program
// defines none.
func (s *CommonShader) InitializerBuffer() Shared[hal.Buffer] {
	return s.icb
}

// Empty reports whether the record is in the placeholder state.
func (s *CommonShader) Empty() bool {
	return !s.program.Valid()
}

// retain returns a copy sharing ownership of the program and buffer.
func (s CommonShader) retain() CommonShader {
	s.program.Retain()
	s.icb.Retain()
	return s
}

// Release drops this copy's references to the program and buffer. The
// underlying resources are destroyed when the last copy releases them.
func (s *CommonShader) Release() {
	s.program.Release()
	s.icb.Release()
}
