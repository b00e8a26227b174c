package shadercache

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// WGSLCompiler translates WGSL source bytecode into SPIR-V using naga.
//
// It is the default compiler on a [Device]. WGSL has no hull, domain, or
// geometry stages, so submissions for those stages fail with
// [ErrStageNotSupported]. WGSL likewise has no embedded constant buffers,
// so the result never carries initializer data.
type WGSLCompiler struct{}

// Compile implements [Compiler].
func (WGSLCompiler) Compile(_ *Device, cfg *CompileConfig, id Identity, bytecode []byte) (CompileResult, error) {
	stage, ok := nagaStage(id.Stage())
	if !ok {
		return CompileResult{}, fmt.Errorf("%w: %v", ErrStageNotSupported, id.Stage())
	}

	source := string(bytecode)

	ast, err := naga.Parse(source)
	if err != nil {
		return CompileResult{}, fmt.Errorf("parse: %w", err)
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return CompileResult{}, fmt.Errorf("lower: %w", err)
	}

	if !hasEntryPoint(module, stage) {
		return CompileResult{}, fmt.Errorf("%w: %v", ErrEntryPointMissing, id.Stage())
	}

	if cfg.Validate {
		validationErrors, err := naga.Validate(module)
		if err != nil {
			return CompileResult{}, fmt.Errorf("validate: %w", err)
		}
		if len(validationErrors) > 0 {
			return CompileResult{}, fmt.Errorf("validate: %w", &validationErrors[0])
		}
	}

	version := cfg.SPIRVVersion
	if version == (spirv.Version{}) {
		version = spirv.Version1_3
	}

	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: version,
		Debug:   cfg.Debug,
	})
	if err != nil {
		return CompileResult{}, fmt.Errorf("generate: %w", err)
	}

	return CompileResult{SPIRV: spirvWords(spirvBytes)}, nil
}

// nagaStage maps a pipeline stage to the naga IR stage, if WGSL can
// express it.
func nagaStage(s Stage) (ir.ShaderStage, bool) {
	switch s {
	case StageVertex:
		return ir.StageVertex, true
	case StagePixel:
		return ir.StageFragment, true
	case StageCompute:
		return ir.StageCompute, true
	default:
		return 0, false
	}
}

// hasEntryPoint reports whether the lowered module declares an entry point
// for the given stage.
func hasEntryPoint(module *ir.Module, stage ir.ShaderStage) bool {
	for i := range module.EntryPoints {
		if module.EntryPoints[i].Stage == stage {
			return true
		}
	}
	return false
}
