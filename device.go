package shadercache

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"
)

// ModuleDevice is the subset of hal.Device the shader layer needs: shader
// module and buffer lifecycle. hal.Device satisfies it; tests substitute a
// narrow mock.
type ModuleDevice interface {
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buffer hal.Buffer)
}

// UploadQueue is the subset of hal.Queue used to upload initializer
// constant data. hal.Queue satisfies it.
type UploadQueue interface {
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte)
}

// Device wraps a HAL device with the shader deduplication layer: the module
// set, the configured compiler, and the optional persistent store.
//
// A Device is reference counted. Front objects retain it, so it stays alive
// at least as long as any shader created from it; releasing the last
// reference releases the module set's records.
type Device struct {
	refs atomic.Int64

	dev      ModuleDevice
	queue    UploadQueue
	label    string
	compiler Compiler
	store    *Store

	modules *ModuleSet
}

// DeviceOption configures a Device during creation.
type DeviceOption func(*Device)

// WithQueue sets the queue used to upload initializer constant data.
// Without a queue, shaders that embed constant data fail to build.
func WithQueue(q UploadQueue) DeviceOption {
	return func(d *Device) { d.queue = q }
}

// WithCompiler replaces the default [WGSLCompiler].
func WithCompiler(c Compiler) DeviceOption {
	return func(d *Device) { d.compiler = c }
}

// WithStore attaches a persistent store. Translation results are looked up
// in the store before the compiler runs and written through afterwards.
func WithStore(s *Store) DeviceOption {
	return func(d *Device) { d.store = s }
}

// WithLabel sets a debug label used in log output.
func WithLabel(label string) DeviceOption {
	return func(d *Device) { d.label = label }
}

// NewDevice creates a shader-layer device over dev.
//
// The returned device holds one reference; call Release when done. By
// default bytecode is treated as WGSL source and translated with
// [WGSLCompiler].
func NewDevice(dev ModuleDevice, opts ...DeviceOption) *Device {
	d := &Device{
		dev:      dev,
		compiler: WGSLCompiler{},
		modules:  NewModuleSet(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.refs.Store(1)
	return d
}

// Retain increments the device's reference count and returns d.
func (d *Device) Retain() *Device {
	d.refs.Add(1)
	return d
}

// Release decrements the device's reference count. Releasing the last
// reference releases the module set's reference on every cached record; a
// record's program and buffer are destroyed once all front objects holding
// copies are released as well.
func (d *Device) Release() {
	if d.refs.Add(-1) == 0 {
		d.modules.Release()
	}
}

// Label returns the device's debug label.
func (d *Device) Label() string {
	return d.label
}

// Modules returns the device's shader module set.
func (d *Device) Modules() *ModuleSet {
	return d.modules
}

// CreateShader translates bytecode for the given stage (or reuses a prior
// translation of identical bytecode) and wraps the result in the
// stage-appropriate front object.
func (d *Device) CreateShader(stage Stage, bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: stage %d", ErrStageNotSupported, stage)
	}
	common, err := d.modules.GetOrCompile(d, cfg, bytecode, stage)
	if err != nil {
		return nil, err
	}
	current, legacy := stageInterfaces(stage)
	return newShader(d, stage, common, current, legacy), nil
}

// CreateVertexShader creates a vertex shader front object.
func (d *Device) CreateVertexShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StageVertex, bytecode, cfg)
}

// CreateHullShader creates a hull shader front object.
func (d *Device) CreateHullShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StageHull, bytecode, cfg)
}

// CreateDomainShader creates a domain shader front object.
func (d *Device) CreateDomainShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StageDomain, bytecode, cfg)
}

// CreateGeometryShader creates a geometry shader front object.
func (d *Device) CreateGeometryShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StageGeometry, bytecode, cfg)
}

// CreatePixelShader creates a pixel shader front object.
func (d *Device) CreatePixelShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StagePixel, bytecode, cfg)
}

// CreateComputeShader creates a compute shader front object.
func (d *Device) CreateComputeShader(bytecode []byte, cfg *CompileConfig) (*Shader, error) {
	return d.CreateShader(StageCompute, bytecode, cfg)
}

// NewShaderModule creates a HAL shader module from SPIR-V words. Compiler
// implementations and the record builder use it; the label becomes the
// module's debug name.
func (d *Device) NewShaderModule(label string, spirv []uint32) (hal.ShaderModule, error) {
	return d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
}

// newInitializerBuffer creates an immutable uniform buffer holding embedded
// constant data and uploads the data through the device queue.
func (d *Device) newInitializerBuffer(label string, data []byte) (hal.Buffer, error) {
	if d.queue == nil {
		return nil, ErrNoQueue
	}

	buf, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: types.BufferUsageUniform | types.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// destroyModule is the destroy hook bound into program handles.
func (d *Device) destroyModule(module hal.ShaderModule) {
	d.dev.DestroyShaderModule(module)
}

// destroyBuffer is the destroy hook bound into initializer buffer handles.
func (d *Device) destroyBuffer(buffer hal.Buffer) {
	d.dev.DestroyBuffer(buffer)
}

// restoreResult looks up a prior translation in the persistent store.
func (d *Device) restoreResult(id Identity) (CompileResult, bool) {
	if d.store == nil {
		return CompileResult{}, false
	}
	res, ok := d.store.Lookup(id)
	if ok {
		Logger().Debug("shader restored from store",
			"shader", id.Name(), "device", d.label)
	}
	return res, ok
}

// persistResult writes a translation result through to the persistent
// store. Best effort: store failures are logged, never surfaced to the
// submitter.
func (d *Device) persistResult(id Identity, res CompileResult) {
	if d.store == nil {
		return
	}
	if err := d.store.Put(id, res); err != nil {
		Logger().Warn("shader store write failed",
			"shader", id.Name(), "device", d.label, "error", err)
	}
}
