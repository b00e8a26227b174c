package shadercache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/wgpu/hal"
)

// =============================================================================
// Mock HAL objects
// =============================================================================

// mockShaderModule is a test double for hal.ShaderModule.
type mockShaderModule struct {
	label string
	words int
}

// Destroy implements hal.Resource.
func (m *mockShaderModule) Destroy() {}

// NativeHandle implements hal.NativeHandle.
func (m *mockShaderModule) NativeHandle() uintptr { return 0 }

// mockBuffer is a test double for hal.Buffer.
type mockBuffer struct {
	label string
	size  uint64
}

// Destroy implements hal.Resource.
func (b *mockBuffer) Destroy() {}

// NativeHandle implements hal.NativeHandle.
func (b *mockBuffer) NativeHandle() uintptr { return 0 }

// mockDevice is a test double for ModuleDevice with call tracking.
type mockDevice struct {
	createModuleFunc func(*hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	createBufferFunc func(*hal.BufferDescriptor) (hal.Buffer, error)

	modulesCreated   atomic.Int32
	modulesDestroyed atomic.Int32
	buffersCreated   atomic.Int32
	buffersDestroyed atomic.Int32
}

func (d *mockDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.modulesCreated.Add(1)
	if d.createModuleFunc != nil {
		return d.createModuleFunc(desc)
	}
	return &mockShaderModule{label: desc.Label, words: len(desc.Source.SPIRV)}, nil
}

func (d *mockDevice) DestroyShaderModule(_ hal.ShaderModule) {
	d.modulesDestroyed.Add(1)
}

func (d *mockDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.buffersCreated.Add(1)
	if d.createBufferFunc != nil {
		return d.createBufferFunc(desc)
	}
	return &mockBuffer{label: desc.Label, size: desc.Size}, nil
}

func (d *mockDevice) DestroyBuffer(_ hal.Buffer) {
	d.buffersDestroyed.Add(1)
}

// mockQueue records initializer uploads.
type mockQueue struct {
	mu     sync.Mutex
	writes int
	bytes  int
}

func (q *mockQueue) WriteBuffer(_ hal.Buffer, _ uint64, data []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.writes++
	q.bytes += len(data)
}

// =============================================================================
// Mock compilers
// =============================================================================

// countingCompiler counts invocations and fabricates SPIR-V from the
// bytecode length so distinct inputs yield distinct output.
type countingCompiler struct {
	calls    atomic.Int32
	initData []byte
	err      error
	delay    time.Duration // widens race windows in stress tests
}

func (c *countingCompiler) Compile(_ *Device, _ *CompileConfig, _ Identity, bytecode []byte) (CompileResult, error) {
	c.calls.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if c.err != nil {
		return CompileResult{}, c.err
	}
	return CompileResult{
		SPIRV:           []uint32{0x07230203, uint32(len(bytecode))},
		InitializerData: c.initData,
	}, nil
}

// flakyCompiler fails the first n calls, then succeeds.
type flakyCompiler struct {
	calls     atomic.Int32
	failFirst int32
	err       error
}

func (c *flakyCompiler) Compile(_ *Device, _ *CompileConfig, _ Identity, bytecode []byte) (CompileResult, error) {
	n := c.calls.Add(1)
	if n <= c.failFirst {
		return CompileResult{}, c.err
	}
	return CompileResult{SPIRV: []uint32{0x07230203, uint32(len(bytecode))}}, nil
}

// newTestDevice builds a Device over fresh mocks with a counting compiler.
func newTestDevice(opts ...DeviceOption) (*Device, *mockDevice, *countingCompiler) {
	mock := &mockDevice{}
	compiler := &countingCompiler{}
	all := append([]DeviceOption{WithCompiler(compiler)}, opts...)
	return NewDevice(mock, all...), mock, compiler
}
