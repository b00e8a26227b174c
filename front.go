package shadercache

import "sync/atomic"

// DeviceChild is the capability view shared by both API generations: every
// object returned by QueryInterface can report its owning device and be
// released. Callers type-assert to *[Shader] or *[LegacyShader] for
// stage-specific use.
type DeviceChild interface {
	// Device returns a new owned reference to the owning device. The
	// caller must Release it.
	Device() *Device

	// Release drops the caller's reference on the object.
	Release()
}

// Shader is the caller-facing front object exposing one cached translation
// result through a stage-specific, dual-generation binary interface.
//
// A Shader owns a copy of the translation record (sharing the underlying
// program and buffer with the cache and with every other front object built
// from the same identity), a reference to the owning device, and an
// embedded legacy adapter answering the legacy generation's interface
// queries. It is reference counted; the last Release drops the record copy
// and the device reference.
type Shader struct {
	refs atomic.Int64

	device *Device
	stage  Stage
	common CommonShader
	legacy LegacyShader

	// Interface identities this object answers to, bound per stage.
	currentID InterfaceID
	legacyID  InterfaceID
}

// newShader builds a front object around a retained record copy. The record
// is adopted, not retained again: the caller transfers its reference.
func newShader(device *Device, stage Stage, common CommonShader, current, legacy InterfaceID) *Shader {
	s := &Shader{
		device:    device.Retain(),
		stage:     stage,
		common:    common,
		currentID: current,
		legacyID:  legacy,
	}
	s.legacy.owner = s
	s.refs.Store(1)
	return s
}

// NewVertexShader wraps a translation record in a vertex shader front
// object. The record is copied; the copy shares ownership of the underlying
// program and buffer.
func NewVertexShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StageVertex, common.retain(), IfaceVertexShader, IfaceLegacyVertexShader)
}

// NewHullShader wraps a translation record in a hull shader front object.
// The legacy generation has no hull shader interface, so the legacy side
// answers only to the generic legacy child identity.
func NewHullShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StageHull, common.retain(), IfaceHullShader, IfaceLegacyDeviceChild)
}

// NewDomainShader wraps a translation record in a domain shader front
// object, with the generic legacy child fallback.
func NewDomainShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StageDomain, common.retain(), IfaceDomainShader, IfaceLegacyDeviceChild)
}

// NewGeometryShader wraps a translation record in a geometry shader front
// object.
func NewGeometryShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StageGeometry, common.retain(), IfaceGeometryShader, IfaceLegacyGeometryShader)
}

// NewPixelShader wraps a translation record in a pixel shader front object.
func NewPixelShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StagePixel, common.retain(), IfacePixelShader, IfaceLegacyPixelShader)
}

// NewComputeShader wraps a translation record in a compute shader front
// object, with the generic legacy child fallback.
func NewComputeShader(device *Device, common CommonShader) *Shader {
	return newShader(device, StageCompute, common.retain(), IfaceComputeShader, IfaceLegacyDeviceChild)
}

// QueryInterface answers an interface query for either API generation.
//
// The base lifetime-management identity, the current-generation child
// identity, and the bound current-generation shader identity yield the
// front object itself. The legacy child identity and the bound legacy
// shader identity yield the embedded legacy adapter. Either way the
// object's reference count is incremented and the caller must Release the
// returned view.
//
// Any other identity returns nil with [ErrInterfaceNotSupported] and a
// logged diagnostic; the object is unaffected.
func (s *Shader) QueryInterface(id InterfaceID) (DeviceChild, error) {
	switch id {
	case IfaceUnknown, IfaceDeviceChild, s.currentID:
		s.Retain()
		return s, nil
	case IfaceLegacyDeviceChild, s.legacyID:
		// The adapter shares the front object's count.
		s.Retain()
		return &s.legacy, nil
	default:
		Logger().Warn("unknown shader interface query",
			"shader", s.common.Name(), "iface", id)
		return nil, ErrInterfaceNotSupported
	}
}

// Retain increments the front object's reference count and returns s.
func (s *Shader) Retain() *Shader {
	s.refs.Add(1)
	return s
}

// Release decrements the front object's reference count. The last release
// drops the record copy (destroying the program and buffer if no other
// owner remains) and the device reference.
func (s *Shader) Release() {
	if s.refs.Add(-1) == 0 {
		s.common.Release()
		s.device.Release()
	}
}

// Device returns a new owned reference to the owning device. The caller
// must Release it.
func (s *Shader) Device() *Device {
	return s.device.Retain()
}

// Stage returns the pipeline stage this front object was created for.
func (s *Shader) Stage() Stage {
	return s.stage
}

// Common exposes the embedded translation record as a non-owning view,
// valid for the front object's lifetime.
func (s *Shader) Common() *CommonShader {
	return &s.common
}

// Legacy exposes the embedded legacy adapter as a non-owning view, valid
// for the front object's lifetime.
func (s *Shader) Legacy() *LegacyShader {
	return &s.legacy
}

// LegacyShader is the thin facade answering the legacy generation's
// interface queries for a front object. It holds a non-owning back-pointer
// to its owner, never shared ownership, so no reference cycle exists. Its
// lifetime is strictly bounded by the owning Shader.
type LegacyShader struct {
	owner *Shader
}

// QueryInterface delegates to the owning front object, so both generations
// resolve the same closed set of identities.
func (l *LegacyShader) QueryInterface(id InterfaceID) (DeviceChild, error) {
	return l.owner.QueryInterface(id)
}

// Retain increments the owning front object's reference count.
func (l *LegacyShader) Retain() *LegacyShader {
	l.owner.Retain()
	return l
}

// Release decrements the owning front object's reference count.
func (l *LegacyShader) Release() {
	l.owner.Release()
}

// Device returns a new owned reference to the owning device. The caller
// must Release it.
func (l *LegacyShader) Device() *Device {
	return l.owner.Device()
}

// Common exposes the owner's translation record as a non-owning view.
func (l *LegacyShader) Common() *CommonShader {
	return l.owner.Common()
}

// Owner returns the front object this adapter belongs to.
func (l *LegacyShader) Owner() *Shader {
	return l.owner
}
