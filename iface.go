package shadercache

// InterfaceID names a binary interface identity at the boundary between
// this layer and external application code. Callers present an InterfaceID
// to [Shader.QueryInterface] to obtain a typed view of a shader object.
//
// The set is closed: it covers the base lifetime-management capability, the
// child-object capability of each API generation, and the per-stage shader
// interfaces each generation defines. The legacy generation never
// distinguished hull, domain, or compute shaders, so those stages answer
// only to the generic legacy child identity.
type InterfaceID uint32

const (
	// IfaceUnknown is the base lifetime-management capability supported
	// by every object at this boundary.
	IfaceUnknown InterfaceID = iota

	// IfaceDeviceChild is the current-generation child-object capability.
	IfaceDeviceChild

	// Current-generation per-stage shader interfaces.
	IfaceVertexShader
	IfaceHullShader
	IfaceDomainShader
	IfaceGeometryShader
	IfacePixelShader
	IfaceComputeShader

	// IfaceLegacyDeviceChild is the legacy-generation child-object
	// capability.
	IfaceLegacyDeviceChild

	// Legacy-generation per-stage shader interfaces.
	IfaceLegacyVertexShader
	IfaceLegacyGeometryShader
	IfaceLegacyPixelShader
)

// String returns the interface identity name.
func (id InterfaceID) String() string {
	switch id {
	case IfaceUnknown:
		return "IUnknown"
	case IfaceDeviceChild:
		return "IDeviceChild"
	case IfaceVertexShader:
		return "IVertexShader"
	case IfaceHullShader:
		return "IHullShader"
	case IfaceDomainShader:
		return "IDomainShader"
	case IfaceGeometryShader:
		return "IGeometryShader"
	case IfacePixelShader:
		return "IPixelShader"
	case IfaceComputeShader:
		return "IComputeShader"
	case IfaceLegacyDeviceChild:
		return "ILegacyDeviceChild"
	case IfaceLegacyVertexShader:
		return "ILegacyVertexShader"
	case IfaceLegacyGeometryShader:
		return "ILegacyGeometryShader"
	case IfaceLegacyPixelShader:
		return "ILegacyPixelShader"
	default:
		return "Unknown"
	}
}

// stageInterfaces returns the current- and legacy-generation interface
// identities bound to a stage's front objects. Stages the legacy generation
// never distinguished fall back to the generic legacy child identity.
func stageInterfaces(stage Stage) (current, legacy InterfaceID) {
	switch stage {
	case StageVertex:
		return IfaceVertexShader, IfaceLegacyVertexShader
	case StageHull:
		return IfaceHullShader, IfaceLegacyDeviceChild
	case StageDomain:
		return IfaceDomainShader, IfaceLegacyDeviceChild
	case StageGeometry:
		return IfaceGeometryShader, IfaceLegacyGeometryShader
	case StagePixel:
		return IfacePixelShader, IfaceLegacyPixelShader
	case StageCompute:
		return IfaceComputeShader, IfaceLegacyDeviceChild
	default:
		return IfaceDeviceChild, IfaceLegacyDeviceChild
	}
}
