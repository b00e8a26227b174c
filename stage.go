package shadercache

import "strings"

// Stage identifies the pipeline stage a shader program was written for.
type Stage uint8

const (
	// StageVertex is the vertex shader stage.
	StageVertex Stage = iota

	// StageHull is the tessellation control (hull) shader stage.
	StageHull

	// StageDomain is the tessellation evaluation (domain) shader stage.
	StageDomain

	// StageGeometry is the geometry shader stage.
	StageGeometry

	// StagePixel is the pixel (fragment) shader stage.
	StagePixel

	// StageCompute is the compute shader stage.
	StageCompute

	// stageCount is the number of pipeline stages.
	stageCount
)

// String returns the short stage tag used in shader display names.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "VS"
	case StageHull:
		return "HS"
	case StageDomain:
		return "DS"
	case StageGeometry:
		return "GS"
	case StagePixel:
		return "PS"
	case StageCompute:
		return "CS"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the defined pipeline stages.
func (s Stage) Valid() bool {
	return s < stageCount
}

// ParseStage converts a stage tag ("VS", "HS", "DS", "GS", "PS", "CS",
// case-insensitive) into a Stage.
func ParseStage(tag string) (Stage, bool) {
	switch strings.ToUpper(tag) {
	case "VS":
		return StageVertex, true
	case "HS":
		return StageHull, true
	case "DS":
		return StageDomain, true
	case "GS":
		return StageGeometry, true
	case "PS":
		return StagePixel, true
	case "CS":
		return StageCompute, true
	default:
		return stageCount, false
	}
}
