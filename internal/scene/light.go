package scene

import (
	gomath "math"

	"github.com/Faultbox/reflectbox/pkg/math"
)

// Resource is a GPU-side object that must be released explicitly.
type Resource interface {
	Release()
}

// LightKind identifies the light model.
type LightKind int

// Light kinds.
const (
	AmbientLight LightKind = iota
	PointLight
	SpotLight
)

// String returns the kind name.
func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	default:
		return "unknown"
	}
}

// Light describes a light source attached to a node. Point and spot lights
// take their position from the node.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float32

	// Spot cone
	Angle    float32 // Half-angle in radians
	Penumbra float32
	Target   math.Vec3 // World-space aim point

	// Distance is the cutoff range, 0 means unlimited. Decay is the falloff exponent.
	Distance float32
	Decay    float32

	Shadow *ShadowConfig
}

// NewAmbient creates an ambient light.
func NewAmbient(color Color, intensity float32) *Light {
	return &Light{Kind: AmbientLight, Color: color, Intensity: intensity}
}

// NewPoint creates an omnidirectional light.
func NewPoint(color Color, intensity float32) *Light {
	return &Light{Kind: PointLight, Color: color, Intensity: intensity, Decay: 2}
}

// NewSpot creates a spot light aimed at the origin.
func NewSpot(color Color, intensity float32) *Light {
	return &Light{
		Kind:      SpotLight,
		Color:     color,
		Intensity: intensity,
		Angle:     gomath.Pi / 3,
		Decay:     2,
	}
}

// CastsShadow reports whether the light has a shadow configuration.
func (l *Light) CastsShadow() bool {
	return l != nil && l.Shadow != nil
}

// ShadowConfig holds the shadow settings of one light and its baked map.
type ShadowConfig struct {
	MapSize int
	Near    float32
	Far     float32
	Bias    float32
	Radius  float32 // PCF kernel radius in texels

	// Map is created by the renderer at MapSize and reused until released.
	Map Resource
}

// ReleaseMap releases the baked shadow map, if any, and clears it so the
// renderer rebuilds it at the current MapSize. It reports whether a map was released.
func (s *ShadowConfig) ReleaseMap() bool {
	if s.Map == nil {
		return false
	}
	s.Map.Release()
	s.Map = nil
	return true
}
