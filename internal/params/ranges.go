package params

import "math"

// Range describes the valid interval and UI step of a numeric control.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Clamp limits v to [Min, Max]. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Control ranges.
var (
	TimeScale      = Range{Min: 0.1, Max: 2, Step: 0.1}
	RotationSpeed  = Range{Min: -5, Max: 5, Step: 0.01}
	LightRadius    = Range{Min: 0.2, Max: 2, Step: 0.1}
	LightSpeed     = Range{Min: -2, Max: 2, Step: 0.1}
	CameraDistance = Range{Min: 5, Max: 20, Step: 0.5}
	LightIntensity = Range{Min: 0, Max: 3, Step: 0.1}
	ShadowRadius   = Range{Min: 0, Max: 10, Step: 0.5}
	ShadowBias     = Range{Min: -0.01, Max: 0.01, Step: 0.0001}

	// Unit covers sphere metalness, roughness and clearcoat.
	Unit               = Range{Min: 0, Max: 1, Step: 0.1}
	ClearcoatRoughness = Range{Min: 0, Max: 1, Step: 0.01}

	ModelScale    = Range{Min: 0.1, Max: 5, Step: 0.1}
	ModelPosition = Range{Min: -3, Max: 3, Step: 0.1}
	ModelRotation = Range{Min: -math.Pi, Max: math.Pi, Step: 0.1}
)
