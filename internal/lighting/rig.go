// Package lighting animates and configures the scene's shadow casting lights.
package lighting

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// Light defaults.
const (
	AmbientIntensity = 0.2
	SpotIntensity    = 1.0
	MovingIntensity  = 1.5

	SpotShadowSize   = 2048
	MovingShadowSize = 1024

	ShadowBias   = -0.0001
	ShadowRadius = 4

	// HeightOffset is how far below the ceiling the moving lights travel.
	HeightOffset = 0.2
)

// orbiter is a light that circles the vertical axis.
type orbiter struct {
	node  *scene.Node
	phase float64
}

// Rig owns the ambient light, the static spot light and the two orbiting
// point lights.
type Rig struct {
	size float32

	Ambient *scene.Node
	Spot    *scene.Node
	Light1  *scene.Node
	Light2  *scene.Node

	orbits [2]orbiter
	log    *zap.Logger
}

// NewRig creates the lights and adds them to the scene root.
// size is the room edge length; the moving lights orbit just below its ceiling.
func NewRig(sc *scene.Scene, size float32) *Rig {
	white := scene.Hex(0xFFFFFF)

	ambient := scene.NewNode("ambient-light")
	ambient.Light = scene.NewAmbient(white, AmbientIntensity)

	spot := scene.NewNode("spot-light")
	spot.Position = math.Vec3{Y: 5}
	spot.Light = scene.NewSpot(white, SpotIntensity)
	spot.Light.Shadow = &scene.ShadowConfig{
		MapSize: SpotShadowSize,
		Near:    0.1,
		Far:     20,
		Bias:    ShadowBias,
		Radius:  ShadowRadius,
	}
	spot.CastShadow = true

	r := &Rig{
		size:    size,
		Ambient: ambient,
		Spot:    spot,
		Light1:  newMovingLight("moving-light-1"),
		Light2:  newMovingLight("moving-light-2"),
		log:     logger.Named("lighting"),
	}
	r.orbits = [2]orbiter{
		{node: r.Light1, phase: 0},
		{node: r.Light2, phase: gomath.Pi},
	}

	for _, n := range []*scene.Node{ambient, spot, r.Light1, r.Light2} {
		sc.Add(n)
	}
	r.Advance(0, params.New())

	return r
}

func newMovingLight(name string) *scene.Node {
	n := scene.NewNode(name)
	n.Light = scene.NewPoint(scene.Hex(0xFFFFFF), MovingIntensity)
	n.Light.Shadow = &scene.ShadowConfig{
		MapSize: MovingShadowSize,
		Near:    0.1,
		Far:     10,
		Bias:    ShadowBias,
		Radius:  ShadowRadius,
	}
	n.CastShadow = true
	return n
}

// Height returns the fixed y coordinate of the moving lights.
func (r *Rig) Height() float32 {
	return r.size/2 - HeightOffset
}

// Lights returns the shadow casting lights: spot, light 1, light 2.
func (r *Rig) Lights() []*scene.Node {
	return []*scene.Node{r.Spot, r.Light1, r.Light2}
}

// OrbitPosition returns the position on a horizontal circle of the given
// radius at height y, for angle elapsed*speed + phase.
func OrbitPosition(elapsed, radius, speed, phase float64, y float32) math.Vec3 {
	theta := elapsed*speed + phase
	return math.Vec3{
		X: float32(radius * gomath.Cos(theta)),
		Y: y,
		Z: float32(radius * gomath.Sin(theta)),
	}
}

// Advance moves the two point lights to their positions for the scaled
// elapsed time. Nothing else is mutated, and the result depends only on
// elapsed and the radius and speed parameters.
func (r *Rig) Advance(elapsed float64, p *params.Store) {
	y := r.Height()
	r.orbits[0].node.Position = OrbitPosition(elapsed, p.Light1Radius, p.Light1Speed, r.orbits[0].phase, y)
	r.orbits[1].node.Position = OrbitPosition(elapsed, p.Light2Radius, p.Light2Speed, r.orbits[1].phase, y)
}

// SetShadowResolution records a new shadow map size for a light and
// releases its baked map so the renderer rebuilds it at that size.
// Lights without shadows are ignored.
func (r *Rig) SetShadowResolution(light *scene.Node, size int) {
	if light == nil || !light.Light.CastsShadow() || size <= 0 {
		return
	}
	sh := light.Light.Shadow
	sh.MapSize = size
	if sh.ReleaseMap() {
		r.log.Debug("shadow map released",
			zap.String("light", light.Name),
			zap.Int("size", size))
	}
}

// ApplyShadowQuality sets the spot light map to mapSize and the moving
// lights to half of it.
func (r *Rig) ApplyShadowQuality(mapSize int) {
	r.SetShadowResolution(r.Spot, mapSize)
	r.SetShadowResolution(r.Light1, mapSize/2)
	r.SetShadowResolution(r.Light2, mapSize/2)
}

// SetShadowBias applies the depth bias to all shadow casting lights.
func (r *Rig) SetShadowBias(bias float32) {
	for _, n := range r.Lights() {
		n.Light.Shadow.Bias = bias
	}
}

// SetShadowRadius applies the blur radius to all shadow casting lights.
func (r *Rig) SetShadowRadius(radius float32) {
	for _, n := range r.Lights() {
		n.Light.Shadow.Radius = radius
	}
}

// SetSpotIntensity sets the static spot light intensity.
func (r *Rig) SetSpotIntensity(v float32) {
	r.Spot.Light.Intensity = v
}

// SetMovingIntensity sets the intensity of both moving lights.
func (r *Rig) SetMovingIntensity(v float32) {
	r.Light1.Light.Intensity = v
	r.Light2.Light.Intensity = v
}

// Configure applies every light-related parameter. Shadow maps are only
// released when the quality level actually changes.
func (r *Rig) Configure(p *params.Store) {
	r.SetSpotIntensity(float32(p.SpotLightIntensity))
	r.SetMovingIntensity(float32(p.MovingLightIntensity))
	r.SetShadowBias(float32(p.ShadowBias))
	r.SetShadowRadius(float32(p.ShadowRadius))
	if r.Spot.Light.Shadow.MapSize != p.ShadowMapSize {
		r.ApplyShadowQuality(p.ShadowMapSize)
	}
}
