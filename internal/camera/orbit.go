package camera

import (
	gomath "math"

	"github.com/Faultbox/reflectbox/pkg/math"
)

// Orbit rotates a perspective camera around its target with mouse drag and
// wheel zoom. With damping enabled, rotation input decays over several
// updates instead of being applied at once.
type Orbit struct {
	Camera *Perspective

	// Spherical coordinates around Camera.Target
	Distance float32
	Pitch    float32 // Elevation, radians
	Yaw      float32 // Heading, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	EnableDamping bool
	DampingFactor float32

	// Pending rotation
	yawDelta   float32
	pitchDelta float32
}

// NewOrbit creates an orbit control that starts from the camera's current position.
func NewOrbit(cam *Perspective) *Orbit {
	o := &Orbit{
		Camera:          cam,
		MinDistance:     1,
		MaxDistance:     50,
		MinPitch:        -gomath.Pi/2 + 0.01,
		MaxPitch:        gomath.Pi/2 - 0.01,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		EnableDamping:   true,
		DampingFactor:   0.05,
	}
	o.Sync()
	return o
}

// Sync reads the spherical coordinates back from the camera position.
func (o *Orbit) Sync() {
	off := o.Camera.Position.Sub(o.Camera.Target)
	o.Distance = off.Length()
	if o.Distance == 0 {
		o.Pitch, o.Yaw = 0, 0
		return
	}
	o.Pitch = float32(gomath.Asin(float64(off.Y / o.Distance)))
	o.Yaw = float32(gomath.Atan2(float64(off.X), float64(off.Z)))
}

// offset returns the camera position relative to the target.
func (o *Orbit) offset() math.Vec3 {
	cp := gomath.Cos(float64(o.Pitch))
	return math.Vec3{
		X: o.Distance * float32(cp*gomath.Sin(float64(o.Yaw))),
		Y: o.Distance * float32(gomath.Sin(float64(o.Pitch))),
		Z: o.Distance * float32(cp*gomath.Cos(float64(o.Yaw))),
	}
}

// HandleDrag queues a rotation from a mouse drag delta in pixels.
func (o *Orbit) HandleDrag(deltaX, deltaY float32) {
	o.yawDelta -= deltaX * o.DragSensitivity
	o.pitchDelta += deltaY * o.DragSensitivity
}

// HandleZoom updates distance based on scroll wheel delta.
func (o *Orbit) HandleZoom(delta float32) {
	o.Distance -= delta * o.Distance * o.ZoomSensitivity
	o.clampDistance()
}

// SetDistance places the camera d units from the target, keeping its direction.
func (o *Orbit) SetDistance(d float32) {
	o.Distance = d
	o.clampDistance()
	o.Camera.Position = o.Camera.Target.Add(o.offset())
}

func (o *Orbit) clampDistance() {
	if o.Distance < o.MinDistance {
		o.Distance = o.MinDistance
	}
	if o.Distance > o.MaxDistance {
		o.Distance = o.MaxDistance
	}
}

// Update applies pending rotation and writes the camera position.
// It reports whether rotation input is still pending.
func (o *Orbit) Update() bool {
	if o.EnableDamping {
		o.Yaw += o.yawDelta * o.DampingFactor
		o.Pitch += o.pitchDelta * o.DampingFactor
		o.yawDelta *= 1 - o.DampingFactor
		o.pitchDelta *= 1 - o.DampingFactor
	} else {
		o.Yaw += o.yawDelta
		o.Pitch += o.pitchDelta
		o.yawDelta, o.pitchDelta = 0, 0
	}

	// Clamp pitch
	if o.Pitch < o.MinPitch {
		o.Pitch = o.MinPitch
	}
	if o.Pitch > o.MaxPitch {
		o.Pitch = o.MaxPitch
	}

	o.Camera.Position = o.Camera.Target.Add(o.offset())

	const settled = 1e-6
	return abs32(o.yawDelta) > settled || abs32(o.pitchDelta) > settled
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
