// Package camera provides the viewing cameras: the main perspective camera,
// its orbit control, and the cube camera used for environment capture.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/reflectbox/pkg/math"
)

// Perspective is a pinhole camera looking at Target.
type Perspective struct {
	FovY   float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// NewPerspective creates the default viewing camera five units in front of the origin.
func NewPerspective(aspect float32) *Perspective {
	if aspect <= 0 {
		aspect = 1
	}
	return &Perspective{
		FovY:     75,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
		Position: math.Vec3{Z: 5},
		Up:       math.Vec3{Y: 1},
	}
}

// SetAspect updates the aspect ratio. Non-positive values are ignored.
func (c *Perspective) SetAspect(aspect float32) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

// SetDistance moves the camera along its current direction from the origin
// so that it ends up d units away.
func (c *Perspective) SetDistance(d float32) {
	if c.Position.Length() == 0 {
		c.Position = math.Vec3{Z: d}
		return
	}
	c.Position = c.Position.SetLength(d)
}

// Projection returns the projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(Vec(c.Position), Vec(c.Target), Vec(c.Up))
}

// Vec converts a scene vector to an mgl32 vector.
func Vec(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}
