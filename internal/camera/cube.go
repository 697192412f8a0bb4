package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// CubeFace directions and up vectors in the GL cube map face order
// +X, -X, +Y, -Y, +Z, -Z.
var cubeFaces = [6]struct {
	dir, up mgl32.Vec3
}{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// CubeCamera renders the six axis-aligned views around a point into a cube target.
type CubeCamera struct {
	Position math.Vec3
	Near     float32
	Far      float32
	Target   *scene.CubeTarget
}

// NewCubeCamera creates a cube camera writing into target.
func NewCubeCamera(near, far float32, target *scene.CubeTarget) *CubeCamera {
	return &CubeCamera{Near: near, Far: far, Target: target}
}

// Projection returns the 90 degree square projection shared by all faces.
func (c *CubeCamera) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1, c.Near, c.Far)
}

// FaceViews returns the view matrices of the six faces in +X, -X, +Y, -Y, +Z, -Z order.
func (c *CubeCamera) FaceViews() [6]mgl32.Mat4 {
	return CubeFaceViews(Vec(c.Position))
}

// CubeFaceViews returns cube map face view matrices centred at eye.
// Point light shadow maps use the same layout.
func CubeFaceViews(eye mgl32.Vec3) [6]mgl32.Mat4 {
	var views [6]mgl32.Mat4
	for i, f := range cubeFaces {
		views[i] = mgl32.LookAtV(eye, eye.Add(f.dir), f.up)
	}
	return views
}
