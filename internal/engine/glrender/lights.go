package glrender

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// MaxPointLights is the number of point lights the lit shader evaluates.
const MaxPointLights = 2

// maxSpotFov keeps very wide cones from degenerating the shadow frustum.
const maxSpotFov = 170 * gomath.Pi / 180

type spotLight struct {
	node      *scene.Node
	Position  [3]float32
	Direction [3]float32
	Color     [3]float32 // Linear colour times intensity
	CosOuter  float32
	CosInner  float32
	Distance  float32
	Decay     float32
	Matrix    mgl32.Mat4 // Shadow view-projection
}

type pointLight struct {
	node     *scene.Node
	Position [3]float32
	Color    [3]float32
	Distance float32
	Decay    float32
}

// lightSet is the flattened light state uploaded once per pass.
type lightSet struct {
	Ambient [3]float32
	Spot    *spotLight
	Points  []pointLight
}

// linearColor converts an sRGB colour to linear space and scales it.
func linearColor(c scene.Color, intensity float32) [3]float32 {
	lin := func(v float32) float32 {
		return float32(gomath.Pow(float64(v), 2.2)) * intensity
	}
	return [3]float32{lin(c.R), lin(c.G), lin(c.B)}
}

// collectLights gathers the visible lights of sc. Ambient lights add up;
// the first spot light and the first MaxPointLights point lights are kept.
func collectLights(sc *scene.Scene) lightSet {
	var ls lightSet
	for _, n := range sc.Lights() {
		if !n.Visible {
			continue
		}
		l := n.Light
		switch l.Kind {
		case scene.AmbientLight:
			c := linearColor(l.Color, l.Intensity)
			for i := range c {
				ls.Ambient[i] += c[i]
			}
		case scene.SpotLight:
			if ls.Spot != nil {
				continue
			}
			pos := n.WorldPosition()
			dir := l.Target.Sub(pos).Normalize()
			ls.Spot = &spotLight{
				node:      n,
				Position:  pos.Array(),
				Direction: dir.Array(),
				Color:     linearColor(l.Color, l.Intensity),
				CosOuter:  float32(gomath.Cos(float64(l.Angle))),
				CosInner:  float32(gomath.Cos(float64(l.Angle * (1 - l.Penumbra)))),
				Distance:  l.Distance,
				Decay:     l.Decay,
			}
			if l.CastsShadow() {
				ls.Spot.Matrix = SpotMatrix(pos, l.Target, l.Angle, l.Shadow.Near, l.Shadow.Far)
			}
		case scene.PointLight:
			if len(ls.Points) == MaxPointLights {
				continue
			}
			ls.Points = append(ls.Points, pointLight{
				node:     n,
				Position: n.WorldPosition().Array(),
				Color:    linearColor(l.Color, l.Intensity),
				Distance: l.Distance,
				Decay:    l.Decay,
			})
		}
	}
	return ls
}

// SpotMatrix returns the shadow view-projection of a spot light at pos
// aimed at target. The frustum covers the full cone.
func SpotMatrix(pos, target math.Vec3, angle, near, far float32) mgl32.Mat4 {
	dir := target.Sub(pos).Normalize()
	up := mgl32.Vec3{0, 1, 0}
	if gomath.Abs(float64(dir.Y)) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	fov := min(2*angle, float32(maxSpotFov))
	proj := mgl32.Perspective(fov, 1, near, far)
	view := mgl32.LookAtV(camera.Vec(pos), camera.Vec(target), up)
	return proj.Mul4(view)
}

// PointFaceMatrices returns the six cube face view-projections of a point
// light shadow map.
func PointFaceMatrices(pos math.Vec3, near, far float32) [6]mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, near, far)
	views := camera.CubeFaceViews(camera.Vec(pos))
	var out [6]mgl32.Mat4
	for i, v := range views {
		out[i] = proj.Mul4(v)
	}
	return out
}
