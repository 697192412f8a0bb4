package scene

import (
	gomath "math"

	"github.com/Faultbox/reflectbox/pkg/math"
)

// Wall identifies one side of the room cube.
type Wall int

// Walls of the room.
const (
	WallFront Wall = iota
	WallBack
	WallRight
	WallLeft
	WallTop
	WallBottom
)

var wallNames = [...]string{"front", "back", "right", "left", "top", "bottom"}

// String returns the wall name.
func (w Wall) String() string {
	if w < 0 || int(w) >= len(wallNames) {
		return "unknown"
	}
	return wallNames[w]
}

// Placement returns the plane position and Euler rotation for the wall of a
// cube with the given edge length. Planes face outward.
func (w Wall) Placement(size float32) (pos, rot math.Vec3) {
	h := size / 2
	switch w {
	case WallFront:
		return math.Vec3{Z: h}, math.Vec3{}
	case WallBack:
		return math.Vec3{Z: -h}, math.Vec3{Y: gomath.Pi}
	case WallRight:
		return math.Vec3{X: h}, math.Vec3{Y: gomath.Pi / 2}
	case WallLeft:
		return math.Vec3{X: -h}, math.Vec3{Y: -gomath.Pi / 2}
	case WallTop:
		return math.Vec3{Y: h}, math.Vec3{X: -gomath.Pi / 2}
	case WallBottom:
		return math.Vec3{Y: -h}, math.Vec3{X: gomath.Pi / 2}
	}
	return math.Vec3{}, math.Vec3{}
}

// Face is the surface treatment of one wall. It is either Transparent or DoubleSided.
type Face interface {
	isFace()
}

// Transparent is a single see-through layer.
type Transparent struct {
	Material *PhongMaterial
}

// DoubleSided is an outer layer seen from outside the cube and an inner
// layer seen from inside.
type DoubleSided struct {
	Outer *PhongMaterial
	Inner *PhongMaterial
}

func (Transparent) isFace() {}
func (DoubleSided) isFace() {}

// FaceSpec assigns a face treatment to a wall.
type FaceSpec struct {
	Wall Wall
	Face Face
}

// DefaultFaces returns the room's walls: a transparent front and five
// walls that are black outside and coloured inside.
func DefaultFaces() []FaceSpec {
	return []FaceSpec{
		{WallFront, Transparent{Material: &PhongMaterial{
			Color:       Hex(0xFFFFFF),
			Opacity:     0.1,
			Transparent: true,
			Side:        DoubleSide,
			Shininess:   80,
		}}},
		{WallBack, tinted(0xCCCCCC, 0x666666)},
		{WallRight, tinted(0x00FF00, 0x006600)},
		{WallLeft, tinted(0x4169E1, 0x002266)},
		{WallTop, tinted(0xCCCCCC, 0x666666)},
		{WallBottom, tinted(0xCCCCCC, 0x666666)},
	}
}

func tinted(color, emissive uint32) DoubleSided {
	return DoubleSided{
		Outer: &PhongMaterial{Color: Hex(0x000000), Opacity: 1, Side: FrontSide, Shininess: 80},
		Inner: &PhongMaterial{Color: Hex(color), Emissive: Hex(emissive), Opacity: 1, Side: BackSide, Shininess: 80},
	}
}

// BuildRoom creates a node holding one plane mesh per transparent face and
// two per double-sided face. All planes share one geometry and receive shadows.
func BuildRoom(size float32, faces []FaceSpec) *Node {
	room := NewNode("room")
	plane := NewPlane(size, size)

	for _, wall := range faces {
		pos, rot := wall.Wall.Placement(size)
		add := func(name string, mat *PhongMaterial) {
			n := NewMeshNode(name, plane, mat)
			n.Position = pos
			n.Rotation = rot
			n.ReceiveShadow = true
			room.Add(n)
		}

		switch f := wall.Face.(type) {
		case Transparent:
			add(wall.Wall.String(), f.Material)
		case DoubleSided:
			add(wall.Wall.String()+"-outer", f.Outer)
			add(wall.Wall.String()+"-inner", f.Inner)
		}
	}
	return room
}
