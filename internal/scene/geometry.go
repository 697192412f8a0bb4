package scene

import (
	gomath "math"

	"github.com/Faultbox/reflectbox/pkg/math"
)

// Vertex is an interleaved mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Geometry holds indexed triangle data ready for GPU upload.
type Geometry struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Box

	// Skinning attributes, parallel to Vertices. Nil for rigid meshes.
	Joints  [][4]uint16
	Weights [][4]float32

	// Buffers is the uploaded GPU copy, created lazily by the renderer.
	Buffers Resource
}

// NewGeometry creates a geometry and computes its bounds.
func NewGeometry(vertices []Vertex, indices []uint32) *Geometry {
	g := &Geometry{Vertices: vertices, Indices: indices}
	g.ComputeBounds()
	return g
}

// Skinned reports whether the geometry carries joint weights.
func (g *Geometry) Skinned() bool {
	return len(g.Joints) == len(g.Vertices) && len(g.Weights) == len(g.Vertices) && len(g.Vertices) > 0
}

// ComputeBounds recalculates Bounds from the vertex positions.
func (g *Geometry) ComputeBounds() {
	b := EmptyBox()
	for _, v := range g.Vertices {
		b = b.ExpandPoint(math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]})
	}
	g.Bounds = b
}

// NewPlane builds a width x height plane in the XY plane facing +Z.
func NewPlane(width, height float32) *Geometry {
	hw, hh := width/2, height/2
	vertices := []Vertex{
		{Position: [3]float32{-hw, hh, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 1}},
		{Position: [3]float32{hw, hh, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{-hw, -hh, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{hw, -hh, 0}, Normal: [3]float32{0, 0, 1}, TexCoord: [2]float32{1, 0}},
	}
	return NewGeometry(vertices, []uint32{0, 2, 1, 2, 3, 1})
}

// NewSphere builds a UV sphere centred at the origin.
// Segment counts below the minimum (3 around, 2 vertical) are raised to it.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	vertices := make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))
	grid := make([][]uint32, heightSegments+1)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			nx := -gomath.Cos(u*2*gomath.Pi) * gomath.Sin(v*gomath.Pi)
			ny := gomath.Cos(v * gomath.Pi)
			nz := gomath.Sin(u*2*gomath.Pi) * gomath.Sin(v*gomath.Pi)

			row[ix] = uint32(len(vertices))
			vertices = append(vertices, Vertex{
				Position: [3]float32{radius * float32(nx), radius * float32(ny), radius * float32(nz)},
				Normal:   [3]float32{float32(nx), float32(ny), float32(nz)},
				TexCoord: [2]float32{float32(u), float32(1 - v)},
			})
		}
		grid[iy] = row
	}

	var indices []uint32
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]
			// Pole rows collapse to a single triangle
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return NewGeometry(vertices, indices)
}

// Box is an axis-aligned bounding box.
type Box struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyBox returns a box that contains nothing; expanding it by any point
// yields that point.
func EmptyBox() Box {
	inf := float32(gomath.Inf(1))
	return Box{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandPoint grows the box to include p.
func (b Box) ExpandPoint(p math.Vec3) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Transform returns the axis-aligned box enclosing b after applying m.
func (b Box) Transform(m math.Mat4) Box {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out = out.ExpandPoint(m.TransformVec3(corner))
	}
	return out
}

// Size returns the box extents.
func (b Box) Size() math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// WorldBounds returns the scene-space box enclosing every mesh under n.
func WorldBounds(n *Node) Box {
	box := EmptyBox()
	n.Traverse(func(c *Node) {
		if c.Mesh == nil || c.Mesh.Geometry == nil {
			return
		}
		box = box.Union(c.Mesh.Geometry.Bounds.Transform(c.WorldMatrix()))
	})
	return box
}
