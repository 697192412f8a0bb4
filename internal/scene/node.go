// Package scene provides the scene graph consumed by the frame loop and the renderer.
package scene

import (
	"github.com/Faultbox/reflectbox/pkg/math"
)

// Node is an element of the scene graph. A node owns its children.
type Node struct {
	Name string

	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians, XYZ order
	Scale    math.Vec3

	// Quaternion overrides Rotation when set. Animation tracks and loaded
	// models write orientation here.
	Quaternion *math.Quat

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	Mesh  *Mesh
	Light *Light

	parent   *Node
	children []*Node
}

// NewNode creates a visible node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   math.Vec3{X: 1, Y: 1, Z: 1},
		Visible: true,
	}
}

// NewMeshNode creates a node carrying a mesh.
func NewMeshNode(name string, geo *Geometry, mat Material) *Node {
	n := NewNode(name)
	n.Mesh = &Mesh{Geometry: geo, Material: mat}
	return n
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add attaches child to n, detaching it from its previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips hidden subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.TraverseVisible(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Orientation returns the node's rotation as a quaternion.
func (n *Node) Orientation() math.Quat {
	if n.Quaternion != nil {
		return *n.Quaternion
	}
	return math.QuatFromEuler(n.Rotation.X, n.Rotation.Y, n.Rotation.Z)
}

// SetUniformScale sets all three scale components to s.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = math.Vec3{X: s, Y: s, Z: s}
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Orientation(), n.Scale)
}

// WorldMatrix returns the node transform in scene space.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// WorldPosition returns the node origin in scene space.
func (n *Node) WorldPosition() math.Vec3 {
	return n.WorldMatrix().Translation()
}
