package scene

import "errors"

// Scene is the root of the scene graph plus global render settings.
type Scene struct {
	Root       *Node
	Background Color

	disposed bool
}

// New creates an empty scene with a black background.
func New() *Scene {
	return &Scene{Root: NewNode("scene")}
}

// Add attaches a node to the scene root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Remove detaches a node from the scene root.
func (s *Scene) Remove(n *Node) bool {
	return s.Root.Remove(n)
}

// Lights returns every node that carries a light, in traversal order.
func (s *Scene) Lights() []*Node {
	var lights []*Node
	s.Root.Traverse(func(n *Node) {
		if n.Light != nil {
			lights = append(lights, n)
		}
	})
	return lights
}

// Disposed reports whether Dispose has run.
func (s *Scene) Disposed() bool {
	return s.disposed
}

// Dispose releases every GPU resource reachable from the root: geometry
// buffers, shadow maps and environment cube targets. Shared geometry is
// released once. Calling Dispose again does nothing.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	ReleaseResources(s.Root)
}

// ReleaseResources releases the GPU resources of a subtree, each once.
// The CPU-side data stays intact so the subtree can be uploaded again.
func ReleaseResources(root *Node) {
	geometries := make(map[*Geometry]struct{})
	targets := make(map[*CubeTarget]struct{})

	root.Traverse(func(n *Node) {
		if n.Light != nil && n.Light.Shadow != nil {
			n.Light.Shadow.ReleaseMap()
		}
		if n.Mesh == nil {
			return
		}
		if g := n.Mesh.Geometry; g != nil {
			geometries[g] = struct{}{}
		}
		if m, ok := n.Mesh.Material.(*PhysicalMaterial); ok && m.EnvMap != nil {
			targets[m.EnvMap] = struct{}{}
		}
	})

	for g := range geometries {
		if g.Buffers != nil {
			g.Buffers.Release()
			g.Buffers = nil
		}
	}
	for t := range targets {
		t.Release()
	}
}

// ErrDisposed is returned by operations on a disposed scene or renderer.
var ErrDisposed = errors.New("resources disposed")
