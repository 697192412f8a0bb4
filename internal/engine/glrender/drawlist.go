package glrender

import (
	"cmp"
	"slices"

	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

type drawItem struct {
	node  *scene.Node
	mesh  *scene.Mesh
	world math.Mat4
	dist  float32 // Distance from the eye to the node origin
}

// drawList splits the visible meshes under root into opaque ones sorted
// front to back and transparent ones sorted back to front.
func drawList(root *scene.Node, eye math.Vec3) (opaque, transparent []drawItem) {
	root.TraverseVisible(func(n *scene.Node) {
		if n.Mesh == nil || n.Mesh.Geometry == nil || n.Mesh.Material == nil {
			return
		}
		world := n.WorldMatrix()
		item := drawItem{node: n, mesh: n.Mesh, world: world, dist: world.Translation().Distance(eye)}
		if n.Mesh.Material.IsTransparent() {
			transparent = append(transparent, item)
		} else {
			opaque = append(opaque, item)
		}
	})
	slices.SortStableFunc(opaque, func(a, b drawItem) int { return cmp.Compare(a.dist, b.dist) })
	slices.SortStableFunc(transparent, func(a, b drawItem) int { return cmp.Compare(b.dist, a.dist) })
	return opaque, transparent
}

// casterList returns the visible meshes that cast shadows.
func casterList(root *scene.Node) []drawItem {
	var items []drawItem
	root.TraverseVisible(func(n *scene.Node) {
		if n.Mesh == nil || n.Mesh.Geometry == nil || !n.CastShadow {
			return
		}
		items = append(items, drawItem{node: n, mesh: n.Mesh, world: n.WorldMatrix()})
	})
	return items
}
