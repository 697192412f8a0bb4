package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

const eps = 1e-4

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < eps
}

func TestNewPerspectiveDefaults(t *testing.T) {
	c := NewPerspective(16.0 / 9.0)
	if c.FovY != 75 || c.Near != 0.1 || c.Far != 1000 {
		t.Errorf("got fov %v near %v far %v, want 75 0.1 1000", c.FovY, c.Near, c.Far)
	}
	if c.Position != (math.Vec3{Z: 5}) {
		t.Errorf("position: got %v, want (0,0,5)", c.Position)
	}

	c.SetAspect(0)
	if !near(c.Aspect, 16.0/9.0) {
		t.Errorf("SetAspect(0) changed aspect to %v", c.Aspect)
	}
	c.SetAspect(2)
	if c.Aspect != 2 {
		t.Errorf("aspect: got %v, want 2", c.Aspect)
	}
}

func TestSetDistanceKeepsDirection(t *testing.T) {
	c := NewPerspective(1)
	c.Position = math.V3(3, 0, 4)
	c.SetDistance(10)

	if !near(c.Position.Length(), 10) {
		t.Errorf("length: got %v, want 10", c.Position.Length())
	}
	if !near(c.Position.X, 6) || !near(c.Position.Z, 8) {
		t.Errorf("direction changed: got %v, want (6,0,8)", c.Position)
	}
}

func TestViewLooksAtTarget(t *testing.T) {
	c := NewPerspective(1)
	c.Position = math.V3(2, 3, 4)
	c.Target = math.V3(0, 1, 0)

	p := mgl32.TransformCoordinate(Vec(c.Target), c.View())
	if !near(p.X(), 0) || !near(p.Y(), 0) || p.Z() >= 0 {
		t.Errorf("target in view space: got %v, want on -Z axis", p)
	}
}

func TestOrbitDampingConverges(t *testing.T) {
	cam := NewPerspective(1)
	o := NewOrbit(cam)

	if !near(o.Distance, 5) || !near(o.Yaw, 0) || !near(o.Pitch, 0) {
		t.Fatalf("sync: got d=%v yaw=%v pitch=%v", o.Distance, o.Yaw, o.Pitch)
	}

	o.HandleDrag(-100, 0) // yaw +0.5 rad in total
	o.Update()
	if !(o.Yaw > 0 && o.Yaw < 0.5) {
		t.Errorf("first damped update: yaw %v, want partial rotation", o.Yaw)
	}

	for i := 0; i < 1000 && o.Update(); i++ {
	}
	if !near(o.Yaw, 0.5) {
		t.Errorf("converged yaw: got %v, want 0.5", o.Yaw)
	}
	if !near(cam.Position.Length(), 5) {
		t.Errorf("distance drifted: got %v", cam.Position.Length())
	}
}

func TestOrbitWithoutDamping(t *testing.T) {
	o := NewOrbit(NewPerspective(1))
	o.EnableDamping = false

	o.HandleDrag(0, 10000)
	if o.Update() {
		t.Error("expected no pending input without damping")
	}
	if o.Pitch != o.MaxPitch {
		t.Errorf("pitch: got %v, want clamped to %v", o.Pitch, o.MaxPitch)
	}
}

func TestOrbitSetDistance(t *testing.T) {
	cam := NewPerspective(1)
	o := NewOrbit(cam)

	o.SetDistance(12)
	if !near(cam.Position.Length(), 12) {
		t.Errorf("camera distance: got %v, want 12", cam.Position.Length())
	}
	o.Update()
	if !near(cam.Position.Length(), 12) {
		t.Errorf("distance lost after update: got %v", cam.Position.Length())
	}

	o.SetDistance(1000)
	if o.Distance != o.MaxDistance {
		t.Errorf("distance: got %v, want clamped to %v", o.Distance, o.MaxDistance)
	}
}

func TestCubeFaceViews(t *testing.T) {
	cc := NewCubeCamera(0.1, 10, scene.NewCubeTarget(256))
	cc.Position = math.V3(-0.5, 0.5, -0.5)

	dirs := []mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1}}
	views := cc.FaceViews()
	for i, d := range dirs {
		ahead := Vec(cc.Position).Add(d)
		p := mgl32.TransformCoordinate(ahead, views[i])
		if !near(p.X(), 0) || !near(p.Y(), 0) || !near(p.Z(), -1) {
			t.Errorf("face %d: point ahead maps to %v, want (0,0,-1)", i, p)
		}
	}

	proj := cc.Projection()
	edge := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, -1}, proj)
	if !near(edge.X(), 1) {
		t.Errorf("90 degree projection: x edge maps to %v, want 1", edge.X())
	}
}
