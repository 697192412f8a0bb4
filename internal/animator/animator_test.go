package animator

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

const eps = 1e-5

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < eps
}

func translationTrack(n *scene.Node) *Track {
	return &Track{
		Target: n,
		Path:   PathTranslation,
		Times:  []float32{0, 1, 2},
		Values: []float32{0, 0, 0, 1, 0, 0, 1, 2, 0},
	}
}

func TestTrackLinearTranslation(t *testing.T) {
	n := scene.NewNode("bone")
	tr := translationTrack(n)

	tests := []struct {
		time float32
		want math.Vec3
	}{
		{-1, math.V3(0, 0, 0)},
		{0, math.V3(0, 0, 0)},
		{0.5, math.V3(0.5, 0, 0)},
		{1, math.V3(1, 0, 0)},
		{1.25, math.V3(1, 0.5, 0)},
		{5, math.V3(1, 2, 0)},
	}
	for _, tt := range tests {
		tr.Apply(tt.time)
		if n.Position.Distance(tt.want) > eps {
			t.Errorf("time %v: got %v, want %v", tt.time, n.Position, tt.want)
		}
	}
}

func TestTrackStep(t *testing.T) {
	n := scene.NewNode("bone")
	tr := translationTrack(n)
	tr.Interp = Step

	tr.Apply(0.99)
	if n.Position != math.V3(0, 0, 0) {
		t.Errorf("step before key: got %v, want origin", n.Position)
	}
	tr.Apply(1.5)
	if n.Position != math.V3(1, 0, 0) {
		t.Errorf("step after key: got %v, want (1,0,0)", n.Position)
	}
}

func TestTrackRotationSlerp(t *testing.T) {
	n := scene.NewNode("bone")
	q90 := math.QuatFromAxisAngle(math.V3(0, 1, 0), gomath.Pi/2)
	tr := &Track{
		Target: n,
		Path:   PathRotation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 1, q90.X, q90.Y, q90.Z, q90.W},
	}

	tr.Apply(0.5)
	if n.Quaternion == nil {
		t.Fatal("rotation track did not set a quaternion")
	}
	want := math.QuatFromAxisAngle(math.V3(0, 1, 0), gomath.Pi/4)
	got := *n.Quaternion
	if !near(got.X, want.X) || !near(got.Y, want.Y) || !near(got.Z, want.Z) || !near(got.W, want.W) {
		t.Errorf("halfway rotation: got %+v, want %+v", got, want)
	}
}

func TestTrackBracket(t *testing.T) {
	tr := &Track{
		Path:   PathScale,
		Times:  []float32{0, 0.5, 1, 1, 2, 9},
		Values: make([]float32, 5*3), // the key at 9s has no value
	}
	tests := []struct {
		time       float32
		prev, next int
		frac       float32
	}{
		{-1, 0, 0, 0},
		{0, 0, 1, 0},
		{0.25, 0, 1, 0.5},
		{0.5, 1, 2, 0},
		{1, 3, 4, 0},
		{1.5, 3, 4, 0.5},
		{2, 4, 4, 0},
		{5, 4, 4, 0},
	}
	for _, tt := range tests {
		prev, next, frac := tr.bracket(tt.time)
		if prev != tt.prev || next != tt.next || !near(frac, tt.frac) {
			t.Errorf("bracket(%v): got %d/%d/%v, want %d/%d/%v",
				tt.time, prev, next, frac, tt.prev, tt.next, tt.frac)
		}
	}
}

func TestTrackKeysIgnoresTrailingValues(t *testing.T) {
	tr := &Track{Path: PathScale, Times: []float32{0, 1}, Values: []float32{1, 1, 1, 2, 2}}
	if tr.Keys() != 1 {
		t.Errorf("keys: got %d, want 1", tr.Keys())
	}
	tr.Target = scene.NewNode("n")
	tr.Apply(1)
	if tr.Target.Scale != math.V3(1, 1, 1) {
		t.Errorf("scale: got %v", tr.Target.Scale)
	}
}

func TestNewClipDuration(t *testing.T) {
	n := scene.NewNode("bone")
	c := NewClip("walk", []*Track{
		translationTrack(n),
		{Target: n, Path: PathScale, Times: []float32{0, 3.5}, Values: []float32{1, 1, 1, 2, 2, 2}},
	})
	if c.Duration != 3.5 {
		t.Errorf("duration: got %v, want 3.5", c.Duration)
	}
}

func TestPlayerLoops(t *testing.T) {
	n := scene.NewNode("bone")
	p := NewPlayer(NewClip("walk", []*Track{translationTrack(n)}))

	p.Advance(2.5)
	if gomath.Abs(p.Time()-0.5) > eps {
		t.Errorf("time after wrap: got %v, want 0.5", p.Time())
	}
	if n.Position.Distance(math.V3(0.5, 0, 0)) > eps {
		t.Errorf("pose after wrap: got %v", n.Position)
	}
}

func TestAnimatorNegativeDeltaIsNoop(t *testing.T) {
	n := scene.NewNode("bone")
	a := New(n, []*Clip{NewClip("walk", []*Track{translationTrack(n)})})

	a.Advance(0.5)
	before := a.Time()
	pose := n.Position

	a.Advance(-0.25)

	if a.Time() != before {
		t.Errorf("time: got %v, want %v", a.Time(), before)
	}
	if n.Position != pose {
		t.Errorf("pose changed: got %v, want %v", n.Position, pose)
	}
}

func TestAnimatorZeroDeltaIsIdempotent(t *testing.T) {
	n := scene.NewNode("bone")
	a := New(n, []*Clip{NewClip("walk", []*Track{translationTrack(n)})})
	a.Advance(0.75)
	pose, time := n.Position, a.Time()

	// Something else disturbs the node; a zero step restores the sampled pose
	n.Position = math.V3(9, 9, 9)
	a.Advance(0)
	a.Advance(0)

	if n.Position != pose || a.Time() != time {
		t.Errorf("got %v at %v, want %v at %v", n.Position, a.Time(), pose, time)
	}
}

func TestAnimatorBindsFirstClip(t *testing.T) {
	n := scene.NewNode("bone")
	first := NewClip("idle", []*Track{translationTrack(n)})
	second := NewClip("run", nil)

	a := New(n, []*Clip{first, second})
	if a.Active() != first {
		t.Errorf("active clip: got %v, want idle", a.Active().Name)
	}
	if len(a.Clips()) != 2 {
		t.Errorf("clips: got %d, want 2", len(a.Clips()))
	}
}

func TestAnimatorWithoutClips(t *testing.T) {
	n := scene.NewNode("statue")
	n.Position = math.V3(1, 2, 3)
	a := New(n, nil)

	a.Advance(1)
	if a.Active() != nil {
		t.Error("expected no active clip")
	}
	if a.Time() != 0 {
		t.Errorf("time: got %v, want 0", a.Time())
	}
	if n.Position != math.V3(1, 2, 3) {
		t.Errorf("static model moved: %v", n.Position)
	}
}
