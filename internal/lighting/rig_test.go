package lighting

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/scene"
)

const eps = 1e-5

type countingMap struct {
	releases int
}

func (m *countingMap) Release() { m.releases++ }

func newTestRig() (*Rig, *scene.Scene) {
	sc := scene.New()
	return NewRig(sc, 3), sc
}

func TestNewRig(t *testing.T) {
	r, sc := newTestRig()

	if got := len(sc.Lights()); got != 4 {
		t.Fatalf("scene lights: got %d, want 4", got)
	}
	if r.Ambient.Light.Intensity != 0.2 {
		t.Errorf("ambient intensity: got %v, want 0.2", r.Ambient.Light.Intensity)
	}
	if r.Spot.Position.Y != 5 {
		t.Errorf("spot height: got %v, want 5", r.Spot.Position.Y)
	}

	tests := []struct {
		name     string
		node     *scene.Node
		mapSize  int
		far      float32
		strength float32
	}{
		{"spot", r.Spot, 2048, 20, 1.0},
		{"light1", r.Light1, 1024, 10, 1.5},
		{"light2", r.Light2, 1024, 10, 1.5},
	}
	for _, tt := range tests {
		sh := tt.node.Light.Shadow
		if sh == nil {
			t.Fatalf("%s: no shadow config", tt.name)
		}
		if sh.MapSize != tt.mapSize {
			t.Errorf("%s map size: got %d, want %d", tt.name, sh.MapSize, tt.mapSize)
		}
		if sh.Near != 0.1 || sh.Far != tt.far {
			t.Errorf("%s clip: got %v..%v, want 0.1..%v", tt.name, sh.Near, sh.Far, tt.far)
		}
		if sh.Bias != -0.0001 || sh.Radius != 4 {
			t.Errorf("%s bias/radius: got %v/%v", tt.name, sh.Bias, sh.Radius)
		}
		if tt.node.Light.Intensity != tt.strength {
			t.Errorf("%s intensity: got %v, want %v", tt.name, tt.node.Light.Intensity, tt.strength)
		}
		if !tt.node.CastShadow {
			t.Errorf("%s: expected to cast shadows", tt.name)
		}
	}
}

func TestAdvanceQuarterTurn(t *testing.T) {
	r, _ := newTestRig()
	p := params.New()

	r.Advance(gomath.Pi/2, p)

	got := r.Light1.Position
	if gomath.Abs(float64(got.X)) > eps || gomath.Abs(float64(got.Z-0.8)) > eps {
		t.Errorf("light1: got %v, want (0, 1.3, 0.8)", got)
	}
	if gomath.Abs(float64(got.Y-1.3)) > eps {
		t.Errorf("light1 height: got %v, want 1.3", got.Y)
	}

	// Light 2 runs backwards with a half-turn offset: pi - pi/2
	got = r.Light2.Position
	if gomath.Abs(float64(got.X)) > eps || gomath.Abs(float64(got.Z-0.8)) > eps {
		t.Errorf("light2: got %v, want (0, 1.3, 0.8)", got)
	}
}

func TestAdvanceIsDeterministic(t *testing.T) {
	r, _ := newTestRig()
	p := params.New()

	r.Advance(12.34, p)
	a1, a2 := r.Light1.Position, r.Light2.Position
	r.Advance(0, p)
	r.Advance(12.34, p)

	if r.Light1.Position != a1 || r.Light2.Position != a2 {
		t.Errorf("positions differ for the same elapsed: %v/%v vs %v/%v",
			a1, a2, r.Light1.Position, r.Light2.Position)
	}
}

func TestAdvanceKeepsRadius(t *testing.T) {
	r, _ := newTestRig()
	p := params.New()
	p.Light1Radius = 1.7
	p.Light2Radius = 0.3
	p.Light1Speed = -1.3

	for i := 0; i < 500; i++ {
		elapsed := float64(i) * 0.37
		r.Advance(elapsed, p)
		for _, c := range []struct {
			pos    float64
			radius float64
		}{
			{gomath.Hypot(float64(r.Light1.Position.X), float64(r.Light1.Position.Z)), p.Light1Radius},
			{gomath.Hypot(float64(r.Light2.Position.X), float64(r.Light2.Position.Z)), p.Light2Radius},
		} {
			if gomath.Abs(c.pos-c.radius) > eps {
				t.Fatalf("elapsed %v: distance %v, want %v", elapsed, c.pos, c.radius)
			}
		}
	}
}

func TestAdvanceEdgeCases(t *testing.T) {
	r, _ := newTestRig()
	p := params.New()

	t.Run("zero radius", func(t *testing.T) {
		q := *p
		q.Light1Radius = 0
		r.Advance(3, &q)
		if r.Light1.Position.X != 0 || r.Light1.Position.Z != 0 {
			t.Errorf("got %v, want on axis", r.Light1.Position)
		}
	})

	t.Run("zero speed", func(t *testing.T) {
		q := *p
		q.Light1Speed = 0
		r.Advance(1, &q)
		first := r.Light1.Position
		r.Advance(100, &q)
		if r.Light1.Position != first {
			t.Errorf("light moved with zero speed: %v -> %v", first, r.Light1.Position)
		}
	})

	t.Run("negative speed mirrors", func(t *testing.T) {
		fwd := OrbitPosition(0.7, 1, 1, 0, 0)
		back := OrbitPosition(0.7, 1, -1, 0, 0)
		if gomath.Abs(float64(fwd.X-back.X)) > eps || gomath.Abs(float64(fwd.Z+back.Z)) > eps {
			t.Errorf("forward %v and reverse %v are not mirrored", fwd, back)
		}
	})
}

func TestApplyShadowQualityReleasesOnce(t *testing.T) {
	r, _ := newTestRig()

	maps := make([]*countingMap, 0, 3)
	for _, n := range r.Lights() {
		m := &countingMap{}
		n.Light.Shadow.Map = m
		maps = append(maps, m)
	}

	r.ApplyShadowQuality(1024)

	for i, m := range maps {
		if m.releases != 1 {
			t.Errorf("light %d: released %d times, want 1", i, m.releases)
		}
	}
	for _, n := range r.Lights() {
		if n.Light.Shadow.Map != nil {
			t.Errorf("%s: map not cleared", n.Name)
		}
	}
	if got := r.Spot.Light.Shadow.MapSize; got != 1024 {
		t.Errorf("spot map size: got %d, want 1024", got)
	}
	if got := r.Light1.Light.Shadow.MapSize; got != 512 {
		t.Errorf("light1 map size: got %d, want 512", got)
	}

	// Nothing baked yet, nothing to release again
	r.ApplyShadowQuality(2048)
	for i, m := range maps {
		if m.releases != 1 {
			t.Errorf("light %d: released %d times after second change, want 1", i, m.releases)
		}
	}
}

func TestSetShadowResolutionIgnoresNonShadowLights(t *testing.T) {
	r, _ := newTestRig()
	r.SetShadowResolution(r.Ambient, 512)
	r.SetShadowResolution(nil, 512)
	r.SetShadowResolution(scene.NewNode("plain"), 512)
	if r.Ambient.Light.Shadow != nil {
		t.Error("ambient light gained a shadow config")
	}
}

func TestConfigure(t *testing.T) {
	r, _ := newTestRig()
	m := &countingMap{}
	r.Spot.Light.Shadow.Map = m

	p := params.New()
	p.SpotLightIntensity = 2
	p.MovingLightIntensity = 0.5
	p.ShadowBias = 0.001
	p.ShadowRadius = 8

	r.Configure(p)

	if m.releases != 0 {
		t.Errorf("unchanged quality released the map %d times", m.releases)
	}
	if r.Spot.Light.Intensity != 2 || r.Light2.Light.Intensity != 0.5 {
		t.Errorf("intensities: got %v/%v", r.Spot.Light.Intensity, r.Light2.Light.Intensity)
	}
	for _, n := range r.Lights() {
		if n.Light.Shadow.Bias != 0.001 || n.Light.Shadow.Radius != 8 {
			t.Errorf("%s: bias %v radius %v", n.Name, n.Light.Shadow.Bias, n.Light.Shadow.Radius)
		}
	}

	p.ShadowMapSize = 4096
	r.Configure(p)
	if m.releases != 1 {
		t.Errorf("quality change released the map %d times, want 1", m.releases)
	}
}
