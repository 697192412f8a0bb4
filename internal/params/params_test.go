package params

import (
	"math"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"time scale", p.TimeScale, 1},
		{"rotation speed", p.RotationSpeed, 0.01},
		{"light1 radius", p.Light1Radius, 0.8},
		{"light2 radius", p.Light2Radius, 0.8},
		{"light1 speed", p.Light1Speed, 1},
		{"light2 speed", p.Light2Speed, -1},
		{"camera distance", p.CameraDistance, 5},
		{"spot intensity", p.SpotLightIntensity, 1},
		{"moving intensity", p.MovingLightIntensity, 1.5},
		{"shadow radius", p.ShadowRadius, 4},
		{"shadow bias", p.ShadowBias, -0.0001},
		{"shadow darkness", p.ShadowDarkness, 0.5},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if !p.AutoRotate {
		t.Error("expected auto rotate on by default")
	}
	if p.ShadowMapSize != 2048 {
		t.Errorf("shadow map size: got %d, want 2048", p.ShadowMapSize)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := New()
	c := p.Clone()
	c.TimeScale = 2
	if p.TimeScale != 1 {
		t.Errorf("clone aliased original: got %v", p.TimeScale)
	}
}

func TestRangeClamp(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		in   float64
		want float64
	}{
		{"inside", TimeScale, 1.5, 1.5},
		{"below", TimeScale, 0, 0.1},
		{"above", TimeScale, 3, 2},
		{"negative bound", RotationSpeed, -7, -5},
		{"nan", CameraDistance, math.NaN(), 5},
	}
	for _, tt := range tests {
		if got := tt.r.Clamp(tt.in); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNextShadowMapSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{512, 1024},
		{1024, 2048},
		{2048, 4096},
		{4096, 512},
		{300, 512},
	}
	for _, tt := range tests {
		if got := NextShadowMapSize(tt.in); got != tt.want {
			t.Errorf("NextShadowMapSize(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	p := Default()
	p.TimeScale = 10
	p.Light1Radius = -1
	p.ShadowMapSize = 3000
	p.ShadowBias = 1

	p.Sanitize()

	if p.TimeScale != 2 {
		t.Errorf("time scale: got %v, want 2", p.TimeScale)
	}
	if p.Light1Radius != 0.2 {
		t.Errorf("light1 radius: got %v, want 0.2", p.Light1Radius)
	}
	if p.ShadowMapSize != 2048 {
		t.Errorf("shadow map size: got %d, want 2048", p.ShadowMapSize)
	}
	if p.ShadowBias != 0.01 {
		t.Errorf("shadow bias: got %v, want 0.01", p.ShadowBias)
	}

	d := Default()
	d.Sanitize()
	if d != Default() {
		t.Errorf("defaults changed by Sanitize: %+v", d)
	}
}
