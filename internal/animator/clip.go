// Package animator plays keyframe animation clips on scene nodes.
package animator

import (
	"sort"

	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// Path is the node property a track animates.
type Path int

// Animated properties.
const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// String returns the property name.
func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	default:
		return "unknown"
	}
}

// Components returns the number of floats per key for the path.
func (p Path) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

// Interpolation selects how values between keys are computed.
type Interpolation int

// Interpolation modes. Cubic spline tracks carry only their value keys and
// are sampled like linear ones.
const (
	Linear Interpolation = iota
	Step
	CubicSpline
)

// Track animates one property of one node.
type Track struct {
	Target *scene.Node
	Path   Path
	Times  []float32 // Key times in seconds, ascending
	Values []float32 // Path.Components() floats per key; rotations are x, y, z, w
	Interp Interpolation
}

// Keys returns the number of usable keyframes.
func (t *Track) Keys() int {
	n := len(t.Values) / t.Path.Components()
	if len(t.Times) < n {
		n = len(t.Times)
	}
	return n
}

// bracket finds the keys surrounding time and the blend factor between them.
// Times before the first key or after the last clamp to that key.
func (t *Track) bracket(time float32) (prev, next int, frac float32) {
	n := t.Keys()
	next = sort.Search(n, func(i int) bool { return t.Times[i] > time })
	switch next {
	case 0:
		return 0, 0, 0
	case n:
		return n - 1, n - 1, 0
	}
	prev = next - 1

	t0, t1 := t.Times[prev], t.Times[next]
	if t1 != t0 {
		frac = (time - t0) / (t1 - t0)
	}
	return prev, next, frac
}

func (t *Track) vec3(i int) math.Vec3 {
	v := t.Values[i*3 : i*3+3]
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func (t *Track) quat(i int) math.Quat {
	v := t.Values[i*4 : i*4+4]
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

// Apply writes the track's value at time to its target node.
func (t *Track) Apply(time float32) {
	if t.Target == nil || t.Keys() == 0 {
		return
	}

	prev, next, frac := t.bracket(time)
	if t.Interp == Step {
		next, frac = prev, 0
	}

	switch t.Path {
	case PathTranslation:
		t.Target.Position = t.vec3(prev).Lerp(t.vec3(next), frac)
	case PathScale:
		t.Target.Scale = t.vec3(prev).Lerp(t.vec3(next), frac)
	case PathRotation:
		q := t.quat(prev)
		if next != prev {
			q = q.Slerp(t.quat(next), frac)
		}
		q = q.Normalize()
		t.Target.Quaternion = &q
	}
}

// Clip is a named set of tracks played together.
type Clip struct {
	Name     string
	Duration float32
	Tracks   []*Track
}

// NewClip creates a clip whose duration is the latest key time of its tracks.
func NewClip(name string, tracks []*Track) *Clip {
	c := &Clip{Name: name, Tracks: tracks}
	for _, tr := range tracks {
		if n := tr.Keys(); n > 0 && tr.Times[n-1] > c.Duration {
			c.Duration = tr.Times[n-1]
		}
	}
	return c
}

// Apply poses every track at time.
func (c *Clip) Apply(time float32) {
	for _, tr := range c.Tracks {
		tr.Apply(time)
	}
}
