package animator

import gomath "math"

// Player plays one clip in a loop.
type Player struct {
	clip *Clip
	time float64
}

// NewPlayer binds clip at time zero.
func NewPlayer(clip *Clip) *Player {
	return &Player{clip: clip}
}

// Clip returns the bound clip.
func (p *Player) Clip() *Clip {
	return p.clip
}

// Time returns the current sample time within the clip.
func (p *Player) Time() float64 {
	return p.time
}

// Advance moves the sample time forward by dt seconds, wrapping at the clip
// duration, and poses the clip. Negative dt does nothing; zero re-applies
// the current pose.
func (p *Player) Advance(dt float64) {
	if dt < 0 || gomath.IsNaN(dt) || gomath.IsInf(dt, 0) {
		return
	}
	p.time += dt
	if d := float64(p.clip.Duration); d > 0 && p.time >= d {
		p.time = gomath.Mod(p.time, d)
	}
	p.clip.Apply(float32(p.time))
}
