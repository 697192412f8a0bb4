package animator

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// Animator drives the animation of a loaded model. The first clip is
// bound; a model without clips stays in its rest pose.
type Animator struct {
	model  *scene.Node
	clips  []*Clip
	player *Player
}

// New creates an animator for model and binds the first clip, if any.
func New(model *scene.Node, clips []*Clip) *Animator {
	a := &Animator{model: model, clips: clips}
	if len(clips) > 0 && clips[0] != nil {
		a.player = NewPlayer(clips[0])
		a.player.Advance(0)
		logger.Debug("animation clip bound",
			zap.String("clip", clips[0].Name),
			zap.Float32("duration", clips[0].Duration),
			zap.Int("tracks", len(clips[0].Tracks)),
			zap.Int("available", len(clips)))
	}
	return a
}

// Model returns the animated root node.
func (a *Animator) Model() *scene.Node {
	return a.model
}

// Clips returns every clip the model carries.
func (a *Animator) Clips() []*Clip {
	return a.clips
}

// Active returns the bound clip, or nil for a static model.
func (a *Animator) Active() *Clip {
	if a.player == nil {
		return nil
	}
	return a.player.Clip()
}

// Time returns the bound clip's sample time.
func (a *Animator) Time() float64 {
	if a.player == nil {
		return 0
	}
	return a.player.Time()
}

// Advance moves the bound clip forward by dt seconds of wall-clock time.
// Negative dt leaves the pose and sample time unchanged.
func (a *Animator) Advance(dt float64) {
	if a.player == nil || dt < 0 {
		return
	}
	a.player.Advance(dt)
}
