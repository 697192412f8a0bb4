package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/params"
)

// Action is a keyboard shortcut understood by Controls.Apply.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionToggleAutoRotate
	ActionFaster
	ActionSlower
	ActionCycleShadowQuality
	ActionCameraCloser
	ActionCameraFarther
	ActionSaveSettings
)

// String returns the action name used in logs.
func (a Action) String() string {
	switch a {
	case ActionToggleAutoRotate:
		return "toggle-auto-rotate"
	case ActionFaster:
		return "faster"
	case ActionSlower:
		return "slower"
	case ActionCycleShadowQuality:
		return "cycle-shadow-quality"
	case ActionCameraCloser:
		return "camera-closer"
	case ActionCameraFarther:
		return "camera-farther"
	case ActionSaveSettings:
		return "save-settings"
	default:
		return "none"
	}
}

// Apply performs a shortcut action, stepping values by their control's
// Step and clamping like the corresponding setter.
func (c *Controls) Apply(a Action) {
	p := c.app.params
	switch a {
	case ActionToggleAutoRotate:
		c.ToggleAutoRotate()
	case ActionFaster:
		c.SetTimeScale(p.TimeScale + params.TimeScale.Step)
	case ActionSlower:
		c.SetTimeScale(p.TimeScale - params.TimeScale.Step)
	case ActionCycleShadowQuality:
		c.CycleShadowQuality()
	case ActionCameraCloser:
		c.SetCameraDistance(p.CameraDistance - params.CameraDistance.Step)
	case ActionCameraFarther:
		c.SetCameraDistance(p.CameraDistance + params.CameraDistance.Step)
	case ActionSaveSettings:
		_ = c.SaveSettings()
	default:
		return
	}
	logger.Debug("hotkey",
		zap.Stringer("action", a),
		zap.Float64("time_scale", p.TimeScale),
		zap.Bool("auto_rotate", p.AutoRotate),
		zap.Int("shadow_map_size", p.ShadowMapSize),
		zap.Float64("camera_distance", p.CameraDistance))
}
