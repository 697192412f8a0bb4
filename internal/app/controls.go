package app

import (
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/config"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/scene"
	"github.com/Faultbox/reflectbox/pkg/math"
)

// Controls applies panel and hotkey edits. Every setter clamps its value to
// the control's range and takes effect immediately. Call only from the
// render goroutine.
type Controls struct {
	app *App
}

// Params returns a snapshot of the parameter store.
func (c *Controls) Params() params.Store {
	return *c.app.params
}

// Animation

func (c *Controls) SetTimeScale(v float64) {
	c.app.params.TimeScale = params.TimeScale.Clamp(v)
}

func (c *Controls) SetAutoRotate(on bool) {
	c.app.params.AutoRotate = on
}

func (c *Controls) ToggleAutoRotate() bool {
	c.app.params.AutoRotate = !c.app.params.AutoRotate
	return c.app.params.AutoRotate
}

func (c *Controls) SetRotationSpeed(v float64) {
	c.app.params.RotationSpeed = params.RotationSpeed.Clamp(v)
}

// Light animation. light is 1 or 2; other values are ignored.

func (c *Controls) SetLightRadius(light int, v float64) {
	v = params.LightRadius.Clamp(v)
	switch light {
	case 1:
		c.app.params.Light1Radius = v
	case 2:
		c.app.params.Light2Radius = v
	}
}

func (c *Controls) SetLightSpeed(light int, v float64) {
	v = params.LightSpeed.Clamp(v)
	switch light {
	case 1:
		c.app.params.Light1Speed = v
	case 2:
		c.app.params.Light2Speed = v
	}
}

// SetCameraDistance moves the camera along its current view direction.
func (c *Controls) SetCameraDistance(v float64) {
	v = params.CameraDistance.Clamp(v)
	c.app.params.CameraDistance = v
	c.app.orbit.SetDistance(float32(v))
}

// Zoom applies a wheel step to the orbit camera and keeps the distance
// parameter in step with it.
func (c *Controls) Zoom(wheel float32) {
	c.app.orbit.HandleZoom(wheel)
	c.app.params.CameraDistance = float64(c.app.orbit.Distance)
}

// Sphere material

func (c *Controls) SetSphereMetalness(v float64) {
	c.app.room.SphereMaterial.Metalness = float32(params.Unit.Clamp(v))
}

func (c *Controls) SetSphereRoughness(v float64) {
	c.app.room.SphereMaterial.Roughness = float32(params.Unit.Clamp(v))
}

func (c *Controls) SetSphereClearcoat(v float64) {
	c.app.room.SphereMaterial.Clearcoat = float32(params.Unit.Clamp(v))
}

func (c *Controls) SetSphereClearcoatRoughness(v float64) {
	c.app.room.SphereMaterial.ClearcoatRoughness = float32(params.ClearcoatRoughness.Clamp(v))
}

func (c *Controls) SetSphereColor(col scene.Color) {
	col.R = float32(params.Unit.Clamp(float64(col.R)))
	col.G = float32(params.Unit.Clamp(float64(col.G)))
	col.B = float32(params.Unit.Clamp(float64(col.B)))
	c.app.room.SphereMaterial.Color = col
}

// Lights and shadows

func (c *Controls) SetSpotIntensity(v float64) {
	v = params.LightIntensity.Clamp(v)
	c.app.params.SpotLightIntensity = v
	c.app.rig.SetSpotIntensity(float32(v))
}

func (c *Controls) SetMovingIntensity(v float64) {
	v = params.LightIntensity.Clamp(v)
	c.app.params.MovingLightIntensity = v
	c.app.rig.SetMovingIntensity(float32(v))
}

// SetShadowRadius sets the shadow blur of every light.
func (c *Controls) SetShadowRadius(v float64) {
	v = params.ShadowRadius.Clamp(v)
	c.app.params.ShadowRadius = v
	c.app.rig.SetShadowRadius(float32(v))
}

func (c *Controls) SetShadowBias(v float64) {
	v = params.ShadowBias.Clamp(v)
	c.app.params.ShadowBias = v
	c.app.rig.SetShadowBias(float32(v))
}

// SetShadowQuality switches the shadow map resolution. Sizes other than
// params.ShadowMapSizes are ignored. The baked maps are released so the
// renderer rebuilds them before the next frame.
func (c *Controls) SetShadowQuality(size int) bool {
	if !params.IsShadowMapSize(size) {
		logger.Debug("ignoring unknown shadow quality", zap.Int("size", size))
		return false
	}
	c.app.params.ShadowMapSize = size
	c.app.rig.ApplyShadowQuality(size)
	return true
}

// CycleShadowQuality steps to the next quality level and returns it.
func (c *Controls) CycleShadowQuality() int {
	next := params.NextShadowMapSize(c.app.params.ShadowMapSize)
	c.SetShadowQuality(next)
	return next
}

// SaveSettings copies the live parameters and the sphere material into the
// config and writes it to disk.
func (c *Controls) SaveSettings() error {
	a := c.app
	m := a.room.SphereMaterial
	a.cfg.Scene.Params = *a.params
	a.cfg.Scene.Sphere = config.SphereConfig{
		Color:              m.Color.Hex(),
		Metalness:          m.Metalness,
		Roughness:          m.Roughness,
		Clearcoat:          m.Clearcoat,
		ClearcoatRoughness: m.ClearcoatRoughness,
	}
	if err := a.cfg.Save(); err != nil {
		logger.Warn("saving settings failed", zap.String("path", a.cfg.Path()), zap.Error(err))
		return err
	}
	logger.Info("settings saved", zap.String("path", a.cfg.Path()))
	return nil
}

// SettingsPath returns the file SaveSettings writes.
func (c *Controls) SettingsPath() string {
	return c.app.cfg.Path()
}

// Model controls. They do nothing until a model has loaded.

// HasModel reports whether the model controls are live.
func (c *Controls) HasModel() bool {
	return c.app.model != nil
}

// ModelTransform returns the model's uniform scale, position and yaw.
func (c *Controls) ModelTransform() (scale float32, pos math.Vec3, yaw float32, ok bool) {
	if c.app.model == nil {
		return 0, math.Vec3{}, 0, false
	}
	root := c.app.model.Root
	return root.Scale.X, root.Position, root.Rotation.Y, true
}

func (c *Controls) SetModelScale(v float64) {
	if c.app.model == nil {
		return
	}
	c.app.model.Root.SetUniformScale(float32(params.ModelScale.Clamp(v)))
}

func (c *Controls) SetModelPosition(x, y, z float64) {
	if c.app.model == nil {
		return
	}
	c.app.model.Root.Position = math.Vec3{
		X: float32(params.ModelPosition.Clamp(x)),
		Y: float32(params.ModelPosition.Clamp(y)),
		Z: float32(params.ModelPosition.Clamp(z)),
	}
}

func (c *Controls) SetModelYaw(v float64) {
	if c.app.model == nil {
		return
	}
	c.app.model.Root.Rotation.Y = float32(params.ModelRotation.Clamp(v))
}
