package ui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/reflectbox/internal/app"
	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// PanelWidth is the width of the parameter panel docked to the right edge.
const PanelWidth = 300

// Panel draws the scene parameter folders. Every widget reads the current
// value and writes edits through app.Controls.
type Panel struct {
	app *app.App

	// DrawCalls reports the renderer's draw count for the stats folder. Optional.
	DrawCalls func() int
	// OpenModel, when set, adds an Open Model button to the model folder.
	OpenModel func()
	// ShowStats opens the Stats folder.
	ShowStats bool

	saveStatus string
}

// NewPanel creates a panel bound to a.
func NewPanel(a *app.App) *Panel {
	return &Panel{app: a, ShowStats: true}
}

// Draw lays out the panel. Call between ImGui NewFrame and Render.
func (p *Panel) Draw() {
	vp := imgui.MainViewport()
	workPos, workSize := vp.WorkPos(), vp.WorkSize()

	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+workSize.X-PanelWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(PanelWidth, workSize.Y))
	imgui.SetNextWindowBgAlpha(0.85)
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse
	if imgui.BeginV("Scene", nil, flags) {
		c := p.app.Controls()
		p.animation(c)
		p.lightAnimation(c)
		p.camera(c)
		p.sphereMaterial(c)
		p.lightsAndShadows(c)
		p.modelControls(c)
		p.stats()
		p.settings(c)
	}
	imgui.End()
}

// Hovered reports whether the mouse is over any ImGui window, so hosts can
// skip orbit input.
func Hovered() bool {
	return imgui.CurrentIO().WantCaptureMouse()
}

func folder(label string, open bool, body func()) {
	flags := imgui.TreeNodeFlagsNone
	if open {
		flags = imgui.TreeNodeFlagsDefaultOpen
	}
	if imgui.TreeNodeExStrV(label, flags) {
		body()
		imgui.TreePop()
	}
}

func slider(label string, v float64, r params.Range, format string, set func(float64)) {
	f := float32(v)
	if imgui.SliderFloatV(label, &f, float32(r.Min), float32(r.Max), format, imgui.SliderFlagsNone) {
		set(float64(f))
	}
}

func (p *Panel) animation(c *app.Controls) {
	folder("Animation", true, func() {
		v := c.Params()
		slider("Time Scale", v.TimeScale, params.TimeScale, "%.1f", c.SetTimeScale)
		auto := v.AutoRotate
		if imgui.Checkbox("Auto Rotate", &auto) {
			c.SetAutoRotate(auto)
		}
		slider("Rotation Speed", v.RotationSpeed, params.RotationSpeed, "%.2f", c.SetRotationSpeed)
	})
}

func (p *Panel) lightAnimation(c *app.Controls) {
	folder("Light Animation", false, func() {
		v := c.Params()
		slider("Light 1 Radius", v.Light1Radius, params.LightRadius, "%.1f", func(x float64) { c.SetLightRadius(1, x) })
		slider("Light 1 Speed", v.Light1Speed, params.LightSpeed, "%.1f", func(x float64) { c.SetLightSpeed(1, x) })
		slider("Light 2 Radius", v.Light2Radius, params.LightRadius, "%.1f", func(x float64) { c.SetLightRadius(2, x) })
		slider("Light 2 Speed", v.Light2Speed, params.LightSpeed, "%.1f", func(x float64) { c.SetLightSpeed(2, x) })
	})
}

func (p *Panel) camera(c *app.Controls) {
	folder("Camera", false, func() {
		slider("Distance", c.Params().CameraDistance, params.CameraDistance, "%.1f", c.SetCameraDistance)
		imgui.TextDisabled("(Drag to orbit, scroll to zoom)")
	})
}

func (p *Panel) sphereMaterial(c *app.Controls) {
	folder("Sphere Material", false, func() {
		m := p.app.Room().SphereMaterial
		slider("Metalness", float64(m.Metalness), params.Unit, "%.2f", c.SetSphereMetalness)
		slider("Roughness", float64(m.Roughness), params.Unit, "%.2f", c.SetSphereRoughness)
		slider("Clearcoat", float64(m.Clearcoat), params.Unit, "%.2f", c.SetSphereClearcoat)
		slider("Clearcoat Roughness", float64(m.ClearcoatRoughness), params.ClearcoatRoughness, "%.2f", c.SetSphereClearcoatRoughness)
		col := m.Color.Array()
		if imgui.ColorEdit3("Color", &col) {
			c.SetSphereColor(scene.Color{R: col[0], G: col[1], B: col[2]})
		}
	})
}

func (p *Panel) lightsAndShadows(c *app.Controls) {
	folder("Lights & Shadows", false, func() {
		v := c.Params()
		slider("Spot Intensity", v.SpotLightIntensity, params.LightIntensity, "%.1f", c.SetSpotIntensity)
		slider("Moving Intensity", v.MovingLightIntensity, params.LightIntensity, "%.1f", c.SetMovingIntensity)
		slider("Shadow Blur", v.ShadowRadius, params.ShadowRadius, "%.1f", c.SetShadowRadius)
		slider("Shadow Bias", v.ShadowBias, params.ShadowBias, "%.4f", c.SetShadowBias)

		imgui.Text("Shadow Quality")
		for i, size := range params.ShadowMapSizes {
			if i > 0 {
				imgui.SameLine()
			}
			label := fmt.Sprint(size)
			if size == v.ShadowMapSize {
				label = "[" + label + "]"
			}
			if imgui.Button(label + "##shadow") {
				c.SetShadowQuality(size)
			}
		}
	})
}

func (p *Panel) modelControls(c *app.Controls) {
	folder("Model Controls", false, func() {
		if p.OpenModel != nil {
			if imgui.Button("Open Model...") {
				p.OpenModel()
			}
		}
		scale, pos, yaw, ok := c.ModelTransform()
		if !ok {
			imgui.TextDisabled(ModelStatus(p.app.Loading(), p.app.LoadErr()))
			return
		}
		slider("Scale", float64(scale), params.ModelScale, "%.1f", c.SetModelScale)
		slider("Position X", float64(pos.X), params.ModelPosition, "%.1f", func(x float64) {
			c.SetModelPosition(x, float64(pos.Y), float64(pos.Z))
		})
		slider("Position Y", float64(pos.Y), params.ModelPosition, "%.1f", func(y float64) {
			c.SetModelPosition(float64(pos.X), y, float64(pos.Z))
		})
		slider("Position Z", float64(pos.Z), params.ModelPosition, "%.1f", func(z float64) {
			c.SetModelPosition(float64(pos.X), float64(pos.Y), z)
		})
		slider("Rotation", float64(yaw), params.ModelRotation, "%.2f", c.SetModelYaw)
	})
}

func (p *Panel) stats() {
	folder("Stats", p.ShowStats, func() {
		d := p.app.Driver()
		s := d.Stats()
		drawCalls := -1
		if p.DrawCalls != nil {
			drawCalls = p.DrawCalls()
		}
		for _, line := range StatsLines(s.FPS(), s.FrameTime(), d.Ticks(), d.Failures(), drawCalls) {
			imgui.Text(line)
		}
	})
}

func (p *Panel) settings(c *app.Controls) {
	imgui.Separator()
	if imgui.Button("Save Settings") {
		p.saveStatus = SaveStatus(c.SettingsPath(), c.SaveSettings())
	}
	if p.saveStatus != "" {
		imgui.TextWrapped(p.saveStatus)
	}
}

// SaveStatus describes the outcome of Save Settings.
func SaveStatus(path string, err error) string {
	if err != nil {
		return "Save failed: " + err.Error()
	}
	return "Saved to " + path
}

// ModelStatus describes a model that is not available yet.
func ModelStatus(loading bool, err error) string {
	switch {
	case loading:
		return "Loading model..."
	case err != nil:
		return "Model unavailable: " + err.Error()
	default:
		return "No model"
	}
}

// StatsLines formats the stats folder. A negative drawCalls is omitted.
func StatsLines(fps float64, frameTime time.Duration, ticks, failures uint64, drawCalls int) []string {
	lines := []string{
		fmt.Sprintf("FPS: %.1f", fps),
		fmt.Sprintf("Frame: %.2f ms", float64(frameTime.Microseconds())/1000),
		fmt.Sprintf("Ticks: %d", ticks),
	}
	if failures > 0 {
		lines = append(lines, fmt.Sprintf("Failed frames: %d", failures))
	}
	if drawCalls >= 0 {
		lines = append(lines, fmt.Sprintf("Draw calls: %d", drawCalls))
	}
	return lines
}
