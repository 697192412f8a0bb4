package main

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/reflectbox/internal/app"
)

var hotkeys = map[imgui.Key]app.Action{
	imgui.KeyR:              app.ActionToggleAutoRotate,
	imgui.KeyEqual:          app.ActionFaster,
	imgui.KeyKeypadAdd:      app.ActionFaster,
	imgui.KeyMinus:          app.ActionSlower,
	imgui.KeyKeypadSubtract: app.ActionSlower,
	imgui.KeyQ:              app.ActionCycleShadowQuality,
	imgui.KeyLeftBracket:    app.ActionCameraCloser,
	imgui.KeyRightBracket:   app.ActionCameraFarther,
	imgui.KeyS:              app.ActionSaveSettings,
}
