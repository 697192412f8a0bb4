package main

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/reflectbox/internal/app"
)

var hotkeys = map[sdl.Scancode]app.Action{
	sdl.SCANCODE_R:            app.ActionToggleAutoRotate,
	sdl.SCANCODE_EQUALS:       app.ActionFaster,
	sdl.SCANCODE_KP_PLUS:      app.ActionFaster,
	sdl.SCANCODE_MINUS:        app.ActionSlower,
	sdl.SCANCODE_KP_MINUS:     app.ActionSlower,
	sdl.SCANCODE_Q:            app.ActionCycleShadowQuality,
	sdl.SCANCODE_LEFTBRACKET:  app.ActionCameraCloser,
	sdl.SCANCODE_RIGHTBRACKET: app.ActionCameraFarther,
	sdl.SCANCODE_S:            app.ActionSaveSettings,
}

// actionFor maps a key to its shortcut, ActionNone when unbound.
func actionFor(key sdl.Scancode) app.Action {
	return hotkeys[key]
}
