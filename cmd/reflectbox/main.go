// Package main runs the reflection room in a plain SDL2 window with
// keyboard shortcuts for live tuning.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/app"
	"github.com/Faultbox/reflectbox/internal/config"
	"github.com/Faultbox/reflectbox/internal/engine/debug"
	"github.com/Faultbox/reflectbox/internal/engine/glrender"
	"github.com/Faultbox/reflectbox/internal/engine/input"
	"github.com/Faultbox/reflectbox/internal/engine/window"
	"github.com/Faultbox/reflectbox/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Reflectbox ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("reflectbox failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer win.Close()

	width, height := win.Size()
	renderer, err := glrender.New(glrender.Config{Width: width, Height: height, PixelRatio: win.PixelRatio()})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	a, err := app.Mount(cfg, app.Host{
		Renderer:   renderer,
		Width:      width,
		Height:     height,
		PixelRatio: win.PixelRatio(),
	})
	if err != nil {
		_ = renderer.Dispose()
		return fmt.Errorf("mounting scene: %w", err)
	}
	defer func() {
		if err := a.Dispose(); err != nil {
			logger.Warn("teardown incomplete", zap.Error(err))
		}
	}()

	in := input.New()
	shots := debug.NewScreenshotCapture("screenshots", "reflectbox")
	titleTimer := time.Now()

	logger.Info("controls: drag to orbit, wheel to zoom, R auto rotate, +/- time scale, Q shadow quality, [ ] camera distance, P screenshot, drop a .glb to load it, Esc quit")

	for {
		if in.Update() {
			return nil
		}

		capture := false
		for _, ev := range in.Events() {
			switch ev.Type {
			case input.EventWindowResize:
				a.Resize(ev.Width, ev.Height, win.PixelRatio())
			case input.EventDrag:
				a.Orbit().HandleDrag(ev.DeltaX, ev.DeltaY)
			case input.EventMouseWheel:
				a.Controls().Zoom(ev.WheelY)
			case input.EventDropFile:
				if err := a.LoadModel(ev.Path); err != nil {
					logger.Warn("cannot load dropped model", zap.String("path", ev.Path), zap.Error(err))
				}
			case input.EventKeyDown:
				switch ev.Key {
				case sdl.SCANCODE_ESCAPE:
					return nil
				case sdl.SCANCODE_P:
					capture = true
				default:
					a.Controls().Apply(actionFor(ev.Key))
				}
			}
		}

		a.Frame()

		if capture {
			pixels, w, h := renderer.ReadPixels()
			if name, err := shots.CaptureFromPixels(pixels, w, h); err != nil {
				logger.Warn("screenshot failed", zap.Error(err))
			} else {
				logger.Info("screenshot saved", zap.String("file", name))
			}
		}

		win.SwapBuffers()

		if cfg.Render.ShowStats && time.Since(titleTimer) >= time.Second {
			titleTimer = time.Now()
			win.SetTitle(windowTitle(cfg.Window.Title, a))
		}
	}
}

func windowTitle(base string, a *app.App) string {
	p := a.Params()
	return fmt.Sprintf("%s - %.0f FPS - x%.1f - shadows %d",
		base, a.Driver().Stats().FPS(), p.TimeScale, p.ShadowMapSize)
}
