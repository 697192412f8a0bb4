// Package app mounts the reflection room: it builds the scene, starts the
// frame driver, loads the model and exposes the live controls.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/animator"
	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/config"
	"github.com/Faultbox/reflectbox/internal/frame"
	"github.com/Faultbox/reflectbox/internal/lifecycle"
	"github.com/Faultbox/reflectbox/internal/lighting"
	"github.com/Faultbox/reflectbox/internal/loader"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/reflector"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// Cube camera clip planes for the environment capture.
const (
	CubeNear = 0.1
	CubeFar  = 10
)

// Renderer is the GPU backend the app draws with.
type Renderer interface {
	frame.Renderer
	lifecycle.Renderer
}

// Host describes the window the app is mounted into.
type Host struct {
	Renderer   Renderer
	Width      int
	Height     int
	PixelRatio float32

	Queue *frame.Queue // optional
	Clock frame.Clock  // optional
	Load  loader.Func  // optional, defaults to loader.Load
}

// App is a mounted scene.
type App struct {
	cfg    *config.Config
	params *params.Store

	room      *scene.Room
	rig       *lighting.Rig
	reflector *reflector.Reflector
	camera    *camera.Perspective
	orbit     *camera.Orbit
	driver    *frame.Driver
	queue     *frame.Queue
	adapter   *lifecycle.Adapter

	load       loader.Func
	cancelLoad context.CancelFunc
	loadSeq    int
	model      *loader.Model
	loadErr    error
	loading    bool

	now      func() time.Time
	controls *Controls
}

// Mount builds the scene for cfg, starts rendering it and begins loading
// the model in the background.
func Mount(cfg *config.Config, host Host) (*App, error) {
	if host.Renderer == nil {
		return nil, errors.New("app: host has no renderer")
	}
	if host.Queue == nil {
		host.Queue = frame.NewQueue()
	}
	if host.Load == nil {
		host.Load = loader.Load
	}

	p := cfg.Scene.Params.Clone()
	p.Sanitize()

	room := scene.NewRoom(scene.RoomConfig{
		Size:       cfg.Render.CubeSize,
		EnvMapSize: cfg.Render.EnvMapSize,
		Faces:      scene.DefaultFaces(),
	})
	sphere := cfg.Scene.Sphere
	room.SphereMaterial.Color = scene.Hex(sphere.Color)
	room.SphereMaterial.Metalness = sphere.Metalness
	room.SphereMaterial.Roughness = sphere.Roughness
	room.SphereMaterial.Clearcoat = sphere.Clearcoat
	room.SphereMaterial.ClearcoatRoughness = sphere.ClearcoatRoughness

	rig := lighting.NewRig(room.Scene, room.Size)
	rig.Configure(p)

	cube := camera.NewCubeCamera(CubeNear, CubeFar, room.EnvMap)
	refl := reflector.New(room.Sphere, cube)

	aspect := float32(1)
	if host.Width > 0 && host.Height > 0 {
		aspect = float32(host.Width) / float32(host.Height)
	}
	cam := camera.NewPerspective(aspect)
	cam.SetDistance(float32(p.CameraDistance))
	orbit := camera.NewOrbit(cam)
	orbit.MinDistance = float32(params.CameraDistance.Min)
	orbit.MaxDistance = float32(params.CameraDistance.Max)

	driver := frame.New(frame.Config{
		Params:    p,
		Rig:       rig,
		Scene:     room.Scene,
		Reflector: refl,
		Renderer:  host.Renderer,
		Camera:    cam,
		Orbit:     orbit,
		Queue:     host.Queue,
		Clock:     host.Clock,
	})

	a := &App{
		cfg:       cfg,
		params:    p,
		room:      room,
		rig:       rig,
		reflector: refl,
		camera:    cam,
		orbit:     orbit,
		driver:    driver,
		queue:     host.Queue,
		adapter:   lifecycle.New(cam, host.Renderer, driver),
		load:      host.Load,
		now:       time.Now,
	}
	if host.Clock != nil {
		a.now = host.Clock.Now
	}
	a.controls = &Controls{app: a}

	a.adapter.Defer("scene", func() error {
		room.Scene.Dispose()
		return nil
	})
	a.adapter.Defer("model", func() error {
		a.unloadModel()
		return nil
	})
	a.adapter.Defer("model-fetch", func() error {
		a.cancelFetch()
		return nil
	})
	a.adapter.OnResize(host.Width, host.Height, host.PixelRatio)

	if err := driver.Start(); err != nil {
		_ = a.adapter.Dispose()
		return nil, fmt.Errorf("starting frame driver: %w", err)
	}

	if !cfg.Model.Disabled && cfg.Model.URL != "" {
		a.startLoad(loader.NewSource(cfg.Model.URL))
	}

	logger.Info("scene mounted",
		zap.Float32("size", room.Size),
		zap.Int("env_map_size", room.EnvMap.Size),
		zap.Int("shadow_map_size", p.ShadowMapSize))
	return a, nil
}

// LoadModel replaces the current model with the one at location, an
// http(s) URL or a local path. A load still in flight is cancelled and its
// result dropped.
func (a *App) LoadModel(location string) error {
	if a.adapter.Disposed() {
		return scene.ErrDisposed
	}
	if location == "" {
		return errors.New("app: empty model location")
	}
	a.unloadModel()
	a.loadErr = nil
	a.startLoad(loader.NewSource(location))
	return nil
}

func (a *App) startLoad(src loader.Source) {
	a.cancelFetch()
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoad = cancel
	a.loadSeq++
	seq := a.loadSeq
	a.loading = true

	logger.Info("loading model", zap.String("source", src.Name()))
	a.load.Async(ctx, src, a.queue.Post, func(m *loader.Model, err error) {
		a.onModel(seq, m, err)
	})
}

func (a *App) cancelFetch() {
	if a.cancelLoad != nil {
		a.cancelLoad()
		a.cancelLoad = nil
	}
}

// onModel runs on the render goroutine when a background load finishes.
func (a *App) onModel(seq int, m *loader.Model, err error) {
	if seq != a.loadSeq {
		logger.Debug("dropping superseded model load")
		if m != nil {
			scene.ReleaseResources(m.Root)
		}
		return
	}
	a.loading = false
	a.cancelFetch()

	if a.adapter.Disposed() {
		logger.Debug("model arrived after dispose, dropping")
		if m != nil {
			scene.ReleaseResources(m.Root)
		}
		return
	}
	if err != nil {
		a.loadErr = err
		logger.Warn("model load failed", zap.Error(err))
		return
	}

	loader.Place(m, loader.DefaultScale)
	a.room.Scene.Add(m.Root)
	a.model = m
	a.driver.BindAnimator(animator.New(m.Root, m.Clips))
}

// unloadModel detaches the current model and releases its GPU resources.
func (a *App) unloadModel() {
	m := a.model
	if m == nil {
		return
	}
	a.driver.BindAnimator(nil)
	a.room.Scene.Remove(m.Root)
	scene.ReleaseResources(m.Root)
	a.model = nil
	logger.Debug("model unloaded", zap.String("source", m.Source))
}

// Resize forwards a window size change.
func (a *App) Resize(width, height int, pixelRatio float32) {
	a.adapter.OnResize(width, height, pixelRatio)
}

// Frame runs the queued work and the frame tick for one display refresh.
func (a *App) Frame() int {
	return a.queue.Flush(a.now())
}

// Dispose tears the app down. Calling it again does nothing.
func (a *App) Dispose() error {
	return a.adapter.Dispose()
}

// Disposed reports whether Dispose has run.
func (a *App) Disposed() bool { return a.adapter.Disposed() }

// Controls returns the live tuning surface.
func (a *App) Controls() *Controls { return a.controls }

// Params returns the live parameter store.
func (a *App) Params() *params.Store { return a.params }

// Room returns the static scene.
func (a *App) Room() *scene.Room { return a.room }

// Rig returns the lighting rig.
func (a *App) Rig() *lighting.Rig { return a.rig }

// Camera returns the main camera.
func (a *App) Camera() *camera.Perspective { return a.camera }

// Orbit returns the camera control.
func (a *App) Orbit() *camera.Orbit { return a.orbit }

// Driver returns the frame driver.
func (a *App) Driver() *frame.Driver { return a.driver }

// Reflector returns the environment reflector.
func (a *App) Reflector() *reflector.Reflector { return a.reflector }

// Queue returns the frame queue the host flushes.
func (a *App) Queue() *frame.Queue { return a.queue }

// Model returns the loaded model, or nil.
func (a *App) Model() *loader.Model { return a.model }

// Loading reports whether the model fetch is still in flight.
func (a *App) Loading() bool { return a.loading }

// LoadErr returns the model load failure, if any.
func (a *App) LoadErr() error { return a.loadErr }
