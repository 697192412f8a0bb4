// Package lifecycle adapts host window events to the scene and owns teardown.
package lifecycle

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/logger"
)

// Renderer is the part of the GPU backend the adapter manages.
type Renderer interface {
	SetSize(width, height int, pixelRatio float32)
	Dispose() error
}

// Driver is the frame loop to stop on teardown.
type Driver interface {
	Dispose()
}

type teardownStep struct {
	name string
	fn   func() error
}

// Adapter keeps the camera and renderer in sync with the host window and
// tears everything down exactly once.
type Adapter struct {
	camera   *camera.Perspective
	renderer Renderer
	driver   Driver

	width, height int
	pixelRatio    float32

	steps    []teardownStep
	disposed bool

	log *zap.Logger
}

// New creates an adapter. The driver may be attached later with SetDriver.
func New(cam *camera.Perspective, r Renderer, d Driver) *Adapter {
	return &Adapter{camera: cam, renderer: r, driver: d, pixelRatio: 1, log: logger.Named("lifecycle")}
}

// SetDriver sets the frame loop stopped first on Dispose.
func (a *Adapter) SetDriver(d Driver) {
	a.driver = d
}

// OnResize applies a new logical window size and pixel density. The
// drawable size is the logical size times the pixel ratio. Zero sizes are
// treated as one pixel.
func (a *Adapter) OnResize(width, height int, pixelRatio float32) {
	if a.disposed {
		return
	}
	width, height = max(width, 1), max(height, 1)
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	a.width, a.height, a.pixelRatio = width, height, pixelRatio

	a.camera.SetAspect(float32(width) / float32(height))
	a.renderer.SetSize(width, height, pixelRatio)

	a.log.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float32("pixel_ratio", pixelRatio))
}

// Size returns the last applied logical size and pixel ratio.
func (a *Adapter) Size() (width, height int, pixelRatio float32) {
	return a.width, a.height, a.pixelRatio
}

// Defer registers a teardown step. Steps run in reverse registration order.
// Registering after Dispose runs the step immediately.
func (a *Adapter) Defer(name string, fn func() error) {
	if a.disposed {
		if err := runStep(teardownStep{name, fn}); err != nil {
			a.log.Warn("late teardown step failed", zap.String("step", name), zap.Error(err))
		}
		return
	}
	a.steps = append(a.steps, teardownStep{name: name, fn: fn})
}

// Disposed reports whether Dispose has run.
func (a *Adapter) Disposed() bool {
	return a.disposed
}

// Dispose stops the frame loop, runs the registered teardown steps and
// disposes the renderer. Every step runs even if an earlier one fails; the
// failures are combined. Calling Dispose again does nothing.
func (a *Adapter) Dispose() error {
	if a.disposed {
		return nil
	}
	a.disposed = true

	if a.driver != nil {
		a.driver.Dispose()
	}

	var errs error
	for i := len(a.steps) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, runStep(a.steps[i]))
	}
	a.steps = nil

	if a.renderer != nil {
		if err := a.renderer.Dispose(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("renderer: %w", err))
		}
	}

	if errs != nil {
		a.log.Warn("teardown finished with errors",
			zap.Int("count", len(multierr.Errors(errs))),
			zap.Error(errs))
	} else {
		a.log.Debug("teardown complete")
	}
	return errs
}

func runStep(s teardownStep) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", s.name, r)
		}
	}()
	if err := s.fn(); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	return nil
}
