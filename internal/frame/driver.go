// Package frame runs the per-refresh update and render loop.
package frame

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/animator"
	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/lighting"
	"github.com/Faultbox/reflectbox/internal/logger"
	"github.com/Faultbox/reflectbox/internal/params"
	"github.com/Faultbox/reflectbox/internal/reflector"
	"github.com/Faultbox/reflectbox/internal/scene"
)

// FixedStep is the light animation time added per tick, before time scaling.
const FixedStep = 0.02

// State is the driver lifecycle state.
type State int

// Driver states.
const (
	Uninitialized State = iota
	Running
	Disposed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Driver errors.
var (
	ErrAlreadyStarted = errors.New("frame: driver already started")
	ErrDriverDisposed = errors.New("frame: driver disposed")
)

// Renderer draws the scene from the main camera and into cube targets.
type Renderer interface {
	reflector.CubeRenderer
	Render(sc *scene.Scene, cam *camera.Perspective) error
}

// Clock supplies wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config holds the collaborators of a Driver.
type Config struct {
	Params    *params.Store
	Rig       *lighting.Rig
	Scene     *scene.Scene
	Reflector *reflector.Reflector
	Renderer  Renderer
	Camera    *camera.Perspective
	Orbit     *camera.Orbit // optional
	Queue     *Queue
	Clock     Clock // optional, defaults to the system clock
}

// Driver advances and renders one frame per display refresh.
type Driver struct {
	cfg      Config
	state    State
	animator *animator.Animator

	elapsed float64
	last    time.Time
	handle  Handle

	ticks    uint64
	failures uint64
	stats    Stats

	log *zap.Logger
}

// New creates a driver in the Uninitialized state.
func New(cfg Config) *Driver {
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Queue == nil {
		cfg.Queue = NewQueue()
	}
	return &Driver{cfg: cfg, log: logger.Named("frame")}
}

// State returns the lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Elapsed returns the scaled light animation time.
func (d *Driver) Elapsed() float64 {
	return d.elapsed
}

// Ticks returns the number of completed ticks.
func (d *Driver) Ticks() uint64 {
	return d.ticks
}

// Failures returns the number of aborted ticks.
func (d *Driver) Failures() uint64 {
	return d.failures
}

// Stats returns the frame statistics.
func (d *Driver) Stats() *Stats {
	return &d.stats
}

// Queue returns the scheduler the driver runs on.
func (d *Driver) Queue() *Queue {
	return d.cfg.Queue
}

// Start moves the driver to Running and schedules the first tick.
func (d *Driver) Start() error {
	switch d.state {
	case Running:
		return ErrAlreadyStarted
	case Disposed:
		return ErrDriverDisposed
	}
	d.state = Running
	d.last = d.cfg.Clock.Now()
	d.schedule()
	d.log.Debug("frame driver started")
	return nil
}

// BindAnimator attaches a model animator to the running loop. Passing nil
// detaches the current one.
func (d *Driver) BindAnimator(a *animator.Animator) {
	d.animator = a
}

// Animator returns the bound animator, if any.
func (d *Driver) Animator() *animator.Animator {
	return d.animator
}

// Dispose cancels the pending tick. The driver cannot be restarted.
func (d *Driver) Dispose() {
	if d.state == Disposed {
		return
	}
	if d.handle != 0 {
		d.cfg.Queue.Cancel(d.handle)
		d.handle = 0
	}
	d.state = Disposed
	d.animator = nil
	d.log.Debug("frame driver disposed",
		zap.Uint64("ticks", d.ticks),
		zap.Uint64("failures", d.failures))
}

func (d *Driver) schedule() {
	d.handle = d.cfg.Queue.Request(func(time.Time) {
		d.handle = 0
		_ = d.Tick()
	})
}

// Tick advances and renders one frame, then schedules the next one.
// A failing step aborts the rest of this tick only; the error is logged
// and returned. Ticks outside the Running state do nothing.
func (d *Driver) Tick() (err error) {
	if d.state != Running {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame tick panicked: %v", r)
		}
		if err != nil {
			if errors.Is(err, scene.ErrDisposed) {
				err = nil
			} else {
				d.failures++
				d.log.Warn("frame tick failed",
					zap.Uint64("tick", d.ticks),
					zap.Error(err))
			}
		}
		if d.state == Running && d.handle == 0 {
			d.schedule()
		}
	}()

	return d.step()
}

func (d *Driver) step() error {
	p := d.cfg.Params
	now := d.cfg.Clock.Now()
	dt := now.Sub(d.last).Seconds()
	d.last = now

	d.elapsed += FixedStep * p.TimeScale

	d.cfg.Rig.Advance(d.elapsed, p)

	if d.animator != nil {
		d.animator.Advance(dt)
	}

	if p.AutoRotate {
		d.cfg.Scene.Root.Rotation.Y += float32(p.RotationSpeed)
	}

	if d.cfg.Orbit != nil {
		d.cfg.Orbit.Update()
	}

	if d.cfg.Reflector != nil {
		if err := d.cfg.Reflector.Capture(d.cfg.Renderer, d.cfg.Scene); err != nil {
			return err
		}
	}

	if err := d.cfg.Renderer.Render(d.cfg.Scene, d.cfg.Camera); err != nil {
		return fmt.Errorf("rendering frame: %w", err)
	}

	d.ticks++
	if d.stats.Frame(now) {
		d.log.Debug("frame stats",
			zap.Float64("fps", d.stats.FPS()),
			zap.Duration("frame_time", d.stats.FrameTime()))
	}
	return nil
}
