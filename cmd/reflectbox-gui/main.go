// Package main runs the reflection room under an ImGui parameter panel.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/reflectbox/internal/app"
	"github.com/Faultbox/reflectbox/internal/config"
	"github.com/Faultbox/reflectbox/internal/engine/glrender"
	"github.com/Faultbox/reflectbox/internal/engine/ui"
	"github.com/Faultbox/reflectbox/internal/logger"
)

func main() {
	runtime.LockOSThread()
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

	logger.Info("=== Reflectbox GUI ===")

	if err := run(cfg); err != nil {
		logger.Error("reflectbox-gui failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("closed normally")
}

// host renders the scene into an offscreen framebuffer shown as the
// window background, with the panel on top.
type host struct {
	app      *app.App
	renderer *glrender.Renderer
	target   *glrender.Framebuffer
	panel    *ui.Panel

	width, height int
	pixelRatio    float32
}

func run(cfg *config.Config) error {
	backend, err := ui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return err
	}

	h := &host{width: cfg.Window.Width, height: cfg.Window.Height, pixelRatio: 1}

	h.renderer, err = glrender.New(glrender.Config{Width: h.width, Height: h.height, PixelRatio: h.pixelRatio})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	h.target, err = glrender.NewFramebuffer(h.renderer.DrawableSize())
	if err != nil {
		_ = h.renderer.Dispose()
		return fmt.Errorf("creating scene target: %w", err)
	}
	h.renderer.SetTarget(h.target)

	h.app, err = app.Mount(cfg, app.Host{
		Renderer:   h.renderer,
		Width:      h.width,
		Height:     h.height,
		PixelRatio: h.pixelRatio,
	})
	if err != nil {
		h.target.Release()
		_ = h.renderer.Dispose()
		return fmt.Errorf("mounting scene: %w", err)
	}

	h.panel = ui.NewPanel(h.app)
	h.panel.DrawCalls = h.renderer.DrawCalls
	h.panel.ShowStats = cfg.Render.ShowStats
	h.panel.OpenModel = h.openModel

	backend.OnClose(h.close)
	backend.Run(h.frame)
	return nil
}

func (h *host) close() {
	if err := h.app.Dispose(); err != nil {
		logger.Warn("teardown incomplete", zap.Error(err))
	}
	h.target.Release()
}

// openModel shows a native file dialog off the render goroutine and queues
// the chosen file for loading.
func (h *host) openModel() {
	queue := h.app.Queue()
	go func() {
		path, err := dialog.File().
			Filter("glTF models", "glb", "gltf").
			Filter("All Files", "*").
			Title("Open Model").
			Load()
		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Warn("file dialog failed", zap.Error(err))
			}
			return
		}
		queue.Post(func() {
			if err := h.app.LoadModel(path); err != nil {
				logger.Warn("cannot load model", zap.String("path", path), zap.Error(err))
			}
		})
	}()
}

func (h *host) frame() {
	if w, ht, ratio := ui.Viewport(); w > 0 && ht > 0 && (w != h.width || ht != h.height || ratio != h.pixelRatio) {
		h.width, h.height, h.pixelRatio = w, ht, ratio
		h.app.Resize(w, ht, ratio)
	}

	if !imgui.CurrentIO().WantCaptureKeyboard() {
		for key, action := range hotkeys {
			if ui.IsKeyPressed(key) {
				h.app.Controls().Apply(action)
			}
		}
	}

	h.app.Frame()
	h.drawScene()
	h.panel.Draw()
}

// drawScene shows the offscreen target as a full-window image and feeds
// mouse input over it to the orbit control.
func (h *host) drawScene() {
	vp := imgui.MainViewport()
	imgui.SetNextWindowPos(vp.WorkPos())
	imgui.SetNextWindowSize(vp.WorkSize())
	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoMove |
		imgui.WindowFlagsNoScrollbar | imgui.WindowFlagsNoScrollWithMouse |
		imgui.WindowFlagsNoBringToFrontOnFocus | imgui.WindowFlagsNoCollapse
	if imgui.BeginV("##scene", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(h.target.ColorTexture()))
		imgui.ImageWithBgV(
			*texRef,
			vp.WorkSize(),
			imgui.NewVec2(0, 1), // GL rows are bottom-up
			imgui.NewVec2(1, 0),
			imgui.NewVec4(0, 0, 0, 1),
			imgui.NewVec4(1, 1, 1, 1),
		)
		if imgui.IsItemHovered() {
			io := imgui.CurrentIO()
			if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
				delta := io.MouseDelta()
				h.app.Orbit().HandleDrag(delta.X, delta.Y)
			}
			if wheel := io.MouseWheel(); wheel != 0 {
				h.app.Controls().Zoom(wheel)
			}
		}
	}
	imgui.End()
	imgui.PopStyleVar()
}
