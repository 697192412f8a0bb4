package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Faultbox/reflectbox/internal/animator"
	"github.com/Faultbox/reflectbox/internal/camera"
	"github.com/Faultbox/reflectbox/internal/config"
	"github.com/Faultbox/reflectbox/internal/frame"
	"github.com/Faultbox/reflectbox/internal/loader"
	"github.com/Faultbox/reflectbox/internal/scene"
)

type fakeRenderer struct {
	renders  int
	cubes    int
	disposed int

	width, height int
	ratio         float32
}

func (r *fakeRenderer) RenderCube(*scene.Scene, *camera.CubeCamera) error {
	if r.disposed > 0 {
		return scene.ErrDisposed
	}
	r.cubes++
	return nil
}

func (r *fakeRenderer) Render(*scene.Scene, *camera.Perspective) error {
	if r.disposed > 0 {
		return scene.ErrDisposed
	}
	r.renders++
	return nil
}

func (r *fakeRenderer) SetSize(w, h int, ratio float32) {
	r.width, r.height, r.ratio = w, h, ratio
}

func (r *fakeRenderer) Dispose() error {
	r.disposed++
	return nil
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Model.Disabled = true
	return cfg
}

func mount(t *testing.T, cfg *config.Config, load loader.Func) (*App, *fakeRenderer) {
	t.Helper()
	r := &fakeRenderer{}
	a, err := Mount(cfg, Host{Renderer: r, Width: 800, Height: 600, PixelRatio: 2, Load: load})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	t.Cleanup(func() { _ = a.Dispose() })
	return a, r
}

// settle flushes frames until the model load has completed.
func settle(t *testing.T, a *App) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for a.Loading() {
		if time.Now().After(deadline) {
			t.Fatal("model load never completed")
		}
		a.Frame()
		time.Sleep(2 * time.Millisecond)
	}
}

func countNodes(n *scene.Node) int {
	count := 0
	n.Traverse(func(*scene.Node) { count++ })
	return count
}

func testModel() *loader.Model {
	root := scene.NewNode("model")
	body := scene.NewMeshNode("body", scene.NewSphere(0.5, 8, 8), scene.NewPhysical(scene.Hex(0x808080)))
	root.Add(body)
	clip := animator.NewClip("wave", []*animator.Track{{
		Target: body,
		Path:   animator.PathTranslation,
		Times:  []float32{0, 1},
		Values: []float32{0, 0, 0, 0, 0.5, 0},
	}})
	return &loader.Model{Root: root, Clips: []*animator.Clip{clip}, Meshes: 1}
}

func TestMountRendersStaticScene(t *testing.T) {
	a, r := mount(t, testConfig(), nil)

	if a.Driver().State() != frame.Running {
		t.Fatalf("driver state: got %v, want running", a.Driver().State())
	}
	if r.width != 800 || r.height != 600 || r.ratio != 2 {
		t.Errorf("renderer size: got %dx%d@%v, want 800x600@2", r.width, r.height, r.ratio)
	}
	if got, want := a.Camera().Aspect, float32(800)/600; got != want {
		t.Errorf("aspect: got %v, want %v", got, want)
	}

	a.Frame()
	a.Frame()
	if r.renders != 2 || r.cubes != 2 {
		t.Errorf("after two frames: got %d renders %d cube captures, want 2/2", r.renders, r.cubes)
	}
	if a.Loading() || a.Model() != nil {
		t.Errorf("disabled model: loading %v model %v", a.Loading(), a.Model())
	}
}

func TestMountRequiresRenderer(t *testing.T) {
	if _, err := Mount(testConfig(), Host{}); err == nil {
		t.Error("Mount without renderer: got nil error")
	}
}

func TestModelLoadFailureKeepsSceneRenderable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = srv.URL + "/robot.glb"

	a, r := mount(t, cfg, nil)
	before := countNodes(a.Room().Scene.Root)
	settle(t, a)

	if a.LoadErr() == nil {
		t.Error("LoadErr: got nil, want fetch error")
	}
	if a.Model() != nil || a.Driver().Animator() != nil {
		t.Error("failed load left a model or animator behind")
	}
	if after := countNodes(a.Room().Scene.Root); after != before {
		t.Errorf("scene nodes: got %d, want %d", after, before)
	}

	renders := r.renders
	a.Frame()
	if r.renders != renders+1 {
		t.Errorf("render after failure: got %d renders, want %d", r.renders, renders+1)
	}
}

func TestModelLoadSuccessBindsAnimator(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://robot.glb"

	m := testModel()
	a, _ := mount(t, cfg, func(context.Context, loader.Source) (*loader.Model, error) {
		return m, nil
	})
	settle(t, a)

	if a.Model() != m {
		t.Fatal("model not installed")
	}
	if m.Root.Parent() != a.Room().Scene.Root {
		t.Error("model root not attached to the scene")
	}
	if m.Root.Position.Y != 1 {
		t.Errorf("model lift: got %v, want 1", m.Root.Position.Y)
	}
	anim := a.Driver().Animator()
	if anim == nil || anim.Active() == nil || anim.Active().Name != "wave" {
		t.Fatal("animator not bound with the first clip")
	}
	if !a.Controls().HasModel() {
		t.Error("model controls not live")
	}
}

func TestDisposeDuringLoad(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://slow.glb"

	started := make(chan struct{})
	a, r := mount(t, cfg, func(ctx context.Context, _ loader.Source) (*loader.Model, error) {
		close(started)
		<-ctx.Done()
		return testModel(), ctx.Err()
	})
	<-started

	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	settle(t, a)

	if a.Model() != nil {
		t.Error("model installed after dispose")
	}
	if err := a.Dispose(); err != nil {
		t.Errorf("second Dispose: %v", err)
	}
	if r.disposed != 1 {
		t.Errorf("renderer disposed %d times, want 1", r.disposed)
	}
	if a.Driver().State() != frame.Disposed {
		t.Errorf("driver state: got %v, want disposed", a.Driver().State())
	}
}

func TestDisposeRemovesModel(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://robot.glb"

	m := testModel()
	a, _ := mount(t, cfg, func(context.Context, loader.Source) (*loader.Model, error) {
		return m, nil
	})
	settle(t, a)

	if err := a.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}
	if m.Root.Parent() != nil {
		t.Error("model still attached after dispose")
	}
	if !a.Room().Scene.Disposed() {
		t.Error("scene not disposed")
	}
}

func TestLoadErrorIsReported(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://broken.glb"

	a, _ := mount(t, cfg, func(context.Context, loader.Source) (*loader.Model, error) {
		return nil, loader.ErrNoScene
	})
	settle(t, a)

	if !errors.Is(a.LoadErr(), loader.ErrNoScene) {
		t.Errorf("LoadErr: got %v, want ErrNoScene", a.LoadErr())
	}
}

func TestMalformedModelKeepsSceneRenderable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"asset":{"version":"2.0"},"scene":0,"scenes":[{"nodes":[0]}],"nodes":[null]}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = srv.URL + "/broken.gltf"

	a, r := mount(t, cfg, nil)
	before := countNodes(a.Room().Scene.Root)
	settle(t, a)

	if !errors.Is(a.LoadErr(), loader.ErrMalformed) {
		t.Errorf("LoadErr: got %v, want ErrMalformed", a.LoadErr())
	}
	if a.Model() != nil {
		t.Error("malformed load left a model behind")
	}
	if after := countNodes(a.Room().Scene.Root); after != before {
		t.Errorf("scene nodes: got %d, want %d", after, before)
	}

	renders := r.renders
	a.Frame()
	if r.renders != renders+1 {
		t.Errorf("render after failure: got %d renders, want %d", r.renders, renders+1)
	}
}

func TestPanickingLoaderIsReported(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://broken.glb"

	a, _ := mount(t, cfg, func(context.Context, loader.Source) (*loader.Model, error) {
		var m *loader.Model
		return m, fmt.Errorf("unreachable: %d", len(m.Clips))
	})
	settle(t, a)

	if !errors.Is(a.LoadErr(), loader.ErrMalformed) {
		t.Errorf("LoadErr: got %v, want ErrMalformed", a.LoadErr())
	}
	a.Frame()
}

func TestLoadModelReplacesModel(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://first.glb"

	models := map[string]*loader.Model{
		"first.glb":  testModel(),
		"second.glb": testModel(),
	}
	a, _ := mount(t, cfg, func(_ context.Context, src loader.Source) (*loader.Model, error) {
		return models[src.Name()], nil
	})
	settle(t, a)
	first := a.Model()
	if first != models["first.glb"] {
		t.Fatal("first model not installed")
	}

	if err := a.LoadModel("memory://second.glb"); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if first.Root.Parent() != nil {
		t.Error("first model still attached")
	}
	settle(t, a)

	if a.Model() != models["second.glb"] {
		t.Fatal("second model not installed")
	}
	if got := countModelRoots(a); got != 1 {
		t.Errorf("model roots in scene: got %d, want 1", got)
	}
	if a.Driver().Animator() == nil {
		t.Error("animator not rebound")
	}
}

func TestLoadModelDropsSupersededLoad(t *testing.T) {
	cfg := testConfig()
	cfg.Model.Disabled = false
	cfg.Model.URL = "memory://slow.glb"

	fast := testModel()
	a, _ := mount(t, cfg, func(ctx context.Context, src loader.Source) (*loader.Model, error) {
		if src.Name() == "slow.glb" {
			<-ctx.Done()
			return testModel(), nil
		}
		return fast, nil
	})

	if err := a.LoadModel("memory://fast.glb"); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	settle(t, a)
	// Give the cancelled slow load time to post its stale result.
	time.Sleep(20 * time.Millisecond)
	a.Frame()

	if a.Model() != fast {
		t.Fatal("superseded load replaced the newer model")
	}
	if got := countModelRoots(a); got != 1 {
		t.Errorf("model roots in scene: got %d, want 1", got)
	}
}

func TestLoadModelAfterDispose(t *testing.T) {
	a, _ := mount(t, testConfig(), nil)
	if err := a.LoadModel(""); err == nil {
		t.Error("empty location: got nil error")
	}
	_ = a.Dispose()
	if err := a.LoadModel("memory://late.glb"); !errors.Is(err, scene.ErrDisposed) {
		t.Errorf("LoadModel after dispose: got %v, want ErrDisposed", err)
	}
}

func countModelRoots(a *App) int {
	n := 0
	for _, c := range a.Room().Scene.Root.Children() {
		if c.Name == "model" {
			n++
		}
	}
	return n
}
