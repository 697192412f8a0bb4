package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test window defaults
	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test render defaults
	if cfg.Render.EnvMapSize != 256 {
		t.Errorf("expected env map size 256, got %d", cfg.Render.EnvMapSize)
	}
	if cfg.Render.CubeSize != 3 {
		t.Errorf("expected cube size 3, got %f", cfg.Render.CubeSize)
	}

	// Test scene defaults
	if cfg.Scene.Params.ShadowMapSize != 2048 {
		t.Errorf("expected shadow map size 2048, got %d", cfg.Scene.Params.ShadowMapSize)
	}
	if !cfg.Scene.Params.AutoRotate {
		t.Error("expected auto rotate to be true by default")
	}

	// Test model defaults
	if cfg.Model.URL != DefaultModelURL {
		t.Errorf("expected default model url, got %s", cfg.Model.URL)
	}
	if cfg.Model.Disabled {
		t.Error("expected model to be enabled by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false

render:
  env_map_size: 512
  cube_size: 4

scene:
  params:
    time_scale: 0.5
    auto_rotate: false
    light1_radius: 1.2
    shadow_map_size: 1024

model:
  url: "assets/robot.glb"

logging:
  level: "debug"
  log_file: "reflectbox.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}

	if cfg.Render.EnvMapSize != 512 {
		t.Errorf("expected env map size 512, got %d", cfg.Render.EnvMapSize)
	}
	if cfg.Render.CubeSize != 4 {
		t.Errorf("expected cube size 4, got %f", cfg.Render.CubeSize)
	}

	p := cfg.Scene.Params
	if p.TimeScale != 0.5 {
		t.Errorf("expected time scale 0.5, got %f", p.TimeScale)
	}
	if p.AutoRotate {
		t.Error("expected auto rotate to be false")
	}
	if p.Light1Radius != 1.2 {
		t.Errorf("expected light1 radius 1.2, got %f", p.Light1Radius)
	}
	if p.ShadowMapSize != 1024 {
		t.Errorf("expected shadow map size 1024, got %d", p.ShadowMapSize)
	}
	// Untouched keys keep their defaults
	if p.Light2Speed != -1 {
		t.Errorf("expected light2 speed -1, got %f", p.Light2Speed)
	}

	if cfg.Model.URL != "assets/robot.glb" {
		t.Errorf("expected model url 'assets/robot.glb', got %s", cfg.Model.URL)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "reflectbox.log" {
		t.Errorf("expected log file 'reflectbox.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Isolate from any real user config
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Render.ShowStats {
					t.Error("expected stats to be enabled with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "model flag",
			setup: func() {
				*flagModel = "/tmp/robot.glb"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Model.URL != "/tmp/robot.glb" {
					t.Errorf("expected model /tmp/robot.glb, got %s", cfg.Model.URL)
				}
			},
			teardown: func() {
				*flagModel = ""
			},
		},
		{
			name: "no-model flag",
			setup: func() {
				*flagNoModel = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Model.Disabled {
					t.Error("expected model to be disabled")
				}
			},
			teardown: func() {
				*flagNoModel = false
			},
		},
		{
			name: "no-vsync flag",
			setup: func() {
				*flagNoVSync = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.VSync {
					t.Error("expected vsync to be disabled")
				}
			},
			teardown: func() {
				*flagNoVSync = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadSanitizesParams(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
scene:
  params:
    time_scale: 9
    shadow_map_size: 777
render:
  env_map_size: 0
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Scene.Params.TimeScale != 2 {
		t.Errorf("expected time scale clamped to 2, got %f", cfg.Scene.Params.TimeScale)
	}
	if cfg.Scene.Params.ShadowMapSize != 2048 {
		t.Errorf("expected shadow map size reset to 2048, got %d", cfg.Scene.Params.ShadowMapSize)
	}
	if cfg.Render.EnvMapSize != 256 {
		t.Errorf("expected env map size reset to 256, got %d", cfg.Render.EnvMapSize)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Scene.Params.Light1Speed = 1.5
	cfg.Scene.Sphere.Color = 0x336699
	cfg.Scene.Sphere.Roughness = 0.4
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path after SaveTo: got %s, want %s", cfg.Path(), path)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.Params.Light1Speed != 1.5 {
		t.Errorf("expected light1 speed 1.5, got %f", loaded.Scene.Params.Light1Speed)
	}
	if loaded.Scene.Sphere.Color != 0x336699 || loaded.Scene.Sphere.Roughness != 0.4 {
		t.Errorf("sphere: got %+v, want color 0x336699 roughness 0.4", loaded.Scene.Sphere)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.yaml in dir, got %d entries", len(entries))
	}
}

func TestSaveWritesLoadedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 1600\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Path() != configPath {
		t.Fatalf("Path: got %s, want %s", cfg.Path(), configPath)
	}

	cfg.Scene.Params.CameraDistance = 12
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, configPath); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}
	if loaded.Scene.Params.CameraDistance != 12 {
		t.Errorf("expected camera distance 12, got %f", loaded.Scene.Params.CameraDistance)
	}
	if loaded.Window.Width != 1600 {
		t.Errorf("expected width 1600 kept, got %d", loaded.Window.Width)
	}
}

func TestDefaultPathInConfigDir(t *testing.T) {
	cfg := Default()
	if want := filepath.Join(ConfigDir(), "config.yaml"); cfg.Path() != want {
		t.Errorf("Path: got %s, want %s", cfg.Path(), want)
	}
}

func TestLoadClampsSphere(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
scene:
  sphere:
    color: 0x1FFFFFF
    metalness: 3
    roughness: -1
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	s := cfg.Scene.Sphere
	if s.Color != 0xFFFFFF {
		t.Errorf("color: got %#x, want 0xffffff", s.Color)
	}
	if s.Metalness != 1 || s.Roughness != 0 {
		t.Errorf("metalness/roughness: got %v/%v, want 1/0", s.Metalness, s.Roughness)
	}
	if s.Clearcoat != 0.5 {
		t.Errorf("clearcoat: got %v, want default 0.5", s.Clearcoat)
	}
}
