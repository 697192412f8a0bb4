package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/reflectbox/internal/params"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
		cfg.path = configPath
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	cfg.normalize()

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Reflectbox")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Reflectbox")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "reflectbox")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reflectbox")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize repairs values a hand-edited file may have pushed out of range.
func (c *Config) normalize() {
	c.Scene.Params.Sanitize()
	s := &c.Scene.Sphere
	s.Color &= 0xFFFFFF
	s.Metalness = float32(params.Unit.Clamp(float64(s.Metalness)))
	s.Roughness = float32(params.Unit.Clamp(float64(s.Roughness)))
	s.Clearcoat = float32(params.Unit.Clamp(float64(s.Clearcoat)))
	s.ClearcoatRoughness = float32(params.ClearcoatRoughness.Clamp(float64(s.ClearcoatRoughness)))
	if c.Render.EnvMapSize <= 0 {
		c.Render.EnvMapSize = 256
	}
	if c.Render.CubeSize <= 0 {
		c.Render.CubeSize = 3
	}
	if c.Window.Width <= 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height <= 0 {
		c.Window.Height = 720
	}
}
