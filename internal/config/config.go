// Package config handles application configuration loading and management.
package config

import (
	"path/filepath"

	"github.com/Faultbox/reflectbox/internal/params"
)

// DefaultModelURL is the animated character loaded into the room.
const DefaultModelURL = "https://ucarecdn.com/7cdd70ab-6459-42e8-b845-7a57fbdea401/tripo_retarget_8fbce00cfea64a699fd9afb0bc5a1c70.glb"

// Config holds all application settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Scene   SceneConfig   `yaml:"scene"`
	Model   ModelConfig   `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`

	path string // file the config was loaded from, "" for defaults
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// RenderConfig holds renderer settings that are fixed for the session.
type RenderConfig struct {
	EnvMapSize int     `yaml:"env_map_size"` // Cube target resolution per face
	CubeSize   float32 `yaml:"cube_size"`    // Edge length of the room
	ShowStats  bool    `yaml:"show_stats"`
}

// SceneConfig holds the initial live-tunable parameters.
type SceneConfig struct {
	Params params.Store `yaml:"params"`
	Sphere SphereConfig `yaml:"sphere"`
}

// SphereConfig holds the mirror sphere's material.
type SphereConfig struct {
	Color              uint32  `yaml:"color"` // 0xRRGGBB, sRGB
	Metalness          float32 `yaml:"metalness"`
	Roughness          float32 `yaml:"roughness"`
	Clearcoat          float32 `yaml:"clearcoat"`
	ClearcoatRoughness float32 `yaml:"clearcoat_roughness"`
}

// ModelConfig selects the character model.
type ModelConfig struct {
	URL      string `yaml:"url"` // http(s) URL or local path
	Disabled bool   `yaml:"disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Reflectbox",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Render: RenderConfig{
			EnvMapSize: 256,
			CubeSize:   3,
			ShowStats:  true,
		},
		Scene: SceneConfig{
			Params: params.Default(),
			Sphere: SphereConfig{
				Color:              0xFFFFFF,
				Metalness:          1.0,
				Roughness:          0.1,
				Clearcoat:          0.5,
				ClearcoatRoughness: 0.05,
			},
		},
		Model: ModelConfig{
			URL: DefaultModelURL,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Path returns the file Save writes to.
func (c *Config) Path() string {
	if c.path != "" {
		return c.path
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SetPath changes the file Save writes to.
func (c *Config) SetPath(path string) {
	c.path = path
}
