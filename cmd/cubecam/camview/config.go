package camview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the viewer needs to open a window and a camera.
type Config struct {
	Window  WindowConfig `yaml:"window"`
	Camera  CameraConfig `yaml:"camera"`
	Filter  FilterConfig `yaml:"filter"`
	Shaders ShaderConfig `yaml:"shaders"`
	Watch   bool         `yaml:"watch"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type CameraConfig struct {
	Device int `yaml:"device"`

	// API is an OpenCV capture backend id, 0 picks one automatically.
	API int `yaml:"api"`

	// Width and Height request a capture size, 0 keeps the backend's default.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	MaxReadFailures int `yaml:"max_read_failures"`
}

type FilterConfig struct {
	Mode   string `yaml:"mode"`
	Kernel int    `yaml:"kernel"`
}

// ShaderConfig points at GLSL files on disk. Empty paths use the built-in shaders.
type ShaderConfig struct {
	Vertex   string `yaml:"vertex"`
	Fragment string `yaml:"fragment"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  800,
			Height: 600,
			Title:  "rubikscube",
			VSync:  true,
		},
		Camera: CameraConfig{
			MaxReadFailures: 30,
		},
		Filter: FilterConfig{
			Mode:   ModeNone.String(),
			Kernel: 21,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	buff, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(buff))
	// a misspelt key would otherwise fall back to its default unnoticed
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("config: can't parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return fmt.Errorf("config: capture size can't be negative, got %dx%d", c.Camera.Width, c.Camera.Height)
	}
	if c.Camera.MaxReadFailures < 1 {
		return fmt.Errorf("config: max_read_failures must be at least 1, got %d", c.Camera.MaxReadFailures)
	}
	if _, err := ParseMode(c.Filter.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Filter.Kernel < 1 || c.Filter.Kernel%2 == 0 {
		return fmt.Errorf("config: kernel must be odd and positive, got %d", c.Filter.Kernel)
	}
	return nil
}
