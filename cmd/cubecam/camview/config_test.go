package camview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "rubikscube", cfg.Window.Title)
	assert.Equal(t, 0, cfg.Camera.Device)
	assert.Equal(t, "none", cfg.Filter.Mode)
	assert.Empty(t, cfg.Shaders.Vertex)
	assert.Empty(t, cfg.Shaders.Fragment)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubecam.yaml")
	data := `
window:
  title: cube
camera:
  device: 2
filter:
  mode: motion
  kernel: 9
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "cube", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width, "absent field keeps default")
	assert.True(t, cfg.Window.VSync, "absent field keeps default")
	assert.Equal(t, 2, cfg.Camera.Device)
	assert.Equal(t, 30, cfg.Camera.MaxReadFailures)
	assert.Equal(t, "motion", cfg.Filter.Mode)
	assert.Equal(t, 9, cfg.Filter.Kernel)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"negative capture", func(c *Config) { c.Camera.Width = -640 }},
		{"no failures allowed", func(c *Config) { c.Camera.MaxReadFailures = 0 }},
		{"unknown mode", func(c *Config) { c.Filter.Mode = "facelets" }},
		{"even kernel", func(c *Config) { c.Filter.Kernel = 4 }},
		{"zero kernel", func(c *Config) { c.Filter.Kernel = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected error for %s, got nil", tt.name)
			}
		})
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  kernal: 9\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernal")
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
