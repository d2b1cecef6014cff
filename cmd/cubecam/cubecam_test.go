package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cubecam/cmd/cubecam/camview"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFlags(values *camview.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.IntVar(&values.Camera.Device, "device", values.Camera.Device, "")
	fs.IntVar(&values.Window.Width, "width", values.Window.Width, "")
	fs.StringVar(&values.Filter.Mode, "mode", values.Filter.Mode, "")
	fs.BoolVar(&values.Watch, "watch", values.Watch, "")
	return fs
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	values := camview.DefaultConfig()
	fs := newTestFlags(&values)
	require.NoError(t, fs.Parse([]string{"--mode", "edges", "--watch"}))

	cfg := camview.DefaultConfig()
	cfg.Camera.Device = 3
	cfg.Window.Width = 1024
	applyFlags(&cfg, values, fs)

	assert.Equal(t, "edges", cfg.Filter.Mode)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 3, cfg.Camera.Device, "unset flag leaves file value alone")
	assert.Equal(t, 1024, cfg.Window.Width, "unset flag leaves file value alone")
}

func TestLoadConfigFlagsWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cubecam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  device: 1\nfilter:\n  mode: motion\n"), 0644))

	oldFile, oldValues := configFile, flagValues
	defer func() { configFile, flagValues = oldFile, oldValues }()

	configFile = path
	flagValues = camview.DefaultConfig()
	fs := newTestFlags(&flagValues)
	require.NoError(t, fs.Parse([]string{"--device", "4"}))

	cfg, err := loadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Camera.Device)
	assert.Equal(t, "motion", cfg.Filter.Mode)
}

func TestLoadConfigInvalid(t *testing.T) {
	oldFile, oldValues := configFile, flagValues
	defer func() { configFile, flagValues = oldFile, oldValues }()

	configFile = ""
	flagValues = camview.DefaultConfig()
	fs := newTestFlags(&flagValues)
	require.NoError(t, fs.Parse([]string{"--mode", "solver"}))

	_, err := loadConfig(fs)
	assert.Error(t, err)
}

func TestSetupLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.InfoLevel)

	require.NoError(t, setupLogging("debug"))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Error(t, setupLogging("loud"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "cubecam "+version+"\n", out.String())
}
