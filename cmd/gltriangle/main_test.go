package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  clear_colour: \"#000000ff\"\n"), 0o644))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--no-draw", "--frames", "10", "--log-level", "debug"}))

	opts := &options{configFile: path, noDraw: true, frames: 10, logLevel: "debug"}
	cfg, err := loadConfig(opts, cmd)
	require.NoError(t, err)
	assert.False(t, cfg.Render.Draw)
	assert.EqualValues(t, 10, cfg.Render.MaxFrames)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "#000000ff", cfg.Render.ClearColour)
}

func TestDefaultsWithoutConfig(t *testing.T) {
	cmd := newRootCmd()
	cfg, err := loadConfig(&options{}, cmd)
	require.NoError(t, err)
	assert.True(t, cfg.Render.Draw)
	assert.Zero(t, cfg.Render.MaxFrames)
	assert.Equal(t, "OpenGL", cfg.Window.Title)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := loadConfig(&options{logLevel: "noisy"}, newRootCmd())
	require.Error(t, err)
}
