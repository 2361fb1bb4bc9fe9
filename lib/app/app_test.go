package app

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosdem/gltriangle/lib/config"
	"github.com/fosdem/gltriangle/lib/window"
)

func offscreenConfig(t *testing.T) *config.Config {
	t.Helper()
	hidden := false
	cfg := config.Default()
	cfg.Window.Visible = &hidden
	cfg.Window.Width = 64
	cfg.Window.Height = 64
	cfg.Window.SwapInterval = 0
	cfg.Shaders = config.ShadersCfg{}
	cfg.LogLevel = "error"
	require.NoError(t, cfg.Validate())
	return cfg
}

// requireDisplay skips the test when no OpenGL 3.3 window can be made,
// which is the case on most CI machines.
func requireDisplay(t *testing.T, cfg *config.Config) {
	t.Helper()
	runtime.LockOSThread()
	t.Cleanup(runtime.UnlockOSThread)

	w, err := window.New(&cfg.Window)
	if err != nil {
		t.Skipf("no display available: %s", err)
	}
	w.Close()
}

func TestClearOnlyFrameShowsClearColour(t *testing.T) {
	cfg := offscreenConfig(t)
	cfg.Render.Draw = false
	cfg.Render.ClearColour = "#336699ff"
	requireDisplay(t, cfg)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	a.Vars.Frame()
	px := a.GL.ReadPixel(0, 0)

	want := cfg.Render.Colour().RGBA()
	assert.InDelta(t, want.R, px[0], 1)
	assert.InDelta(t, want.G, px[1], 1)
	assert.InDelta(t, want.B, px[2], 1)
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	cfg := offscreenConfig(t)
	cfg.Render.MaxFrames = 3
	requireDisplay(t, cfg)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Run(context.Background()))
	assert.EqualValues(t, 3, a.Stats.Snapshot().Frames)
}

func TestRunStopsOnShutdownRequest(t *testing.T) {
	cfg := offscreenConfig(t)
	requireDisplay(t, cfg)

	a, err := New(cfg)
	require.NoError(t, err)
	defer a.Close()

	a.RequestShutdown()
	require.NoError(t, a.Run(context.Background()))
	assert.Zero(t, a.Stats.Snapshot().Frames)
}

func TestMissingShaderAbortsSetup(t *testing.T) {
	cfg := offscreenConfig(t)
	requireDisplay(t, cfg)

	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	require.NoError(t, os.WriteFile(vert, []byte("#version 330 core\nvoid main() {}\n"), 0o644))
	cfg.Shaders.Vertex = config.CfgPath(vert)
	cfg.Shaders.Fragment = config.CfgPath(filepath.Join(dir, "shader.frag"))

	a, err := New(cfg)
	require.Error(t, err)
	assert.Nil(t, a)
}
