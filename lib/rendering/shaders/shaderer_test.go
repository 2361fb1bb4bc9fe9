package shaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fosdem/gltriangle/lib/rendering/gltest"
	"github.com/fosdem/gltriangle/lib/utils"
)

func TestShadererRendersDefaults(t *testing.T) {
	s, err := NewShaderer()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"default.vert", "default.frag"}, s.TemplateNames())

	data := DefaultShaderData()
	data.TriangleColour = utils.Colour{R: 0.25, G: 0.5, B: 0.75, A: 1}
	src, err := s.Sources(data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(src.Vertex, "#version 330 core\n"))
	assert.Contains(t, src.Vertex, "layout (location = 0) in vec3 position;")
	assert.Contains(t, src.Fragment, "vec4(0.2500, 0.5000, 0.7500, 1.0000)")
}

func TestShadererUnknownTemplate(t *testing.T) {
	s, err := NewShaderer()
	require.NoError(t, err)
	_, err = s.GetShaderSource("nope.frag", DefaultShaderData())
	require.Error(t, err)
}

func TestBuildDefault(t *testing.T) {
	captureLogs(t)
	api := gltest.New()
	program, err := BuildDefault(api, DefaultShaderData())
	require.NoError(t, err)
	assert.NotZero(t, program)
	assert.True(t, api.ProgramLinkStatus(program))
}

func TestWatcherSignalsRewrite(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	frag := filepath.Join(dir, "shader.frag")
	require.NoError(t, os.WriteFile(vert, []byte(validVertex), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte(validFragment), 0o644))

	w, err := NewWatcher(vert, frag)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, w.Close())
	}()

	require.NoError(t, os.WriteFile(frag, []byte(validFragment+"\n"), 0o644))

	assert.Equal(t, frag, waitForChange(t, w))
}

func waitForChange(t *testing.T, w *Watcher) string {
	t.Helper()
	select {
	case path := <-w.Changed():
		return path
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
		return ""
	}
}

func TestWatcherSurvivesRenameOver(t *testing.T) {
	out := captureLogs(t)
	dir := t.TempDir()
	frag := filepath.Join(dir, "shader.frag")
	require.NoError(t, os.WriteFile(frag, []byte(validFragment), 0o644))

	w, err := NewWatcher(frag)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	tmp := filepath.Join(dir, ".shader.frag.swp")
	require.NoError(t, os.WriteFile(tmp, []byte(validFragment+"// saved\n"), 0o644))
	require.NoError(t, os.Rename(tmp, frag))
	assert.Equal(t, frag, waitForChange(t, w))

	// the new inode is watched, plain writes still get through
	require.NoError(t, os.WriteFile(frag, []byte(validFragment), 0o644))
	assert.Equal(t, frag, waitForChange(t, w))

	require.NoError(t, w.Close())
	assert.Contains(t, out.String(), "re-adding it")
}

func TestWatcherNeedsPaths(t *testing.T) {
	_, err := NewWatcher()
	require.Error(t, err)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "missing.vert"))
	require.Error(t, err)
}
