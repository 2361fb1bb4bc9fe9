package shaders

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fosdem/gltriangle/lib/log"
	"github.com/fosdem/gltriangle/lib/metrics"
	"github.com/fosdem/gltriangle/lib/rendering/glapi"
	"github.com/fosdem/gltriangle/lib/rendering/gltest"
)

const (
	validVertex = `#version 330 core
layout (location = 0) in vec3 position;
void main() { gl_Position = vec4(position, 1.0); }
`
	validFragment = `#version 330 core
out vec4 colour;
void main() { colour = vec4(1.0); }
`
	brokenSource = `void main() { oops }`
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreAnyFunction("github.com/jhenstridge/go-inotify.(*Watcher).readEvents"))
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	require.NoError(t, log.SetupDefault("debug", &out))
	return &out
}

func TestCompileValidShader(t *testing.T) {
	out := captureLogs(t)
	api := gltest.New()

	id, err := CompileShader(api, validVertex, glapi.VertexShader)
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.True(t, api.Shaders[id].Compiled)
	assert.NotContains(t, out.String(), "ERROR")
}

func TestCompileInvalidShader(t *testing.T) {
	out := captureLogs(t)
	api := gltest.New()

	id, err := CompileShader(api, brokenSource, glapi.FragmentShader)
	require.Error(t, err)
	assert.Zero(t, id)

	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, glapi.FragmentShader, cerr.Kind)
	assert.Equal(t, brokenSource, cerr.Source)
	assert.Equal(t, gltest.SyntaxErrorLog, cerr.Log)

	logged := out.String()
	assert.Contains(t, logged, "ERROR")
	assert.Contains(t, logged, "Error compiling fragment shader:")
	assert.Contains(t, logged, brokenSource)
	assert.Contains(t, logged, gltest.SyntaxErrorLog)

	// the failed shader object does not outlive the call
	assert.Len(t, api.DeletedShaders(), 1)
}

func TestNewProgramDeletesShaders(t *testing.T) {
	captureLogs(t)
	api := gltest.New()
	before := testutil.ToFloat64(metrics.ShaderBuilds.WithLabelValues(metrics.ResultOK))

	program, err := NewProgram(api, validVertex, validFragment)
	require.NoError(t, err)
	assert.NotZero(t, program)
	assert.True(t, api.ProgramLinkStatus(program))
	assert.False(t, api.Programs[program].Deleted)

	deleted := api.DeletedShaders()
	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	assert.Equal(t, api.Programs[program].Attached, deleted)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ShaderBuilds.WithLabelValues(metrics.ResultOK)))
}

func TestNewProgramCallOrder(t *testing.T) {
	captureLogs(t)
	api := gltest.New()

	_, err := NewProgram(api, validVertex, validFragment)
	require.NoError(t, err)

	want := []string{
		"CreateShader(vertex) = 1",
		"ShaderSource(1)",
		"CompileShader(1)",
		"CreateShader(fragment) = 2",
		"ShaderSource(2)",
		"CompileShader(2)",
		"CreateProgram() = 3",
		"AttachShader(3, 1)",
		"AttachShader(3, 2)",
		"LinkProgram(3)",
		"DeleteShader(1)",
		"DeleteShader(2)",
	}
	if diff := cmp.Diff(want, api.Calls); diff != "" {
		t.Errorf("unexpected GL calls (-want +got):\n%s", diff)
	}
}

func TestNewProgramLinkFailure(t *testing.T) {
	out := captureLogs(t)
	api := gltest.New()
	api.FailLink = "error: undefined reference to main"
	before := testutil.ToFloat64(metrics.ShaderBuilds.WithLabelValues(metrics.ResultLinkError))

	program, err := NewProgram(api, validVertex, validFragment)
	require.Error(t, err)
	assert.Zero(t, program)

	var lerr *LinkError
	require.True(t, errors.As(err, &lerr))
	assert.NotZero(t, lerr.Program)
	assert.False(t, api.ProgramLinkStatus(lerr.Program))
	assert.True(t, api.Programs[lerr.Program].Deleted)
	assert.Len(t, api.DeletedShaders(), 2)

	assert.Contains(t, out.String(), "Error linking program:")
	assert.Contains(t, out.String(), "undefined reference to main")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ShaderBuilds.WithLabelValues(metrics.ResultLinkError)))
}

func TestNewProgramStopsAtCompileFailure(t *testing.T) {
	captureLogs(t)
	api := gltest.New()

	_, err := NewProgram(api, validVertex, brokenSource)
	var cerr *CompileError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, glapi.FragmentShader, cerr.Kind)

	assert.Empty(t, api.Programs, "no program should be created")
	assert.Len(t, api.DeletedShaders(), 2)
}

func TestBuildFromFiles(t *testing.T) {
	captureLogs(t)
	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	frag := filepath.Join(dir, "shader.frag")
	require.NoError(t, os.WriteFile(vert, []byte(validVertex), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte(validFragment), 0o644))

	api := gltest.New()
	program, err := BuildFromFiles(api, vert, frag)
	require.NoError(t, err)
	assert.NotZero(t, program)
}

func TestBuildFromMissingFile(t *testing.T) {
	out := captureLogs(t)
	dir := t.TempDir()
	vert := filepath.Join(dir, "shader.vert")
	require.NoError(t, os.WriteFile(vert, []byte(validVertex), 0o644))
	missing := filepath.Join(dir, "shader.frag")

	api := gltest.New()
	program, err := BuildFromFiles(api, vert, missing)
	require.Error(t, err)
	assert.Zero(t, program)

	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, missing, ferr.Path)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	assert.Contains(t, out.String(), "Error reading file:")
	assert.Contains(t, out.String(), missing)

	assert.Empty(t, api.Calls, "nothing should reach the GPU")
}
