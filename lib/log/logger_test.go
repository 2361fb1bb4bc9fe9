package log

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colourCodes = regexp.MustCompile("\x1b\\[[0-9;]*m")

// plain drops the terminal colour codes from handler output.
func plain(s string) string {
	return colourCodes.ReplaceAllString(s, "")
}

func TestHandlerPrintsModuleAndMessage(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil))

	logger.Info("compiled shader", slog.String("module", "shaders"))

	line := out.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "[shaders] ")
	assert.True(t, strings.HasSuffix(line, "compiled shader\n"), "unexpected line %q", line)
}

func TestHandlerWithoutModule(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil))

	logger.Warn("no module here")

	line := plain(out.String())
	assert.NotContains(t, line, "[")
	assert.True(t, strings.HasSuffix(line, "WARN no module here\n"), "unexpected line %q", line)
}

func TestHandlerWithAttrsKeepsModule(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil)).With(slog.String("module", "window"))

	logger.Error("failed")

	assert.Contains(t, plain(out.String()), "ERROR [window] failed")
}

func TestHandlerColoursLevelAndModule(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil))

	logger.Warn("careful", slog.String("module", "app"))

	assert.Contains(t, out.String(), "\x1b[93mWARN \x1b[0m")
	assert.Contains(t, out.String(), "\x1b[37m[app] \x1b[0mcareful")
}

func TestHandlerRespectsLevel(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("hidden")
	logger.Debug("hidden too")
	assert.Empty(t, out.String())

	logger.Warn("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestSetupDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var out bytes.Buffer
	require.NoError(t, SetupDefault("debug", &out))
	Module("app").Debug("hello")
	assert.Contains(t, plain(out.String()), "DEBUG [app] hello")

	require.Error(t, SetupDefault("loud", &out))
}
