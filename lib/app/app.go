package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fosdem/gltriangle/lib/api"
	"github.com/fosdem/gltriangle/lib/config"
	"github.com/fosdem/gltriangle/lib/kbdctl"
	"github.com/fosdem/gltriangle/lib/log"
	"github.com/fosdem/gltriangle/lib/metrics"
	"github.com/fosdem/gltriangle/lib/rendering"
	"github.com/fosdem/gltriangle/lib/rendering/shaders"
	"github.com/fosdem/gltriangle/lib/stats"
	"github.com/fosdem/gltriangle/lib/utils"
	"github.com/fosdem/gltriangle/lib/window"
)

// App is one window rendering one triangle.
type App struct {
	cfg *config.Config

	Window *window.Window
	GL     rendering.GL
	Vars   *rendering.GLVars
	Stats  *stats.Stats

	api      *api.Api
	watcher  *shaders.Watcher
	reloader *shaderReloader

	shutdownRequested atomic.Bool
	frames            uint64
}

func logger() *slog.Logger {
	return log.Module("app")
}

// MakeWindowAndRender sets everything up and renders until the window is
// closed, shutdown is requested or ctx is done. It must run on the main,
// OS-locked thread.
func MakeWindowAndRender(ctx context.Context, cfg *config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

// New opens the window and builds all GPU state. Any failure aborts the
// setup and releases what was already created.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, Stats: stats.New()}
	if err := a.setup(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) setup() error {
	cfg := a.cfg
	var err error

	a.Window, err = window.New(&cfg.Window)
	if err != nil {
		return err
	}
	width, height := a.Window.Size()
	logger().Info(fmt.Sprintf("opened %dx%d window %q", width, height, a.Window.Name))

	err = rendering.Init()
	if err != nil {
		return fmt.Errorf("could not initialise renderer: %w", err)
	}

	program, err := buildProgram(a.GL, &cfg.Shaders)
	if err != nil {
		return fmt.Errorf("could not init GL program: %w", err)
	}

	mesh := rendering.UploadMesh(a.GL, rendering.Triangle)
	a.Vars = rendering.NewGLVars(a.GL, program, mesh, cfg.Render.Colour(), cfg.Render.Draw)

	kbdctl.SetupShortcutKeys(a.Window)

	if cfg.Shaders.Watch {
		a.watcher, err = shaders.NewWatcher(string(cfg.Shaders.Vertex), string(cfg.Shaders.Fragment))
		if err != nil {
			return fmt.Errorf("could not watch shaders: %w", err)
		}
		a.reloader = &shaderReloader{
			api:     a.GL,
			shaders: &cfg.Shaders,
			changes: a.watcher.Changed(),
			vars:    a.Vars,
			stats:   a.Stats,
		}
	}

	a.api, err = api.ServeInBackground(cfg, a, a.Stats)
	if err != nil {
		return err
	}

	a.Vars.Start()
	return nil
}

// RequestShutdown may be called from any goroutine.
func (a *App) RequestShutdown() {
	a.shutdownRequested.Store(true)
}

func (a *App) done(ctx context.Context) bool {
	if a.shutdownRequested.Load() || ctx.Err() != nil {
		return true
	}
	if a.Window.ShouldClose() {
		return true
	}
	limit := a.cfg.Render.MaxFrames
	return limit > 0 && a.frames >= limit
}

func (a *App) Run(ctx context.Context) error {
	var deltaTimer utils.DeltaTimer
	for !a.done(ctx) {
		if a.reloader != nil {
			a.reloader.poll()
		}

		a.RenderFrame()

		dt := deltaTimer.Next()
		if dt > 0 {
			metrics.FrameSeconds.Observe(dt.Seconds())
		}
		kbdctl.Poll()
	}
	logger().Info(fmt.Sprintf("stopped after %d frames", a.frames))
	return nil
}

// RenderFrame draws and presents one frame.
func (a *App) RenderFrame() {
	a.Vars.Frame()
	a.Window.SwapBuffers()

	a.frames++
	a.Stats.Update()
	metrics.FramesRendered.Inc()
}

// Close tears everything down in reverse order of creation.
func (a *App) Close() {
	var errs []error
	if a.api != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, a.api.Shutdown(ctx))
		cancel()
		a.api = nil
	}
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
		a.watcher = nil
		a.reloader = nil
	}
	if a.Vars != nil {
		a.Vars.Release()
		a.Vars = nil
	}
	if a.Window != nil {
		a.Window.Close()
		a.Window = nil
	}
	if err := errors.Join(errs...); err != nil {
		logger().Warn(fmt.Sprintf("unclean shutdown: %s", err))
	}
}
