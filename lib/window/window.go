package window

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/fosdem/gltriangle/lib/config"
	"github.com/fosdem/gltriangle/lib/log"
	"github.com/go-gl/glfw/v3.3/glfw"
	gopointer "github.com/mattn/go-pointer"
)

// Window owns the GLFW window and its OpenGL 3.3 core context.
type Window struct {
	Name   string
	Window *glfw.Window

	userPtr unsafe.Pointer
}

func logger() *slog.Logger {
	return log.Module("window")
}

// New opens the window and makes its context current on the calling
// thread, which must stay locked to its OS thread.
func New(cfg *config.WindowCfg) (*Window, error) {
	w := &Window{Name: cfg.Title}

	logger().Debug("Initializing window")
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.IsVisible() {
		glfw.WindowHint(glfw.Visible, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create %dx%d window: %w", cfg.Width, cfg.Height, err)
	}
	if window == nil {
		glfw.Terminate()
		return nil, fmt.Errorf("could not create %dx%d window", cfg.Width, cfg.Height)
	}
	w.Window = window

	// the key callback finds its way back here through the user pointer
	w.userPtr = gopointer.Save(w)
	window.SetUserPointer(w.userPtr)

	window.MakeContextCurrent()
	glfw.SwapInterval(cfg.SwapInterval)

	return w, nil
}

// FromGLFW returns the Window a GLFW window was created for, or nil.
func FromGLFW(gw *glfw.Window) *Window {
	if gw == nil {
		return nil
	}
	ptr := gw.GetUserPointer()
	if ptr == nil {
		return nil
	}
	w, _ := gopointer.Restore(ptr).(*Window)
	return w
}

func (w *Window) ShouldClose() bool {
	return w.Window.ShouldClose()
}

func (w *Window) RequestClose() {
	w.Window.SetShouldClose(true)
}

func (w *Window) SwapBuffers() {
	w.Window.SwapBuffers()
}

func (w *Window) Size() (int, int) {
	return w.Window.GetSize()
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.Window == nil {
		return
	}
	w.Window.SetUserPointer(nil)
	if w.userPtr != nil {
		gopointer.Unref(w.userPtr)
		w.userPtr = nil
	}
	w.Window.Destroy()
	w.Window = nil
	glfw.Terminate()
}
