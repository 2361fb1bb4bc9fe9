package kbdctl

import (
	"github.com/fosdem/gltriangle/lib/log"
	"github.com/fosdem/gltriangle/lib/window"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type State int

const (
	Running State = iota
	CloseRequested
)

func (s State) String() string {
	if s == CloseRequested {
		return "close-requested"
	}
	return "running"
}

// Transition applies one key event. Pressing Escape is the only way out
// of Running; CloseRequested never goes back.
func Transition(s State, key glfw.Key, action glfw.Action) State {
	if s == Running && key == glfw.KeyEscape && action == glfw.Press {
		return CloseRequested
	}
	return s
}

func SetupShortcutKeys(w *window.Window) {
	w.Window.SetKeyCallback(keyCallback)
}

func Poll() {
	glfw.PollEvents()
}

func keyCallback(gw *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	w := window.FromGLFW(gw)
	if w == nil {
		return
	}

	current := Running
	if w.ShouldClose() {
		current = CloseRequested
	}
	if Transition(current, key, action) == CloseRequested && current == Running {
		log.Module("kbdctl").Info("told to quit, exiting")
		w.RequestClose()
	}
}
