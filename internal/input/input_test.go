package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestEdgesLastOneFrame(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.KeyE, glfw.Press)
	if !im.IsActive(ActionExposureUp) || !im.JustPressed(ActionExposureUp) {
		t.Fatalf("press not recorded")
	}
	im.PostUpdate()
	if im.JustPressed(ActionExposureUp) {
		t.Fatalf("just pressed survived PostUpdate")
	}
	if !im.IsActive(ActionExposureUp) {
		t.Fatalf("held key reported released")
	}

	// Repeats keep the key held without a new edge.
	im.HandleKeyEvent(glfw.KeyE, glfw.Repeat)
	if im.JustPressed(ActionExposureUp) {
		t.Fatalf("repeat produced a press edge")
	}

	im.HandleKeyEvent(glfw.KeyE, glfw.Release)
	if im.IsActive(ActionExposureUp) || !im.JustReleased(ActionExposureUp) {
		t.Fatalf("release not recorded")
	}
}

func TestBindings(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.BindKey(glfw.KeyF1, ActionCount)

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if !im.IsActive(ActionMoveForward) {
		t.Fatalf("extra binding ignored")
	}

	im.UnbindKey(glfw.KeyW)
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Release)
	if im.IsActive(ActionMoveForward) {
		t.Fatalf("unbound key still drives its action")
	}

	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	if !im.JustPressed(ActionMouseLeft) {
		t.Fatalf("mouse press not recorded")
	}
	if im.IsActive(ActionCount) || im.IsActive(-1) {
		t.Fatalf("out-of-range action reported active")
	}
}

func TestActionNames(t *testing.T) {
	for a := Action(0); a < ActionCount; a++ {
		if a.String() == "" {
			t.Fatalf("action %d has no name", a)
		}
	}
	if got := ActionCount.String(); got != "unknown" {
		t.Fatalf("sentinel name: got %q, want %q", got, "unknown")
	}
	if got := ActionToggleStats.String(); got != "toggle-stats" {
		t.Fatalf("name: got %q, want %q", got, "toggle-stats")
	}
}
