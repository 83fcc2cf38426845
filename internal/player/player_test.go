package player

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/input"
)

func TestFrontVectorFollowsYaw(t *testing.T) {
	p := New(mgl32.Vec3{}, 90, 0)
	if got := p.GetFrontVector(); !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Fatalf("yaw 90: got %v, want +Z", got)
	}
	p.CamYaw = 0
	if got := p.GetFrontVector(); !got.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Fatalf("yaw 0: got %v, want +X", got)
	}
}

func TestMouseMovementClampsPitch(t *testing.T) {
	p := New(mgl32.Vec3{}, 0, 0)
	p.HandleMouseMovement(100, 100)
	if p.CamYaw != 0 || p.CamPitch != 0 {
		t.Fatalf("first event moved the camera")
	}
	p.HandleMouseMovement(150, -10000)
	if p.CamYaw != 5 {
		t.Fatalf("yaw: got %v, want 5", p.CamYaw)
	}
	if p.CamPitch != MaxPitch {
		t.Fatalf("pitch: got %v, want %v", p.CamPitch, MaxPitch)
	}
}

func TestUpdatePositionFliesForward(t *testing.T) {
	p := New(mgl32.Vec3{0, 2, -10}, 90, 0)
	im := input.NewInputManager()
	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	p.UpdatePosition(0.5, im)
	want := mgl32.Vec3{0, 2, -10 + FlySpeed*0.5}
	if !p.Position.ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("position: got %v, want %v", p.Position, want)
	}

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	p.UpdatePosition(0.5, im)
	if !p.Position.ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("moved without input: %v", p.Position)
	}
}

func TestViewMatrixLooksAlongFront(t *testing.T) {
	p := New(mgl32.Vec3{3, 4, 5}, 30, -20)
	view := p.GetViewMatrix()
	ahead := p.Position.Add(p.GetFrontVector().Mul(7))
	eye := view.Mul4x1(ahead.Vec4(1)).Vec3()
	if !eye.ApproxEqualThreshold(mgl32.Vec3{0, 0, -7}, 1e-4) {
		t.Fatalf("point ahead maps to %v, want (0,0,-7)", eye)
	}
}
