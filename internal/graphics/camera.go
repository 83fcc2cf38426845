package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFOV       = 75.0
	DefaultNearPlane = 0.001
	DefaultFarPlane  = 5000.0
)

// Camera handles the projection matrix
type Camera struct {
	AspectRatio float32
	FOV         float32 // vertical, in degrees
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	c := &Camera{
		FOV:       DefaultFOV,
		NearPlane: DefaultNearPlane,
		FarPlane:  DefaultFarPlane,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio. A zero height keeps the previous
// ratio, which happens while the window is minimised.
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		if c.AspectRatio == 0 {
			c.AspectRatio = 1
		}
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// SkyboxView strips the translation from a view matrix so the sky keeps
// its orientation without moving with the camera.
func SkyboxView(view mgl32.Mat4) mgl32.Mat4 {
	return view.Mat3().Mat4()
}
