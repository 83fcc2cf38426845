package game

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/renderer"
)

// Sun colour at full daylight; it fades out as the sun reaches the horizon.
var noonColor = mgl32.Vec3{1.0, 0.95, 0.85}

// twilight is the sun elevation (sine) over which daylight fades in.
const twilight = 0.3

// DayCycle rotates the sky around the X axis once per day length.
type DayCycle struct {
	Length  time.Duration // zero freezes the sky
	Enabled bool

	elapsed time.Duration
}

// Advance moves the cycle forward by dt when enabled.
func (c *DayCycle) Advance(dt time.Duration) {
	if !c.Enabled || c.Length <= 0 {
		return
	}
	c.elapsed = (c.elapsed + dt) % c.Length
}

// Angle is the sky rotation in radians, in (-2π, 0].
func (c *DayCycle) Angle() float32 {
	if c.Length <= 0 {
		return 0
	}
	return -2 * math.Pi * float32(float64(c.elapsed)/float64(c.Length))
}

// Rotation maps skybox space to world space.
func (c *DayCycle) Rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.Angle())
}

// SunDirection is the world-space direction towards the sun.
func (c *DayCycle) SunDirection() mgl32.Vec3 {
	return c.Rotation().Mul4x1(renderer.SunPosition().Vec4(0)).Vec3()
}

// Light returns the direction the sunlight travels and its colour. The
// colour is zero once the sun is below the horizon.
func (c *DayCycle) Light() (direction, color mgl32.Vec3) {
	sun := c.SunDirection()
	f := sun.Y() / twilight
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return sun.Mul(-1), noonColor.Mul(f * f * (3 - 2*f))
}
