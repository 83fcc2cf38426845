package player

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func (p *Player) HandleMouseMovement(xpos, ypos float64) {
	if p.FirstMouse {
		p.LastMouseX = xpos
		p.LastMouseY = ypos
		p.FirstMouse = false
		return
	}

	xoffset := xpos - p.LastMouseX
	yoffset := p.LastMouseY - ypos
	p.LastMouseX = xpos
	p.LastMouseY = ypos

	p.CamYaw += xoffset * MouseSensitivity
	p.SetPitch(p.CamPitch + yoffset*MouseSensitivity)
}

func (p *Player) GetFrontVector() mgl32.Vec3 {
	y := mgl32.DegToRad(float32(p.CamYaw))
	pt := mgl32.DegToRad(float32(p.CamPitch))
	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

// GetRightVector returns the horizontal right vector.
func (p *Player) GetRightVector() mgl32.Vec3 {
	return p.GetFrontVector().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

func (p *Player) GetViewMatrix() mgl32.Mat4 {
	front := p.GetFrontVector()
	return mgl32.LookAtV(p.Position, p.Position.Add(front), mgl32.Vec3{0, 1, 0})
}
