package player

import (
	"github.com/go-gl/mathgl/mgl32"
)

const (
	FlySpeed         = 10.0 // units per second
	SprintMultiplier = 4.0
	MouseSensitivity = 0.1
	MaxPitch         = 89.0
)

// Player is a free-flying viewer. Yaw and pitch are in degrees; yaw 90
// looks down +Z.
type Player struct {
	Position mgl32.Vec3
	CamYaw   float64
	CamPitch float64

	LastMouseX float64
	LastMouseY float64
	FirstMouse bool
}

// New returns a player at position looking along yaw and pitch.
func New(position mgl32.Vec3, yaw, pitch float64) *Player {
	p := &Player{
		Position:   position,
		CamYaw:     yaw,
		FirstMouse: true,
	}
	p.SetPitch(pitch)
	return p
}

// SetPitch sets the pitch, constrained to avoid flipping over the poles.
func (p *Player) SetPitch(pitch float64) {
	if pitch > MaxPitch {
		pitch = MaxPitch
	}
	if pitch < -MaxPitch {
		pitch = -MaxPitch
	}
	p.CamPitch = pitch
}
