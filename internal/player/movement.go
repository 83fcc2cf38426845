package player

import (
	"mini-sky/internal/input"
	"mini-sky/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// UpdatePosition flies the player along the camera axes from held actions.
func (p *Player) UpdatePosition(dt float64, im *input.InputManager) {
	defer profiling.Track("player.Update.Position")()

	front := p.GetFrontVector()
	right := p.GetRightVector()
	up := mgl32.Vec3{0, 1, 0}

	var move mgl32.Vec3
	if im.IsActive(input.ActionMoveForward) {
		move = move.Add(front)
	}
	if im.IsActive(input.ActionMoveBackward) {
		move = move.Sub(front)
	}
	if im.IsActive(input.ActionMoveRight) {
		move = move.Add(right)
	}
	if im.IsActive(input.ActionMoveLeft) {
		move = move.Sub(right)
	}
	if im.IsActive(input.ActionMoveUp) {
		move = move.Add(up)
	}
	if im.IsActive(input.ActionMoveDown) {
		move = move.Sub(up)
	}
	if move.Len() == 0 {
		return
	}

	speed := float32(FlySpeed * dt)
	if im.IsActive(input.ActionSprint) {
		speed *= SprintMultiplier
	}
	p.Position = p.Position.Add(move.Normalize().Mul(speed))
}
