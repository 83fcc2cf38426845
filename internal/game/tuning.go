package game

import (
	"mini-sky/internal/config"
	"mini-sky/internal/input"
)

// Post-processing parameters change by these amounts per second held.
const (
	exposureRate  = 1.0
	gammaRate     = 1.0
	sharpnessRate = 2.0 // multiplicative, sharpness spans three decades
)

// postProcess is the part of the renderer the tuning keys adjust.
type postProcess interface {
	GetExposure() float32
	SetExposure(float32) error
	GetGamma() float32
	SetGamma(float32) error
	GetSharpness() float32
	SetSharpness(float32) error
}

// axis is +1, -1 or 0 for a pair of opposing held actions.
func axis(im *input.InputManager, up, down input.Action) float32 {
	var v float32
	if im.IsActive(up) {
		v++
	}
	if im.IsActive(down) {
		v--
	}
	return v
}

// applyTuning moves exposure, gamma and sharpness while their keys are held.
// Values stay inside the settings ranges.
func applyTuning(pp postProcess, im *input.InputManager, dt float64) error {
	step := float32(dt)

	if d := axis(im, input.ActionExposureUp, input.ActionExposureDown); d != 0 {
		if err := pp.SetExposure(config.ClampExposure(pp.GetExposure() + d*step*exposureRate)); err != nil {
			return err
		}
	}
	if d := axis(im, input.ActionGammaUp, input.ActionGammaDown); d != 0 {
		if err := pp.SetGamma(config.ClampGamma(pp.GetGamma() + d*step*gammaRate)); err != nil {
			return err
		}
	}
	if d := axis(im, input.ActionSharpnessUp, input.ActionSharpnessDown); d != 0 {
		factor := 1 + d*step*sharpnessRate
		if factor < 0.1 {
			factor = 0.1
		}
		if err := pp.SetSharpness(config.ClampSharpness(pp.GetSharpness() * factor)); err != nil {
			return err
		}
	}
	return nil
}
