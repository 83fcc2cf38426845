package config

import (
	"sync"
	"time"
)

// Ranges of the user-tunable composite parameters.
const (
	MinExposure  = 0.0
	MaxExposure  = 10.0
	MinGamma     = 0.0
	MaxGamma     = 10.0
	MinSharpness = 1.0
	MaxSharpness = 1000.0
)

// Settings holds process-wide render settings
type Settings struct {
	mu            sync.RWMutex
	fpsLimit      int // 0 = unlimited
	vsync         bool
	shadowMapSize int
	blurPasses    int
	dayLength     time.Duration
}

var global = &Settings{
	fpsLimit:      144,
	vsync:         true,
	shadowMapSize: 1024,
	blurPasses:    10,
	dayLength:     5 * time.Second,
}

// GetFPSLimit returns the frame cap, 0 meaning unlimited
func GetFPSLimit() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.fpsLimit
}

// SetFPSLimit sets the frame cap. Negative values disable it.
func SetFPSLimit(limit int) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > 1000 {
		limit = 1000
	}
	global.fpsLimit = limit
}

func GetVSync() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.vsync
}

func SetVSync(enabled bool) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.vsync = enabled
}

// GetShadowMapSize returns the shadow map resolution in texels
func GetShadowMapSize() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.shadowMapSize
}

// SetShadowMapSize sets the shadow map resolution, clamped to [256, 8192]
func SetShadowMapSize(size int) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if size < 256 {
		size = 256
	}
	if size > 8192 {
		size = 8192
	}
	global.shadowMapSize = size
}

// GetBlurPasses returns the bloom blur pass count
func GetBlurPasses() int {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.blurPasses
}

// SetBlurPasses sets the bloom blur pass count. Odd counts are rounded up
// so the blurred image ends in a written target.
func SetBlurPasses(passes int) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if passes < 2 {
		passes = 2
	}
	if passes > 64 {
		passes = 64
	}
	if passes%2 != 0 {
		passes++
	}
	global.blurPasses = passes
}

// GetDayLength returns how long one full sky rotation takes
func GetDayLength() time.Duration {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.dayLength
}

// SetDayLength sets the sky rotation period. Non-positive values stop the
// rotation.
func SetDayLength(d time.Duration) {
	global.mu.Lock()
	defer global.mu.Unlock()

	if d < 0 {
		d = 0
	}
	global.dayLength = d
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampExposure limits v to the exposure slider range
func ClampExposure(v float32) float32 { return clamp(v, MinExposure, MaxExposure) }

// ClampGamma limits v to the gamma slider range
func ClampGamma(v float32) float32 { return clamp(v, MinGamma, MaxGamma) }

// ClampSharpness limits v to the sharpness slider range
func ClampSharpness(v float32) float32 { return clamp(v, MinSharpness, MaxSharpness) }
