package renderer

import (
	"fmt"

	"mini-sky/internal/graphics"
	"mini-sky/internal/graphics/blur"
)

const (
	DefaultShadowMapSize = 1024
	DefaultBlurPasses    = 10
	DefaultBlurTaps      = 5
	DefaultBlurSigma     = 1.75
)

// ShadowFrustumParams sizes the orthographic light frustum fitted around
// the camera.
type ShadowFrustumParams struct {
	// RenderDistance is how far along the view direction the frustum
	// centre sits.
	RenderDistance float32
	// Depth is the near-to-far extent; the centre is at Depth/2.
	Depth float32
	// HalfWidth is the half extent of the square cross-section.
	HalfWidth float32
}

// DefaultShadowFrustum returns the frustum sizing used when none is given.
func DefaultShadowFrustum() ShadowFrustumParams {
	return ShadowFrustumParams{RenderDistance: 50, Depth: 200, HalfWidth: 60}
}

// Options configures a Renderer.
type Options struct {
	ShadowMapSize int
	BlurPasses    int
	BlurTaps      int
	BlurSigma     float64
	ShadowFrustum ShadowFrustumParams
	FOV           float32
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the options used by New without arguments.
func DefaultOptions() Options {
	return Options{
		ShadowMapSize: DefaultShadowMapSize,
		BlurPasses:    DefaultBlurPasses,
		BlurTaps:      DefaultBlurTaps,
		BlurSigma:     DefaultBlurSigma,
		ShadowFrustum: DefaultShadowFrustum(),
		FOV:           graphics.DefaultFOV,
	}
}

// WithShadowMapSize sets the square shadow map resolution.
func WithShadowMapSize(size int) Option {
	return func(o *Options) { o.ShadowMapSize = size }
}

// WithBlurPasses sets the number of separable blur passes. It must be even.
func WithBlurPasses(passes int) Option {
	return func(o *Options) { o.BlurPasses = passes }
}

// WithBlurKernel sets the Gaussian kernel tap count and sigma.
func WithBlurKernel(taps int, sigma float64) Option {
	return func(o *Options) {
		o.BlurTaps = taps
		o.BlurSigma = sigma
	}
}

// WithShadowFrustum overrides the light frustum sizing.
func WithShadowFrustum(p ShadowFrustumParams) Option {
	return func(o *Options) { o.ShadowFrustum = p }
}

// WithFOV sets the vertical field of view in degrees.
func WithFOV(degrees float32) Option {
	return func(o *Options) { o.FOV = degrees }
}

func (o Options) validate() error {
	if o.ShadowMapSize <= 0 {
		return fmt.Errorf("%w: shadow map size %d", ErrInvalidOptions, o.ShadowMapSize)
	}
	if err := blur.ValidPasses(o.BlurPasses); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	// The blur shader has a fixed tap count.
	if o.BlurTaps != DefaultBlurTaps {
		return fmt.Errorf("%w: blur taps %d, shader supports %d", ErrInvalidOptions, o.BlurTaps, DefaultBlurTaps)
	}
	f := o.ShadowFrustum
	if f.RenderDistance < 0 || f.Depth <= 0 || f.HalfWidth <= 0 {
		return fmt.Errorf("%w: shadow frustum %+v", ErrInvalidOptions, f)
	}
	if o.FOV <= 0 || o.FOV >= 180 {
		return fmt.Errorf("%w: fov %v", ErrInvalidOptions, o.FOV)
	}
	return nil
}
