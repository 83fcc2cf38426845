// Package renderer draws a frame of submitted objects through a fixed chain
// of passes: shadow map, scene, skybox, bloom blur and composite.
//
// A Renderer is not safe for concurrent use. All calls must come from the
// goroutine owning the graphics context.
package renderer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics"
	"mini-sky/internal/graphics/blur"
	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/log"
	"mini-sky/internal/profiling"
)

var logger = log.New("renderer")

// frameContext carries per-frame state from one pass to the next.
type frameContext struct {
	view, skyboxView mgl32.Mat4
	projection       mgl32.Mat4
	position         mgl32.Vec3
	direction        mgl32.Vec3

	windowWidth, windowHeight int

	queue       *queue
	terrain     *Terrain
	skybox      gpu.Texture
	directional DirectionalLightObject
	point       PointLightObject

	// Written by the shadow pass.
	lightSpace     mgl32.Mat4
	shadowsEnabled bool
	// Written by the bloom pass.
	bloom bloomResult

	stats *Stats
}

// pass is one stage of the frame. Passes are initialised in order and
// disposed in reverse.
type pass interface {
	name() string
	init() error
	render(ctx *frameContext) error
	dispose()
}

// Renderer orchestrates rendering via its passes
type Renderer struct {
	dev   gpu.Device
	slots *gpu.SlotAllocator
	opts  Options

	camera *graphics.Camera
	res    *resources
	passes []pass

	targetSlots targetSlots
	slotsTaken  bool

	composite *compositePass
	params    compositeParams

	queue   queue
	terrain *Terrain
	skybox  gpu.Texture

	initialized bool
	frame       uint64
	stats       Stats
}

// New returns an uninitialised renderer drawing through dev. Texture slots
// for the render targets are taken from slots by the first Init and kept
// for the lifetime of the renderer.
func New(dev gpu.Device, slots *gpu.SlotAllocator, opts ...Option) (*Renderer, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		dev:   dev,
		slots: slots,
		opts:  o,
		params: compositeParams{
			exposure:  DefaultExposure,
			gamma:     DefaultGamma,
			sharpness: DefaultSharpness,
		},
	}, nil
}

// Init creates the render targets, the shared geometry and every program.
// On failure everything created so far is released.
func (r *Renderer) Init(width, height int) error {
	if r.initialized {
		return ErrAlreadyInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("renderer: invalid window size %dx%d", width, height)
	}

	if !r.slotsTaken {
		ts, err := allocateTargetSlots(r.slots)
		if err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		r.targetSlots, r.slotsTaken = ts, true
	}

	r.camera = graphics.NewCamera(width, height)
	r.camera.FOV = r.opts.FOV

	r.res = &resources{
		dev:         r.dev,
		width:       width,
		height:      height,
		shadowSize:  r.opts.ShadowMapSize,
		targetSlots: r.targetSlots,
	}
	if err := r.res.create(); err != nil {
		r.release()
		return fmt.Errorf("renderer: %w", err)
	}

	r.composite = &compositePass{res: r.res, params: &r.params}
	r.passes = []pass{
		&shadowPass{res: r.res, params: r.opts.ShadowFrustum},
		&scenePass{res: r.res},
		&skyboxPass{res: r.res},
		&bloomPass{res: r.res, passes: r.opts.BlurPasses, kernel: blur.Gaussian(r.opts.BlurTaps, r.opts.BlurSigma)},
		r.composite,
	}
	for _, p := range r.passes {
		if err := p.init(); err != nil {
			r.release()
			return fmt.Errorf("renderer: %s pass: %w", p.name(), err)
		}
	}

	r.initialized = true
	logger.Infof("initialized %dx%d, %d blur passes, %d texture slots left", width, height, r.opts.BlurPasses, r.slots.Remaining())
	return nil
}

// AddRegularObject queues a lit object for the next Render.
func (r *Renderer) AddRegularObject(o RegularObject) {
	r.queue.regular = append(r.queue.regular, o)
}

// AddPointLightObject queues the point light for the next Render.
func (r *Renderer) AddPointLightObject(o PointLightObject) {
	r.queue.points = append(r.queue.points, o)
}

// AddDirectionalLightObject queues the directional light for the next Render.
func (r *Renderer) AddDirectionalLightObject(o DirectionalLightObject) {
	r.queue.directional = append(r.queue.directional, o)
}

// AddDebugObject queues an unlit marker for the next Render.
func (r *Renderer) AddDebugObject(o DebugObject) {
	r.queue.debug = append(r.queue.debug, o)
}

// SetTerrain replaces the persistent terrain. nil removes it.
func (r *Renderer) SetTerrain(t *Terrain) error {
	if t != nil && t.Drawable == nil {
		return fmt.Errorf("%w: terrain needs a drawable", ErrInvalidObject)
	}
	r.terrain = t
	return nil
}

// Terrain returns the persistent terrain, or nil.
func (r *Renderer) Terrain() *Terrain { return r.terrain }

// SetSkybox makes the skybox sample cubemap instead of the procedural sky.
// nil restores the procedural sky. The caller keeps ownership of cubemap.
func (r *Renderer) SetSkybox(cubemap gpu.Texture) {
	r.skybox = cubemap
}

// Render draws the queued objects. The queues are emptied whether or not
// rendering succeeds; the terrain stays.
func (r *Renderer) Render(view, skyboxView mgl32.Mat4, position, direction mgl32.Vec3) error {
	defer r.queue.reset()
	if !r.initialized {
		return ErrNotInitialized
	}
	if err := r.queue.validate(); err != nil {
		return err
	}
	defer profiling.Track("renderer.Render")()

	r.frame++
	r.stats = Stats{Frame: r.frame, Passes: r.stats.Passes[:0]}
	ctx := &frameContext{
		view:         view,
		skyboxView:   skyboxView,
		projection:   r.camera.GetProjectionMatrix(),
		position:     position,
		direction:    direction,
		windowWidth:  r.res.width,
		windowHeight: r.res.height,
		queue:        &r.queue,
		terrain:      r.terrain,
		skybox:       r.skybox,
		directional:  r.queue.directional[0],
		point:        r.queue.points[0],
		lightSpace:   mgl32.Ident4(),
		stats:        &r.stats,
	}

	frameStart := time.Now()
	for _, p := range r.passes {
		start := time.Now()
		stop := profiling.Track("renderer." + p.name())
		err := p.render(ctx)
		stop()
		if err != nil {
			return fmt.Errorf("renderer: %s pass: %w", p.name(), err)
		}
		r.stats.Passes = append(r.stats.Passes, PassTime{Pass: p.name(), Duration: time.Since(start)})
	}
	r.stats.Total = time.Since(frameStart)
	return nil
}

// Resize rebuilds the screen-sized targets and the projection. When the new
// targets cannot be built the renderer keeps drawing at the previous size.
func (r *Renderer) Resize(width, height int) error {
	if !r.initialized {
		return ErrNotInitialized
	}
	if width <= 0 || height <= 0 || (width == r.res.width && height == r.res.height) {
		return nil
	}
	if err := r.res.resize(width, height); err != nil {
		return fmt.Errorf("renderer: resize to %dx%d: %w", width, height, err)
	}
	r.camera.SetViewport(width, height)
	logger.Debugf("resized to %dx%d", width, height)
	return nil
}

// SetExposure sets the exposure applied before tone mapping.
func (r *Renderer) SetExposure(v float32) error {
	r.params.exposure = v
	return r.uploadParam("u_exposure", v)
}

// SetGamma sets the display gamma.
func (r *Renderer) SetGamma(v float32) error {
	r.params.gamma = v
	return r.uploadParam("u_gamma", v)
}

// SetSharpness sets the sharpening strength; 1 disables it.
func (r *Renderer) SetSharpness(v float32) error {
	r.params.sharpness = v
	return r.uploadParam("u_sharpness", v)
}

// GetExposure returns the current exposure.
func (r *Renderer) GetExposure() float32 { return r.params.exposure }

// GetGamma returns the current display gamma.
func (r *Renderer) GetGamma() float32 { return r.params.gamma }

// GetSharpness returns the current sharpening strength.
func (r *Renderer) GetSharpness() float32 { return r.params.sharpness }

func (r *Renderer) uploadParam(name string, v float32) error {
	if r.composite == nil {
		return nil
	}
	return r.composite.upload(name, v)
}

// Projection returns the current projection matrix.
func (r *Renderer) Projection() mgl32.Mat4 {
	if r.camera == nil {
		return mgl32.Ident4()
	}
	return r.camera.GetProjectionMatrix()
}

// Stats returns the statistics of the last rendered frame.
func (r *Renderer) Stats() Stats {
	s := r.stats
	s.Passes = append([]PassTime(nil), r.stats.Passes...)
	return s
}

// Dispose releases every GPU resource. Calling it again is a no-op.
func (r *Renderer) Dispose() {
	if r.res == nil {
		return
	}
	r.release()
	logger.Debug("disposed")
}

// release disposes passes and resources in reverse creation order.
func (r *Renderer) release() {
	for i := len(r.passes) - 1; i >= 0; i-- {
		r.passes[i].dispose()
	}
	r.passes = nil
	r.composite = nil
	if r.res != nil {
		r.res.dispose()
		r.res = nil
	}
	r.initialized = false
}
