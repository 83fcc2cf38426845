package renderer

import (
	"fmt"
	"image"
	"image/color"

	"mini-sky/internal/graphics/gpu"
)

// resources are the render targets and fixed geometry shared by the passes.
type resources struct {
	dev gpu.Device

	width, height int
	shadowSize    int

	targetSlots

	quad gpu.Mesh
	cube gpu.Mesh

	screen   gpu.Framebuffer
	pingPong [2]gpu.Framebuffer
	shadow   gpu.Framebuffer

	// Bound when a material or object leaves its texture unset.
	fallbackAlbedo gpu.Texture
	fallbackNormal gpu.Texture
}

// targetSlots are the texture units owned by the render targets and the
// fallback textures. They are taken from the allocator once per Renderer.
type targetSlots struct {
	colorSlot, bloomSlot, shadowSlot gpu.Slot
	albedoSlot, normalSlot           gpu.Slot
}

// allocateTargetSlots reserves every target slot or none of them.
func allocateTargetSlots(slots *gpu.SlotAllocator) (targetSlots, error) {
	var ts targetSlots
	for _, s := range []*gpu.Slot{&ts.colorSlot, &ts.bloomSlot, &ts.shadowSlot, &ts.albedoSlot, &ts.normalSlot} {
		var err error
		if *s, err = slots.Next(); err != nil {
			return targetSlots{}, err
		}
	}
	return ts, nil
}

func (r *resources) create() error {
	var err error
	if r.quad, err = r.dev.NewMesh(QuadSpec()); err != nil {
		return fmt.Errorf("screen quad: %w", err)
	}
	if r.cube, err = r.dev.NewMesh(CubeSpec("skybox")); err != nil {
		return fmt.Errorf("skybox cube: %w", err)
	}
	if r.screen, r.pingPong, err = r.newScreenTargets(r.width, r.height); err != nil {
		return err
	}
	r.shadow, err = r.dev.NewFramebuffer(gpu.FramebufferSpec{
		Name:   "shadow",
		Width:  r.shadowSize,
		Height: r.shadowSize,
		Targets: []gpu.TargetSpec{{
			Attachment: gpu.DepthAttachment,
			Slot:       r.shadowSlot,
			Format:     gpu.FormatDepth,
			Filter:     gpu.FilterNearest,
			Wrap:       gpu.WrapClampToBorder,
		}},
	})
	if err != nil {
		return fmt.Errorf("shadow target: %w", err)
	}
	logger.Infof("shadow map %dx%d on slot %d", r.shadowSize, r.shadowSize, r.shadowSlot)

	if r.fallbackAlbedo, err = r.dev.NewTexture("fallback.albedo", solid(color.RGBA{255, 255, 255, 255}), r.albedoSlot); err != nil {
		return fmt.Errorf("fallback albedo: %w", err)
	}
	if r.fallbackNormal, err = r.dev.NewTexture("fallback.normal", solid(color.RGBA{128, 128, 255, 255}), r.normalSlot); err != nil {
		return fmt.Errorf("fallback normal map: %w", err)
	}
	return nil
}

// newScreenTargets builds the screen-sized framebuffers. The ping-pong
// targets reuse the bloom slot, only one of them is sampled at a time. On
// failure the targets built so far are disposed.
func (r *resources) newScreenTargets(width, height int) (screen gpu.Framebuffer, pingPong [2]gpu.Framebuffer, err error) {
	defer func() {
		if err == nil {
			return
		}
		for i := len(pingPong) - 1; i >= 0; i-- {
			if pingPong[i] != nil {
				pingPong[i].Dispose()
			}
		}
		if screen != nil {
			screen.Dispose()
		}
		screen, pingPong = nil, [2]gpu.Framebuffer{}
	}()

	screen, err = r.dev.NewFramebuffer(gpu.FramebufferSpec{
		Name:   "screen",
		Width:  width,
		Height: height,
		Targets: []gpu.TargetSpec{
			{Attachment: gpu.ColorAttachment0, Slot: r.colorSlot, Format: gpu.FormatRGBA16F, Filter: gpu.FilterLinear, Wrap: gpu.WrapRepeat},
			{Attachment: gpu.ColorAttachment1, Slot: r.bloomSlot, Format: gpu.FormatRGBA16F, Filter: gpu.FilterLinear, Wrap: gpu.WrapClampToEdge},
		},
		DepthStencil: true,
	})
	if err != nil {
		return nil, pingPong, fmt.Errorf("screen target: %w", err)
	}

	for i := range pingPong {
		pingPong[i], err = r.dev.NewFramebuffer(gpu.FramebufferSpec{
			Name:   fmt.Sprintf("ping_pong_%d", i),
			Width:  width,
			Height: height,
			Targets: []gpu.TargetSpec{
				{Attachment: gpu.ColorAttachment0, Slot: r.bloomSlot, Format: gpu.FormatRGBA16F, Filter: gpu.FilterLinear, Wrap: gpu.WrapClampToEdge},
			},
		})
		if err != nil {
			return screen, pingPong, fmt.Errorf("ping-pong target %d: %w", i, err)
		}
	}
	logger.Infof("screen target %dx%d, color slot %d, bloom slot %d", width, height, r.colorSlot, r.bloomSlot)
	return screen, pingPong, nil
}

// resize replaces the screen-sized targets. The current targets and size
// are kept when the new ones cannot be built.
func (r *resources) resize(width, height int) error {
	screen, pingPong, err := r.newScreenTargets(width, height)
	if err != nil {
		return err
	}
	r.disposeScreenTargets()
	r.screen, r.pingPong = screen, pingPong
	r.width, r.height = width, height
	return nil
}

func (r *resources) colorTarget() gpu.TargetTexture { return r.screen.Target(gpu.ColorAttachment0) }
func (r *resources) bloomTarget() gpu.TargetTexture { return r.screen.Target(gpu.ColorAttachment1) }

func (r *resources) disposeScreenTargets() {
	for i := len(r.pingPong) - 1; i >= 0; i-- {
		if r.pingPong[i] != nil {
			r.pingPong[i].Dispose()
			r.pingPong[i] = nil
		}
	}
	if r.screen != nil {
		r.screen.Dispose()
		r.screen = nil
	}
}

// dispose releases everything in reverse creation order.
func (r *resources) dispose() {
	if r.fallbackNormal != nil {
		r.fallbackNormal.Dispose()
		r.fallbackNormal = nil
	}
	if r.fallbackAlbedo != nil {
		r.fallbackAlbedo.Dispose()
		r.fallbackAlbedo = nil
	}
	if r.shadow != nil {
		r.shadow.Dispose()
		r.shadow = nil
	}
	r.disposeScreenTargets()
	if r.cube != nil {
		r.cube.Dispose()
		r.cube = nil
	}
	if r.quad != nil {
		r.quad.Dispose()
		r.quad = nil
	}
}

func solid(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}
