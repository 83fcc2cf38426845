package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-sky/internal/graphics/gpu"
)

type framebufferTarget struct {
	texture
	attachment gpu.Attachment
}

func (t *framebufferTarget) Attachment() gpu.Attachment { return t.attachment }

type framebuffer struct {
	name          string
	fbo           uint32
	rbo           uint32
	width, height int
	targets       map[gpu.Attachment]*framebufferTarget
}

// NewFramebuffer creates the framebuffer and its target textures. The
// default framebuffer is bound again before returning.
func (d *Device) NewFramebuffer(spec gpu.FramebufferSpec) (gpu.Framebuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	fb := &framebuffer{
		name:    spec.Name,
		width:   spec.Width,
		height:  spec.Height,
		targets: make(map[gpu.Attachment]*framebufferTarget, len(spec.Targets)),
	}
	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	var colors []gpu.Attachment
	for _, ts := range spec.Targets {
		t := &framebufferTarget{attachment: ts.Attachment}
		t.target, t.slot, t.width, t.height = gl.TEXTURE_2D, ts.Slot, spec.Width, spec.Height
		allocateTarget(&t.texture, ts)
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentEnum(ts.Attachment), gl.TEXTURE_2D, t.id, 0)
		fb.targets[ts.Attachment] = t
		if ts.Attachment.IsColor() {
			colors = append(colors, ts.Attachment)
		}
	}

	if spec.DepthStencil {
		gl.GenRenderbuffers(1, &fb.rbo)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.rbo)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(spec.Width), int32(spec.Height))
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.rbo)
	}

	if len(colors) == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	} else {
		setDrawBuffers(colors)
	}

	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		fb.Dispose()
		return nil, fmt.Errorf("framebuffer %q: %w (status 0x%x)", spec.Name, gpu.ErrFramebufferIncomplete, status)
	}
	logger.Debugf("framebuffer %q %dx%d, %d targets", spec.Name, spec.Width, spec.Height, len(spec.Targets))
	return fb, nil
}

func allocateTarget(t *texture, ts gpu.TargetSpec) {
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	w, h := int32(t.width), int32(t.height)
	switch ts.Format {
	case gpu.FormatDepth:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, w, h, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	case gpu.FormatRGBA8:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	default:
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F, w, h, 0, gl.RGBA, gl.FLOAT, nil)
	}
	filter := filterEnum(ts.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	wrap := wrapEnum(ts.Wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	if ts.Wrap == gpu.WrapClampToBorder {
		border := [4]float32{1, 1, 1, 1}
		gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

func (fb *framebuffer) Name() string { return fb.name }

// Bind makes fb the draw target and sets the viewport to its size.
func (fb *framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, int32(fb.width), int32(fb.height))
}

// DrawBuffers applies to the bound framebuffer; callers Bind first.
func (fb *framebuffer) DrawBuffers(attachments ...gpu.Attachment) {
	setDrawBuffers(attachments)
}

func (fb *framebuffer) Target(a gpu.Attachment) gpu.TargetTexture {
	t, ok := fb.targets[a]
	if !ok {
		return nil
	}
	return t
}

func (fb *framebuffer) Width() int  { return fb.width }
func (fb *framebuffer) Height() int { return fb.height }

// Dispose deletes the target textures, the renderbuffer and the framebuffer.
func (fb *framebuffer) Dispose() {
	for _, t := range fb.targets {
		t.Dispose()
	}
	if fb.rbo != 0 {
		gl.DeleteRenderbuffers(1, &fb.rbo)
		fb.rbo = 0
	}
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
}

func setDrawBuffers(attachments []gpu.Attachment) {
	bufs := make([]uint32, 0, len(attachments))
	for _, a := range attachments {
		if a.IsColor() {
			bufs = append(bufs, attachmentEnum(a))
		}
	}
	if len(bufs) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func attachmentEnum(a gpu.Attachment) uint32 {
	if a == gpu.DepthAttachment {
		return gl.DEPTH_ATTACHMENT
	}
	return gl.COLOR_ATTACHMENT0 + uint32(a-gpu.ColorAttachment0)
}

func filterEnum(f gpu.Filter) int32 {
	if f == gpu.FilterNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func wrapEnum(w gpu.Wrap) int32 {
	switch w {
	case gpu.WrapClampToEdge:
		return gl.CLAMP_TO_EDGE
	case gpu.WrapClampToBorder:
		return gl.CLAMP_TO_BORDER
	}
	return gl.REPEAT
}
