package gpu

import "fmt"

// Attachment is a framebuffer attachment point.
type Attachment int

const (
	ColorAttachment0 Attachment = iota
	ColorAttachment1
	ColorAttachment2
	ColorAttachment3
	DepthAttachment
)

func (a Attachment) String() string {
	if a == DepthAttachment {
		return "depth"
	}
	return fmt.Sprintf("color%d", int(a))
}

// IsColor reports whether a is one of the color attachment points.
func (a Attachment) IsColor() bool {
	return a >= ColorAttachment0 && a <= ColorAttachment3
}

// Format is the pixel storage of a render target.
type Format int

const (
	FormatRGBA16F Format = iota
	FormatRGBA8
	FormatDepth
)

// Filter is the sampling filter of a texture.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// Wrap is the texture coordinate wrap mode.
type Wrap int

const (
	WrapRepeat Wrap = iota
	WrapClampToEdge
	WrapClampToBorder
)

// TargetSpec describes one texture attached to a framebuffer.
type TargetSpec struct {
	Attachment Attachment
	Slot       Slot
	Format     Format
	Filter     Filter
	Wrap       Wrap
}

// FramebufferSpec describes a render target group. All targets share the
// framebuffer size.
type FramebufferSpec struct {
	Name          string
	Width, Height int
	Targets       []TargetSpec

	// DepthStencil attaches a non-sampled depth/stencil buffer.
	DepthStencil bool
}

// Validate checks the spec for sizes and duplicate attachments.
func (s FramebufferSpec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("framebuffer %q: invalid size %dx%d", s.Name, s.Width, s.Height)
	}
	seen := make(map[Attachment]bool, len(s.Targets))
	for _, t := range s.Targets {
		if seen[t.Attachment] {
			return fmt.Errorf("framebuffer %q: attachment %s used twice", s.Name, t.Attachment)
		}
		seen[t.Attachment] = true
		if (t.Format == FormatDepth) != (t.Attachment == DepthAttachment) {
			return fmt.Errorf("framebuffer %q: format does not match attachment %s", s.Name, t.Attachment)
		}
	}
	if s.DepthStencil && seen[DepthAttachment] {
		return fmt.Errorf("framebuffer %q: depth texture and depth/stencil buffer are exclusive", s.Name)
	}
	if len(s.Targets) == 0 && !s.DepthStencil {
		return fmt.Errorf("framebuffer %q: no attachments", s.Name)
	}
	return nil
}

// TargetTexture is a texture owned by a framebuffer.
type TargetTexture interface {
	Texture
	Attachment() Attachment
}

// Framebuffer is an offscreen render target group.
type Framebuffer interface {
	Name() string
	// Bind makes the framebuffer the draw target and sets the viewport to
	// its size.
	Bind()
	// DrawBuffers selects which color attachments receive fragment outputs.
	DrawBuffers(attachments ...Attachment)
	Target(attachment Attachment) TargetTexture
	Width() int
	Height() int
	Dispose()
}
