// Package gputest provides a gpu.Device that records the commands it is
// given instead of talking to a driver, so render passes can be tested
// without a graphics context.
package gputest

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

// Device records every command as one line in Log.
//
// Recorded lines:
//
//	use <program>
//	set <program>.<uniform>=<value>
//	bind fb:<name> | bind fb:default
//	draw-buffers <name> color0,color1
//	clear color|depth
//	cull back|front|none
//	depth less|lequal
//	bind-texture <label>@<slot>
//	draw <label>
//	dispose <kind>:<name>
type Device struct {
	Log []string

	Programs     map[string]*Program
	Framebuffers map[string]*Framebuffer
	Meshes       []*Mesh
	Textures     []*Texture

	// FailCompile makes CompileProgram fail for the named programs.
	FailCompile map[string]error
	// Incomplete makes NewFramebuffer fail for the named framebuffers.
	Incomplete map[string]bool
	// Undeclared lists uniforms ("program.uniform") that report
	// gpu.ErrUniformNotFound.
	Undeclared map[string]bool

	Bound     string
	Viewport  [2]int
	CullMode  gpu.CullMode
	DepthFunc gpu.DepthFunc
}

// NewDevice returns an empty recording device in the default render state.
func NewDevice() *Device {
	return &Device{
		Programs:     make(map[string]*Program),
		Framebuffers: make(map[string]*Framebuffer),
		FailCompile:  make(map[string]error),
		Incomplete:   make(map[string]bool),
		Undeclared:   make(map[string]bool),
		Bound:        "default",
	}
}

func (d *Device) record(format string, args ...any) {
	d.Log = append(d.Log, fmt.Sprintf(format, args...))
}

// Reset drops the recorded log but keeps resources and state.
func (d *Device) Reset() {
	d.Log = d.Log[:0]
}

// Commands returns the recorded lines starting with prefix.
func (d *Device) Commands(prefix string) []string {
	var out []string
	for _, l := range d.Log {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

// Index returns the position of the first line equal to cmd, or -1.
func (d *Device) Index(cmd string) int {
	for i, l := range d.Log {
		if l == cmd {
			return i
		}
	}
	return -1
}

func (d *Device) CompileProgram(name string, stages ...gpu.Stage) (gpu.Program, error) {
	if err, ok := d.FailCompile[name]; ok {
		if err == nil {
			err = gpu.ErrCompile
		}
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("program %q: no stages", name)
	}
	p := &Program{name: name, dev: d, Stages: stages, Uniforms: make(map[string]any)}
	d.Programs[name] = p
	return p, nil
}

func (d *Device) NewFramebuffer(spec gpu.FramebufferSpec) (gpu.Framebuffer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if d.Incomplete[spec.Name] {
		return nil, fmt.Errorf("framebuffer %q: %w", spec.Name, gpu.ErrFramebufferIncomplete)
	}
	fb := &Framebuffer{Spec: spec, dev: d, targets: make(map[gpu.Attachment]*Target)}
	for _, ts := range spec.Targets {
		fb.targets[ts.Attachment] = &Target{
			Texture:    Texture{Label: spec.Name + "." + ts.Attachment.String(), slot: ts.Slot, width: spec.Width, height: spec.Height, dev: d},
			Spec:       ts,
			attachment: ts.Attachment,
		}
	}
	d.Framebuffers[spec.Name] = fb
	return fb, nil
}

func (d *Device) NewMesh(spec gpu.MeshSpec) (gpu.Mesh, error) {
	if spec.Layout.Stride() == 0 || len(spec.Vertices) == 0 {
		return nil, fmt.Errorf("mesh %q: empty", spec.Label)
	}
	m := &Mesh{Label: spec.Label, Spec: spec, dev: d}
	d.Meshes = append(d.Meshes, m)
	return m, nil
}

func (d *Device) NewTexture(label string, img image.Image, slot gpu.Slot) (gpu.Texture, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("texture %q: image is empty", label)
	}
	t := NewTexture(d, label, slot, b.Dx(), b.Dy())
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) NewCubemap(label string, faces gpu.CubeFaces, slot gpu.Slot) (gpu.Texture, error) {
	size, err := faces.Validate()
	if err != nil {
		return nil, fmt.Errorf("cubemap %q: %w", label, err)
	}
	t := NewTexture(d, label, slot, size, size)
	d.Textures = append(d.Textures, t)
	return t, nil
}

func (d *Device) BindDefaultFramebuffer(width, height int) {
	d.Bound = "default"
	d.Viewport = [2]int{width, height}
	d.record("bind fb:default")
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var parts []string
	if mask&gpu.ClearColor != 0 {
		parts = append(parts, "color")
	}
	if mask&gpu.ClearDepth != 0 {
		parts = append(parts, "depth")
	}
	d.record("clear %s", strings.Join(parts, "|"))
}

func (d *Device) SetCullMode(mode gpu.CullMode) {
	d.CullMode = mode
	d.record("cull %s", [...]string{"back", "front", "none"}[mode])
}

func (d *Device) SetDepthFunc(fn gpu.DepthFunc) {
	d.DepthFunc = fn
	d.record("depth %s", [...]string{"less", "lequal"}[fn])
}

// Program records uniform values by name.
type Program struct {
	name     string
	dev      *Device
	Stages   []gpu.Stage
	Uniforms map[string]any
	Disposed bool
}

func (p *Program) Name() string { return p.name }

func (p *Program) Use() { p.dev.record("use %s", p.name) }

func (p *Program) set(name string, value any) error {
	if p.dev.Undeclared[p.name+"."+name] {
		return fmt.Errorf("%w: %q in program %q", gpu.ErrUniformNotFound, name, p.name)
	}
	p.Uniforms[name] = value
	p.dev.record("set %s.%s=%v", p.name, name, value)
	return nil
}

func (p *Program) SetMatrix4(name string, value mgl32.Mat4) error { return p.set(name, value) }
func (p *Program) SetVector3(name string, value mgl32.Vec3) error { return p.set(name, value) }
func (p *Program) SetFloat(name string, value float32) error     { return p.set(name, value) }
func (p *Program) SetInt(name string, value int32) error         { return p.set(name, value) }

func (p *Program) Dispose() {
	p.Disposed = true
	p.dev.record("dispose program:%s", p.name)
}

// Matrix returns the last matrix set for name.
func (p *Program) Matrix(name string) (mgl32.Mat4, bool) {
	m, ok := p.Uniforms[name].(mgl32.Mat4)
	return m, ok
}

// Int returns the last integer set for name.
func (p *Program) Int(name string) (int32, bool) {
	v, ok := p.Uniforms[name].(int32)
	return v, ok
}

// Float returns the last float set for name.
func (p *Program) Float(name string) (float32, bool) {
	v, ok := p.Uniforms[name].(float32)
	return v, ok
}

// Vector returns the last vec3 set for name.
func (p *Program) Vector(name string) (mgl32.Vec3, bool) {
	v, ok := p.Uniforms[name].(mgl32.Vec3)
	return v, ok
}

// UniformNames returns the names set so far, sorted.
func (p *Program) UniformNames() []string {
	names := make([]string, 0, len(p.Uniforms))
	for n := range p.Uniforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Texture is a recorded texture bound under Label.
type Texture struct {
	Label         string
	slot          gpu.Slot
	width, height int
	dev           *Device
	Disposed      bool
}

// NewTexture returns a texture recording its binds on d.
func NewTexture(d *Device, label string, slot gpu.Slot, width, height int) *Texture {
	return &Texture{Label: label, slot: slot, width: width, height: height, dev: d}
}

func (t *Texture) Bind()          { t.dev.record("bind-texture %s@%d", t.Label, t.slot) }
func (t *Texture) Slot() gpu.Slot { return t.slot }
func (t *Texture) Width() int     { return t.width }
func (t *Texture) Height() int    { return t.height }

func (t *Texture) Dispose() {
	t.Disposed = true
	t.dev.record("dispose texture:%s", t.Label)
}

// Target is a framebuffer-owned texture.
type Target struct {
	Texture
	Spec       gpu.TargetSpec
	attachment gpu.Attachment
}

func (t *Target) Attachment() gpu.Attachment { return t.attachment }

// Framebuffer records binds and draw buffer selections.
type Framebuffer struct {
	Spec     gpu.FramebufferSpec
	dev      *Device
	targets  map[gpu.Attachment]*Target
	Disposed bool

	// Selected holds the last DrawBuffers selection.
	Selected []gpu.Attachment
}

func (f *Framebuffer) Name() string { return f.Spec.Name }

func (f *Framebuffer) Bind() {
	f.dev.Bound = f.Spec.Name
	f.dev.Viewport = [2]int{f.Spec.Width, f.Spec.Height}
	f.dev.record("bind fb:%s", f.Spec.Name)
}

func (f *Framebuffer) DrawBuffers(attachments ...gpu.Attachment) {
	f.Selected = append(f.Selected[:0], attachments...)
	names := make([]string, len(attachments))
	for i, a := range attachments {
		names[i] = a.String()
	}
	f.dev.record("draw-buffers %s %s", f.Spec.Name, strings.Join(names, ","))
}

func (f *Framebuffer) Target(a gpu.Attachment) gpu.TargetTexture {
	t, ok := f.targets[a]
	if !ok {
		return nil
	}
	return t
}

func (f *Framebuffer) Width() int  { return f.Spec.Width }
func (f *Framebuffer) Height() int { return f.Spec.Height }

func (f *Framebuffer) Dispose() {
	f.Disposed = true
	f.dev.record("dispose fb:%s", f.Spec.Name)
}

// Mesh records draws under Label.
type Mesh struct {
	Label    string
	Spec     gpu.MeshSpec
	dev      *Device
	Disposed bool
}

// NewDrawable returns a mesh that records its draws on d.
func NewDrawable(d *Device, label string) *Mesh {
	return &Mesh{Label: label, dev: d}
}

func (m *Mesh) Draw() { m.dev.record("draw %s", m.Label) }

func (m *Mesh) Dispose() {
	m.Disposed = true
	m.dev.record("dispose mesh:%s", m.Label)
}
