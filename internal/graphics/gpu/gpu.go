// Package gpu describes the GPU resources the render pipeline is built from:
// programs, textures, framebuffers and drawables. Backends live in
// sub-packages; opengl drives a real context, gputest records commands.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Drawable is anything that can emit its own geometry.
type Drawable interface {
	Draw()
}

// Mesh is a drawable owned by the device that created it.
type Mesh interface {
	Drawable
	Dispose()
}

// VertexLayout lists the float component count of each attribute location.
// {2, 2} is vec2 position at location 0 followed by vec2 uv at location 1.
type VertexLayout []int

// Stride returns the number of floats per vertex.
func (l VertexLayout) Stride() int {
	n := 0
	for _, c := range l {
		n += c
	}
	return n
}

// MeshSpec describes a triangle list. When Indices is empty the vertices
// are drawn in order.
type MeshSpec struct {
	Label    string
	Vertices []float32
	Layout   VertexLayout
	Indices  []uint32
}

// VertexCount returns the number of whole vertices in the spec.
func (s MeshSpec) VertexCount() int {
	stride := s.Layout.Stride()
	if stride == 0 {
		return 0
	}
	return len(s.Vertices) / stride
}

// StageType identifies a programmable pipeline stage.
type StageType int

const (
	VertexStage StageType = iota
	FragmentStage
	GeometryStage
)

func (s StageType) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	case GeometryStage:
		return "geometry"
	}
	return "unknown"
}

// Stage names one shader source file and the stage it compiles to.
type Stage struct {
	Name string
	Type StageType
}

// Program is a linked shader program with named uniforms. Setters fail with
// ErrUniformNotFound when the linked program has no such uniform.
type Program interface {
	Name() string
	Use()
	SetMatrix4(name string, value mgl32.Mat4) error
	SetVector3(name string, value mgl32.Vec3) error
	SetFloat(name string, value float32) error
	SetInt(name string, value int32) error
	Dispose()
}

// Texture is a sampled image bound to a fixed texture slot.
type Texture interface {
	Bind()
	Slot() Slot
	Width() int
	Height() int
	Dispose()
}

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// CullMode selects which triangle faces are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// DepthFunc selects the depth comparison.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// Device creates GPU resources and issues the state changes the passes need.
// A device is bound to the goroutine owning the graphics context.
type Device interface {
	CompileProgram(name string, stages ...Stage) (Program, error)
	NewFramebuffer(spec FramebufferSpec) (Framebuffer, error)
	NewMesh(spec MeshSpec) (Mesh, error)
	// NewTexture uploads img as a mipmapped, repeating texture.
	NewTexture(label string, img image.Image, slot Slot) (Texture, error)
	// NewCubemap uploads six validated faces as a clamped cubemap.
	NewCubemap(label string, faces CubeFaces, slot Slot) (Texture, error)

	// BindDefaultFramebuffer makes the window the draw target.
	BindDefaultFramebuffer(width, height int)
	Clear(mask ClearMask)
	SetCullMode(mode CullMode)
	SetDepthFunc(fn DepthFunc)
}
