package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-sky/internal/graphics/gpu"
)

// VertexArray draws a non-indexed triangle list.
type VertexArray struct {
	label string
	vao   uint32
	vbo   uint32
	count int32
}

// IndexBuffer draws an indexed triangle list.
type IndexBuffer struct {
	VertexArray
	ebo     uint32
	indices int32
}

// NewMesh uploads spec. Specs with indices produce an *IndexBuffer,
// all others a *VertexArray.
func (d *Device) NewMesh(spec gpu.MeshSpec) (gpu.Mesh, error) {
	stride := spec.Layout.Stride()
	if stride == 0 || len(spec.Vertices) == 0 || len(spec.Vertices)%stride != 0 {
		return nil, fmt.Errorf("mesh %q: %d floats do not fit layout %v", spec.Label, len(spec.Vertices), spec.Layout)
	}
	va := VertexArray{label: spec.Label, count: int32(spec.VertexCount())}

	gl.GenVertexArrays(1, &va.vao)
	gl.BindVertexArray(va.vao)

	gl.GenBuffers(1, &va.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(spec.Vertices)*4, gl.Ptr(spec.Vertices), gl.STATIC_DRAW)

	offset := 0
	for loc, size := range spec.Layout {
		gl.VertexAttribPointerWithOffset(uint32(loc), int32(size), gl.FLOAT, false, int32(stride*4), uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(loc))
		offset += size
	}

	if len(spec.Indices) == 0 {
		gl.BindVertexArray(0)
		return &va, nil
	}

	ib := &IndexBuffer{VertexArray: va, indices: int32(len(spec.Indices))}
	gl.GenBuffers(1, &ib.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(spec.Indices)*4, gl.Ptr(spec.Indices), gl.STATIC_DRAW)
	gl.BindVertexArray(0)
	return ib, nil
}

// Draw emits the triangle list.
func (v *VertexArray) Draw() {
	gl.BindVertexArray(v.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, v.count)
	gl.BindVertexArray(0)
}

// Dispose cleans up OpenGL resources.
func (v *VertexArray) Dispose() {
	if v.vao != 0 {
		gl.DeleteVertexArrays(1, &v.vao)
		v.vao = 0
	}
	if v.vbo != 0 {
		gl.DeleteBuffers(1, &v.vbo)
		v.vbo = 0
	}
}

// Draw emits the indexed triangle list.
func (b *IndexBuffer) Draw() {
	gl.BindVertexArray(b.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, b.indices, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (b *IndexBuffer) Dispose() {
	if b.ebo != 0 {
		gl.DeleteBuffers(1, &b.ebo)
		b.ebo = 0
	}
	b.VertexArray.Dispose()
}
