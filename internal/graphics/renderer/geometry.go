package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

// LitLayout is position, normal and uv, the layout lit programs expect.
var LitLayout = gpu.VertexLayout{3, 3, 2}

// QuadSpec returns a full-screen quad in clip space with uvs.
func QuadSpec() gpu.MeshSpec {
	return gpu.MeshSpec{
		Label: "quad",
		Vertices: []float32{
			-1, -1, 0, 0,
			1, -1, 1, 0,
			1, 1, 1, 1,
			-1, -1, 0, 0,
			1, 1, 1, 1,
			-1, 1, 0, 1,
		},
		Layout: gpu.VertexLayout{2, 2},
	}
}

type cubeFace struct {
	normal, u, v mgl32.Vec3
}

// u x v == normal, so each face winds counter-clockwise seen from outside.
var cubeFaces = [6]cubeFace{
	{normal: mgl32.Vec3{1, 0, 0}, u: mgl32.Vec3{0, 0, -1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{-1, 0, 0}, u: mgl32.Vec3{0, 0, 1}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, -1}},
	{normal: mgl32.Vec3{0, -1, 0}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 0, 1}},
	{normal: mgl32.Vec3{0, 0, 1}, u: mgl32.Vec3{1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
	{normal: mgl32.Vec3{0, 0, -1}, u: mgl32.Vec3{-1, 0, 0}, v: mgl32.Vec3{0, 1, 0}},
}

// CubeSpec returns a unit cube centred on the origin in LitLayout,
// 36 vertices.
func CubeSpec(label string) gpu.MeshSpec {
	corners := [6][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 1}}
	vertices := make([]float32, 0, 36*LitLayout.Stride())
	for _, f := range cubeFaces {
		for _, c := range corners {
			p := f.normal.Mul(0.5).
				Add(f.u.Mul(c[0] - 0.5)).
				Add(f.v.Mul(c[1] - 0.5))
			vertices = append(vertices,
				p.X(), p.Y(), p.Z(),
				f.normal.X(), f.normal.Y(), f.normal.Z(),
				c[0], c[1],
			)
		}
	}
	return gpu.MeshSpec{Label: label, Vertices: vertices, Layout: LitLayout}
}
