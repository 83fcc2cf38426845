// Package terrain builds procedural heightmap meshes for the demo scene.
package terrain

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/graphics/renderer"
)

var ErrInvalidParams = errors.New("terrain: invalid params")

// Params shapes the heightmap. The grid is centred on the origin and spans
// Size world units along X and Z with Resolution quads per side.
type Params struct {
	Seed        int64
	Size        float32
	Resolution  int
	Height      float32 // peak-to-trough amplitude
	Offset      float32 // added to every height
	Frequency   float64 // noise cycles per world unit
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

func DefaultParams() Params {
	return Params{
		Seed:        1337,
		Size:        100,
		Resolution:  128,
		Height:      8,
		Offset:      -4,
		Frequency:   0.03,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

func (p Params) validate() error {
	if p.Size <= 0 || p.Resolution <= 0 || p.Octaves <= 0 {
		return fmt.Errorf("%w: size %v, resolution %d, octaves %d", ErrInvalidParams, p.Size, p.Resolution, p.Octaves)
	}
	return nil
}

// Heightmap samples terrain heights at arbitrary world positions.
type Heightmap struct {
	params Params
}

func NewHeightmap(p Params) (*Heightmap, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Heightmap{params: p}, nil
}

// HeightAt returns the surface height at world (x, z).
func (h *Heightmap) HeightAt(x, z float32) float32 {
	p := h.params
	n := octaveNoise2D(float64(x)*p.Frequency, float64(z)*p.Frequency, p.Seed, p.Octaves, p.Persistence, p.Lacunarity)
	return float32(n)*p.Height + p.Offset
}

// NormalAt estimates the surface normal at (x, z) by central differences.
func (h *Heightmap) NormalAt(x, z float32) mgl32.Vec3 {
	e := h.params.Size / float32(h.params.Resolution)
	dx := h.HeightAt(x+e, z) - h.HeightAt(x-e, z)
	dz := h.HeightAt(x, z+e) - h.HeightAt(x, z-e)
	return mgl32.Vec3{-dx, 2 * e, -dz}.Normalize()
}

// Mesh builds an indexed grid in the lit layout (position, normal, uv).
// Texture coordinates are in world units; the terrain shader scales them.
func (h *Heightmap) Mesh(label string) gpu.MeshSpec {
	p := h.params
	side := p.Resolution + 1
	step := p.Size / float32(p.Resolution)
	origin := -p.Size / 2

	layout := renderer.LitLayout
	vertices := make([]float32, 0, side*side*layout.Stride())
	for j := range side {
		for i := range side {
			x := origin + float32(i)*step
			z := origin + float32(j)*step
			n := h.NormalAt(x, z)
			vertices = append(vertices,
				x, h.HeightAt(x, z), z,
				n.X(), n.Y(), n.Z(),
				x-origin, z-origin,
			)
		}
	}

	// Two CCW triangles per quad, seen from above.
	indices := make([]uint32, 0, p.Resolution*p.Resolution*6)
	for j := range p.Resolution {
		for i := range p.Resolution {
			a := uint32(j*side + i)
			b := a + 1
			c := a + uint32(side)
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}

	return gpu.MeshSpec{
		Label:    label,
		Vertices: vertices,
		Layout:   layout,
		Indices:  indices,
	}
}
