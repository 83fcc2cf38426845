package terrain

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/renderer"
)

func TestNoiseDeterministicAndBounded(t *testing.T) {
	for i := range 200 {
		x := float64(i)*0.37 - 30
		z := float64(i)*-0.21 + 11
		a := octaveNoise2D(x, z, 7, 4, 0.5, 2)
		b := octaveNoise2D(x, z, 7, 4, 0.5, 2)
		if a != b {
			t.Fatalf("noise not deterministic at (%v,%v): %v vs %v", x, z, a, b)
		}
		if a < 0 || a > 1 {
			t.Fatalf("noise out of range at (%v,%v): %v", x, z, a)
		}
	}
}

func TestNoiseMatchesLattice(t *testing.T) {
	if got, want := valueNoise2D(3, -5, 9), latticeValue(3, -5, 9); got != want {
		t.Fatalf("noise at lattice point: got %v, want %v", got, want)
	}
	if octaveNoise2D(1, 1, 0, 0, 0.5, 2) != 0 {
		t.Fatalf("zero octaves should produce 0")
	}
}

func TestInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Resolution = 0
	if _, err := NewHeightmap(p); !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("got %v, want ErrInvalidParams", err)
	}
}

func TestMeshShape(t *testing.T) {
	p := DefaultParams()
	p.Resolution = 4
	p.Size = 8
	h, err := NewHeightmap(p)
	if err != nil {
		t.Fatalf("NewHeightmap: %v", err)
	}
	spec := h.Mesh("terrain")

	if got, want := spec.VertexCount(), 25; got != want {
		t.Fatalf("vertex count: got %d, want %d", got, want)
	}
	if got, want := len(spec.Indices), 4*4*6; got != want {
		t.Fatalf("index count: got %d, want %d", got, want)
	}
	if spec.Layout.Stride() != renderer.LitLayout.Stride() {
		t.Fatalf("layout: got %v, want %v", spec.Layout, renderer.LitLayout)
	}
	for _, idx := range spec.Indices {
		if int(idx) >= spec.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}

	// First vertex sits at the grid corner with uv (0,0).
	v := spec.Vertices
	if v[0] != -4 || v[2] != -4 || v[6] != 0 || v[7] != 0 {
		t.Fatalf("corner vertex: got %v", v[:8])
	}
	if got, want := v[1], h.HeightAt(-4, -4); got != want {
		t.Fatalf("corner height: got %v, want %v", got, want)
	}
}

func TestTrianglesFaceUp(t *testing.T) {
	p := DefaultParams()
	p.Resolution = 3
	p.Height = 0
	h, _ := NewHeightmap(p)
	spec := h.Mesh("flat")
	stride := spec.Layout.Stride()
	pos := func(i uint32) mgl32.Vec3 {
		o := int(i) * stride
		return mgl32.Vec3{spec.Vertices[o], spec.Vertices[o+1], spec.Vertices[o+2]}
	}
	for i := 0; i < len(spec.Indices); i += 3 {
		a, b, c := pos(spec.Indices[i]), pos(spec.Indices[i+1]), pos(spec.Indices[i+2])
		if n := b.Sub(a).Cross(c.Sub(a)); n.Y() <= 0 {
			t.Fatalf("triangle %d winds downward: normal %v", i/3, n)
		}
	}
}

func TestFlatNormalPointsUp(t *testing.T) {
	p := DefaultParams()
	p.Height = 0
	h, _ := NewHeightmap(p)
	if n := h.NormalAt(12, -3); !n.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Fatalf("flat normal: got %v, want +Y", n)
	}
}
