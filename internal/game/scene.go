package game

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics"
	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/graphics/renderer"
	"mini-sky/internal/terrain"
)

// Scene is the demo content: a heightmap, a ring of crates, the point
// light with its glyph and the sun driven by the day cycle.
type Scene struct {
	Day DayCycle

	heightmap *terrain.Heightmap
	terrain   *renderer.Terrain

	crates    []renderer.RegularObject
	crateSpin float32

	pointColor mgl32.Vec3
	point      renderer.PointLightObject

	sunDirection mgl32.Vec3
	sunColor     mgl32.Vec3

	markerColor mgl32.Vec3
	marker      renderer.DebugObject

	meshes   []gpu.Mesh
	textures []gpu.Texture
}

// SceneOptions selects optional scene content.
type SceneOptions struct {
	// CrateTexture replaces the procedural crate texture when set. The
	// scene takes ownership of it.
	CrateTexture gpu.Texture
	Terrain      terrain.Params
	Crates       int
}

func DefaultSceneOptions() SceneOptions {
	return SceneOptions{Terrain: terrain.DefaultParams(), Crates: 8}
}

// NewScene uploads the demo geometry and textures. Texture slots come from
// slots, so call it after the renderer has taken its own.
func NewScene(dev gpu.Device, slots *gpu.SlotAllocator, opts SceneOptions) (*Scene, error) {
	s := &Scene{
		pointColor:  mgl32.Vec3{1.0, 0.7, 0.4},
		markerColor: mgl32.Vec3{0.2, 1.0, 0.2},
	}
	if err := s.build(dev, slots, opts); err != nil {
		s.Dispose()
		return nil, err
	}
	s.Update(0)
	return s, nil
}

func (s *Scene) build(dev gpu.Device, slots *gpu.SlotAllocator, opts SceneOptions) error {
	h, err := terrain.NewHeightmap(opts.Terrain)
	if err != nil {
		return err
	}
	s.heightmap = h

	ground, err := s.mesh(dev, h.Mesh("terrain"))
	if err != nil {
		return err
	}
	cube, err := s.mesh(dev, renderer.CubeSpec("crate"))
	if err != nil {
		return err
	}
	glyph, err := s.mesh(dev, renderer.CubeSpec("light"))
	if err != nil {
		return err
	}

	grass, err := s.texture(dev, slots, "grass", checker(64, 8, color.RGBA{70, 120, 50, 255}, color.RGBA{90, 140, 60, 255}))
	if err != nil {
		return err
	}
	crate := opts.CrateTexture
	if crate != nil {
		s.textures = append(s.textures, crate)
	} else {
		crate, err = s.texture(dev, slots, "crate", checker(64, 4, color.RGBA{150, 100, 60, 255}, color.RGBA{110, 70, 40, 255}))
		if err != nil {
			return err
		}
	}

	groundMaterial := renderer.DefaultMaterial()
	groundMaterial.Specular = mgl32.Vec3{0.05, 0.05, 0.05}
	groundMaterial.Shininess = 4
	groundMaterial.Texture = grass
	s.terrain = &renderer.Terrain{Material: groundMaterial, Drawable: ground}

	crateMaterial := renderer.DefaultMaterial()
	crateMaterial.Texture = crate
	for i := range opts.Crates {
		angle := 2 * mgl32.Pi * float32(i) / float32(opts.Crates)
		x := 12 * float32(math.Cos(float64(angle)))
		z := 12 * float32(math.Sin(float64(angle)))
		t := renderer.NewTransform(mgl32.Vec3{x, h.HeightAt(x, z) + 1, z})
		t.Scale = mgl32.Vec3{2, 2, 2}
		s.crates = append(s.crates, renderer.RegularObject{
			Material:  crateMaterial,
			Transform: t,
			Drawable:  cube,
		})
	}

	lightPosition := mgl32.Vec3{0, h.HeightAt(0, 0) + 6, 0}
	lightTransform := renderer.NewTransform(lightPosition)
	lightTransform.Scale = mgl32.Vec3{0.3, 0.3, 0.3}
	s.point = renderer.PointLightObject{Color: &s.pointColor, Transform: lightTransform, Drawable: glyph}

	s.marker = renderer.DebugObject{
		Transform: &renderer.TranslateTransform{Position: lightPosition.Sub(mgl32.Vec3{0, 1, 0})},
		Color:     &s.markerColor,
		Drawable:  glyph,
	}
	return nil
}

func (s *Scene) mesh(dev gpu.Device, spec gpu.MeshSpec) (gpu.Mesh, error) {
	m, err := dev.NewMesh(spec)
	if err != nil {
		return nil, fmt.Errorf("scene: mesh %q: %w", spec.Label, err)
	}
	s.meshes = append(s.meshes, m)
	return m, nil
}

func (s *Scene) texture(dev gpu.Device, slots *gpu.SlotAllocator, label string, img image.Image) (gpu.Texture, error) {
	slot, err := slots.Next()
	if err != nil {
		return nil, fmt.Errorf("scene: texture %q: %w", label, err)
	}
	t, err := dev.NewTexture(label, img, slot)
	if err != nil {
		return nil, fmt.Errorf("scene: texture %q: %w", label, err)
	}
	s.textures = append(s.textures, t)
	return t, nil
}

// Attach installs the scene terrain on r.
func (s *Scene) Attach(r *renderer.Renderer) error {
	return r.SetTerrain(s.terrain)
}

// Heightmap returns the ground the scene was built on.
func (s *Scene) Heightmap() *terrain.Heightmap { return s.heightmap }

// Update advances the day cycle and the crate animation by dt seconds.
func (s *Scene) Update(dt float64) {
	s.Day.Advance(time.Duration(dt * float64(time.Second)))
	s.sunDirection, s.sunColor = s.Day.Light()

	s.crateSpin += float32(dt) * 0.5
	for i, c := range s.crates {
		c.Transform.Rotation = mgl32.Vec3{0, s.crateSpin + float32(i), 0}
	}
}

// Submit queues this frame's objects on r.
func (s *Scene) Submit(r *renderer.Renderer) {
	for _, c := range s.crates {
		r.AddRegularObject(c)
	}
	r.AddPointLightObject(s.point)
	r.AddDirectionalLightObject(renderer.DirectionalLightObject{
		Direction: &s.sunDirection,
		Color:     &s.sunColor,
	})
	r.AddDebugObject(s.marker)
}

// SkyboxView is the rotation-only camera view turned by the day cycle.
func (s *Scene) SkyboxView(view mgl32.Mat4) mgl32.Mat4 {
	return graphics.SkyboxView(view).Mul4(s.Day.Rotation())
}

// Dispose releases every mesh and texture the scene created.
func (s *Scene) Dispose() {
	for _, t := range s.textures {
		t.Dispose()
	}
	for _, m := range s.meshes {
		m.Dispose()
	}
	s.textures = nil
	s.meshes = nil
}

// checker returns a size x size image of cells x cells alternating squares.
func checker(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := size / cells
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
