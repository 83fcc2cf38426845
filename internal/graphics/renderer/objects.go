package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

// Transform places an object. Rotation holds Euler angles in radians,
// applied X then Y then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// NewTransform returns an unrotated unit-scale transform at position.
func NewTransform(position mgl32.Vec3) *Transform {
	return &Transform{Position: position, Scale: mgl32.Vec3{1, 1, 1}}
}

// Model returns translate * rotX * rotY * rotZ * scale.
func (t *Transform) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl32.HomogRotate3DX(t.Rotation.X())).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z())).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}

// TranslateTransform is a position-only transform.
type TranslateTransform struct {
	Position mgl32.Vec3
}

// Model returns the translation to Position.
func (t *TranslateTransform) Model() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
}

// Material is a Phong surface description. A nil Texture samples the
// renderer's white fallback.
type Material struct {
	Ambient   mgl32.Vec3
	Diffuse   mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32
	Texture   gpu.Texture
}

// DefaultMaterial is a neutral white surface.
func DefaultMaterial() *Material {
	return &Material{
		Ambient:   mgl32.Vec3{1, 1, 1},
		Diffuse:   mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// Apply binds the material texture on its slot and sets u_material.* on p.
// p must be in use.
func (m *Material) Apply(p gpu.Program) error {
	if m.Texture != nil {
		m.Texture.Bind()
		if err := p.SetInt("u_material.texture_sampler", int32(m.Texture.Slot())); err != nil {
			return err
		}
	}
	if err := p.SetVector3("u_material.ambient", m.Ambient); err != nil {
		return err
	}
	if err := p.SetVector3("u_material.diffuse", m.Diffuse); err != nil {
		return err
	}
	if err := p.SetVector3("u_material.specular", m.Specular); err != nil {
		return err
	}
	return p.SetFloat("u_material.shininess", m.Shininess)
}

// RegularObject is one lit mesh instance for the current frame. A nil
// Material or NormalMap uses the renderer's fallbacks.
type RegularObject struct {
	Material  *Material
	Transform *Transform
	Drawable  gpu.Drawable
	NormalMap gpu.Texture
}

// PointLightObject is the point light and the glyph drawn at its position.
type PointLightObject struct {
	Color     *mgl32.Vec3
	Transform *Transform
	Drawable  gpu.Drawable
}

// DirectionalLightObject is the sun. A zero Color turns it off.
type DirectionalLightObject struct {
	Direction *mgl32.Vec3
	Color     *mgl32.Vec3
}

// DebugObject is drawn unlit in a solid color.
type DebugObject struct {
	Transform *TranslateTransform
	Color     *mgl32.Vec3
	Drawable  gpu.Drawable
}

// Terrain persists across frames until replaced with SetTerrain.
type Terrain struct {
	Material  *Material
	NormalMap gpu.Texture
	Drawable  gpu.Drawable
}

func (o RegularObject) validate() error {
	if o.Transform == nil || o.Drawable == nil {
		return fmt.Errorf("%w: regular object needs a transform and a drawable", ErrInvalidObject)
	}
	return nil
}

func (o PointLightObject) validate() error {
	if o.Color == nil || o.Transform == nil || o.Drawable == nil {
		return fmt.Errorf("%w: point light needs a color, a transform and a drawable", ErrInvalidObject)
	}
	return nil
}

func (o DirectionalLightObject) validate() error {
	if o.Direction == nil || o.Color == nil {
		return fmt.Errorf("%w: directional light needs a direction and a color", ErrInvalidObject)
	}
	return nil
}

func (o DebugObject) validate() error {
	if o.Transform == nil || o.Color == nil || o.Drawable == nil {
		return fmt.Errorf("%w: debug object needs a transform, a color and a drawable", ErrInvalidObject)
	}
	return nil
}
