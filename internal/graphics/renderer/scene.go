package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

// scenePass draws debug markers, lit objects, the terrain and the point
// light glyph into the screen target.
type scenePass struct {
	res        *resources
	debug      gpu.Program
	regular    gpu.Program
	terrain    gpu.Program
	pointLight gpu.Program
	material   *Material
}

func (p *scenePass) name() string { return "scene" }

func (p *scenePass) init() error {
	p.material = DefaultMaterial()
	type spec struct {
		dst        *gpu.Program
		name       string
		vert, frag string
	}
	for _, s := range []spec{
		{&p.debug, "debug", "solid.vert", "debug.frag"},
		{&p.regular, "regular_object", "lit.vert", "regular_object.frag"},
		{&p.terrain, "terrain", "lit.vert", "terrain.frag"},
		{&p.pointLight, "point_light", "solid.vert", "point_light.frag"},
	} {
		prog, err := p.res.dev.CompileProgram(s.name,
			gpu.Stage{Name: s.vert, Type: gpu.VertexStage},
			gpu.Stage{Name: s.frag, Type: gpu.FragmentStage},
		)
		if err != nil {
			return err
		}
		*s.dst = prog
	}
	return nil
}

func (p *scenePass) render(ctx *frameContext) error {
	screen := p.res.screen
	screen.Bind()
	screen.DrawBuffers(gpu.ColorAttachment0, gpu.ColorAttachment1)
	p.res.dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	screen.DrawBuffers(gpu.ColorAttachment0)
	if err := p.renderDebug(ctx); err != nil {
		return err
	}
	if err := p.renderRegular(ctx); err != nil {
		return err
	}
	if err := p.renderTerrain(ctx); err != nil {
		return err
	}

	screen.DrawBuffers(gpu.ColorAttachment0, gpu.ColorAttachment1)
	return p.renderPointLights(ctx)
}

func (p *scenePass) renderDebug(ctx *frameContext) error {
	if len(ctx.queue.debug) == 0 {
		return nil
	}
	p.debug.Use()
	if err := setCamera(p.debug, ctx); err != nil {
		return err
	}
	for _, o := range ctx.queue.debug {
		if err := p.debug.SetMatrix4("u_model", o.Transform.Model()); err != nil {
			return err
		}
		if err := p.debug.SetVector3("u_color", *o.Color); err != nil {
			return err
		}
		o.Drawable.Draw()
		ctx.stats.DebugObjects++
	}
	return nil
}

func (p *scenePass) renderRegular(ctx *frameContext) error {
	if len(ctx.queue.regular) == 0 {
		return nil
	}
	p.regular.Use()
	if err := p.setLighting(p.regular, ctx); err != nil {
		return err
	}
	for _, o := range ctx.queue.regular {
		if err := p.regular.SetMatrix4("u_model", o.Transform.Model()); err != nil {
			return err
		}
		if err := p.drawLit(p.regular, o.Material, o.NormalMap, o.Drawable); err != nil {
			return err
		}
		ctx.stats.RegularObjects++
	}
	return nil
}

func (p *scenePass) renderTerrain(ctx *frameContext) error {
	t := ctx.terrain
	if t == nil {
		return nil
	}
	p.terrain.Use()
	if err := p.setLighting(p.terrain, ctx); err != nil {
		return err
	}
	if err := p.terrain.SetMatrix4("u_model", mgl32.Ident4()); err != nil {
		return err
	}
	if err := p.drawLit(p.terrain, t.Material, t.NormalMap, t.Drawable); err != nil {
		return err
	}
	ctx.stats.TerrainDrawn = true
	return nil
}

func (p *scenePass) renderPointLights(ctx *frameContext) error {
	p.pointLight.Use()
	if err := setCamera(p.pointLight, ctx); err != nil {
		return err
	}
	for _, o := range ctx.queue.points {
		if err := p.pointLight.SetMatrix4("u_model", o.Transform.Model()); err != nil {
			return err
		}
		if err := p.pointLight.SetVector3("u_color", *o.Color); err != nil {
			return err
		}
		o.Drawable.Draw()
		ctx.stats.PointLights++
	}
	return nil
}

// drawLit applies the material and binds the normal and shadow maps before
// drawing. The program must be in use.
func (p *scenePass) drawLit(prog gpu.Program, material *Material, normalMap gpu.Texture, d gpu.Drawable) error {
	m := *p.material
	if material != nil {
		m = *material
	}
	if m.Texture == nil {
		m.Texture = p.res.fallbackAlbedo
	}
	if err := m.Apply(prog); err != nil {
		return err
	}
	if normalMap == nil {
		normalMap = p.res.fallbackNormal
	}
	normalMap.Bind()
	if err := prog.SetInt("u_normal_texture_sampler", int32(normalMap.Slot())); err != nil {
		return err
	}
	p.res.shadow.Target(gpu.DepthAttachment).Bind()
	d.Draw()
	return nil
}

// setLighting uploads the full camera and light uniform set. Each lit
// program gets its own copy before its objects are drawn.
func (p *scenePass) setLighting(prog gpu.Program, ctx *frameContext) error {
	if err := setCamera(prog, ctx); err != nil {
		return err
	}
	point := ctx.point
	sun := ctx.directional
	var shadowsEnabled int32
	if ctx.shadowsEnabled {
		shadowsEnabled = 1
	}
	vectors := []struct {
		name  string
		value mgl32.Vec3
	}{
		{"u_point_light.position", point.Transform.Position},
		{"u_point_light.ambient", *point.Color},
		{"u_point_light.diffuse", *point.Color},
		{"u_point_light.specular", *point.Color},
		{"u_directional_light.direction", *sun.Direction},
		{"u_directional_light.ambient", *sun.Color},
		{"u_directional_light.diffuse", *sun.Color},
		{"u_directional_light.specular", *sun.Color},
		{"u_camera_position", ctx.position},
	}
	for _, v := range vectors {
		if err := prog.SetVector3(v.name, v.value); err != nil {
			return err
		}
	}
	if err := prog.SetMatrix4("u_light_space", ctx.lightSpace); err != nil {
		return err
	}
	if err := prog.SetInt("u_shadows_enabled", shadowsEnabled); err != nil {
		return err
	}
	return prog.SetInt("u_shadow_texture_sampler", int32(p.res.shadowSlot))
}

func (p *scenePass) dispose() {
	for _, prog := range []*gpu.Program{&p.pointLight, &p.terrain, &p.regular, &p.debug} {
		if *prog != nil {
			(*prog).Dispose()
			*prog = nil
		}
	}
}

func setCamera(prog gpu.Program, ctx *frameContext) error {
	if err := prog.SetMatrix4("u_view", ctx.view); err != nil {
		return err
	}
	return prog.SetMatrix4("u_projection", ctx.projection)
}
