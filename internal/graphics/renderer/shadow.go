package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

var (
	worldUp       = mgl32.Vec3{0, 1, 0}
	fallbackUp    = mgl32.Vec3{0, 0, 1}
	fallbackView  = mgl32.Vec3{0, 0, -1}
	fallbackLight = mgl32.Vec3{0, -1, 0}
)

const parallelEpsilon = 1e-4

// ShadowFrustum is an orthographic light volume fitted around the camera.
type ShadowFrustum struct {
	Target        mgl32.Vec3
	LightPosition mgl32.Vec3
	View          mgl32.Mat4
	Projection    mgl32.Mat4
	// ViewProjection is Projection * View.
	ViewProjection mgl32.Mat4
}

// FitShadowFrustum centres the light volume RenderDistance along the view
// direction from the camera and places the light Depth/2 back along the
// light direction. Both directions are normalised; zero vectors fall back
// to looking down -Z and a straight-down light.
func FitShadowFrustum(position, direction, light mgl32.Vec3, p ShadowFrustumParams) ShadowFrustum {
	d := normalizeOr(direction, fallbackView)
	l := normalizeOr(light, fallbackLight)

	target := position.Add(d.Mul(p.RenderDistance))
	lightPosition := target.Sub(l.Mul(p.Depth / 2))

	up := worldUp
	if l.Cross(up).Len() < parallelEpsilon {
		up = fallbackUp
	}

	f := ShadowFrustum{
		Target:        target,
		LightPosition: lightPosition,
		View:          mgl32.LookAtV(lightPosition, target, up),
		Projection:    mgl32.Ortho(-p.HalfWidth, p.HalfWidth, -p.HalfWidth, p.HalfWidth, 0, p.Depth),
	}
	f.ViewProjection = f.Projection.Mul4(f.View)
	return f
}

func normalizeOr(v, fallback mgl32.Vec3) mgl32.Vec3 {
	if v.Len() < parallelEpsilon {
		return fallback
	}
	return v.Normalize()
}

// shadowPass renders depth-only geometry from the directional light.
type shadowPass struct {
	res     *resources
	params  ShadowFrustumParams
	program gpu.Program
}

func (p *shadowPass) name() string { return "shadow" }

func (p *shadowPass) init() error {
	var err error
	p.program, err = p.res.dev.CompileProgram("depth",
		gpu.Stage{Name: "depth.vert", Type: gpu.VertexStage},
		gpu.Stage{Name: "depth.frag", Type: gpu.FragmentStage},
	)
	return err
}

func (p *shadowPass) render(ctx *frameContext) error {
	sun := ctx.directional
	if *sun.Color == (mgl32.Vec3{}) {
		ctx.lightSpace = mgl32.Ident4()
		ctx.shadowsEnabled = false
		ctx.stats.ShadowSkipped = true
		return nil
	}

	f := FitShadowFrustum(ctx.position, ctx.direction, *sun.Direction, p.params)
	ctx.lightSpace = f.ViewProjection
	ctx.shadowsEnabled = true

	dev := p.res.dev
	p.res.shadow.Bind()
	dev.Clear(gpu.ClearDepth)
	dev.SetCullMode(gpu.CullFront)
	defer dev.SetCullMode(gpu.CullBack)

	p.program.Use()
	if err := p.program.SetMatrix4("u_light_space", ctx.lightSpace); err != nil {
		return err
	}
	for _, o := range ctx.queue.regular {
		if err := p.program.SetMatrix4("u_model", o.Transform.Model()); err != nil {
			return err
		}
		o.Drawable.Draw()
		ctx.stats.ShadowCasters++
	}
	if ctx.terrain != nil {
		if err := p.program.SetMatrix4("u_model", mgl32.Ident4()); err != nil {
			return err
		}
		ctx.terrain.Drawable.Draw()
		ctx.stats.ShadowCasters++
	}
	return nil
}

func (p *shadowPass) dispose() {
	if p.program != nil {
		p.program.Dispose()
		p.program = nil
	}
}
