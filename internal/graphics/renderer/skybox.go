package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

const (
	sunElevationDegrees     = 10
	sunAngularRadiusDegrees = 5
)

// SunPosition is the sun direction in skybox space.
func SunPosition() mgl32.Vec3 {
	e := float64(mgl32.DegToRad(sunElevationDegrees))
	return mgl32.Vec3{0, float32(math.Sin(e)), float32(math.Cos(e))}
}

// skyboxPass draws the sky cube on the far plane with rotation-only view.
// The sky is procedural unless a cubemap is set.
type skyboxPass struct {
	res     *resources
	program gpu.Program
}

func (p *skyboxPass) name() string { return "skybox" }

func (p *skyboxPass) init() error {
	var err error
	p.program, err = p.res.dev.CompileProgram("skybox",
		gpu.Stage{Name: "skybox.vert", Type: gpu.VertexStage},
		gpu.Stage{Name: "skybox.frag", Type: gpu.FragmentStage},
	)
	return err
}

func (p *skyboxPass) render(ctx *frameContext) error {
	dev := p.res.dev
	dev.SetDepthFunc(gpu.DepthLessEqual)
	dev.SetCullMode(gpu.CullNone)
	defer func() {
		dev.SetCullMode(gpu.CullBack)
		dev.SetDepthFunc(gpu.DepthLess)
	}()
	p.res.screen.DrawBuffers(gpu.ColorAttachment0, gpu.ColorAttachment1)

	p.program.Use()
	if err := p.program.SetMatrix4("u_view", ctx.skyboxView); err != nil {
		return err
	}
	if err := p.program.SetMatrix4("u_projection", ctx.projection); err != nil {
		return err
	}
	if err := p.program.SetVector3("u_sun_position", SunPosition()); err != nil {
		return err
	}
	if err := p.program.SetFloat("u_sun_angular_radius", mgl32.DegToRad(sunAngularRadiusDegrees)); err != nil {
		return err
	}
	if err := p.program.SetVector3("u_sun_color", *ctx.directional.Color); err != nil {
		return err
	}
	if err := p.bindCubemap(ctx.skybox); err != nil {
		return err
	}
	p.res.cube.Draw()
	return nil
}

func (p *skyboxPass) bindCubemap(cubemap gpu.Texture) error {
	if cubemap == nil {
		return p.program.SetInt("u_skybox_enabled", 0)
	}
	cubemap.Bind()
	if err := p.program.SetInt("u_skybox_texture_sampler", int32(cubemap.Slot())); err != nil {
		return err
	}
	return p.program.SetInt("u_skybox_enabled", 1)
}

func (p *skyboxPass) dispose() {
	if p.program != nil {
		p.program.Dispose()
		p.program = nil
	}
}
