package renderer

import (
	"mini-sky/internal/graphics/gpu"
)

// Composite parameters default to 1, a neutral exposure, no gamma curve and
// no sharpening.
const (
	DefaultExposure  = 1.0
	DefaultGamma     = 1.0
	DefaultSharpness = 1.0
)

type compositeParams struct {
	exposure  float32
	gamma     float32
	sharpness float32
}

// compositePass tone maps color plus blurred bloom onto the window.
type compositePass struct {
	res     *resources
	params  *compositeParams
	program gpu.Program
}

func (p *compositePass) name() string { return "composite" }

func (p *compositePass) init() error {
	var err error
	p.program, err = p.res.dev.CompileProgram("screen",
		gpu.Stage{Name: "quad.vert", Type: gpu.VertexStage},
		gpu.Stage{Name: "screen.frag", Type: gpu.FragmentStage},
	)
	if err != nil {
		return err
	}
	p.program.Use()
	if err := p.program.SetInt("u_color_texture_sampler", int32(p.res.colorSlot)); err != nil {
		return err
	}
	return p.uploadParams()
}

func (p *compositePass) render(ctx *frameContext) error {
	dev := p.res.dev
	dev.BindDefaultFramebuffer(ctx.windowWidth, ctx.windowHeight)
	dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	p.program.Use()
	bloom := ctx.bloom.Texture
	bloom.Bind()
	if err := p.program.SetInt("u_bloom_texture_sampler", int32(bloom.Slot())); err != nil {
		return err
	}
	p.res.colorTarget().Bind()
	p.res.quad.Draw()
	return nil
}

// upload sets one parameter on the program when it exists.
func (p *compositePass) upload(name string, value float32) error {
	if p.program == nil {
		return nil
	}
	p.program.Use()
	return p.program.SetFloat(name, value)
}

func (p *compositePass) uploadParams() error {
	if err := p.upload("u_exposure", p.params.exposure); err != nil {
		return err
	}
	if err := p.upload("u_gamma", p.params.gamma); err != nil {
		return err
	}
	return p.upload("u_sharpness", p.params.sharpness)
}

func (p *compositePass) dispose() {
	if p.program != nil {
		p.program.Dispose()
		p.program = nil
	}
}
