package renderer

import (
	"fmt"

	"mini-sky/internal/graphics/blur"
	"mini-sky/internal/graphics/gpu"
)

// bloomResult names the ping-pong target holding the blurred bloom image.
type bloomResult struct {
	Index   int
	Texture gpu.TargetTexture
}

// bloomPass blurs the bloom target with separable Gaussian passes that
// alternate between the two ping-pong targets.
type bloomPass struct {
	res     *resources
	passes  int
	kernel  blur.Kernel
	program gpu.Program
}

func (p *bloomPass) name() string { return "bloom" }

func (p *bloomPass) init() error {
	var err error
	p.program, err = p.res.dev.CompileProgram("gaussian_blur",
		gpu.Stage{Name: "quad.vert", Type: gpu.VertexStage},
		gpu.Stage{Name: "gaussian_blur.frag", Type: gpu.FragmentStage},
	)
	if err != nil {
		return err
	}
	p.program.Use()
	for i, w := range p.kernel {
		if err := p.program.SetFloat(fmt.Sprintf("u_weight[%d]", i), w); err != nil {
			return err
		}
	}
	return p.program.SetInt("u_texture_sampler", int32(p.res.bloomSlot))
}

func (p *bloomPass) render(ctx *frameContext) error {
	p.program.Use()
	steps, result := blur.Schedule(p.passes)
	for _, s := range steps {
		p.res.pingPong[s.Target].Bind()
		var horizontal int32
		if s.Horizontal {
			horizontal = 1
		}
		if err := p.program.SetInt("u_horizontal", horizontal); err != nil {
			return err
		}
		if s.Source < 0 {
			p.res.bloomTarget().Bind()
		} else {
			p.res.pingPong[s.Source].Target(gpu.ColorAttachment0).Bind()
		}
		p.res.quad.Draw()
	}
	ctx.bloom = bloomResult{
		Index:   result,
		Texture: p.res.pingPong[result].Target(gpu.ColorAttachment0),
	}
	ctx.stats.BlurPasses = len(steps)
	ctx.stats.BloomTarget = result
	return nil
}

func (p *bloomPass) dispose() {
	if p.program != nil {
		p.program.Dispose()
		p.program = nil
	}
}
