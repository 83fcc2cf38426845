// Package opengl implements gpu.Device on top of an OpenGL 4.1 core context.
// Every call must come from the goroutine that owns the context.
package opengl

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.1-core/gl"

	"mini-sky/internal/graphics/gpu"
	"mini-sky/internal/log"
)

var logger = log.New("opengl")

// Device issues OpenGL commands for the render pipeline.
type Device struct {
	sources *sourceLoader
}

// New initialises the OpenGL bindings and returns a device reading shader
// stages from shaders. A context must be current on the calling goroutine.
func New(shaders fs.FS) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	logger.Infof("OpenGL %s (%s)", gl.GoStr(gl.GetString(gl.VERSION)), gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &Device{sources: newSourceLoader(shaders)}, nil
}

// CompileProgram compiles and links the named stage files.
func (d *Device) CompileProgram(name string, stages ...gpu.Stage) (gpu.Program, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("program %q: no stages", name)
	}
	shaders := make([]uint32, 0, len(stages))
	cleanup := func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}
	for _, st := range stages {
		kind, err := stageEnum(st.Type)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("program %q: %w", name, err)
		}
		src, err := d.sources.load(st.Name)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("program %q: %w", name, err)
		}
		s, err := compileShader(src, kind)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("program %q, %s stage %q: %w", name, st.Type, st.Name, err)
		}
		shaders = append(shaders, s)
	}
	id, err := linkProgram(shaders)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", name, err)
	}
	logger.Debugf("compiled program %q (%d stages)", name, len(stages))
	return &program{name: name, id: id, locations: make(map[string]int32)}, nil
}

// BindDefaultFramebuffer makes the window the draw target.
func (d *Device) BindDefaultFramebuffer(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the selected buffers of the bound framebuffer.
func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

// SetCullMode selects the culled faces. CullNone disables culling.
func (d *Device) SetCullMode(mode gpu.CullMode) {
	switch mode {
	case gpu.CullNone:
		gl.Disable(gl.CULL_FACE)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

// SetDepthFunc selects the depth comparison.
func (d *Device) SetDepthFunc(fn gpu.DepthFunc) {
	if fn == gpu.DepthLessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

// SetClearColor sets the color used by Clear.
func (d *Device) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}
