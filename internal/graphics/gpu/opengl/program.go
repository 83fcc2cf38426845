package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"mini-sky/internal/graphics/gpu"
)

// program is a linked OpenGL shader program. Uniform locations are looked
// up once and cached; a missing uniform is reported on every set.
type program struct {
	name      string
	id        uint32
	locations map[string]int32
}

// Name returns the program name used in logs and errors.
func (p *program) Name() string { return p.name }

// Use activates the shader program.
func (p *program) Use() {
	gl.UseProgram(p.id)
}

func (p *program) location(name string) (int32, error) {
	if loc, ok := p.locations[name]; ok {
		return loc, nil
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	if loc < 0 {
		return -1, fmt.Errorf("%w: %q in program %q", gpu.ErrUniformNotFound, name, p.name)
	}
	p.locations[name] = loc
	return loc, nil
}

// SetMatrix4 sets a 4x4 matrix uniform. The program must be in use.
func (p *program) SetMatrix4(name string, value mgl32.Mat4) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	gl.UniformMatrix4fv(loc, 1, false, &value[0])
	return nil
}

// SetVector3 sets a vec3 uniform.
func (p *program) SetVector3(name string, value mgl32.Vec3) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	gl.Uniform3f(loc, value.X(), value.Y(), value.Z())
	return nil
}

// SetFloat sets a float uniform.
func (p *program) SetFloat(name string, value float32) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	gl.Uniform1f(loc, value)
	return nil
}

// SetInt sets an integer or sampler uniform.
func (p *program) SetInt(name string, value int32) error {
	loc, err := p.location(name)
	if err != nil {
		return err
	}
	gl.Uniform1i(loc, value)
	return nil
}

// Dispose deletes the program object.
func (p *program) Dispose() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

func stageEnum(t gpu.StageType) (uint32, error) {
	switch t {
	case gpu.VertexStage:
		return gl.VERTEX_SHADER, nil
	case gpu.FragmentStage:
		return gl.FRAGMENT_SHADER, nil
	case gpu.GeometryStage:
		return gl.GEOMETRY_SHADER, nil
	}
	return 0, fmt.Errorf("unknown shader stage %d", t)
}

func linkProgram(shaders []uint32) (uint32, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
		gl.DeleteShader(s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%w: %s", gpu.ErrLink, strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%w: %s", gpu.ErrCompile, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}
