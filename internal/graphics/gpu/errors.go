package gpu

import "errors"

var (
	ErrUniformNotFound       = errors.New("gpu: uniform not found in program")
	ErrFramebufferIncomplete = errors.New("gpu: framebuffer is not complete")
	ErrSlotsExhausted        = errors.New("gpu: no texture slots left")
	ErrCompile               = errors.New("gpu: shader compilation failed")
	ErrLink                  = errors.New("gpu: program link failed")
	ErrInvalidCubemap        = errors.New("gpu: invalid cubemap faces")
)
