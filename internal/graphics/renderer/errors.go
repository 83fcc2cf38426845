package renderer

import "errors"

var (
	ErrNotInitialized     = errors.New("renderer: not initialized")
	ErrAlreadyInitialized = errors.New("renderer: already initialized")
	ErrLightCount         = errors.New("renderer: exactly one directional and one point light must be submitted")
	ErrInvalidObject      = errors.New("renderer: submitted object is missing a required reference")
	ErrInvalidOptions     = errors.New("renderer: invalid options")
)
