package gpu

import (
	"fmt"
	"image"
)

// CubeFace indexes the six cubemap faces in OpenGL order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// CubeFaces holds one image per face, indexed by CubeFace.
type CubeFaces [6]image.Image

var faceNames = [...]string{"px", "nx", "py", "ny", "pz", "nz"}

// String returns the short face name used for face image files.
func (f CubeFace) String() string {
	if f < 0 || int(f) >= len(faceNames) {
		return fmt.Sprintf("face(%d)", int(f))
	}
	return faceNames[f]
}

// Validate checks that every face is present, square and the same size,
// and returns that size.
func (c CubeFaces) Validate() (int, error) {
	size := 0
	for i, img := range c {
		face := CubeFace(i)
		if img == nil || img.Bounds().Empty() {
			return 0, fmt.Errorf("%w: %s is empty", ErrInvalidCubemap, face)
		}
		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return 0, fmt.Errorf("%w: %s is %dx%d, faces must be square", ErrInvalidCubemap, face, b.Dx(), b.Dy())
		}
		if i == 0 {
			size = b.Dx()
		} else if b.Dx() != size {
			return 0, fmt.Errorf("%w: %s is %d wide, %s is %d", ErrInvalidCubemap, face, b.Dx(), FacePositiveX, size)
		}
	}
	return size, nil
}
