// Package blur holds the separable Gaussian kernel and the ping-pong
// schedule used by the bloom pass, plus a CPU implementation of the same
// schedule for checking it.
package blur

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// StartFlag is the horizontal flag value the schedule starts from.
const StartFlag = 1

var ErrPassCount = errors.New("blur: pass count must be even and at least 2")

// Kernel holds the centre weight followed by the weights of increasing
// offsets. Each off-centre weight is applied on both sides, so
// k[0] + 2*(k[1]+...+k[n-1]) == 1.
type Kernel []float32

// Gaussian returns a normalised kernel with the given number of taps. A
// non-positive sigma picks one that fits the taps.
func Gaussian(taps int, sigma float64) Kernel {
	if taps < 1 {
		taps = 1
	}
	if sigma <= 0 {
		sigma = float64(taps) / 2.5
	}
	raw := make([]float64, taps)
	sum := 0.0
	for i := range raw {
		raw[i] = math.Exp(-float64(i*i) / (2 * sigma * sigma))
		if i == 0 {
			sum += raw[i]
		} else {
			sum += 2 * raw[i]
		}
	}
	k := make(Kernel, taps)
	for i, w := range raw {
		k[i] = float32(w / sum)
	}
	return k
}

// Sum returns the total weight applied to a flat input.
func (k Kernel) Sum() float32 {
	if len(k) == 0 {
		return 0
	}
	s := k[0]
	for _, w := range k[1:] {
		s += 2 * w
	}
	return s
}

// Step is one pass of the schedule. Source is the ping-pong index read, or
// -1 for the original bloom image.
type Step struct {
	Target     int
	Horizontal bool
	Source     int
}

// Schedule lays out the ping-pong passes. The flag starts at StartFlag, each
// pass writes the target named by the flag, flips it, then reads the target
// named by the flipped flag. The returned index is the flag at exit, which
// names the target the composite reads.
func Schedule(passes int) ([]Step, int) {
	flag := StartFlag
	steps := make([]Step, 0, max(passes, 0))
	for i := 0; i < passes; i++ {
		s := Step{Target: flag, Horizontal: flag == 1}
		flag ^= 1
		if i == 0 {
			s.Source = -1
		} else {
			s.Source = flag
		}
		steps = append(steps, s)
	}
	return steps, flag
}

// ValidPasses reports whether the exit target of a schedule with this many
// passes has been written.
func ValidPasses(passes int) error {
	if passes < 2 || passes%2 != 0 {
		return fmt.Errorf("%w, got %d", ErrPassCount, passes)
	}
	return nil
}

// Image is a linear RGBA float image.
type Image struct {
	Width, Height int
	Pix           []mgl32.Vec4
}

// NewImage returns a black image.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]mgl32.Vec4, width*height)}
}

// NewUniform returns an image filled with c.
func NewUniform(width, height int, c mgl32.Vec4) *Image {
	img := NewImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = c
	}
	return img
}

// At returns the pixel at (x, y), clamping to the edge.
func (img *Image) At(x, y int) mgl32.Vec4 {
	x = min(max(x, 0), img.Width-1)
	y = min(max(y, 0), img.Height-1)
	return img.Pix[y*img.Width+x]
}

// Pass applies k along one axis into dst.
func (k Kernel) Pass(dst, src *Image, horizontal bool) {
	dx, dy := 0, 1
	if horizontal {
		dx, dy = 1, 0
	}
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			acc := src.At(x, y).Mul(k[0])
			for i := 1; i < len(k); i++ {
				acc = acc.Add(src.At(x+i*dx, y+i*dy).Mul(k[i]))
				acc = acc.Add(src.At(x-i*dx, y-i*dy).Mul(k[i]))
			}
			dst.Pix[y*dst.Width+x] = acc
		}
	}
}

// PingPong runs the schedule for passes on the CPU and returns the image
// the composite would sample.
func PingPong(src *Image, k Kernel, passes int) (*Image, error) {
	if err := ValidPasses(passes); err != nil {
		return nil, err
	}
	buffers := [2]*Image{NewImage(src.Width, src.Height), NewImage(src.Width, src.Height)}
	steps, result := Schedule(passes)
	for _, s := range steps {
		in := src
		if s.Source >= 0 {
			in = buffers[s.Source]
		}
		k.Pass(buffers[s.Target], in, s.Horizontal)
	}
	return buffers[result], nil
}
