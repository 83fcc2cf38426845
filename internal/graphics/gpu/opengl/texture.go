package opengl

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"mini-sky/internal/graphics/gpu"
)

// EXT_texture_filter_anisotropic, not part of the 4.1 core bindings.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

type texture struct {
	id            uint32
	target        uint32
	slot          gpu.Slot
	width, height int
}

// Bind activates the texture's slot and binds the texture to it.
func (t *texture) Bind() {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(t.slot))
	gl.BindTexture(t.target, t.id)
}

func (t *texture) Slot() gpu.Slot { return t.slot }
func (t *texture) Width() int     { return t.width }
func (t *texture) Height() int    { return t.height }

func (t *texture) Dispose() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// LoadTexture decodes an image file (png, jpeg, bmp, tiff or webp) into a
// mipmapped, repeating texture on the given slot.
func (d *Device) LoadTexture(path string, slot gpu.Slot) (gpu.Texture, error) {
	img, err := decodeImage(path)
	if err != nil {
		return nil, err
	}
	return d.NewTexture(path, img, slot)
}

// LoadCubemap decodes the six faces px, nx, py, ny, pz and nz from dir. Each
// face may use any supported image extension.
func (d *Device) LoadCubemap(dir string, slot gpu.Slot) (gpu.Texture, error) {
	var faces gpu.CubeFaces
	for i := range faces {
		face := gpu.CubeFace(i)
		matches, err := filepath.Glob(filepath.Join(dir, face.String()+".*"))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("cubemap %s: no %s face", dir, face)
		}
		if faces[i], err = decodeImage(matches[0]); err != nil {
			return nil, err
		}
	}
	return d.NewCubemap(dir, faces, slot)
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	logger.Debugf("decoded %s texture %s", format, path)
	return img, nil
}

// NewTexture uploads img as a mipmapped, repeating texture on the given slot.
// Images larger than the driver's maximum texture size are scaled down.
func (d *Device) NewTexture(label string, img image.Image, slot gpu.Slot) (gpu.Texture, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("texture %q: image is empty", label)
	}
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	rgba := toRGBA(img, int(maxSize))

	t := &texture{target: gl.TEXTURE_2D, slot: slot, width: rgba.Rect.Dx(), height: rgba.Rect.Dy()}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	var anisotropy float32
	gl.GetFloatv(maxTextureMaxAnisotropy, &anisotropy)
	if anisotropy > 0 {
		gl.TexParameterf(gl.TEXTURE_2D, textureMaxAnisotropy, anisotropy)
	}

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(t.width),
		int32(t.height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	logger.Debugf("texture %q %dx%d on slot %d", label, t.width, t.height, slot)
	return t, nil
}

// NewCubemap uploads faces into a linear, edge-clamped cubemap on the given
// slot. Faces larger than the driver's cubemap limit are scaled down.
func (d *Device) NewCubemap(label string, faces gpu.CubeFaces, slot gpu.Slot) (gpu.Texture, error) {
	if _, err := faces.Validate(); err != nil {
		return nil, fmt.Errorf("cubemap %q: %w", label, err)
	}
	var maxSize int32
	gl.GetIntegerv(gl.MAX_CUBE_MAP_TEXTURE_SIZE, &maxSize)

	t := &texture{target: gl.TEXTURE_CUBE_MAP, slot: slot}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.id)
	for i, img := range faces {
		rgba := toRGBA(img, int(maxSize))
		t.width, t.height = rgba.Rect.Dx(), rgba.Rect.Dy()
		gl.TexImage2D(
			gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i),
			0,
			gl.RGBA,
			int32(t.width),
			int32(t.height),
			0,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(rgba.Pix),
		)
	}
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	logger.Debugf("cubemap %q %dx%d on slot %d", label, t.width, t.height, slot)
	return t, nil
}

// toRGBA converts img to tightly packed RGBA, scaling it so neither side
// exceeds maxSize. A non-positive maxSize disables scaling.
func toRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
		return dst
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*w && b.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
