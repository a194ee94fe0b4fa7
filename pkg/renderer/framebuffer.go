package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// DefaultGamma is the display gamma applied when packing colors
const DefaultGamma = 2.2

// Framebuffer is a row-major grid of packed 0xAARRGGBB pixels
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer allocates a cleared framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Row returns the pixels of row j. Rows never overlap, so distinct rows may
// be written concurrently.
func (fb *Framebuffer) Row(j int) []uint32 {
	return fb.Pixels[j*fb.Width : (j+1)*fb.Width]
}

// At returns the packed pixel at (i, j)
func (fb *Framebuffer) At(i, j int) uint32 {
	return fb.Pixels[j*fb.Width+i]
}

// PackColor gamma-encodes a linear color into an opaque 0xAARRGGBB word
func PackColor(c core.Vec3, gamma float64) uint32 {
	r := encodeChannel(c.X, gamma)
	g := encodeChannel(c.Y, gamma)
	b := encodeChannel(c.Z, gamma)
	return 0xFF<<24 | r<<16 | g<<8 | b
}

// encodeChannel maps a linear value to [0, 255]. Negative and NaN inputs map to 0.
func encodeChannel(v, gamma float64) uint32 {
	if !(v > 0) {
		return 0
	}
	v = math.Pow(v, 1/gamma)
	if v > 1 {
		v = 1
	}
	return uint32(v * 255)
}

// UnpackColor splits a packed pixel into its channels
func UnpackColor(p uint32) color.RGBA {
	return color.RGBA{
		R: uint8(p >> 16),
		G: uint8(p >> 8),
		B: uint8(p),
		A: uint8(p >> 24),
	}
}

// ToImage converts the framebuffer to an RGBA image
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for j := 0; j < fb.Height; j++ {
		row := fb.Row(j)
		for i, p := range row {
			img.SetRGBA(i, j, UnpackColor(p))
		}
	}
	return img
}
