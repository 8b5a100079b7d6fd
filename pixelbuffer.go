package strimg

import (
	"fmt"
	"image"
)

// PixelBuffer is a row-major RGBA buffer at character-grid resolution.
// Pix holds Width*Height*4 bytes. A buffer is not modified once it has
// been read back from the canvas; reducers return a new one.
type PixelBuffer struct {
	Width, Height int
	Pix           []uint8
}

// NewPixelBuffer allocates a zeroed width x height buffer.
func NewPixelBuffer(width, height int) PixelBuffer {
	return PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// PixelBufferFromRGBA copies the pixels of img, dropping any stride
// padding and bounds offset.
func PixelBufferFromRGBA(img *image.RGBA) PixelBuffer {
	b := img.Bounds()
	buf := NewPixelBuffer(b.Dx(), b.Dy())
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(buf.Pix[y*rowLen:(y+1)*rowLen], img.Pix[src:src+rowLen])
	}
	return buf
}

// Validate checks that the dimensions are positive and match len(Pix).
func (p PixelBuffer) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: pixel buffer is %dx%d", ErrInvalidSize, p.Width, p.Height)
	}
	if len(p.Pix) != p.Width*p.Height*4 {
		return fmt.Errorf("pixel buffer holds %d bytes, want %d for %dx%d",
			len(p.Pix), p.Width*p.Height*4, p.Width, p.Height)
	}
	return nil
}

func (p PixelBuffer) offset(x, y int) int {
	return (y*p.Width + x) * 4
}

// At returns the color at (x, y).
func (p PixelBuffer) At(x, y int) RGB {
	i := p.offset(x, y)
	return RGB{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2]}
}

// Set stores c at (x, y) as an opaque pixel.
func (p PixelBuffer) Set(x, y int, c RGB) {
	i := p.offset(x, y)
	p.Pix[i+0] = c.R
	p.Pix[i+1] = c.G
	p.Pix[i+2] = c.B
	p.Pix[i+3] = 255
}

// RGBA wraps a copy of the buffer as an *image.RGBA.
func (p PixelBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}
