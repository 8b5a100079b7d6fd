package imageutil

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
)

// GGCanvas is a canvas backed by a gg software rendering context.
type GGCanvas struct {
	dc     *gg.Context
	interp Interpolation
}

// NewGGCanvas allocates a width x height gg context.
func NewGGCanvas(width, height int, interp Interpolation) (*GGCanvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size %dx%d has no area", width, height)
	}
	return &GGCanvas{dc: gg.NewContext(width, height), interp: interp}, nil
}

// DrawImage scales src into dst. gg samples bilinearly unless
// InterpolationArea asks for bicubic; nearest sampling is not selectable
// through DrawImageEx and also uses bilinear.
func (c *GGCanvas) DrawImage(src image.Image, dst image.Rectangle) {
	if dst.Empty() {
		return
	}
	mode := gg.InterpBilinear
	if c.interp == InterpolationArea {
		mode = gg.InterpBicubic
	}
	c.dc.DrawImageEx(gg.ImageBufFromImage(src), gg.DrawImageOptions{
		X:             float64(dst.Min.X),
		Y:             float64(dst.Min.Y),
		DstWidth:      float64(dst.Dx()),
		DstHeight:     float64(dst.Dy()),
		Interpolation: mode,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

// RGBA flushes the context and returns a copy of its pixels.
func (c *GGCanvas) RGBA() *image.RGBA {
	_ = c.dc.FlushGPU()
	img := c.dc.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Close releases the context.
func (c *GGCanvas) Close() error {
	return c.dc.Close()
}
