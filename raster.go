package strimg

import (
	"fmt"
	"image"

	"github.com/wbrown/strimg/imageutil"
)

// Canvas is a fixed-size drawing surface. DrawImage scales src into dst,
// clipping whatever falls outside the surface; RGBA reads the pixels back.
type Canvas interface {
	DrawImage(src image.Image, dst image.Rectangle)
	RGBA() *image.RGBA
}

// Rasterizer allocates a transparent canvas of the given size.
type Rasterizer func(width, height int) (Canvas, error)

// DrawRasterizer returns a Rasterizer backed by golang.org/x/image/draw
// using the given interpolation. It is the default.
func DrawRasterizer(interp imageutil.Interpolation) Rasterizer {
	return func(width, height int) (Canvas, error) {
		c, err := imageutil.NewCanvas(width, height, interp)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// GGRasterizer returns a Rasterizer backed by a gg software context. Its
// canvases implement io.Closer and are closed after each conversion.
func GGRasterizer(interp imageutil.Interpolation) Rasterizer {
	return func(width, height int) (Canvas, error) {
		c, err := imageutil.NewGGCanvas(width, height, interp)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// ParseRasterizer parses "draw" or "gg".
func ParseRasterizer(name string, interp imageutil.Interpolation) (Rasterizer, error) {
	switch name {
	case "draw", "":
		return DrawRasterizer(interp), nil
	case "gg":
		return GGRasterizer(interp), nil
	}
	return nil, fmt.Errorf("unknown rasterizer %q, options are draw or gg", name)
}
