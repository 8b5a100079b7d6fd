package strimg

import (
	"fmt"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels,
// where each channel ranges from 0 to 255. Alpha is carried by the
// PixelBuffer only; the color math never looks at it.
type RGB struct {
	R, G, B uint8
}

// Key returns the six hex digit lookup key used by TerminalColorTable,
// two lowercase digits per channel, zero padded ("ff0000" for red).
func (c RGB) Key() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Lab converts the color to CIELAB.
func (c RGB) Lab() Lab {
	return RGBToLab(c.R, c.G, c.B)
}

// toUint32 converts an RGB color to a 32-bit unsigned integer
func (c RGB) toUint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// rgbFromUint32 converts a 32-bit unsigned integer to an RGB color
func rgbFromUint32(v uint32) RGB {
	return RGB{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// RGBFromColor converts any color.Color to RGB, undoing alpha
// premultiplication for translucent colors.
func RGBFromColor(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ToColor converts RGB to an opaque color.RGBA.
func (c RGB) ToColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
