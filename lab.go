package strimg

import "math"

// Lab is a color in the CIELAB color space. L is lightness in [0, 100],
// A and B are the green-red and blue-yellow axes, typically within
// [-128, 128].
type Lab struct {
	L, A, B float64
}

// D65 reference white, scaled so that Y = 100.
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

// RGBToLab converts an 8-bit sRGB triple to CIELAB under D65.
//
// See https://en.wikipedia.org/wiki/SRGB#The_reverse_transformation and
// https://en.wikipedia.org/wiki/CIELAB_color_space#From_CIEXYZ_to_CIELAB
func RGBToLab(r, g, b uint8) Lab {
	lr := linearize(float64(r) / 255)
	lg := linearize(float64(g) / 255)
	lb := linearize(float64(b) / 255)

	x := (lr * 0.4124) + (lg * 0.3576) + (lb * 0.1805)
	y := (lr * 0.2126) + (lg * 0.7152) + (lb * 0.0722)
	z := (lr * 0.0193) + (lg * 0.1192) + (lb * 0.9505)

	x *= 100
	y *= 100
	z *= 100

	fx := labF(x / whiteX)
	fy := labF(y / whiteY)
	fz := labF(z / whiteZ)

	return Lab{
		L: (116 * fy) - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// linearize undoes the sRGB transfer curve for a channel in [0, 1].
func linearize(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

// labF is the CIE f(t) nonlinearity.
func labF(t float64) float64 {
	if t > 0.008856 {
		return math.Pow(t, 1.0/3.0)
	}
	return (7.787 * t) + (4.0 / 29.0)
}
