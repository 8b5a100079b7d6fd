package strimg

import "math"

const (
	// pow25To7 is 25^7, the chroma normalizer shared by the G factor and RT.
	pow25To7 = 6103515625.0

	// hueSeamSlack absorbs the last-bit error of hue angles that are 180
	// degrees apart in exact arithmetic.
	hueSeamSlack = 1e-9
)

// Distance returns the CIEDE2000 difference between two sRGB colors.
func Distance(p, q RGB) float64 {
	return CIEDE2000(p.Lab(), q.Lab())
}

// CIEDE2000 returns the CIEDE2000 color difference between x and y with
// the parametric weights kL = kC = kH = 1.
func CIEDE2000(x, y Lab) float64 {
	return CIEDE2000K(x, y, 1, 1, 1)
}

// CIEDE2000K returns the CIEDE2000 color difference between x and y using
// the parametric weighting factors kL, kC and kH.
//
// The implementation follows G. Sharma, W. Wu, E. N. Dalal, "The CIEDE2000
// color-difference formula: Implementation notes, supplementary test data,
// and mathematical observations", Color Res. Appl. 30 (2005). The result
// is symmetric in its two arguments and zero for identical colors.
func CIEDE2000K(x, y Lab, kL, kC, kH float64) float64 {
	deltaLp := y.L - x.L

	c1 := math.Sqrt(x.A*x.A + x.B*x.B)
	c2 := math.Sqrt(y.A*y.A + y.B*y.B)

	cBar7 := math.Pow((c1+c2)/2, 7)
	g := 1 - math.Sqrt(cBar7/(cBar7+pow25To7))
	ap1 := x.A + (x.A/2)*g
	ap2 := y.A + (y.A/2)*g

	cp1 := math.Sqrt(ap1*ap1 + x.B*x.B)
	cp2 := math.Sqrt(ap2*ap2 + y.B*y.B)
	cpBar := (cp1 + cp2) / 2
	deltaCp := cp2 - cp1

	hp1 := hueAngle(x.B, ap1)
	hp2 := hueAngle(y.B, ap2)
	zeroChroma := cp1*cp2 == 0

	deltahp := hueDifference(hp1, hp2, zeroChroma)
	deltaHp := 2 * math.Sqrt(cp1*cp2) * math.Sin(degToRad(deltahp)/2)

	hpBar := meanHue(hp1, hp2, zeroChroma)

	lBar50 := (x.L+y.L)/2 - 50
	lBar50 *= lBar50
	sl := 1 + (0.015*lBar50)/math.Sqrt(20+lBar50)
	sc := 1 + 0.045*cpBar
	t := 1 -
		0.17*math.Cos(degToRad(hpBar-30)) +
		0.24*math.Cos(degToRad(2*hpBar)) +
		0.32*math.Cos(degToRad(3*hpBar+6)) -
		0.20*math.Cos(degToRad(4*hpBar-63))
	sh := 1 + 0.015*cpBar*t

	cpBar7 := math.Pow(cpBar, 7)
	theta := 60 * math.Exp(-math.Pow((hpBar-275)/25, 2))
	rt := -2 * math.Sqrt(cpBar7/(cpBar7+pow25To7)) * math.Sin(degToRad(theta))

	dl := deltaLp / (kL * sl)
	dc := deltaCp / (kC * sc)
	dh := deltaHp / (kH * sh)

	return math.Sqrt(dl*dl + dc*dc + dh*dh + rt*dc*dh)
}

// hueAngle returns atan2(b, ap) in degrees within [0, 360). A neutral
// color has hue 0.
func hueAngle(b, ap float64) float64 {
	if b == 0 && ap == 0 {
		return 0
	}
	h := radToDeg(math.Atan2(b, ap))
	if h < 0 {
		h += 360
	}
	return h
}

// hueDifference is Δh′, wrapped into [-180, 180].
func hueDifference(hp1, hp2 float64, zeroChroma bool) float64 {
	switch {
	case zeroChroma:
		return 0
	case !acrossSeam(hp1, hp2):
		return hp2 - hp1
	case hp2 <= hp1:
		return hp2 - hp1 + 360
	default:
		return hp2 - hp1 - 360
	}
}

// meanHue is h̄′, averaged across the 0/360 seam when the hues are more
// than 180 degrees apart.
func meanHue(hp1, hp2 float64, zeroChroma bool) float64 {
	switch {
	case zeroChroma:
		return hp1 + hp2
	case !acrossSeam(hp1, hp2):
		return (hp1 + hp2) / 2
	case hp1+hp2 < 360:
		return (hp1 + hp2 + 360) / 2
	default:
		return (hp1 + hp2 - 360) / 2
	}
}

// acrossSeam reports whether two hues are more than 180 degrees apart.
// Both hue helpers share it so the metric stays exactly symmetric.
func acrossSeam(hp1, hp2 float64) bool {
	return math.Abs(hp2-hp1) > 180+hueSeamSlack
}

func radToDeg(rad float64) float64 { return rad * (180 / math.Pi) }

func degToRad(deg float64) float64 { return deg * (math.Pi / 180) }
