package strimg

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// FitMode selects how a source image is scaled into the canvas.
type FitMode int

const (
	// FitContain keeps the whole image inside the canvas.
	FitContain FitMode = iota
	// FitCover fills the canvas; the image may overflow one axis and is
	// clipped by the fixed-size canvas.
	FitCover
)

// HAlign is the horizontal anchor of the fitted image.
type HAlign int

const (
	AlignCenter HAlign = iota
	AlignLeft
	AlignRight
)

// VAlign is the vertical anchor of the fitted image.
type VAlign int

const (
	AlignMiddle VAlign = iota
	AlignTop
	AlignBottom
)

// Rect is a destination rectangle on the canvas. For FitCover it can
// extend past the canvas edges.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Rectangle converts r to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Fit computes where a srcW x srcH image is drawn on a canvasW x canvasH
// canvas. Sizes are truncated toward zero; the rounding error collects on
// the bottom-right.
func Fit(
	srcW, srcH int,
	canvasW, canvasH int,
	mode FitMode,
	ax HAlign,
	ay VAlign,
) Rect {
	var r Rect
	if mode == FitCover {
		r.Width, r.Height = fitCover(srcW, srcH, canvasW, canvasH)
	} else {
		r.Width, r.Height = fitContain(srcW, srcH, canvasW, canvasH)
	}

	switch ax {
	case AlignRight:
		r.X = canvasW - r.Width
	case AlignCenter:
		r.X = floorDiv2(canvasW - r.Width)
	}

	switch ay {
	case AlignBottom:
		r.Y = canvasH - r.Height
	case AlignMiddle:
		r.Y = floorDiv2(canvasH - r.Height)
	}

	return r
}

func fitContain(srcW, srcH, canvasW, canvasH int) (int, int) {
	scale := float64(canvasW) / float64(srcW)
	if float64(srcH)*scale <= float64(canvasH) {
		return canvasW, int(math.Floor(float64(srcH) * scale))
	}
	return int(math.Floor(float64(srcW) * float64(canvasH) / float64(srcH))), canvasH
}

// fitCover mirrors fitContain with the comparison inverted.
func fitCover(srcW, srcH, canvasW, canvasH int) (int, int) {
	scale := float64(canvasW) / float64(srcW)
	if float64(canvasH) <= float64(srcH)*scale {
		return canvasW, int(math.Floor(float64(srcH) * scale))
	}
	return int(math.Floor(float64(srcW) * float64(canvasH) / float64(srcH))), canvasH
}

// floorDiv2 halves n rounding toward negative infinity, so an overflowing
// cover image is centered the same way for odd and even overflow.
func floorDiv2(n int) int {
	return int(math.Floor(float64(n) / 2))
}

// ParseFitMode parses "contain" or "cover".
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(s) {
	case "contain", "":
		return FitContain, nil
	case "cover":
		return FitCover, nil
	}
	return FitContain, fmt.Errorf("unknown fit mode %q, options are contain or cover", s)
}

// ParseHAlign parses "left", "center" or "right".
func ParseHAlign(s string) (HAlign, error) {
	switch strings.ToLower(s) {
	case "center", "":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("unknown horizontal position %q, options are left, center or right", s)
}

// ParseVAlign parses "top", "center" or "bottom".
func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(s) {
	case "center", "middle", "":
		return AlignMiddle, nil
	case "top":
		return AlignTop, nil
	case "bottom":
		return AlignBottom, nil
	}
	return AlignMiddle, fmt.Errorf("unknown vertical position %q, options are top, center or bottom", s)
}
