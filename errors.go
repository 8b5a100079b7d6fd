package strimg

import "errors"

var (
	// ErrNoImage is returned when a conversion is attempted before an
	// image has been loaded.
	ErrNoImage = errors.New("strimg: no image loaded")

	// ErrNoContext is returned when the rasterizer cannot provide a
	// drawing surface for the target size.
	ErrNoContext = errors.New("strimg: no drawing context")

	// ErrInvalidPalette is returned when a palette has no colors.
	ErrInvalidPalette = errors.New("strimg: palette is empty")

	// ErrInvalidSize is returned when the target grid has no area.
	ErrInvalidSize = errors.New("strimg: target size must be positive")
)
