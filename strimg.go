// Package strimg renders raster images as colored terminal text.
//
// An image is fitted into a character grid, every pixel is reduced to the
// perceptually nearest color of a terminal palette under CIEDE2000 (or kept
// as is in full color mode), and the result is written with the upper half
// block glyph so that one text row carries two image rows.
package strimg

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/wbrown/strimg/imageutil"
)

// ColorReducer replaces the default palette quantization step.
type ColorReducer interface {
	Reduce(buf PixelBuffer) PixelBuffer
}

// ReducerFunc adapts a function to a ColorReducer.
type ReducerFunc func(buf PixelBuffer) PixelBuffer

// Reduce calls f(buf).
func (f ReducerFunc) Reduce(buf PixelBuffer) PixelBuffer { return f(buf) }

// ConverterFunc adapts a function to a StringConverter.
type ConverterFunc func(buf PixelBuffer) string

// Encode calls f(buf).
func (f ConverterFunc) Encode(buf PixelBuffer) string { return f(buf) }

// Strimg holds the configuration of a conversion: target grid, placement,
// palette and source image. It is reused across conversions and must not
// be reconfigured while Convert runs.
type Strimg struct {
	width, height int
	fit           FitMode
	alignX        HAlign
	alignY        VAlign
	palette       Palette
	quantizer     *Quantizer
	paletteErr    error
	rasterizer    Rasterizer
	img           image.Image
}

// Option is a functional option for configuring a Strimg.
type Option func(*Strimg)

// New creates a Strimg rendering into a width x height grid. The grid is
// measured in image pixels: the output has width columns and
// ceil(height/2) lines. Defaults: FitContain, centered, ANSI16, and the
// x/image/draw rasterizer with Catmull-Rom scaling.
func New(width, height int, opts ...Option) *Strimg {
	s := &Strimg{
		rasterizer: DrawRasterizer(imageutil.InterpolationArea),
	}
	s.Resize(width, height)
	s.setPalette(ANSI16())

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithFit sets the fit mode.
func WithFit(mode FitMode) Option {
	return func(s *Strimg) {
		s.SetFit(mode)
	}
}

// WithPosition sets the anchors of the fitted image.
func WithPosition(x HAlign, y VAlign) Option {
	return func(s *Strimg) {
		s.SetPosition(x, y)
	}
}

// WithPalette sets the palette; nil selects full color. An invalid palette
// is reported by Convert.
func WithPalette(p Palette) Option {
	return func(s *Strimg) {
		s.setPalette(p)
	}
}

// WithTerminalColor selects a built-in palette by color mode.
func WithTerminalColor(mode ColorMode) Option {
	return func(s *Strimg) {
		if err := s.SetTerminalColor(mode); err != nil {
			s.paletteErr = err
		}
	}
}

// WithRasterizer replaces the canvas implementation.
func WithRasterizer(r Rasterizer) Option {
	return func(s *Strimg) {
		if r != nil {
			s.rasterizer = r
		}
	}
}

// Resize sets the target grid. Non-positive values leave the previous
// dimension unchanged.
func (s *Strimg) Resize(width, height int) {
	if width > 0 {
		s.width = width
	}
	if height > 0 {
		s.height = height
	}
}

// Size returns the target grid.
func (s *Strimg) Size() (width, height int) {
	return s.width, s.height
}

// SetFit sets the fit mode.
func (s *Strimg) SetFit(mode FitMode) {
	s.fit = mode
}

// SetPosition sets the anchors of the fitted image.
func (s *Strimg) SetPosition(x HAlign, y VAlign) {
	s.alignX = x
	s.alignY = y
}

// SetPalette sets the palette used for quantization and encoding. nil,
// including a nil *EntryPalette, selects full color output.
func (s *Strimg) SetPalette(p Palette) error {
	s.setPalette(p)
	return s.paletteErr
}

func (s *Strimg) setPalette(p Palette) {
	if ep, ok := p.(*EntryPalette); ok && ep == nil {
		p = nil
	}
	s.palette = p
	s.quantizer = nil
	s.paletteErr = nil
	if p == nil {
		return
	}
	q, err := NewQuantizer(p.Colors())
	if err != nil {
		s.paletteErr = err
		return
	}
	s.quantizer = q
}

// Palette returns the current palette, nil in full color mode.
func (s *Strimg) Palette() Palette {
	return s.palette
}

// SetTerminalColor selects ANSI16, ANSI256 or full color.
func (s *Strimg) SetTerminalColor(mode ColorMode) error {
	p, err := PaletteFor(mode)
	if err != nil {
		return err
	}
	return s.SetPalette(p)
}

// SetImage sets the source image.
func (s *Strimg) SetImage(img image.Image) {
	s.img = img
}

// LoadImage decodes the image at src, a file path or an http(s) URL, and
// makes it the source image. On failure the previous image is kept and the
// decode error is returned as is.
func (s *Strimg) LoadImage(ctx context.Context, src string) error {
	img, err := imageutil.Open(ctx, src)
	if err != nil {
		return err
	}
	s.img = img
	Logger().Debug("loaded image", "src", src,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return nil
}

// Convert renders the source image with the default reducer and
// converter.
func (s *Strimg) Convert() (string, error) {
	return s.ConvertWith(nil, nil)
}

// ConvertWith renders the source image. A non-nil reducer replaces palette
// quantization and a non-nil converter replaces the default encoder.
func (s *Strimg) ConvertWith(converter StringConverter, reducer ColorReducer) (string, error) {
	buf, err := s.Pixels()
	if err != nil {
		return "", err
	}

	switch {
	case reducer != nil:
		buf = reducer.Reduce(buf)
		if err := buf.Validate(); err != nil {
			return "", fmt.Errorf("reducer output: %w", err)
		}
	case s.palette != nil:
		if s.paletteErr != nil {
			return "", s.paletteErr
		}
		buf = s.quantizer.Reduce(buf)
	}

	if converter == nil {
		converter = s.converter()
	}
	out := converter.Encode(buf)
	Logger().Debug("converted image", "bytes", len(out))
	return out, nil
}

func (s *Strimg) converter() StringConverter {
	if s.palette == nil {
		return TrueColorEncoder{}
	}
	return NewEncoder(s.palette.Terminal())
}

// Pixels fits the source image onto a canvas of the target size and
// returns the canvas pixels, before any color reduction.
func (s *Strimg) Pixels() (PixelBuffer, error) {
	if s.img == nil {
		return PixelBuffer{}, ErrNoImage
	}
	if s.width <= 0 || s.height <= 0 {
		return PixelBuffer{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, s.width, s.height)
	}

	b := s.img.Bounds()
	if b.Empty() {
		return PixelBuffer{}, fmt.Errorf("%w: source image is %dx%d", ErrInvalidSize, b.Dx(), b.Dy())
	}

	canvas, err := s.rasterizer(s.width, s.height)
	if err != nil {
		return PixelBuffer{}, fmt.Errorf("%w: %w", ErrNoContext, err)
	}
	if canvas == nil {
		return PixelBuffer{}, ErrNoContext
	}
	if c, ok := canvas.(io.Closer); ok {
		defer c.Close()
	}

	rect := Fit(b.Dx(), b.Dy(), s.width, s.height, s.fit, s.alignX, s.alignY)
	Logger().Debug("fitted image",
		"canvas", fmt.Sprintf("%dx%d", s.width, s.height),
		"rect", rect.Rectangle().String())

	canvas.DrawImage(s.img, rect.Rectangle())
	rgba := canvas.RGBA()
	if rgba == nil {
		return PixelBuffer{}, ErrNoContext
	}
	return PixelBufferFromRGBA(rgba), nil
}
