package strimg

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wbrown/strimg/imageutil"
)

func solid(width, height int, c RGB) image.Image {
	return imageutil.CreateSolidImage(width, height, imageutil.RGB(c)).RGBA
}

func TestConvertSolidImage(t *testing.T) {
	t.Parallel()
	s := New(2, 2)
	s.SetImage(solid(2, 2, red))

	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x1b[101m\x1b[91m▀▀\x1b[0m"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConvertOddHeight(t *testing.T) {
	t.Parallel()
	s := New(2, 3)
	s.SetImage(solid(2, 3, red))

	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	want := "\x1b[101m\x1b[91m▀▀\x1b[0m\n\x1b[49m\x1b[91m▀▀\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConvertTrueColor(t *testing.T) {
	t.Parallel()
	s := New(1, 2, WithTerminalColor(ColorModeTrueColor))
	if s.Palette() != nil {
		t.Fatalf("Expected no palette, got %v", s.Palette())
	}
	s.SetImage(solid(1, 2, RGB{1, 2, 3}))

	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x1b[48;2;1;2;3m\x1b[38;2;1;2;3m▀\x1b[0m"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConvert256(t *testing.T) {
	t.Parallel()
	s := New(1, 2, WithTerminalColor(ColorMode256))
	s.SetImage(solid(1, 2, RGB{95, 135, 175}))

	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x1b[48;5;67m\x1b[38;5;67m▀\x1b[0m"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConvertNoImage(t *testing.T) {
	t.Parallel()
	if _, err := New(4, 4).Convert(); !errors.Is(err, ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}
}

func TestConvertEmptySource(t *testing.T) {
	t.Parallel()
	s := New(4, 4)
	s.SetImage(image.NewRGBA(image.Rect(0, 0, 0, 3)))
	if _, err := s.Convert(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestConvertInvalidGrid(t *testing.T) {
	t.Parallel()
	s := New(0, 4)
	s.SetImage(solid(2, 2, red))
	if _, err := s.Convert(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestConvertRasterizerFailure(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")
	s := New(2, 2, WithRasterizer(func(int, int) (Canvas, error) {
		return nil, errBoom
	}))
	s.SetImage(solid(2, 2, red))

	_, err := s.Convert()
	if !errors.Is(err, ErrNoContext) {
		t.Errorf("Expected ErrNoContext, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("Expected the rasterizer error to be wrapped, got %v", err)
	}
}

func TestConvertInvalidPalette(t *testing.T) {
	t.Parallel()
	s := New(2, 2, WithPalette(&EntryPalette{}))
	s.SetImage(solid(2, 2, red))
	if _, err := s.Convert(); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("Expected ErrInvalidPalette, got %v", err)
	}
	if err := s.SetPalette(ANSI16()); err != nil {
		t.Fatalf("Expected a valid palette to clear the error, got %v", err)
	}
	if _, err := s.Convert(); err != nil {
		t.Errorf("Expected conversion to succeed, got %v", err)
	}

	if err := s.SetTerminalColor(ColorModeNone); !errors.Is(err, ErrInvalidPalette) {
		t.Errorf("Expected ErrInvalidPalette for no color, got %v", err)
	}
}

func TestConvertWithOverrides(t *testing.T) {
	t.Parallel()
	s := New(2, 2)
	s.SetImage(solid(2, 2, RGB{10, 10, 10}))

	var reduced PixelBuffer
	reducer := ReducerFunc(func(buf PixelBuffer) PixelBuffer {
		out := NewPixelBuffer(buf.Width, buf.Height)
		for y := 0; y < buf.Height; y++ {
			for x := 0; x < buf.Width; x++ {
				out.Set(x, y, lime)
			}
		}
		return out
	})
	converter := ConverterFunc(func(buf PixelBuffer) string {
		reduced = buf
		return "custom"
	})

	got, err := s.ConvertWith(converter, reducer)
	if err != nil {
		t.Fatal(err)
	}
	if got != "custom" {
		t.Errorf("Expected converter output, got %q", got)
	}
	if reduced.At(1, 1) != lime {
		t.Errorf("Expected the reducer output to reach the converter, got %v", reduced.At(1, 1))
	}

	// A custom reducer with the default converter.
	got, err = s.ConvertWith(nil, reducer)
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x1b[102m\x1b[92m▀▀\x1b[0m"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestPixelsContainPlacement(t *testing.T) {
	t.Parallel()
	s := New(4, 2, WithPosition(AlignRight, AlignTop))
	s.SetImage(solid(2, 2, red))

	buf, err := s.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 4 || buf.Height != 2 {
		t.Fatalf("Expected 4x2 buffer, got %dx%d", buf.Width, buf.Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			want := RGB{}
			if x >= 2 {
				want = red
			}
			if got := buf.At(x, y); got != want {
				t.Errorf("(%d,%d): expected %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestPixelsDoesNotKeepState(t *testing.T) {
	t.Parallel()
	s := New(2, 2)
	s.SetImage(solid(2, 2, red))
	first, err := s.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	s.SetImage(solid(2, 2, blue))
	second, err := s.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if first.At(0, 0) != red || second.At(0, 0) != blue {
		t.Errorf("Expected red then blue, got %v then %v", first.At(0, 0), second.At(0, 0))
	}
}

func TestGGRasterizer(t *testing.T) {
	t.Parallel()
	s := New(4, 4, WithRasterizer(GGRasterizer(imageutil.InterpolationLinear)))
	s.SetImage(solid(8, 8, red))

	buf, err := s.Pixels()
	if err != nil {
		t.Fatal(err)
	}
	if buf.Width != 4 || buf.Height != 4 {
		t.Fatalf("Expected 4x4 buffer, got %dx%d", buf.Width, buf.Height)
	}
	if got := buf.At(1, 1); got.R < 250 || got.G > 5 || got.B > 5 {
		t.Errorf("Expected red at (1,1), got %v", got)
	}
}

func TestParseRasterizer(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"", "draw", "gg"} {
		if r, err := ParseRasterizer(name, imageutil.InterpolationNearest); err != nil || r == nil {
			t.Errorf("ParseRasterizer(%q): expected a rasterizer, got %v", name, err)
		}
	}
	if _, err := ParseRasterizer("cairo", imageutil.InterpolationNearest); err == nil {
		t.Error("Expected error for an unknown rasterizer")
	}
}

func TestResizeIgnoresNonPositive(t *testing.T) {
	t.Parallel()
	s := New(10, 20)
	s.Resize(0, -1)
	if w, h := s.Size(); w != 10 || h != 20 {
		t.Errorf("Expected 10x20, got %dx%d", w, h)
	}
	s.Resize(5, 0)
	if w, h := s.Size(); w != 5 || h != 20 {
		t.Errorf("Expected 5x20, got %dx%d", w, h)
	}
}

func TestLoadImage(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "red.png")
	if err := imageutil.SaveImage(solid(2, 2, red), path); err != nil {
		t.Fatal(err)
	}

	s := New(2, 2)
	if err := s.LoadImage(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "\x1b[91m") {
		t.Errorf("Expected red output, got %q", got)
	}

	// A failed load keeps the previous image.
	if err := s.LoadImage(context.Background(), filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for a missing image")
	}
	if _, err := s.Convert(); err != nil {
		t.Errorf("Expected the previous image to remain, got %v", err)
	}
}

func TestConvertRejectsMalformedReducerOutput(t *testing.T) {
	t.Parallel()
	s := New(2, 2)
	s.SetImage(solid(2, 2, red))

	tests := []struct {
		name string
		buf  PixelBuffer
	}{
		{"no pixels", PixelBuffer{Width: 2, Height: 2}},
		{"short pixels", PixelBuffer{Width: 2, Height: 2, Pix: make([]uint8, 12)}},
		{"no area", PixelBuffer{}},
	}
	for _, tt := range tests {
		reducer := ReducerFunc(func(PixelBuffer) PixelBuffer { return tt.buf })
		if _, err := s.ConvertWith(nil, reducer); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
	reducer := ReducerFunc(func(PixelBuffer) PixelBuffer { return PixelBuffer{} })
	if _, err := s.ConvertWith(nil, reducer); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestSetPaletteNilEntryPalette(t *testing.T) {
	t.Parallel()
	var p *EntryPalette
	s := New(1, 2)
	if err := s.SetPalette(p); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.Palette() != nil {
		t.Errorf("Expected full color, got %v", s.Palette())
	}
	s.SetImage(solid(1, 2, RGB{1, 2, 3}))
	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	if want := "\x1b[48;2;1;2;3m\x1b[38;2;1;2;3m▀\x1b[0m"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	s = New(1, 2, WithPalette(p))
	if s.Palette() != nil {
		t.Errorf("Expected WithPalette(nil entry palette) to select full color, got %v", s.Palette())
	}
}

// tablePalette is a Palette whose table carries no default codes.
type tablePalette struct {
	colors []RGB
	table  TerminalColorTable
}

func (p tablePalette) Colors() []RGB                { return p.colors }
func (p tablePalette) Terminal() TerminalColorTable { return p.table }

func TestConvertCustomPaletteWithoutDefaults(t *testing.T) {
	t.Parallel()
	p := tablePalette{
		colors: []RGB{red},
		table: TerminalColorTable{
			Foreground: map[string]string{"ff0000": "\x1b[91m"},
			Background: map[string]string{"ff0000": "\x1b[101m"},
		},
	}
	s := New(2, 3, WithPalette(p))
	s.SetImage(solid(2, 3, red))

	got, err := s.Convert()
	if err != nil {
		t.Fatal(err)
	}
	want := "\x1b[101m\x1b[91m▀▀\x1b[0m\n\x1b[49m\x1b[91m▀▀\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestLoadImageDecodeError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := New(2, 2).LoadImage(context.Background(), path); err != image.ErrFormat {
		t.Errorf("Expected image.ErrFormat unchanged, got %v", err)
	}
}
