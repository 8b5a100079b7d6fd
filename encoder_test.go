package strimg

import (
	"strings"
	"testing"
)

var (
	red   = RGB{255, 0, 0}
	blue  = RGB{0, 0, 255}
	lime  = RGB{0, 255, 0}
	white = RGB{255, 255, 255}
)

// bufferOf builds a width x height buffer from pixels in row-major order.
func bufferOf(width, height int, px ...RGB) PixelBuffer {
	buf := NewPixelBuffer(width, height)
	for i, c := range px {
		buf.Set(i%width, i/width, c)
	}
	return buf
}

func TestEncoderPalette(t *testing.T) {
	t.Parallel()
	enc := NewEncoder(ANSI16().Terminal())
	tests := []struct {
		name string
		buf  PixelBuffer
		want string
	}{
		{
			"solid red emits codes once",
			bufferOf(2, 2, red, red, red, red),
			"\x1b[101m\x1b[91m▀▀\x1b[0m",
		},
		{
			"only the changed background is emitted",
			bufferOf(2, 2, red, red, red, blue),
			"\x1b[101m\x1b[91m▀\x1b[104m▀\x1b[0m",
		},
		{
			"odd height uses default background",
			bufferOf(2, 1, red, blue),
			"\x1b[49m\x1b[91m▀\x1b[94m▀\x1b[0m",
		},
		{
			"lines are joined without trailing newline",
			bufferOf(1, 4, red, blue, lime, white),
			"\x1b[104m\x1b[91m▀\x1b[0m\n\x1b[107m\x1b[92m▀\x1b[0m",
		},
		{
			"dedup state restarts on each line",
			bufferOf(2, 4, red, red, red, red, red, red, red, red),
			"\x1b[101m\x1b[91m▀▀\x1b[0m\n\x1b[101m\x1b[91m▀▀\x1b[0m",
		},
		{
			"unknown colors use the defaults",
			bufferOf(1, 2, RGB{1, 2, 3}, RGB{4, 5, 6}),
			"\x1b[49m\x1b[39m▀\x1b[0m",
		},
	}
	for _, tt := range tests {
		if got := enc.Encode(tt.buf); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestEncoderCustomTable(t *testing.T) {
	t.Parallel()
	enc := NewEncoder(TerminalColorTable{
		Reset:      "<R>",
		Foreground: map[string]string{"ff0000": "<F>", DefaultKey: "<f>"},
		Background: map[string]string{"ff0000": "<B>", DefaultKey: "<b>"},
	})
	got := enc.Encode(bufferOf(3, 3,
		red, blue, red,
		red, red, blue,
		blue, red, red))
	want := "<B><F>▀<f>▀<b><F>▀<R>\n<b><f>▀<F>▀▀<R>"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEncoderEmptyBuffer(t *testing.T) {
	t.Parallel()
	if got := NewEncoder(ANSI16().Terminal()).Encode(PixelBuffer{}); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
	if got := (TrueColorEncoder{}).Encode(PixelBuffer{}); got != "" {
		t.Errorf("Expected empty output, got %q", got)
	}
}

func TestTrueColorEncoder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		buf  PixelBuffer
		want string
	}{
		{
			"solid red",
			bufferOf(2, 2, red, red, red, red),
			"\x1b[48;2;255;0;0m\x1b[38;2;255;0;0m▀▀\x1b[0m",
		},
		{
			"odd height",
			bufferOf(1, 1, RGB{1, 2, 3}),
			"\x1b[49m\x1b[38;2;1;2;3m▀\x1b[0m",
		},
		{
			"foreground change only",
			bufferOf(2, 2, red, blue, lime, lime),
			"\x1b[48;2;0;255;0m\x1b[38;2;255;0;0m▀\x1b[38;2;0;0;255m▀\x1b[0m",
		},
	}
	for _, tt := range tests {
		if got := (TrueColorEncoder{}).Encode(tt.buf); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestEncoderLineCount(t *testing.T) {
	t.Parallel()
	enc := NewEncoder(ANSI16().Terminal())
	for h := 1; h <= 9; h++ {
		out := enc.Encode(NewPixelBuffer(5, h))
		lines := strings.Split(out, "\n")
		if len(lines) != (h+1)/2 {
			t.Errorf("Height %d: expected %d lines, got %d", h, (h+1)/2, len(lines))
		}
		for i, line := range lines {
			if strings.Count(line, HalfBlock) != 5 {
				t.Errorf("Height %d line %d: expected 5 glyphs in %q", h, i, line)
			}
			if !strings.HasSuffix(line, Reset) {
				t.Errorf("Height %d line %d: expected reset suffix in %q", h, i, line)
			}
		}
	}
}

func TestCells(t *testing.T) {
	t.Parallel()
	cells := Cells(bufferOf(2, 3, red, blue, lime, white, blue, red))
	if len(cells) != 2 || len(cells[0]) != 2 {
		t.Fatalf("Expected 2x2 cells, got %d lines", len(cells))
	}
	if c := cells[0][1]; c.Top != blue || c.Bottom != white || !c.HasBottom {
		t.Errorf("Unexpected first line cell %+v", c)
	}
	if c := cells[1][0]; c.Top != blue || c.HasBottom {
		t.Errorf("Unexpected last line cell %+v", c)
	}
}

func TestEncoderFillsMissingDefaults(t *testing.T) {
	t.Parallel()
	table := TerminalColorTable{
		Foreground: map[string]string{"ff0000": "\x1b[91m"},
		Background: map[string]string{"ff0000": "\x1b[101m"},
	}
	got := NewEncoder(table).Encode(bufferOf(2, 3,
		red, red,
		red, red,
		red, blue))
	want := "\x1b[101m\x1b[91m▀▀\x1b[0m\n\x1b[49m\x1b[91m▀\x1b[39m▀\x1b[0m"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if _, ok := table.Foreground[DefaultKey]; ok {
		t.Error("Expected the caller's table to be left alone")
	}
}
