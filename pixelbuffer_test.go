package strimg

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestPixelBufferFromRGBASubImage(t *testing.T) {
	t.Parallel()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 1, color.RGBA{R: 255, A: 255})
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	buf := PixelBufferFromRGBA(sub)
	if buf.Width != 2 || buf.Height != 2 || len(buf.Pix) != 16 {
		t.Fatalf("Expected 2x2 buffer, got %dx%d with %d bytes", buf.Width, buf.Height, len(buf.Pix))
	}
	if got := buf.At(1, 0); got != red {
		t.Errorf("Expected red at (1,0), got %v", got)
	}
	if got := buf.At(0, 0); got != (RGB{}) {
		t.Errorf("Expected black at (0,0), got %v", got)
	}
}

func TestPixelBufferSetRGBA(t *testing.T) {
	t.Parallel()
	buf := NewPixelBuffer(3, 2)
	buf.Set(2, 1, lime)
	if got := buf.At(2, 1); got != lime {
		t.Errorf("Expected lime, got %v", got)
	}
	if got := buf.RGBA().RGBAAt(2, 1); got != lime.ToColor() {
		t.Errorf("Expected opaque lime, got %v", got)
	}
}

func TestPixelBufferValidate(t *testing.T) {
	t.Parallel()
	if err := NewPixelBuffer(2, 2).Validate(); err != nil {
		t.Errorf("Expected valid buffer, got %v", err)
	}
	if err := NewPixelBuffer(0, 2).Validate(); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
	bad := PixelBuffer{Width: 2, Height: 2, Pix: make([]uint8, 4)}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for a short buffer")
	}
}
