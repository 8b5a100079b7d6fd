package strimg

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Quantizer maps colors to the perceptually nearest entry of a fixed
// palette under CIEDE2000.
type Quantizer struct {
	colors []RGB
	labs   []Lab
}

// NewQuantizer precomputes the Lab values of colors. The order of colors
// decides ties: the earliest entry wins.
func NewQuantizer(colors []RGB) (*Quantizer, error) {
	if len(colors) == 0 {
		return nil, ErrInvalidPalette
	}
	q := &Quantizer{
		colors: append([]RGB(nil), colors...),
		labs:   make([]Lab, len(colors)),
	}
	for i, c := range colors {
		q.labs[i] = c.Lab()
	}
	return q, nil
}

// Nearest returns the palette color closest to c and its index.
func (q *Quantizer) Nearest(c RGB) (RGB, int) {
	return q.nearestLab(c.Lab())
}

func (q *Quantizer) nearestLab(lab Lab) (RGB, int) {
	best := 0
	bestDist := CIEDE2000(lab, q.labs[0])
	for i := 1; i < len(q.labs); i++ {
		if d := CIEDE2000(lab, q.labs[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return q.colors[best], best
}

// Reduce returns a copy of buf with every pixel replaced by its nearest
// palette color and made opaque. buf itself is not modified.
func (q *Quantizer) Reduce(buf PixelBuffer) PixelBuffer {
	out := PixelBuffer{
		Width:  buf.Width,
		Height: buf.Height,
		Pix:    make([]uint8, len(buf.Pix)),
	}
	if buf.Width <= 0 || buf.Height <= 0 {
		return out
	}

	workers := runtime.GOMAXPROCS(0)
	band := (buf.Height + workers - 1) / workers
	if band < 1 {
		band = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < buf.Height; y0 += band {
		y1 := min(y0+band, buf.Height)
		g.Go(func() error {
			q.reduceRows(buf, out, y0, y1)
			return nil
		})
	}
	_ = g.Wait()

	Logger().Debug("reduced pixels",
		"width", buf.Width, "height", buf.Height,
		"palette", len(q.colors), "bands", (buf.Height+band-1)/band)
	return out
}

// reduceRows quantizes rows [y0, y1) of src into dst. Images tend to repeat
// colors heavily, so resolved colors are memoized for the band.
func (q *Quantizer) reduceRows(src, dst PixelBuffer, y0, y1 int) {
	memo := make(map[uint32]RGB)
	for y := y0; y < y1; y++ {
		for x := 0; x < src.Width; x++ {
			c := src.At(x, y)
			key := c.toUint32()
			nearest, ok := memo[key]
			if !ok {
				nearest, _ = q.Nearest(c)
				memo[key] = nearest
			}
			dst.Set(x, y, nearest)
		}
	}
}

// Colors returns the palette colors in order.
func (q *Quantizer) Colors() []RGB {
	return append([]RGB(nil), q.colors...)
}
