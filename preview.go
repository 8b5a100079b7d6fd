package strimg

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/wbrown/strimg/imageutil"
)

const (
	// GlyphWidth and GlyphHeight define the character cell size used by
	// font previews, roughly the 1:2 cell of a terminal.
	GlyphWidth  = 8
	GlyphHeight = 16
)

// GlyphBitmap is a GlyphWidth x GlyphHeight monochrome glyph, one byte per
// row, bit x set for a foreground pixel.
type GlyphBitmap [GlyphHeight]uint8

func (g GlyphBitmap) getBit(x, y int) bool {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return false
	}
	return g[y]&(1<<x) != 0
}

func (g *GlyphBitmap) setBit(x, y int, value bool) {
	if x < 0 || x >= GlyphWidth || y < 0 || y >= GlyphHeight {
		return
	}
	if value {
		g[y] |= 1 << x
	} else {
		g[y] &^= 1 << x
	}
}

func (g GlyphBitmap) empty() bool {
	return g == GlyphBitmap{}
}

// halfBlockBitmap is the exact upper half block.
func halfBlockBitmap() GlyphBitmap {
	var g GlyphBitmap
	for y := 0; y < GlyphHeight/2; y++ {
		g[y] = 0xff
	}
	return g
}

// PreviewImage draws cells the way a terminal shows them with ideal
// square pixels: each cell becomes scale x 2*scale pixels, top color over
// bottom color. The missing bottom of an odd last row is transparent.
func PreviewImage(cells [][]Cell, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	if len(cells) == 0 || len(cells[0]) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	width, lines := len(cells[0]), len(cells)
	img := imageutil.NewRGBAImage(width, lines*2)
	for y, row := range cells {
		for x, c := range row {
			img.SetRGB(x, y*2, imageutil.RGB(c.Top))
			if c.HasBottom {
				img.SetRGB(x, y*2+1, imageutil.RGB(c.Bottom))
			}
		}
	}
	if scale == 1 {
		return img.RGBA
	}
	return imageutil.Resize(img, width*scale, lines*2*scale, imageutil.InterpolationNearest).RGBA
}

// FontBitmaps holds the pre-rendered glyph used by font previews.
type FontBitmaps struct {
	halfBlock GlyphBitmap
	name      string
}

// LoadFontBitmaps renders the upper half block from the TrueType font at
// path, or from Go Mono when path is empty. A font without the glyph falls
// back to an exact half block.
func LoadFontBitmaps(path string) (*FontBitmaps, error) {
	data := gomono.TTF
	name := "Go Mono"
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font: %w", err)
		}
		name = path
	}

	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}

	fb := &FontBitmaps{
		halfBlock: renderGlyphToBitmap(ttf, []rune(HalfBlock)[0]),
		name:      name,
	}
	if fb.halfBlock.empty() {
		Logger().Warn("font has no half block glyph, using exact halves", "font", name)
		fb.halfBlock = halfBlockBitmap()
	}
	return fb, nil
}

// Name returns the font name.
func (fb *FontBitmaps) Name() string {
	return fb.name
}

// renderGlyphToBitmap renders r into a cell sized bitmap. Anti-aliased
// coverage above 25% counts as foreground so thin strokes survive.
func renderGlyphToBitmap(ttf *truetype.Font, r rune) GlyphBitmap {
	if ttf.Index(r) == 0 {
		return GlyphBitmap{}
	}

	// Size the font so that ascent plus descent fills the cell height.
	size := float64(GlyphHeight)
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	metrics := face.Metrics()
	face.Close()
	if extent := (metrics.Ascent + metrics.Descent).Ceil(); extent > GlyphHeight {
		size = size * float64(GlyphHeight) / float64(extent)
		face = truetype.NewFace(ttf, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		metrics = face.Metrics()
		face.Close()
	}

	img := image.NewAlpha(image.Rect(0, 0, GlyphWidth, GlyphHeight))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	baselineY := metrics.Ascent.Ceil()
	if _, err := ctx.DrawString(string(r), freetype.Pt(0, baselineY)); err != nil {
		return GlyphBitmap{}
	}

	var bitmap GlyphBitmap
	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			if img.AlphaAt(x, y).A > 64 {
				bitmap.setBit(x, y, true)
			}
		}
	}
	return bitmap
}

// RenderCells draws cells with the font's half block glyph, each cell
// GlyphWidth x GlyphHeight pixels times scale. The background of an odd
// last row is transparent.
func (fb *FontBitmaps) RenderCells(cells [][]Cell, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	if len(cells) == 0 || len(cells[0]) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	cw, ch := GlyphWidth*scale, GlyphHeight*scale
	img := image.NewRGBA(image.Rect(0, 0, len(cells[0])*cw, len(cells)*ch))
	for y, row := range cells {
		for x, c := range row {
			fb.renderCell(img, c, x*cw, y*ch, scale)
		}
	}
	return img
}

func (fb *FontBitmaps) renderCell(img *image.RGBA, c Cell, startX, startY, scale int) {
	fg := c.Top.ToColor()
	var bg color.RGBA
	if c.HasBottom {
		bg = c.Bottom.ToColor()
	}

	for y := 0; y < GlyphHeight; y++ {
		for x := 0; x < GlyphWidth; x++ {
			px := bg
			if fb.halfBlock.getBit(x, y) {
				px = fg
			}
			r := image.Rect(startX+x*scale, startY+y*scale,
				startX+(x+1)*scale, startY+(y+1)*scale)
			draw.Draw(img, r, image.NewUniform(px), image.Point{}, draw.Src)
		}
	}
}
