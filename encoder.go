package strimg

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Cell is one text cell: the top pixel is drawn by the glyph in the
// foreground color, the bottom pixel shows through as the background.
// HasBottom is false on the last row of an odd-height image.
type Cell struct {
	Top, Bottom RGB
	HasBottom   bool
}

// Cells groups the rows of buf into pairs. The result has
// ceil(Height/2) lines of Width cells each.
func Cells(buf PixelBuffer) [][]Cell {
	lines := make([][]Cell, (buf.Height+1)/2)
	for i := range lines {
		lines[i] = cellLine(buf, i)
	}
	return lines
}

func cellLine(buf PixelBuffer, line int) []Cell {
	y := line * 2
	cells := make([]Cell, buf.Width)
	for x := range cells {
		cells[x].Top = buf.At(x, y)
		if y+1 < buf.Height {
			cells[x].Bottom = buf.At(x, y+1)
			cells[x].HasBottom = true
		}
	}
	return cells
}

// StringConverter turns a pixel buffer into terminal text.
type StringConverter interface {
	Encode(buf PixelBuffer) string
}

// Encoder writes pixel buffers with the codes of a TerminalColorTable.
// Pixels whose color is not in the table use its default codes, so buffers
// are expected to be quantized to the table's palette first.
type Encoder struct {
	table TerminalColorTable
}

// NewEncoder returns an Encoder for table. A table without default codes
// or reset gets the terminal's own defaults; table itself is not modified.
func NewEncoder(table TerminalColorTable) *Encoder {
	t := TerminalColorTable{
		Reset:      table.Reset,
		Foreground: withDefault(table.Foreground, DefaultForeground),
		Background: withDefault(table.Background, DefaultBackground),
	}
	if t.Reset == "" {
		t.Reset = Reset
	}
	return &Encoder{table: t}
}

// withDefault returns codes itself when its DefaultKey is set, else a copy
// with def added.
func withDefault(codes map[string]string, def string) map[string]string {
	if codes[DefaultKey] != "" {
		return codes
	}
	out := make(map[string]string, len(codes)+1)
	for k, v := range codes {
		out[k] = v
	}
	out[DefaultKey] = def
	return out
}

// Encode renders buf as half block text.
func (e *Encoder) Encode(buf PixelBuffer) string {
	return encodeLines(buf, e.table.Reset, e.codes)
}

func (e *Encoder) codes(c Cell) (fg, bg string) {
	fg = e.table.ForegroundCode(c.Top)
	if c.HasBottom {
		bg = e.table.BackgroundCode(c.Bottom)
	} else {
		bg = e.table.Background[DefaultKey]
	}
	return fg, bg
}

// TrueColorEncoder writes pixel colors directly as 24-bit SGR codes.
type TrueColorEncoder struct{}

// Encode renders buf as half block text.
func (TrueColorEncoder) Encode(buf PixelBuffer) string {
	return encodeLines(buf, Reset, trueColorCodes)
}

func trueColorCodes(c Cell) (fg, bg string) {
	fg = trueColorForeground(c.Top)
	if c.HasBottom {
		bg = trueColorBackground(c.Bottom)
	} else {
		bg = DefaultBackground
	}
	return fg, bg
}

// encodeLines encodes each line independently and joins them with "\n".
func encodeLines(buf PixelBuffer, reset string, codes func(Cell) (string, string)) string {
	n := (buf.Height + 1) / 2
	if n == 0 || buf.Width <= 0 {
		return ""
	}
	lines := make([]string, n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range lines {
		g.Go(func() error {
			lines[i] = encodeLine(cellLine(buf, i), reset, codes)
			return nil
		})
	}
	_ = g.Wait()

	return strings.Join(lines, "\n")
}

// encodeLine writes a background code only when it changes, then a
// foreground code only when it changes, then the glyph. The line always
// ends with reset.
func encodeLine(cells []Cell, reset string, codes func(Cell) (string, string)) string {
	var sb strings.Builder
	sb.Grow(len(cells)*(len(HalfBlock)+8) + len(reset))

	var prevFg, prevBg string
	for _, c := range cells {
		fg, bg := codes(c)
		if bg != prevBg {
			sb.WriteString(bg)
			prevBg = bg
		}
		if fg != prevFg {
			sb.WriteString(fg)
			prevFg = fg
		}
		sb.WriteString(HalfBlock)
	}
	sb.WriteString(reset)
	return sb.String()
}
