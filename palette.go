package strimg

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// DefaultKey is the reserved TerminalColorTable key used when a color has
// no code of its own, and for the missing bottom row of an odd-height
// image.
const DefaultKey = "default"

// PaletteEntry is one representable terminal color.
type PaletteEntry struct {
	Color      RGB
	Foreground string // complete escape sequence, e.g. "\x1b[91m"
	Background string // complete escape sequence, e.g. "\x1b[101m"
	Name       string // diagnostic only
}

// TerminalColorTable maps RGB keys (see RGB.Key) to escape sequences.
// Both maps always hold a DefaultKey entry.
type TerminalColorTable struct {
	Reset      string
	Foreground map[string]string
	Background map[string]string
}

// ForegroundCode returns the foreground code for c, or the default.
func (t TerminalColorTable) ForegroundCode(c RGB) string {
	return t.foregroundKey(c.Key())
}

// BackgroundCode returns the background code for c, or the default.
func (t TerminalColorTable) BackgroundCode(c RGB) string {
	return t.backgroundKey(c.Key())
}

func (t TerminalColorTable) foregroundKey(key string) string {
	if code, ok := t.Foreground[key]; ok && code != "" {
		return code
	}
	return t.Foreground[DefaultKey]
}

func (t TerminalColorTable) backgroundKey(key string) string {
	if code, ok := t.Background[key]; ok && code != "" {
		return code
	}
	return t.Background[DefaultKey]
}

// Palette is the capability shared by every color set strimg can render
// to: it enumerates its representable colors and maps them to escape
// codes. A nil Palette means full color.
type Palette interface {
	Colors() []RGB
	Terminal() TerminalColorTable
}

// EntryPalette is a fixed, ordered list of PaletteEntry values. Order
// decides ties during quantization.
type EntryPalette struct {
	entries []PaletteEntry
	table   TerminalColorTable
}

// NewPalette builds a palette from entries. Empty defaultFg or defaultBg
// are taken from the first entry, or the terminal defaults if that entry
// has no such code. reset defaults to Reset.
func NewPalette(entries []PaletteEntry, reset, defaultFg, defaultBg string) (*EntryPalette, error) {
	if len(entries) == 0 {
		return nil, ErrInvalidPalette
	}
	if reset == "" {
		reset = Reset
	}
	if defaultFg == "" {
		defaultFg = entries[0].Foreground
	}
	if defaultBg == "" {
		defaultBg = entries[0].Background
	}
	if defaultFg == "" {
		defaultFg = DefaultForeground
	}
	if defaultBg == "" {
		defaultBg = DefaultBackground
	}

	table := TerminalColorTable{
		Reset:      reset,
		Foreground: make(map[string]string, len(entries)+1),
		Background: make(map[string]string, len(entries)+1),
	}
	for _, e := range entries {
		key := e.Color.Key()
		// The first entry for a key wins, matching the quantizer's
		// earliest-index tie rule.
		if _, ok := table.Foreground[key]; !ok && e.Foreground != "" {
			table.Foreground[key] = e.Foreground
		}
		if _, ok := table.Background[key]; !ok && e.Background != "" {
			table.Background[key] = e.Background
		}
	}
	table.Foreground[DefaultKey] = defaultFg
	table.Background[DefaultKey] = defaultBg

	return &EntryPalette{
		entries: append([]PaletteEntry(nil), entries...),
		table:   table,
	}, nil
}

// Colors returns the palette colors in order.
func (p *EntryPalette) Colors() []RGB {
	colors := make([]RGB, len(p.entries))
	for i, e := range p.entries {
		colors[i] = e.Color
	}
	return colors
}

// Terminal returns a copy of the palette's code table.
func (p *EntryPalette) Terminal() TerminalColorTable {
	t := TerminalColorTable{
		Reset:      p.table.Reset,
		Foreground: make(map[string]string, len(p.table.Foreground)),
		Background: make(map[string]string, len(p.table.Background)),
	}
	for k, v := range p.table.Foreground {
		t.Foreground[k] = v
	}
	for k, v := range p.table.Background {
		t.Background[k] = v
	}
	return t
}

// Entries returns a copy of the palette entries.
func (p *EntryPalette) Entries() []PaletteEntry {
	return append([]PaletteEntry(nil), p.entries...)
}

// Len returns the number of entries.
func (p *EntryPalette) Len() int {
	return len(p.entries)
}

var ansi16Entries = []PaletteEntry{
	{RGB{0, 0, 0}, "30", "40", "black"},
	{RGB{128, 0, 0}, "31", "41", "maroon"},
	{RGB{0, 128, 0}, "32", "42", "green"},
	{RGB{128, 128, 0}, "33", "43", "olive"},
	{RGB{0, 0, 128}, "34", "44", "navy"},
	{RGB{128, 0, 128}, "35", "45", "purple"},
	{RGB{0, 128, 128}, "36", "46", "teal"},
	{RGB{192, 192, 192}, "37", "47", "silver"},
	{RGB{128, 128, 128}, "90", "100", "gray"},
	{RGB{255, 0, 0}, "91", "101", "red"},
	{RGB{0, 255, 0}, "92", "102", "lime"},
	{RGB{255, 255, 0}, "93", "103", "yellow"},
	{RGB{0, 0, 255}, "94", "104", "blue"},
	{RGB{255, 0, 255}, "95", "105", "magenta"},
	{RGB{0, 255, 255}, "96", "106", "cyan"},
	{RGB{255, 255, 255}, "97", "107", "white"},
}

var (
	ansi16Once    sync.Once
	ansi16Palette *EntryPalette
	ansi256Once   sync.Once
	ansi256Pal    *EntryPalette
)

// ANSI16 returns the 16 color palette (SGR 30-37, 90-97 and their
// background counterparts) with the xterm default RGB values.
func ANSI16() *EntryPalette {
	ansi16Once.Do(func() {
		entries := make([]PaletteEntry, len(ansi16Entries))
		for i, e := range ansi16Entries {
			entries[i] = PaletteEntry{
				Color:      e.Color,
				Foreground: sgr(e.Foreground),
				Background: sgr(e.Background),
				Name:       e.Name,
			}
		}
		p, err := NewPalette(entries, Reset, DefaultForeground, DefaultBackground)
		if err != nil {
			panic(err)
		}
		ansi16Palette = p
	})
	return ansi16Palette
}

// ANSI256 returns the xterm 256 color palette addressed through
// SGR 38;5;N and 48;5;N. Several indices share an RGB value; the lowest
// index is used for those.
func ANSI256() *EntryPalette {
	ansi256Once.Do(func() {
		entries := make([]PaletteEntry, 256)
		for i := range entries {
			name := "color" + strconv.Itoa(i)
			if i < len(ansi16Entries) {
				name = ansi16Entries[i].Name
			}
			entries[i] = PaletteEntry{
				Color:      xtermColor(i),
				Foreground: sgr(fmt.Sprintf("38;5;%d", i)),
				Background: sgr(fmt.Sprintf("48;5;%d", i)),
				Name:       name,
			}
		}
		p, err := NewPalette(entries, Reset, DefaultForeground, DefaultBackground)
		if err != nil {
			panic(err)
		}
		ansi256Pal = p
	})
	return ansi256Pal
}

// Color cube levels for indices 16-231.
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// xtermColor returns the RGB value of xterm palette index i as tcell
// knows it, falling back to the cube and grayscale ramp arithmetic.
func xtermColor(i int) RGB {
	if hex := tcell.PaletteColor(i).Hex(); hex >= 0 {
		return rgbFromUint32(uint32(hex))
	}
	switch {
	case i < 16:
		return ansi16Entries[i].Color
	case i < 232:
		n := i - 16
		return RGB{cubeValues[n/36], cubeValues[(n/6)%6], cubeValues[n%6]}
	default:
		v := uint8(8 + (i-232)*10)
		return RGB{v, v, v}
	}
}

// ColorMode is a terminal color capability.
type ColorMode int

const (
	ColorModeNone ColorMode = iota // NO_COLOR or a dumb terminal
	ColorMode16
	ColorMode256
	ColorModeTrueColor
)

func (m ColorMode) String() string {
	switch m {
	case ColorMode16:
		return "16"
	case ColorMode256:
		return "256"
	case ColorModeTrueColor:
		return "truecolor"
	}
	return "none"
}

// ParseColorMode parses "16", "256" or "true"/"truecolor"/"24bit".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "16":
		return ColorMode16, nil
	case "256":
		return ColorMode256, nil
	case "true", "truecolor", "24bit", "full":
		return ColorModeTrueColor, nil
	case "none", "off":
		return ColorModeNone, nil
	}
	return ColorModeNone, fmt.Errorf("unknown color mode %q, options are 16, 256 or true", s)
}

// PaletteFor returns the palette rendering mode m: ANSI16, ANSI256, or
// nil (full color) for ColorModeTrueColor. ColorModeNone has no palette.
func PaletteFor(m ColorMode) (Palette, error) {
	switch m {
	case ColorMode16:
		return ANSI16(), nil
	case ColorMode256:
		return ANSI256(), nil
	case ColorModeTrueColor:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: color mode %s", ErrInvalidPalette, m)
}
