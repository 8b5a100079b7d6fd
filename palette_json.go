package strimg

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

//go:embed colordata/ansi16.json
//go:embed colordata/ansi256.json
var colordata embed.FS

// LoadPalette loads a palette by name from the embedded color data
// ("ansi16", "ansi256"), or from a JSON file at that path.
//
// The JSON format maps SGR parameters to hex colors:
//
//	{ "91": "#ff0000", "101": "#ff0000", "38;5;21": "#0000ff", ... }
//
// Foreground and background codes are matched up by color. Entries are
// ordered as the foreground codes appear in the file. Embedded palettes
// use the terminal's default colors like ANSI16 and ANSI256; a palette
// file takes its defaults from its first entry.
func LoadPalette(name string) (*EntryPalette, error) {
	data, vfsErr := colordata.ReadFile(fmt.Sprintf("colordata/%s.json", name))
	if vfsErr == nil {
		entries, err := readPaletteEntries(data)
		if err != nil {
			return nil, err
		}
		return NewPalette(entries, Reset, DefaultForeground, DefaultBackground)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error reading palette %s: %w", name, err)
	}
	return ReadPaletteJSON(data)
}

// ReadPaletteJSON parses a palette in the format described by LoadPalette.
// Its defaults come from the first entry.
func ReadPaletteJSON(data []byte) (*EntryPalette, error) {
	entries, err := readPaletteEntries(data)
	if err != nil {
		return nil, err
	}
	return NewPalette(entries, Reset, "", "")
}

func readPaletteEntries(data []byte) ([]PaletteEntry, error) {
	codes := NewOrderedMap[string, string]()
	if err := json.Unmarshal(data, codes); err != nil {
		return nil, fmt.Errorf("error unmarshalling palette JSON: %w", err)
	}

	byColor := NewOrderedMap[string, *PaletteEntry]()
	entryFor := func(c RGB) *PaletteEntry {
		entry, ok := byColor.Get(c.Key())
		if !ok {
			entry = &PaletteEntry{Color: c}
			byColor.Set(c.Key(), entry)
		}
		return entry
	}

	// Backgrounds are attached in a second pass so that a file listing
	// them first still pairs up in foreground order.
	var backgrounds []string
	colors := make(map[string]RGB, codes.Len())
	for _, code := range codes.Keys() {
		hexColor, _ := codes.Get(code)
		c, err := parseHexColor(hexColor)
		if err != nil {
			return nil, err
		}
		colors[code] = c

		params := sgrParams(code)
		switch {
		case colorIsForeground(params):
			if entry := entryFor(c); entry.Foreground == "" {
				entry.Foreground = sgr(params)
			}
		case colorIsBackground(params):
			backgrounds = append(backgrounds, code)
		default:
			return nil, fmt.Errorf("%w: unknown color code type %s",
				ErrInvalidPalette, code)
		}
	}
	for _, code := range backgrounds {
		if entry := entryFor(colors[code]); entry.Background == "" {
			entry.Background = sgr(sgrParams(code))
		}
	}

	entries := make([]PaletteEntry, 0, byColor.Len())
	byColor.Iterate(func(_ string, e *PaletteEntry) {
		entries = append(entries, *e)
	})
	return entries, nil
}

// parseHexColor accepts "#rrggbb", "rrggbb" and the short "#rgb" form.
func parseHexColor(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("error parsing color %s: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}
