package strimg

import (
	"strconv"
	"strings"
)

const (
	ESC = "\u001b"

	// CSI starts every SGR sequence emitted by this package.
	CSI = ESC + "["

	// Reset restores the terminal's default attributes.
	Reset = CSI + "0m"

	// DefaultForeground and DefaultBackground select the terminal's own
	// default colors.
	DefaultForeground = CSI + "39m"
	DefaultBackground = CSI + "49m"

	// HalfBlock is the upper half block. Its glyph is painted with the
	// foreground color and the lower half shows the background.
	HalfBlock = "▀"
)

// sgr wraps a bare SGR parameter list ("91", "38;5;196") in an escape
// sequence.
func sgr(params string) string {
	return CSI + params + "m"
}

// sgrParams strips the CSI prefix and the trailing "m" from a complete
// escape sequence. Bare parameter lists are returned unchanged.
func sgrParams(code string) string {
	return strings.TrimSuffix(strings.TrimPrefix(code, CSI), "m")
}

// trueColorForeground formats a 24-bit foreground sequence.
func trueColorForeground(c RGB) string {
	return trueColor("38;2;", c)
}

// trueColorBackground formats a 24-bit background sequence.
func trueColorBackground(c RGB) string {
	return trueColor("48;2;", c)
}

func trueColor(prefix string, c RGB) string {
	var sb strings.Builder
	sb.Grow(len(CSI) + len(prefix) + 12)
	sb.WriteString(CSI)
	sb.WriteString(prefix)
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
	sb.WriteByte('m')
	return sb.String()
}

// colorIsForeground returns true if the SGR parameters select a
// foreground color: 30-37, 90-97 or an extended 38;... color.
func colorIsForeground(params string) bool {
	params = sgrParams(params)
	return strings.HasPrefix(params, "3") ||
		strings.HasPrefix(params, "9")
}

// colorIsBackground returns true if the SGR parameters select a
// background color: 40-47, 100-107 or an extended 48;... color.
func colorIsBackground(params string) bool {
	params = sgrParams(params)
	return strings.HasPrefix(params, "4") ||
		strings.HasPrefix(params, "10")
}
