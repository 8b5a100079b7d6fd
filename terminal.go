package strimg

import (
	"os"
	"strings"
)

// trueColorEnv are variables whose presence identifies terminals known to
// render 24-bit color.
var trueColorEnv = []string{
	"KITTY_WINDOW_ID",
	"KONSOLE_VERSION",
	"ITERM_SESSION_ID",
	"ALACRITTY_WINDOW_ID",
	"ALACRITTY_LOG",
	"WEZTERM_PANE",
}

// DetectColorMode guesses the color capability of the terminal from the
// environment read through getenv (os.Getenv when nil).
//
// NO_COLOR and TERM=dumb yield ColorModeNone. COLORTERM, terminal specific
// variables and TERM suffixes select true color; a TERM mentioning
// 256color selects 256 colors; everything else gets 16.
func DetectColorMode(getenv func(string) string) ColorMode {
	if getenv == nil {
		getenv = os.Getenv
	}

	if getenv("NO_COLOR") != "" {
		return ColorModeNone
	}

	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return ColorModeTrueColor
	}

	for _, name := range trueColorEnv {
		if getenv(name) != "" {
			return ColorModeTrueColor
		}
	}

	term := strings.ToLower(getenv("TERM"))
	switch {
	case term == "dumb":
		return ColorModeNone
	case strings.Contains(term, "truecolor"),
		strings.Contains(term, "24bit"),
		strings.Contains(term, "direct"):
		return ColorModeTrueColor
	case strings.Contains(term, "256color"):
		return ColorMode256
	}
	return ColorMode16
}
