package chart

import (
	"strconv"
	"strings"
)

// Theme selects the chart palette.
type Theme int

const (
	Light Theme = iota
	Dark
)

func (t Theme) String() string {
	if t == Dark {
		return "dark"
	}
	return "light"
}

// Palette holds the theme-dependent colors of a chart.
type Palette struct {
	Font  string
	Paper string
	Plot  string
	Grid  string
}

var (
	darkPalette  = Palette{Font: "#F0F0F0", Paper: "#0E0E0E", Plot: "#111111", Grid: "#2A2A2A"}
	lightPalette = Palette{Font: "#1A1A1A", Paper: "#FAFAFA", Plot: "#FFFFFF", Grid: "#E6E6E6"}
)

// PaletteFor returns the palette of a theme.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return darkPalette
	}
	return lightPalette
}

// darkThreshold is the luminance below which a background counts as dark.
const darkThreshold = 0.45

// ThemeContext is the host's theme setting. Base is "dark", "light" or
// empty; BackgroundColor is a #RGB or #RRGGBB color consulted when Base is
// not explicit.
type ThemeContext struct {
	Base            string
	BackgroundColor string
}

// Resolve picks the theme: an explicit base wins, then the background
// luminance, and light when neither is usable.
func (c ThemeContext) Resolve() Theme {
	switch strings.ToLower(strings.TrimSpace(c.Base)) {
	case "dark":
		return Dark
	case "light":
		return Light
	}
	if l, ok := Luminance(c.BackgroundColor); ok && l < darkThreshold {
		return Dark
	}
	return Light
}

// Luminance returns (0.2126 R + 0.7152 G + 0.0722 B) / 255 for a #RGB or
// #RRGGBB color. The second result is false when the color cannot be parsed.
func Luminance(color string) (float64, bool) {
	r, g, b, ok := parseHex(color)
	if !ok {
		return 0, false
	}
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 255.0, true
}

func parseHex(color string) (r, g, b uint8, ok bool) {
	if !strings.HasPrefix(color, "#") {
		return 0, 0, 0, false
	}
	hex := color[1:]
	switch len(hex) {
	case 3:
		var sb strings.Builder
		for _, c := range hex {
			sb.WriteRune(c)
			sb.WriteRune(c)
		}
		hex = sb.String()
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}
