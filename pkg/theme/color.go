package theme

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses a #RRGGBB or #RGB string into a color. Invalid strings
// fall back to mid gray so a bad color override never fails a render.
func ParseHex(hex string) color.Color {
	c, err := parse(hex)
	if err != nil {
		return color.RGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF}
	}
	return c
}

// Luminance returns the perceived brightness of a hex color on the 0-255
// scale using the classic 0.299R + 0.587G + 0.114B weighting.
func Luminance(hex string) float64 {
	c, err := parse(hex)
	if err != nil {
		return 0
	}
	r, g, b := c.RGB255()
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// IsVivid reports whether a line color reads as a vivid/medium color that
// implies a light background behind it. The threshold of 60 separates
// colored lines (blues, oranges, greens) from the muted grays used on
// dark backgrounds.
func IsVivid(hex string) bool {
	return Luminance(hex) > 60
}

// Lighten returns hex blended toward white by amount (0..1).
func Lighten(hex string, amount float64) string {
	c, err := parse(hex)
	if err != nil {
		return hex
	}
	white, _ := colorful.Hex("#FFFFFF")
	return c.BlendRgb(white, clamp01(amount)).Hex()
}

// Darken returns hex blended toward black by amount (0..1).
func Darken(hex string, amount float64) string {
	c, err := parse(hex)
	if err != nil {
		return hex
	}
	black, _ := colorful.Hex("#000000")
	return c.BlendRgb(black, clamp01(amount)).Hex()
}

// Blend interpolates between two hex colors in RGB space at t (0..1).
// Used for gradient bars.
func Blend(fromHex, toHex string, t float64) string {
	a, err := parse(fromHex)
	if err != nil {
		return fromHex
	}
	b, err := parse(toHex)
	if err != nil {
		return fromHex
	}
	return a.BlendRgb(b, clamp01(t)).Hex()
}

func parse(hex string) (colorful.Color, error) {
	if len(hex) == 4 && hex[0] == '#' {
		// Expand #RGB to #RRGGBB for colorful.Hex.
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return colorful.Hex(hex)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
