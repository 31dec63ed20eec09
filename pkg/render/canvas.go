// Package render turns a laid-out scene into pixels: shapes, node cards,
// connection arrows, per-scene-type composition, and post-render cropping.
//
// Rendering never fails on content problems. Dangling references are
// skipped, text that cannot fit is truncated with an ellipsis, and unknown
// icons fall back to a tinted disc. Errors are reserved for encoding and
// I/O at the edges.
package render

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// Canvas couples a gg drawing context with the shaper and theme for one
// render. All drawing helpers hang off it.
type Canvas struct {
	dc     *gg.Context
	shaper *text.Shaper
	th     theme.Theme
	w, h   float64

	// paths collects every stroked connection path, for animation.
	paths [][]geom.Point
}

// EdgePaths returns the connection paths stroked so far, in draw order.
func (c *Canvas) EdgePaths() [][]geom.Point { return c.paths }

// NewCanvas allocates a w x h canvas filled with the theme background.
func NewCanvas(w, h int, th theme.Theme, shaper *text.Shaper) *Canvas {
	dc := gg.NewContext(w, h)
	c := &Canvas{dc: dc, shaper: shaper, th: th, w: float64(w), h: float64(h)}
	c.setHex(th.BG)
	dc.Clear()
	return c
}

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h float64) { return c.w, c.h }

// Theme returns the canvas theme.
func (c *Canvas) Theme() theme.Theme { return c.th }

// Shaper returns the text shaper used for measurement on this canvas.
func (c *Canvas) Shaper() *text.Shaper { return c.shaper }

func (c *Canvas) setHex(hex string) {
	c.dc.SetColor(theme.ParseHex(hex))
}

func (c *Canvas) useFace(size float64, weight text.Weight) {
	c.dc.SetFontFace(c.shaper.Face(size, weight))
}

// TextOpts controls a text block: font, color, alignment, and the line cap
// applied before the ellipsis kicks in.
type TextOpts struct {
	Size     float64
	Weight   text.Weight
	Color    string
	LineMul  float64 // line height multiplier; 0 means 1.35
	MaxLines int     // 0 means unlimited
}

// DrawTextLine draws a single line anchored at its horizontal center,
// truncating with an ellipsis if it exceeds maxW.
func (c *Canvas) DrawTextLine(str string, cx, y, maxW float64, o TextOpts) {
	str = c.shaper.Truncate(str, o.Size, o.Weight, maxW)
	c.useFace(o.Size, o.Weight)
	c.setHex(o.Color)
	c.dc.DrawStringAnchored(str, cx, y, 0.5, 0.5)
}

// DrawTextBlock wraps str into rect's width and draws it top-down from
// rect.Y, center-aligned, capping at MaxLines with a trailing ellipsis.
// It returns the Y just below the last drawn line.
func (c *Canvas) DrawTextBlock(str string, rect geom.Rect, o TextOpts) float64 {
	if str == "" {
		return rect.Y
	}
	mul := o.LineMul
	if mul == 0 {
		mul = 1.35
	}
	lineH := o.Size * mul

	lines := c.shaper.WrapCapped(str, o.Size, o.Weight, rect.W, o.MaxLines)

	c.useFace(o.Size, o.Weight)
	c.setHex(o.Color)
	y := rect.Y + lineH/2
	for _, line := range lines {
		if y > rect.MaxY() && rect.H > 0 {
			break
		}
		c.dc.DrawStringAnchored(line, rect.X+rect.W/2, y, 0.5, 0.5)
		y += lineH
	}
	return y - lineH/2
}

// FitTitle draws str centered at (cx, y), shrinking the font from maxSize
// until it fits maxW, then truncating as a last resort. Returns the size
// actually used.
func (c *Canvas) FitTitle(str string, cx, y, maxW, maxSize, minSize float64, weight text.Weight, color string) float64 {
	size := c.shaper.FitSize(str, maxW, maxSize, minSize, weight)
	c.DrawTextLine(str, cx, y, maxW, TextOpts{Size: size, Weight: weight, Color: color})
	return size
}
