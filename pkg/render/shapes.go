package render

import (
	"math"
	"strconv"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// outerBorderMargin is the inset of the decorative frame around the canvas.
const outerBorderMargin = 15

// FillStroke paints the current path with fill then stroke.
func (c *Canvas) fillStroke(fill, stroke string, lineWidth float64) {
	c.setHex(fill)
	c.dc.FillPreserve()
	c.setHex(stroke)
	c.dc.SetLineWidth(lineWidth)
	c.dc.Stroke()
}

// RoundedRect paths and paints a rounded rectangle.
func (c *Canvas) RoundedRect(r geom.Rect, radius float64, fill, stroke string, lineWidth float64) {
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	c.fillStroke(fill, stroke, lineWidth)
}

// DashedRect draws a rounded rectangle with a dashed border, the card
// outline of the whiteboard style.
func (c *Canvas) DashedRect(r geom.Rect, radius float64, fill, stroke string, lineWidth float64) {
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	c.setHex(fill)
	c.dc.Fill()

	c.dc.SetDash(8, 5)
	c.dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, radius)
	c.setHex(stroke)
	c.dc.SetLineWidth(lineWidth)
	c.dc.Stroke()
	c.dc.SetDash()
}

// Cylinder draws the database shape: a body with elliptical top and
// bottom, the top lightened so the rim reads as a lid.
func (c *Canvas) Cylinder(r geom.Rect, fill, stroke string, lineWidth float64) {
	eh := r.H / 5

	// Body between the two rims.
	c.dc.MoveTo(r.X, r.Y+eh/2)
	c.dc.LineTo(r.X, r.MaxY()-eh/2)
	c.dc.DrawEllipticalArc(r.X+r.W/2, r.MaxY()-eh/2, r.W/2, eh/2, math.Pi, 2*math.Pi)
	c.dc.LineTo(r.MaxX(), r.Y+eh/2)
	c.dc.ClosePath()
	c.setHex(fill)
	c.dc.Fill()

	// Bottom rim arc.
	c.dc.DrawEllipticalArc(r.X+r.W/2, r.MaxY()-eh/2, r.W/2, eh/2, 0, math.Pi)
	c.setHex(stroke)
	c.dc.SetLineWidth(lineWidth)
	c.dc.Stroke()

	// Lid, slightly lighter than the body.
	c.dc.DrawEllipse(r.X+r.W/2, r.Y+eh/2, r.W/2, eh/2)
	c.fillStroke(theme.Lighten(fill, 0.3), stroke, lineWidth)

	// Side walls.
	c.dc.MoveTo(r.X, r.Y+eh/2)
	c.dc.LineTo(r.X, r.MaxY()-eh/2)
	c.dc.MoveTo(r.MaxX(), r.Y+eh/2)
	c.dc.LineTo(r.MaxX(), r.MaxY()-eh/2)
	c.setHex(stroke)
	c.dc.Stroke()
}

// Hexagon draws a flat-top hexagon inscribed in r.
func (c *Canvas) Hexagon(r geom.Rect, fill, stroke string, lineWidth float64) {
	cx, cy := r.Center().X, r.Center().Y
	rx, ry := r.W/2, r.H/2
	for i := 0; i < 6; i++ {
		a := math.Pi/6 + float64(i)*math.Pi/3
		x := cx + rx*math.Cos(a)
		y := cy + ry*math.Sin(a)
		if i == 0 {
			c.dc.MoveTo(x, y)
		} else {
			c.dc.LineTo(x, y)
		}
	}
	c.dc.ClosePath()
	c.fillStroke(fill, stroke, lineWidth)
}

// Diamond draws a decision rhombus inscribed in r.
func (c *Canvas) Diamond(r geom.Rect, fill, stroke string, lineWidth float64) {
	cx, cy := r.Center().X, r.Center().Y
	c.dc.MoveTo(cx, r.Y)
	c.dc.LineTo(r.MaxX(), cy)
	c.dc.LineTo(cx, r.MaxY())
	c.dc.LineTo(r.X, cy)
	c.dc.ClosePath()
	c.fillStroke(fill, stroke, lineWidth)
}

// Circle draws an ellipse inscribed in r.
func (c *Canvas) Circle(r geom.Rect, fill, stroke string, lineWidth float64) {
	c.dc.DrawEllipse(r.Center().X, r.Center().Y, r.W/2, r.H/2)
	c.fillStroke(fill, stroke, lineWidth)
}

// Cloud draws an overlapping-ellipse cloud filling r.
func (c *Canvas) Cloud(r geom.Rect, fill, stroke string, lineWidth float64) {
	cx, cy := r.Center().X, r.Center().Y
	lobes := []struct{ dx, dy, rx, ry float64 }{
		{0, 0.1, 0.42, 0.38},
		{-0.28, 0.05, 0.26, 0.26},
		{0.28, 0.05, 0.26, 0.26},
		{-0.12, -0.18, 0.24, 0.24},
		{0.14, -0.16, 0.22, 0.22},
	}
	for _, l := range lobes {
		c.dc.DrawEllipse(cx+l.dx*r.W, cy+l.dy*r.H, l.rx*r.W, l.ry*r.H)
	}
	c.setHex(fill)
	c.dc.Fill()
	for _, l := range lobes {
		c.dc.DrawEllipse(cx+l.dx*r.W, cy+l.dy*r.H, l.rx*r.W, l.ry*r.H)
	}
	c.setHex(stroke)
	c.dc.SetLineWidth(lineWidth)
	c.dc.Stroke()
}

// Parallelogram draws an input/output slanted box.
func (c *Canvas) Parallelogram(r geom.Rect, fill, stroke string, lineWidth float64) {
	skew := r.W * 0.15
	c.dc.MoveTo(r.X+skew, r.Y)
	c.dc.LineTo(r.MaxX(), r.Y)
	c.dc.LineTo(r.MaxX()-skew, r.MaxY())
	c.dc.LineTo(r.X, r.MaxY())
	c.dc.ClosePath()
	c.fillStroke(fill, stroke, lineWidth)
}

// Person draws a head-and-shoulders actor figure inside r.
func (c *Canvas) Person(r geom.Rect, fill, stroke string, lineWidth float64) {
	cx := r.Center().X
	headR := minf(r.W, r.H) * 0.18
	headCY := r.Y + r.H*0.28

	c.dc.DrawCircle(cx, headCY, headR)
	c.fillStroke(fill, stroke, lineWidth)

	// Shoulders as a clipped dome.
	bodyTop := headCY + headR + 4
	c.dc.DrawEllipticalArc(cx, r.MaxY(), r.W*0.3, r.MaxY()-bodyTop, math.Pi, 2*math.Pi)
	c.dc.ClosePath()
	c.fillStroke(fill, stroke, lineWidth)
}

// Shape draws the given scene shape filling r. Unknown shapes fall back to
// a rounded rectangle so a producer typo never loses a node.
func (c *Canvas) Shape(shape scene.Shape, r geom.Rect, fill, stroke string, lineWidth float64) {
	switch shape {
	case scene.ShapeCylinder:
		c.Cylinder(r, fill, stroke, lineWidth)
	case scene.ShapeHexagon:
		c.Hexagon(r, fill, stroke, lineWidth)
	case scene.ShapeDiamond:
		c.Diamond(r, fill, stroke, lineWidth)
	case scene.ShapeCircle:
		c.Circle(r, fill, stroke, lineWidth)
	case scene.ShapeCloud:
		c.Cloud(r, fill, stroke, lineWidth)
	case scene.ShapeParallelogram:
		c.Parallelogram(r, fill, stroke, lineWidth)
	case scene.ShapePerson:
		c.Person(r, fill, stroke, lineWidth)
	case scene.ShapeDashedRect:
		c.DashedRect(r, 10, fill, stroke, lineWidth)
	default:
		c.RoundedRect(r, 10, fill, stroke, lineWidth)
	}
}

// SectionBox draws a labeled region: a rounded box with the title sitting
// on the top edge, dashed for the whiteboard variant.
func (c *Canvas) SectionBox(r geom.Rect, title string, sc theme.SectionColor, variant theme.Variant) {
	switch variant {
	case theme.Whiteboard:
		c.DashedRect(r, 12, sc.Fill, sc.Border, 2)
	case theme.Guidebook:
		c.RoundedRect(r, 12, sc.Fill, sc.Border, 1.5)
		// Left accent bar.
		c.dc.DrawRoundedRectangle(r.X, r.Y, 5, r.H, 2.5)
		c.setHex(sc.Border)
		c.dc.Fill()
	default:
		c.RoundedRect(r, 12, sc.Fill, sc.Border, 1.5)
	}

	if title == "" {
		return
	}
	// Title pill straddling the top edge.
	size := 13.0
	tw := c.shaper.Width(title, size, text.Bold) + 24
	tw = minf(tw, r.W-20)
	pill := geom.Rect{X: r.X + 18, Y: r.Y - 11, W: tw, H: 22}
	c.RoundedRect(pill, 11, sc.HeaderBG, sc.HeaderBG, 1)
	c.DrawTextLine(title, pill.Center().X, pill.Center().Y, pill.W-12, TextOpts{
		Size: size, Weight: text.Bold, Color: "#FFFFFF",
	})
}

// StepNumber draws the numbered circle badge used by process layouts.
func (c *Canvas) StepNumber(cx, cy float64, n int, color string) {
	const r = 16
	c.dc.DrawCircle(cx, cy, r)
	c.fillStroke(color, "#FFFFFF", 2.5)
	c.DrawTextLine(itoa(n), cx, cy, 2*r, TextOpts{Size: 14, Weight: text.Bold, Color: "#FFFFFF"})
}

// OuterBorder frames the canvas, dashed on the whiteboard variant.
func (c *Canvas) OuterBorder(variant theme.Variant) {
	m := float64(outerBorderMargin)
	if variant == theme.Whiteboard {
		c.dc.SetDash(8, 5)
		defer c.dc.SetDash()
	}
	c.dc.DrawRoundedRectangle(m, m, c.w-2*m, c.h-2*m, 14)
	c.setHex(c.th.OuterBorder)
	c.dc.SetLineWidth(2)
	c.dc.Stroke()
}

// GradientBar paints the accent strip along the top edge of dark renders,
// blending from GradientStart to GradientEnd.
func (c *Canvas) GradientBar(h float64) {
	const steps = 64
	stepW := c.w / steps
	for i := 0; i < steps; i++ {
		t := float64(i) / (steps - 1)
		c.setHex(theme.Blend(c.th.GradientStart, c.th.GradientEnd, t))
		c.dc.DrawRectangle(float64(i)*stepW, 0, stepW+1, h)
		c.dc.Fill()
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
