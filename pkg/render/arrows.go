package render

import (
	"math"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
	"github.com/mhaertel/inkboard/pkg/theme"
)

// Connection drawing tuning.
const (
	arrowHeadLen    = 11
	arrowHeadSpread = math.Pi * 0.82 // back-sweep of the head wings
	bezierCurvature = 0.18
	badgeRadius     = 11
	fanSlot         = 30 // horizontal spread per outgoing edge
	minEdgeLen      = 5  // anything shorter is skipped entirely
)

// EdgeOpts controls how a batch of connections is drawn.
type EdgeOpts struct {
	Color    string // default line color; node/connection colors override
	Curved   bool   // quadratic bezier instead of Manhattan elbows
	Numbered bool   // sequence badges along each edge
	Width    float64
}

// DrawEdges draws every resolvable connection and returns how many were
// drawn. Connections referencing unknown node IDs are skipped silently;
// a producer emitting a stale edge costs nothing but that edge.
func (c *Canvas) DrawEdges(conns []scene.Connection, rects map[string]geom.Rect, opts EdgeOpts) int {
	if opts.Width == 0 {
		opts.Width = 2
	}
	if opts.Color == "" {
		opts.Color = c.th.Border
	}

	// Outgoing fan-out per source node, for anchor spreading.
	outTotal := make(map[string]int)
	for _, conn := range conns {
		if _, ok := rects[conn.From]; !ok {
			continue
		}
		if _, ok := rects[conn.To]; !ok {
			continue
		}
		outTotal[conn.From]++
	}

	outSeen := make(map[string]int)
	drawn := 0
	for i, conn := range conns {
		from, okFrom := rects[conn.From]
		to, okTo := rects[conn.To]
		if !okFrom || !okTo {
			continue
		}

		start := fanAnchor(from, to, outSeen[conn.From], outTotal[conn.From])
		outSeen[conn.From]++
		end := to.EdgeToward(from.Center())

		if start.Dist(end) < minEdgeLen {
			continue
		}

		color := conn.Color
		if color == "" {
			color = opts.Color
		}

		// Curved styles force the bezier path regardless of how the
		// batch routes its other edges.
		style := conn.EffectiveStyle()
		curved := opts.Curved ||
			style == scene.StyleCurvedArrow || style == scene.StyleCurvedDashed

		var path []geom.Point
		if curved {
			ctrl := geom.BezierControl(start, end, bezierCurvature, i%2 == 1)
			samples := int(maxf(20, start.Dist(end)/3))
			path = geom.SampleQuadBezier(start, ctrl, end, samples)
		} else {
			path = geom.ManhattanRoute(start, end, geom.RouteAuto)
		}

		c.drawEdgePath(path, conn, color, opts)
		if opts.Numbered {
			c.drawEdgeBadge(path, drawn+1, color, conn.Label)
		} else if conn.Label != "" {
			c.drawEdgeLabel(path, conn.Label, color)
		}
		drawn++
	}
	return drawn
}

// fanAnchor picks the departure point on the source rect, spreading the
// anchors of a multi-edge source along its bottom or top edge so parallel
// edges do not start on top of each other.
func fanAnchor(from, to geom.Rect, idx, total int) geom.Point {
	p := from.EdgeToward(to.Center())
	if total < 2 {
		return p
	}
	// Spreading only makes sense on horizontal edges.
	if p.Y != from.Y && p.Y != from.MaxY() {
		return p
	}
	spread := minf(from.W-20, float64(total)*fanSlot)
	p.X = from.Center().X - spread/2 + float64(idx)*spread/float64(total-1)
	return p
}

func (c *Canvas) drawEdgePath(path []geom.Point, conn scene.Connection, color string, opts EdgeOpts) {
	if len(path) < 2 {
		return
	}
	c.paths = append(c.paths, path)
	style := conn.EffectiveStyle()
	dashed := style == scene.StyleDashedArrow || style == scene.StyleDashedLine ||
		style == scene.StyleCurvedDashed

	if style == scene.StyleBidirectional {
		c.drawBidirectional(path[0], path[len(path)-1], color, opts.Width)
		return
	}

	c.strokePath(path, color, opts.Width, dashed)

	switch style {
	case scene.StyleArrow, scene.StyleDashedArrow, scene.StyleNumbered,
		scene.StyleCurvedArrow, scene.StyleCurvedDashed:
		c.arrowHead(path[len(path)-2], path[len(path)-1], color)
	}
}

func (c *Canvas) strokePath(path []geom.Point, color string, width float64, dashed bool) {
	if dashed {
		c.dc.SetDash(8, 5)
		defer c.dc.SetDash()
	}
	c.dc.MoveTo(path[0].X, path[0].Y)
	for _, p := range path[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.setHex(color)
	c.dc.SetLineWidth(width)
	c.dc.Stroke()
}

// drawBidirectional draws two parallel lines offset perpendicular to the
// edge, each carrying an arrowhead at the opposite end.
func (c *Canvas) drawBidirectional(start, end geom.Point, color string, width float64) {
	angle := geom.Angle(start, end)
	ox := 4 * math.Sin(angle)
	oy := 4 * -math.Cos(angle)

	a0 := geom.Point{X: start.X + ox, Y: start.Y + oy}
	a1 := geom.Point{X: end.X + ox, Y: end.Y + oy}
	b0 := geom.Point{X: start.X - ox, Y: start.Y - oy}
	b1 := geom.Point{X: end.X - ox, Y: end.Y - oy}

	c.strokePath([]geom.Point{a0, a1}, color, width, false)
	c.arrowHead(a0, a1, color)
	c.strokePath([]geom.Point{b1, b0}, color, width, false)
	c.arrowHead(b1, b0, color)
}

// arrowHead draws a filled triangular head at tip, oriented away from prev.
func (c *Canvas) arrowHead(prev, tip geom.Point, color string) {
	angle := geom.Angle(prev, tip)
	left := geom.Point{
		X: tip.X + arrowHeadLen*math.Cos(angle+arrowHeadSpread),
		Y: tip.Y + arrowHeadLen*math.Sin(angle+arrowHeadSpread),
	}
	right := geom.Point{
		X: tip.X + arrowHeadLen*math.Cos(angle-arrowHeadSpread),
		Y: tip.Y + arrowHeadLen*math.Sin(angle-arrowHeadSpread),
	}
	c.dc.MoveTo(tip.X, tip.Y)
	c.dc.LineTo(left.X, left.Y)
	c.dc.LineTo(right.X, right.Y)
	c.dc.ClosePath()
	c.setHex(color)
	c.dc.Fill()
}

// drawEdgeLabel places the connection label in a pill beside the longest
// segment of the path: above a horizontal segment, to the right of a
// vertical one. Pill colors adapt to the line: a vivid line gets a white
// pill with a colored border so it reads on light backgrounds, a dark
// line gets the dark pill.
func (c *Canvas) drawEdgeLabel(path []geom.Point, label string, lineColor string) {
	if len(path) < 2 || label == "" {
		return
	}

	segIdx := longestSegment(path)
	a, b := path[segIdx], path[segIdx+1]
	mid := a.Lerp(b, 0.5)

	const size = 11.0
	tw := c.shaper.Width(label, size, text.Regular)
	pw := tw + 16
	ph := 18.0

	var pill geom.Rect
	if math.Abs(b.X-a.X) >= math.Abs(b.Y-a.Y) {
		pill = geom.Rect{X: mid.X - pw/2, Y: mid.Y - ph - 6, W: pw, H: ph}
	} else {
		pill = geom.Rect{X: mid.X + 8, Y: mid.Y - ph/2, W: pw, H: ph}
	}

	if theme.IsVivid(lineColor) {
		c.RoundedRect(pill, 9, "#FFFFFF", lineColor, 1)
		c.DrawTextLine(label, pill.Center().X, pill.Center().Y, tw+2, TextOpts{
			Size: size, Weight: text.Regular, Color: lineColor,
		})
	} else {
		c.RoundedRect(pill, 9, "#0F172A", "#334155", 1)
		c.DrawTextLine(label, pill.Center().X, pill.Center().Y, tw+2, TextOpts{
			Size: size, Weight: text.Regular, Color: "#E2E8F0",
		})
	}
}

// drawEdgeBadge draws the sequence-number badge at 40% of the way along
// the path, with a white halo so it stays legible over the line, and the
// label (if any) just past the badge.
func (c *Canvas) drawEdgeBadge(path []geom.Point, n int, color string, label string) {
	p := geom.PointAt(path, 0.4)

	c.dc.DrawCircle(p.X, p.Y, badgeRadius+1)
	c.setHex("#FFFFFF")
	c.dc.Fill()
	c.dc.DrawCircle(p.X, p.Y, badgeRadius)
	c.setHex(color)
	c.dc.Fill()
	c.DrawTextLine(itoa(n), p.X, p.Y, 2*badgeRadius, TextOpts{
		Size: 12, Weight: text.Bold, Color: "#FFFFFF",
	})

	if label != "" {
		c.useFace(11, text.Regular)
		c.setHex(c.th.TextMuted)
		c.dc.DrawStringAnchored(label, p.X+badgeRadius+4, p.Y, 0, 0.5)
	}
}

func longestSegment(path []geom.Point) int {
	best, bestLen := 0, -1.0
	for i := 0; i+1 < len(path); i++ {
		if l := path[i].Dist(path[i+1]); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}
