package render

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/layout"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// composeProcess renders process, timeline, and infographic scenes: a
// numbered grid of step cards with arrows flowing through the sequence.
func (r *Renderer) composeProcess(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)
	rects := layout.Grid(r.shaper, s.Nodes, w, h, headerH, o.Cols, style)

	c.DrawEdges(chainConnections(s), rects, EdgeOpts{Color: c.th.Border, Numbered: true})
	c.drawNodeSet(s, rects, style)

	// Step badges on the top-left corner of each card.
	for i, n := range s.Nodes {
		rect, ok := rects[n.ID]
		if !ok {
			continue
		}
		c.StepNumber(rect.X+4, rect.Y+4, i+1, c.accentFor(n, i))
	}
}

// composeFlow renders flowchart and pipeline scenes as a horizontal stage
// row, falling back to a vertical stack when the stages would get too
// narrow to label.
func (r *Renderer) composeFlow(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)

	var rects map[string]geom.Rect
	if len(s.Nodes) > 7 {
		rects = layout.FlowVertical(r.shaper, s.Nodes, w, h, headerH, style)
	} else {
		rects = layout.FlowHorizontal(r.shaper, s.Nodes, w, h, headerH, style)
	}

	c.DrawEdges(chainConnections(s), rects, EdgeOpts{Color: c.th.Accent})
	c.drawNodeSet(s, rects, style)
}

// composeArchitecture renders layered architecture scenes: labeled bands
// with their components, connections routed with Manhattan elbows.
func (r *Renderer) composeArchitecture(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)
	res := layout.Layered(r.shaper, s, w, h, headerH, style)

	for i, band := range res.Bands {
		c.SectionBox(band.Box, band.Name, c.th.Section(i), c.th.Variant)
	}
	c.DrawEdges(s.Connections, res.Nodes, EdgeOpts{Color: c.th.Border})
	c.drawNodeSet(s, res.Nodes, style)
}

// composeComparison renders side-by-side lanes. Lanes carry their own
// title strip; cross-lane connections are rare but drawn if present.
func (r *Renderer) composeComparison(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)
	res := layout.Columns(r.shaper, s, w, h, headerH, style)

	for i, col := range res.Columns {
		sc := c.th.Section(i)
		c.SectionBox(col.Box, "", sc, c.th.Variant)
		if col.Name != "" {
			c.DrawTextLine(col.Name, col.Box.Center().X, col.Box.Y+colTitleY, col.Box.W-24, TextOpts{
				Size: 17, Weight: text.Bold, Color: sc.Text,
			})
		}
	}
	c.DrawEdges(s.Connections, res.Nodes, EdgeOpts{Color: c.th.Border})
	c.drawNodeSet(s, res.Nodes, style)
}

const colTitleY = 32

// composeConceptMap renders a hub-and-spoke map: the center node ringed by
// the rest, spokes drawn as curved lines before explicit connections.
func (r *Renderer) composeConceptMap(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)

	center := s.CenterID()
	outer := s.OuterIDs(center)
	rects := layout.Radial(center, outer, w, h, headerH)

	// Spokes from hub to every outer node, unless the producer already
	// connected them explicitly.
	spokes := make([]scene.Connection, 0, len(outer))
	connected := make(map[string]bool)
	for _, conn := range s.Connections {
		if conn.From == center {
			connected[conn.To] = true
		}
		if conn.To == center {
			connected[conn.From] = true
		}
	}
	for _, id := range outer {
		if !connected[id] {
			spokes = append(spokes, scene.Connection{From: center, To: id, Style: scene.StyleLine})
		}
	}

	c.DrawEdges(spokes, rects, EdgeOpts{Color: c.th.Border, Curved: true})
	c.DrawEdges(s.Connections, rects, EdgeOpts{Color: c.th.Accent, Curved: true})
	c.drawNodeSet(s, rects, style)
}

// composeMultiAgent renders agent systems: zone boxes when the scene
// declares zones, otherwise a force-directed graph of the agents.
func (r *Renderer) composeMultiAgent(c *Canvas, s *scene.Scene, headerH float64, o Options) {
	w, h := c.Size()
	style := measureStyle(c.th.Variant, s.Type)

	if len(s.Zones) > 0 || hasZonedNodes(s) {
		res := layout.Zones(r.shaper, s, w, h, headerH, style)
		for i, z := range res.Zones {
			c.SectionBox(z.Box, z.Name, c.th.Section(i), c.th.Variant)
		}
		c.DrawEdges(s.Connections, res.Nodes, EdgeOpts{Color: c.th.Accent, Curved: true})
		c.drawNodeSet(s, res.Nodes, style)
		return
	}

	rects := layout.Force(r.shaper, s, w, h, headerH, style, layout.WithSeed(o.Seed))
	c.DrawEdges(s.Connections, rects, EdgeOpts{Color: c.th.Accent, Curved: true})
	c.drawNodeSet(s, rects, style)
}

func hasZonedNodes(s *scene.Scene) bool {
	for _, n := range s.Nodes {
		if n.Zone != "" {
			return true
		}
	}
	return false
}
