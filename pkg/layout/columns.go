package layout

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Column layout tuning.
const (
	colSideMargin   = 40
	colBottomMargin = 40
	colGap          = 30
	colHeaderH      = 60 // strip at the top of each column for its title
	colItemGap      = 15
	colItemMinH     = 60
	colItemMaxH     = 100
)

// Column is one vertical comparison lane: its outer box plus title.
type Column struct {
	Name string
	Box  geom.Rect
}

// ColumnsResult carries item rectangles and the lane boxes behind them.
type ColumnsResult struct {
	Nodes   map[string]geom.Rect
	Columns []Column
}

// Columns arranges a comparison scene as side-by-side lanes, one per group,
// with the group's items stacked inside under a title strip. Items that
// overflow a lane are compressed by shrinking the item gap before item
// heights are touched.
func Columns(sh *text.Shaper, s *scene.Scene, canvasW, canvasH, headerH float64, style MeasureStyle) ColumnsResult {
	res := ColumnsResult{Nodes: make(map[string]geom.Rect)}

	groups := columnGroups(s)
	if len(groups) == 0 {
		return res
	}

	usableW := canvasW - 2*colSideMargin
	colW := (usableW - float64(len(groups)-1)*colGap) / float64(len(groups))
	colH := canvasH - headerH - colBottomMargin

	x := float64(colSideMargin)
	for _, g := range groups {
		box := geom.Rect{X: x, Y: headerH, W: colW, H: colH}
		res.Columns = append(res.Columns, Column{Name: g.name, Box: box})

		placeColumnItems(sh, g.nodes, box, style, res.Nodes)
		x += colW + colGap
	}
	return res
}

// columnGroups derives comparison lanes: explicit zones win, then per-node
// groups in first-seen order, then an even two-way split.
func columnGroups(s *scene.Scene) []layerGroup {
	if len(s.Zones) > 0 {
		groups := make([]layerGroup, 0, len(s.Zones))
		for _, z := range s.Zones {
			g := layerGroup{name: z.Name}
			for _, id := range z.Nodes {
				if n := s.NodeByID(id); n != nil {
					g.nodes = append(g.nodes, *n)
				}
			}
			groups = append(groups, g)
		}
		return groups
	}

	var order []string
	byGroup := make(map[string][]scene.Node)
	for _, n := range s.Nodes {
		if _, ok := byGroup[n.Group]; !ok {
			order = append(order, n.Group)
		}
		byGroup[n.Group] = append(byGroup[n.Group], n)
	}
	if len(order) > 1 {
		groups := make([]layerGroup, 0, len(order))
		for _, name := range order {
			groups = append(groups, layerGroup{name: name, nodes: byGroup[name]})
		}
		return groups
	}

	// No structure at all: split the list down the middle.
	if len(s.Nodes) == 0 {
		return nil
	}
	mid := (len(s.Nodes) + 1) / 2
	return []layerGroup{
		{nodes: s.Nodes[:mid]},
		{nodes: s.Nodes[mid:]},
	}
}

func placeColumnItems(sh *text.Shaper, nodes []scene.Node, box geom.Rect, style MeasureStyle, out map[string]geom.Rect) {
	n := len(nodes)
	if n == 0 {
		return
	}

	itemW := box.W - 24
	heights := MeasureHeights(sh, nodes, itemW, style, colItemMinH, colItemMaxH)

	availH := box.H - colHeaderH - 12
	gap := float64(colItemGap)
	if sum(heights)+float64(n-1)*gap > availH && n > 1 {
		gap = 6
		slot := (availH - float64(n-1)*gap) / float64(n)
		for i := range heights {
			if heights[i] > slot {
				heights[i] = maxf(10, slot)
			}
		}
	}

	x := box.X + 12
	y := box.Y + colHeaderH
	for i, node := range nodes {
		out[node.ID] = geom.Rect{X: x, Y: y, W: itemW, H: heights[i]}
		y += heights[i] + gap
	}
}
