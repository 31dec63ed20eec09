package layout

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Zone layout tuning.
const (
	zoneSideMargin   = 40
	zoneBottomMargin = 40
	zoneGap          = 25
	zoneTitleH       = 40
	zonePad          = 15
	zoneItemGap      = 15
	zoneItemMinH     = 70
	zoneItemMaxH     = 130
)

// ZoneBox is one labeled region and the nodes laid out inside it.
type ZoneBox struct {
	Name string
	Box  geom.Rect
}

// ZonesResult carries node rectangles plus the region boxes behind them.
type ZonesResult struct {
	Nodes map[string]geom.Rect
	Zones []ZoneBox
}

// Zones partitions the canvas into labeled regions, one per zone, arranged
// two abreast, and lays each zone's nodes out in a small grid inside the
// region. Nodes without a zone are gathered into a trailing unlabeled
// region so nothing is dropped.
func Zones(sh *text.Shaper, s *scene.Scene, canvasW, canvasH, headerH float64, style MeasureStyle) ZonesResult {
	res := ZonesResult{Nodes: make(map[string]geom.Rect)}

	groups := zoneGroups(s)
	if len(groups) == 0 {
		return res
	}

	zoneCols := 2
	if len(groups) == 1 {
		zoneCols = 1
	}
	zoneRows := (len(groups) + zoneCols - 1) / zoneCols

	usableW := canvasW - 2*zoneSideMargin
	availH := canvasH - headerH - zoneBottomMargin
	zoneW := (usableW - float64(zoneCols-1)*zoneGap) / float64(zoneCols)
	zoneH := (availH - float64(zoneRows-1)*zoneGap) / float64(zoneRows)

	for i, g := range groups {
		col := i % zoneCols
		row := i / zoneCols
		box := geom.Rect{
			X: zoneSideMargin + float64(col)*(zoneW+zoneGap),
			Y: headerH + float64(row)*(zoneH+zoneGap),
			W: zoneW,
			H: zoneH,
		}
		// A lone zone on the last row stretches across the free width.
		if row == zoneRows-1 && i == len(groups)-1 && col == 0 && zoneCols > 1 {
			box.W = usableW
		}
		res.Zones = append(res.Zones, ZoneBox{Name: g.name, Box: box})
		placeZoneItems(sh, g.nodes, box, style, res.Nodes)
	}
	return res
}

// zoneGroups resolves the explicit zone list, or derives regions from
// node.Zone values in first-seen order.
func zoneGroups(s *scene.Scene) []layerGroup {
	if len(s.Zones) > 0 {
		groups := make([]layerGroup, 0, len(s.Zones)+1)
		seen := make(map[string]bool)
		for _, z := range s.Zones {
			g := layerGroup{name: z.Name}
			for _, id := range z.Nodes {
				if n := s.NodeByID(id); n != nil {
					g.nodes = append(g.nodes, *n)
					seen[id] = true
				}
			}
			groups = append(groups, g)
		}
		var orphans []scene.Node
		for _, n := range s.Nodes {
			if !seen[n.ID] {
				orphans = append(orphans, n)
			}
		}
		if len(orphans) > 0 {
			groups = append(groups, layerGroup{nodes: orphans})
		}
		return groups
	}

	var order []string
	byZone := make(map[string][]scene.Node)
	for _, n := range s.Nodes {
		key := n.Zone
		if _, ok := byZone[key]; !ok {
			order = append(order, key)
		}
		byZone[key] = append(byZone[key], n)
	}
	groups := make([]layerGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, layerGroup{name: name, nodes: byZone[name]})
	}
	return groups
}

func placeZoneItems(sh *text.Shaper, nodes []scene.Node, box geom.Rect, style MeasureStyle, out map[string]geom.Rect) {
	n := len(nodes)
	if n == 0 {
		return
	}

	cols := 2
	switch {
	case n <= 2:
		cols = 1
	case n > 18:
		cols = 4
	case n > 8:
		cols = 3
	}
	rows := (n + cols - 1) / cols

	innerW := box.W - 2*zonePad
	innerH := box.H - zoneTitleH - zonePad
	itemW := (innerW - float64(cols-1)*zoneItemGap) / float64(cols)

	slotH := (innerH - float64(rows-1)*zoneItemGap) / float64(rows)
	maxH := clamp(slotH, 20, zoneItemMaxH)
	minH := minf(zoneItemMinH, maxH)
	heights := MeasureHeights(sh, nodes, itemW, style, minH, maxH)

	for i, node := range nodes {
		col := i % cols
		row := i / cols
		x := box.X + zonePad + float64(col)*(itemW+zoneItemGap)
		y := box.Y + zoneTitleH + float64(row)*(maxH+zoneItemGap)
		out[node.ID] = geom.Rect{X: x, Y: y, W: itemW, H: heights[i]}
	}
}
