package layout

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Layered layout tuning.
const (
	layerSideMargin   = 40
	layerBottomMargin = 30
	layerBandGap      = 18
	layerLabelReserve = 45 // left strip for the layer name
	layerMinNodeW     = 100
	layerMinNodeH     = 70
	layerMaxNodeH     = 220
)

// Band is a horizontal layer strip: its box on the canvas plus the layer
// name drawn in the reserved left strip.
type Band struct {
	Name string
	Box  geom.Rect
}

// LayeredResult carries node rectangles together with the layer bands the
// renderer draws behind them.
type LayeredResult struct {
	Nodes map[string]geom.Rect
	Bands []Band
}

// Layered stacks the scene's layers top to bottom as full-width bands and
// arranges each layer's nodes in a centered row inside its band. Crowded
// layers get narrower nodes and tighter gaps; node height is content-aware
// but never outgrows the band.
//
// Nodes referenced by a layer but missing from the scene are skipped.
// Nodes assigned to no layer are appended to the last band.
func Layered(sh *text.Shaper, s *scene.Scene, canvasW, canvasH, headerH float64, style MeasureStyle) LayeredResult {
	res := LayeredResult{Nodes: make(map[string]geom.Rect)}

	groups := layerGroups(s)
	if len(groups) == 0 {
		return res
	}

	usableW := canvasW - 2*layerSideMargin
	availH := canvasH - headerH - layerBottomMargin
	bandH := (availH - float64(len(groups)-1)*layerBandGap) / float64(len(groups))

	y := headerH
	for _, g := range groups {
		band := geom.Rect{X: layerSideMargin, Y: y, W: usableW, H: bandH}
		res.Bands = append(res.Bands, Band{Name: g.name, Box: band})

		placeLayerRow(sh, g.nodes, band, style, res.Nodes)
		y += bandH + layerBandGap
	}
	return res
}

type layerGroup struct {
	name  string
	nodes []scene.Node
}

// layerGroups resolves the scene's explicit layer list, or derives bands
// from node.Layer indices when no list is given.
func layerGroups(s *scene.Scene) []layerGroup {
	if len(s.Layers) > 0 {
		groups := make([]layerGroup, 0, len(s.Layers))
		seen := make(map[string]bool)
		for _, l := range s.Layers {
			g := layerGroup{name: l.Name}
			for _, id := range l.Nodes {
				if n := s.NodeByID(id); n != nil {
					g.nodes = append(g.nodes, *n)
					seen[id] = true
				}
			}
			groups = append(groups, g)
		}
		// Orphan nodes land in the bottom band rather than vanishing.
		if len(groups) > 0 {
			for _, n := range s.Nodes {
				if !seen[n.ID] {
					groups[len(groups)-1].nodes = append(groups[len(groups)-1].nodes, n)
				}
			}
		}
		return groups
	}

	// Derive from per-node layer indices, in first-seen order.
	var order []int
	byIdx := make(map[int][]scene.Node)
	for _, n := range s.Nodes {
		if _, ok := byIdx[n.Layer]; !ok {
			order = append(order, n.Layer)
		}
		byIdx[n.Layer] = append(byIdx[n.Layer], n)
	}
	if len(order) <= 1 {
		return []layerGroup{{name: "", nodes: s.Nodes}}
	}
	groups := make([]layerGroup, 0, len(order))
	for _, idx := range order {
		groups = append(groups, layerGroup{nodes: byIdx[idx]})
	}
	return groups
}

// placeLayerRow fills band with centered rows of nodes, writing rects into
// out. A layer too crowded for one row wraps into as many rows as fit at
// the minimum node width.
func placeLayerRow(sh *text.Shaper, nodes []scene.Node, band geom.Rect, style MeasureStyle, out map[string]geom.Rect) {
	n := len(nodes)
	if n == 0 {
		return
	}

	gap, maxW := 20.0, 180.0
	switch {
	case n <= 3:
		gap, maxW = 45, 220
	case n <= 5:
		gap, maxW = 30, 200
	}

	rowArea := band.W - layerLabelReserve - 20
	perRow := int((rowArea + gap) / (layerMinNodeW + gap))
	if perRow < 1 {
		perRow = 1
	}
	if perRow > n {
		perRow = n
	}
	rows := (n + perRow - 1) / perRow
	slotH := band.H / float64(rows)

	maxH := minf(layerMaxNodeH, slotH-20)
	if rows == 1 {
		maxH = minf(layerMaxNodeH, band.H-61)
	}
	maxH = maxf(maxH, 24)
	minH := minf(layerMinNodeH, maxH)

	for r := 0; r < rows; r++ {
		chunk := nodes[r*perRow : min((r+1)*perRow, n)]
		k := len(chunk)

		nodeW := (rowArea - float64(k-1)*gap) / float64(k)
		nodeW = clamp(nodeW, layerMinNodeW, maxW)
		heights := MeasureHeights(sh, chunk, nodeW, style, minH, maxH)

		rowW := float64(k)*nodeW + float64(k-1)*gap
		x := band.X + layerLabelReserve + maxf(0, (rowArea-rowW)/2)
		midY := band.Y + (float64(r)+0.5)*slotH

		for i, node := range chunk {
			h := heights[i]
			out[node.ID] = geom.Rect{X: x, Y: midY - h/2, W: nodeW, H: h}
			x += nodeW + gap
		}
	}
}
