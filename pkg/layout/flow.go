package layout

import (
	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Flow layout tuning.
const (
	flowSideMargin = 40
	flowMinGap     = 65
	flowMaxGap     = 85
	flowAssumedW   = 120 // width assumption used only to size the gap
	flowMaxNodeW   = 200
	flowMinCardH   = 90
	flowMaxCardH   = 280

	flowVGap  = 30
	flowVMaxH = 80
	flowVMaxW = 220
)

// FlowHorizontal arranges nodes in a single left-to-right row, vertically
// centered in the area below headerH. The gap between stages widens on
// roomy canvases and tightens on crowded ones; each card's height follows
// its content so a stage with a long description does not clip.
func FlowHorizontal(sh *text.Shaper, nodes []scene.Node, canvasW, canvasH, headerH float64, style MeasureStyle) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(nodes))
	n := len(nodes)
	if n == 0 {
		return out
	}

	usableW := canvasW - 2*flowSideMargin
	gap := float64(flowMaxGap)
	if n > 1 {
		gap = clamp((usableW-float64(n)*flowAssumedW)/float64(n-1), flowMinGap, flowMaxGap)
	}

	nodeW := (usableW - float64(n-1)*gap) / float64(n)
	if nodeW > flowMaxNodeW {
		nodeW = flowMaxNodeW
	}
	if nodeW < 40 {
		// Too many stages for comfortable gaps; squeeze rather than spill.
		gap = 8
		nodeW = maxf(10, (usableW-float64(n-1)*gap)/float64(n))
	}

	heights := MeasureHeights(sh, nodes, nodeW, style, flowMinCardH, flowMaxCardH)

	rowW := float64(n)*nodeW + float64(n-1)*gap
	x := flowSideMargin + (usableW-rowW)/2
	midY := headerH + (canvasH-headerH)/2

	for i, node := range nodes {
		h := heights[i]
		out[node.ID] = geom.Rect{X: x, Y: midY - h/2, W: nodeW, H: h}
		x += nodeW + gap
	}
	return out
}

// FlowVertical arranges nodes in a single centered top-to-bottom column,
// used when a flow has too many stages to fit across the canvas. Cards are
// shorter and wider than the horizontal flow since labels sit beside icons.
func FlowVertical(sh *text.Shaper, nodes []scene.Node, canvasW, canvasH, headerH float64, style MeasureStyle) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(nodes))
	n := len(nodes)
	if n == 0 {
		return out
	}

	nodeW := minf(flowVMaxW, canvasW-2*flowSideMargin)
	heights := MeasureHeights(sh, nodes, nodeW, style, flowMinCardH-30, flowVMaxH)

	availH := canvasH - headerH - gridBottomMargin
	gap := float64(flowVGap)
	if sum(heights)+float64(n-1)*gap > availH && n > 1 {
		gap = maxf(6, (availH-sum(heights))/float64(n-1))
	}
	if slot := (availH - float64(n-1)*gap) / float64(n); slot > 0 {
		// Cap heights at the per-node slot so a long chain never spills
		// off the bottom.
		for i := range heights {
			if heights[i] > slot {
				heights[i] = maxf(10, slot)
			}
		}
	}

	x := (canvasW - nodeW) / 2
	y := headerH + maxf(0, (availH-sum(heights)-float64(n-1)*gap)/2)
	for i, node := range nodes {
		out[node.ID] = geom.Rect{X: x, Y: y, W: nodeW, H: heights[i]}
		y += heights[i] + gap
	}
	return out
}

func sum(vs []float64) float64 {
	var t float64
	for _, v := range vs {
		t += v
	}
	return t
}
