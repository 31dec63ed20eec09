package layout

import (
	"math"

	"github.com/mhaertel/inkboard/pkg/geom"
	"github.com/mhaertel/inkboard/pkg/scene"
	"github.com/mhaertel/inkboard/pkg/text"
)

// Grid layout tuning.
const (
	gridSideMargin   = 40
	gridBottomMargin = 40
	gridColGap       = 30
	gridRowSpace     = 70 // vertical room between rows, shared with arrows
	gridRowSpaceCap  = 40 // row space ceiling after scale-down
	gridMinRowH      = 60 // floor when rows are squeezed to fit
	gridMinCardH     = 90
	gridMaxCardH     = 220
)

// GridCols picks the default column count for n nodes: wide scenes get
// three columns, small ones stay compact.
func GridCols(n int) int {
	switch {
	case n > 4:
		return 3
	case n > 2:
		return 2
	default:
		return 1
	}
}

// Grid arranges nodes left-to-right, top-to-bottom in a column grid within
// canvasW x canvasH, below headerH. Row heights are content-aware (the
// tallest card in each row sets the row); when the stack outgrows the
// canvas, rows are scaled down proportionally with a floor so text stays
// legible. The last partial row is centered.
func Grid(sh *text.Shaper, nodes []scene.Node, canvasW, canvasH, headerH float64, cols int, style MeasureStyle) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(nodes))
	n := len(nodes)
	if n == 0 {
		return out
	}
	if cols < 1 {
		cols = GridCols(n)
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols

	usableW := canvasW - 2*gridSideMargin
	cardW := (usableW - float64(cols-1)*gridColGap) / float64(cols)

	heights := MeasureHeights(sh, nodes, cardW, style, gridMinCardH, gridMaxCardH)
	rowH := make([]float64, rows)
	for i, h := range heights {
		r := i / cols
		rowH[r] = maxf(rowH[r], h)
	}

	rowSpace := float64(gridRowSpace)
	total := float64(rows-1) * rowSpace
	for _, h := range rowH {
		total += h
	}

	availH := canvasH - headerH - gridBottomMargin
	if total > availH && total > 0 {
		scale := availH / total
		for r := range rowH {
			rowH[r] = maxf(gridMinRowH, rowH[r]*scale)
		}
		rowSpace = minf(gridRowSpaceCap, rowSpace*scale)
		total = float64(rows-1) * rowSpace
		for _, h := range rowH {
			total += h
		}
	}
	if total > availH {
		// Row floors alone overflow: divide what is there evenly.
		rowSpace = 10
		per := (availH - float64(rows-1)*rowSpace) / float64(rows)
		for r := range rowH {
			rowH[r] = maxf(24, per)
		}
		total = float64(rows-1)*rowSpace + sum(rowH)
	}

	leftover := maxf(0, availH-total)
	y := headerH + math.Min(leftover/8, 15)

	for r := 0; r < rows; r++ {
		inRow := cols
		if r == rows-1 {
			inRow = n - r*cols
		}
		rowW := float64(inRow)*cardW + float64(inRow-1)*gridColGap
		x := gridSideMargin + (usableW-rowW)/2

		for c := 0; c < inRow; c++ {
			node := nodes[r*cols+c]
			out[node.ID] = geom.Rect{X: x, Y: y, W: cardW, H: rowH[r]}
			x += cardW + gridColGap
		}
		y += rowH[r] + rowSpace
	}
	return out
}
