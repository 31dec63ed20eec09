package layout

import (
	"math"

	"github.com/mhaertel/inkboard/pkg/geom"
)

// Radial layout tuning.
const (
	radialMargin  = 30
	radialCenterW = 200
	radialCenterH = 120
)

// Radial places the center node in the middle of the area below headerH
// and distributes the outer nodes evenly on a ring around it, starting at
// twelve o'clock and proceeding clockwise. Ring radius and outer card size
// shrink as the ring gets crowded. Positions are clamped so every card
// stays inside the canvas.
func Radial(centerID string, outerIDs []string, canvasW, canvasH, headerH float64) map[string]geom.Rect {
	out := make(map[string]geom.Rect, len(outerIDs)+1)
	if centerID == "" {
		return out
	}

	cx := canvasW / 2
	cy := headerH + (canvasH-headerH)/2
	out[centerID] = geom.Rect{X: cx - radialCenterW/2, Y: cy - radialCenterH/2, W: radialCenterW, H: radialCenterH}

	n := len(outerIDs)
	if n == 0 {
		return out
	}

	avail := minf(canvasW-2*radialMargin, canvasH-headerH-2*radialMargin)
	var radius, w, h float64
	switch {
	case n <= 4:
		radius, w, h = avail/3, 220, 130
	case n <= 6:
		radius, w, h = avail*0.38, 200, 120
	default:
		radius, w, h = avail*0.42, 185, 110
	}
	// The ring must clear the center card.
	radius = maxf(radius, radialCenterH/2+h/2+20)

	for i, id := range outerIDs {
		angle := -math.Pi/2 + float64(i)*2*math.Pi/float64(n)
		x := cx + radius*math.Cos(angle) - w/2
		y := cy + radius*math.Sin(angle) - h/2

		x = clamp(x, radialMargin, canvasW-radialMargin-w)
		y = clamp(y, headerH+10, canvasH-radialMargin-h)
		out[id] = geom.Rect{X: x, Y: y, W: w, H: h}
	}
	return out
}
