package layout

import (
	"sort"

	"github.com/mhaertel/inkboard/pkg/geom"
)

const (
	overlapMaxIters = 50
	overlapEdge     = 10 // minimum clearance from the bounds edges
)

// Resolve pushes overlapping rectangles apart in place. Pairs are visited
// in sorted-ID order so the result is deterministic. Each colliding pair
// is separated along the axis with the smaller overlap, both rectangles
// moving half the distance, and every move is clamped to stay inside
// bounds. Iteration stops when a full pass moves nothing or after the
// iteration cap; a still-overlapping result at the cap is accepted, since
// a readable near-layout beats an infinite loop.
//
// Running Resolve on an already-separated set is a no-op.
func Resolve(rects map[string]geom.Rect, bounds geom.Rect, pad float64) {
	ids := make([]string, 0, len(rects))
	for id := range rects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if len(ids) < 2 {
		return
	}

	for iter := 0; iter < overlapMaxIters; iter++ {
		moved := false

		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				a := rects[ids[i]]
				b := rects[ids[j]]
				if !a.Intersects(b, pad) {
					continue
				}

				overlapX := minf(a.MaxX(), b.MaxX()) - maxf(a.X, b.X) + pad
				overlapY := minf(a.MaxY(), b.MaxY()) - maxf(a.Y, b.Y) + pad

				if overlapX < overlapY {
					shift := overlapX/2 + 1
					if a.Center().X <= b.Center().X {
						a.X -= shift
						b.X += shift
					} else {
						a.X += shift
						b.X -= shift
					}
				} else {
					shift := overlapY/2 + 1
					if a.Center().Y <= b.Center().Y {
						a.Y -= shift
						b.Y += shift
					} else {
						a.Y += shift
						b.Y -= shift
					}
				}

				a = clampRect(a, bounds)
				b = clampRect(b, bounds)
				rects[ids[i]] = a
				rects[ids[j]] = b
				moved = true
			}
		}

		if !moved {
			return
		}
	}
}

func clampRect(r, bounds geom.Rect) geom.Rect {
	r.X = clamp(r.X, bounds.X+overlapEdge, bounds.MaxX()-overlapEdge-r.W)
	r.Y = clamp(r.Y, bounds.Y+overlapEdge, bounds.MaxY()-overlapEdge-r.H)
	return r
}
