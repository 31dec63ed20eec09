package geom

// RouteDirection selects the leg order of a Manhattan route.
type RouteDirection int

const (
	// RouteAuto picks the leg order from the dominant displacement axis.
	RouteAuto RouteDirection = iota
	// RouteVerticalFirst goes vertical, then horizontal.
	RouteVerticalFirst
	// RouteHorizontalFirst goes horizontal, then vertical.
	RouteHorizontalFirst
)

// alignTolerance is the displacement below which two points are treated as
// axis-aligned and routed with a straight segment instead of an elbow.
const alignTolerance = 3

// ManhattanRoute builds an orthogonal waypoint path from start to end.
//
// Near-aligned points collapse to a straight 2-point path. Otherwise the
// route is a 4-point elbow through the midpoint of the first leg's axis;
// with RouteAuto the vertical-first variant is chosen when the vertical
// displacement dominates (dy > dx/2).
func ManhattanRoute(start, end Point, dir RouteDirection) []Point {
	dx := end.X - start.X
	dy := end.Y - start.Y
	adx, ady := abs(dx), abs(dy)

	if adx < alignTolerance {
		return []Point{start, {X: start.X, Y: end.Y}}
	}
	if ady < alignTolerance {
		return []Point{start, {X: end.X, Y: start.Y}}
	}

	if dir == RouteAuto {
		if ady > adx*0.5 {
			dir = RouteVerticalFirst
		} else {
			dir = RouteHorizontalFirst
		}
	}

	if dir == RouteVerticalFirst {
		midY := (start.Y + end.Y) / 2
		return []Point{
			start,
			{X: start.X, Y: midY},
			{X: end.X, Y: midY},
			end,
		}
	}

	midX := (start.X + end.X) / 2
	return []Point{
		start,
		{X: midX, Y: start.Y},
		{X: midX, Y: end.Y},
		end,
	}
}

// SimplifyRoute drops consecutive duplicate waypoints.
func SimplifyRoute(points []Point) []Point {
	if len(points) == 0 {
		return points
	}
	clean := []Point{points[0]}
	for _, p := range points[1:] {
		if p != clean[len(clean)-1] {
			clean = append(clean, p)
		}
	}
	return clean
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
