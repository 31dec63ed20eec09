package geom

import "math"

// PathLength returns the total Euclidean length of a polyline.
func PathLength(waypoints []Point) float64 {
	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		total += Dist(waypoints[i], waypoints[i+1])
	}
	return total
}

// PointAt returns the position at fraction t of a polyline's arc length.
//
// t is clamped to [0, 1]. A degenerate path (fewer than two waypoints or
// near-zero total length) returns the first waypoint; floating-point
// accumulation past the end returns the last. The path may come from
// Manhattan routing or a sampled bezier curve, both are handled the same.
func PointAt(waypoints []Point, t float64) Point {
	if len(waypoints) == 0 {
		return Point{}
	}
	if len(waypoints) < 2 {
		return waypoints[0]
	}

	t = Clamp(t, 0, 1)

	segments := make([]float64, len(waypoints)-1)
	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		segments[i] = Dist(waypoints[i], waypoints[i+1])
		total += segments[i]
	}

	if total < 1e-6 {
		return waypoints[0]
	}

	target := t * total
	var accumulated float64
	for i, segLen := range segments {
		if accumulated+segLen >= target {
			if segLen < 1e-6 {
				return waypoints[i]
			}
			local := (target - accumulated) / segLen
			return Lerp(waypoints[i], waypoints[i+1], local)
		}
		accumulated += segLen
	}

	return waypoints[len(waypoints)-1]
}

// SampleQuadBezier samples n+1 evenly-parameterized points along the
// quadratic bezier curve p0 → ctrl → p2, including both endpoints.
func SampleQuadBezier(p0, ctrl, p2 Point, n int) []Point {
	n = max(n, 1)
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		inv := 1 - t
		pts = append(pts, Point{
			X: inv*inv*p0.X + 2*inv*t*ctrl.X + t*t*p2.X,
			Y: inv*inv*p0.Y + 2*inv*t*ctrl.Y + t*t*p2.Y,
		})
	}
	return pts
}

// BezierControl returns the control point for a quadratic curve between
// start and end: the chord midpoint offset perpendicular to the chord by
// curvature × chord length. flip mirrors the curve to the other side,
// which alternates the bend direction among parallel edges.
func BezierControl(start, end Point, curvature float64, flip bool) Point {
	dx := end.X - start.X
	dy := end.Y - start.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return start
	}

	offset := dist * curvature
	if flip {
		offset = -offset
	}

	// Perpendicular unit vector to the chord.
	nx, ny := -dy/dist, dx/dist
	return Point{
		X: (start.X+end.X)/2 + nx*offset,
		Y: (start.Y+end.Y)/2 + ny*offset,
	}
}

// Angle returns the direction angle in radians of the vector from a to b.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}
