// Package geom provides the geometric primitives shared by the layout and
// rendering packages: points, axis-aligned rectangles, anchor selection,
// quadratic bezier sampling, and arc-length path interpolation.
//
// All coordinates are in canvas pixels with the origin at the top-left.
package geom

import "math"

// Point is a 2D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance from p to q.
func (p Point) Dist(q Point) float64 { return Dist(p, q) }

// Lerp linearly interpolates from p toward q at parameter t.
func (p Point) Lerp(q Point, t float64) Point { return Lerp(p, q, t) }

// Rect is an axis-aligned bounding box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Top returns the midpoint of the top edge.
func (r Rect) Top() Point { return Point{X: r.X + r.W/2, Y: r.Y} }

// Bottom returns the midpoint of the bottom edge.
func (r Rect) Bottom() Point { return Point{X: r.X + r.W/2, Y: r.Y + r.H} }

// Left returns the midpoint of the left edge.
func (r Rect) Left() Point { return Point{X: r.X, Y: r.Y + r.H/2} }

// Right returns the midpoint of the right edge.
func (r Rect) Right() Point { return Point{X: r.X + r.W, Y: r.Y + r.H/2} }

// MaxX returns the right coordinate of the rectangle.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom coordinate of the rectangle.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// EdgeToward returns the edge midpoint of r closest to the target point.
// The chosen edge is always axis-aligned (top/bottom/left/right), never a
// corner: the dominant axis of the displacement decides, ties go vertical.
func (r Rect) EdgeToward(target Point) Point {
	c := r.Center()
	dx := target.X - c.X
	dy := target.Y - c.Y

	if dx == 0 && dy == 0 {
		return c
	}

	if math.Abs(dy) >= math.Abs(dx) {
		if dy > 0 {
			return r.Bottom()
		}
		return r.Top()
	}
	if dx > 0 {
		return r.Right()
	}
	return r.Left()
}

// Inset returns r shrunk by d on every side. Negative d grows the rect.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Intersects reports whether r and other overlap when both are padded
// outward by pad on every side.
func (r Rect) Intersects(other Rect, pad float64) bool {
	return r.X-pad < other.MaxX()+pad &&
		r.MaxX()+pad > other.X-pad &&
		r.Y-pad < other.MaxY()+pad &&
		r.MaxY()+pad > other.Y-pad
}

// Contains reports whether p lies inside r (inclusive of the edges).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp linearly interpolates between a and b at parameter t.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}

// Clamp restricts v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
