package worldmodel

import "math"

// Point is a real-valued world coordinate.
type Point struct {
	X, Y float64
}

func (p Point) sub(o Point) Point { return Point{p.X - o.X, p.Y - o.Y} }

func (p Point) dist(o Point) float64 {
	d := p.sub(o)
	return math.Hypot(d.X, d.Y)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// GetViaPointBetween produces the L-shaped bend point for an edge from a to
// b: a 45-degree diagonal leg followed by an axis-aligned tail. dx/dy are
// the deltas from a to b; the shorter axis determines the diagonal's length.
func GetViaPointBetween(a, b Point) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if math.Abs(dx) < math.Abs(dy) {
		return Point{a.X + dx, a.Y + math.Abs(dx)*sign(dy)}
	}
	return Point{a.X + math.Abs(dy)*sign(dx), a.Y + dy}
}
