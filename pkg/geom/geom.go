package geom

import "math"

// degenerateSq is the squared-length threshold below which a segment is
// treated as a single point.
const degenerateSq = 1e-12

// SignedArea returns the signed area of a closed ring via the shoelace
// formula. Positive for counter-clockwise winding.
func SignedArea(ring []Point2D) float64 {
	area := 0.0
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2.0
}

// Cross returns the z component of (a-o) x (b-o).
func Cross(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// DistanceToSegment returns the distance from p to the segment ab.
// A degenerate segment degrades to point distance.
func DistanceToSegment(p, a, b Point2D) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	denom := abx*abx + aby*aby
	if denom <= degenerateSq {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / denom
	t = math.Max(0, math.Min(1, t))
	cx := a.X + t*abx
	cy := a.Y + t*aby
	return math.Hypot(p.X-cx, p.Y-cy)
}

// ProjectParam returns the parameter t, clamped to [0,1], such that
// a + t*(b-a) is the closest point on segment ab to p. Returns 0 for a
// degenerate segment.
func ProjectParam(p, a, b Point2D) float64 {
	abx := b.X - a.X
	aby := b.Y - a.Y
	denom := abx*abx + aby*aby
	if denom <= degenerateSq {
		return 0
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / denom
	return math.Max(0, math.Min(1, t))
}
