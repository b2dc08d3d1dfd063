// Package triangulate implements ear-clipping triangulation for simple
// polygons without holes.
package triangulate

import (
	"errors"

	"github.com/twinforge/twinmesh/pkg/geom"
)

// ErrNotSimple is returned when the ear search stalls before the polygon is
// fully covered, which happens for self-intersecting or otherwise
// non-simple rings.
var ErrNotSimple = errors.New("triangulate: no ear found (polygon is non-simple or degenerate)")

// convexEps bounds the signed turn below which a vertex is not treated as
// convex, and the inclusive tolerance of the point-in-triangle test.
const convexEps = 1e-12

// EarClip triangulates a simple CCW ring of n >= 3 vertices into exactly
// n-2 index triples into the ring, covering the polygon without gaps or
// overlaps. The caller must pass a cleaned CCW ring; a CW ring has to be
// reversed first. The working set is an index slice over the input, so the
// ring itself is never mutated.
func EarClip(ring []geom.Point2D) ([][3]int, error) {
	n := len(ring)
	if n < 3 {
		return nil, errors.New("triangulate: ring needs at least 3 vertices")
	}

	work := make([]int, n)
	for i := range work {
		work[i] = i
	}

	triangles := make([][3]int, 0, n-2)

	// Each successful clip removes a vertex, so n*n bounds the total ear
	// searches even on slivery input.
	for guard := 0; len(work) > 3 && guard < n*n; guard++ {
		clipped := false

		for pos := 0; pos < len(work); pos++ {
			prev := work[(pos+len(work)-1)%len(work)]
			curr := work[pos]
			next := work[(pos+1)%len(work)]

			// Convex corner of a CCW ring turns left.
			if geom.Cross(ring[prev], ring[curr], ring[next]) <= convexEps {
				continue
			}

			if containsOther(ring, work, prev, curr, next) {
				continue
			}

			triangles = append(triangles, [3]int{prev, curr, next})
			work = append(work[:pos], work[pos+1:]...)
			clipped = true
			break
		}

		if !clipped {
			return nil, ErrNotSimple
		}
	}

	if len(work) != 3 {
		return nil, ErrNotSimple
	}
	triangles = append(triangles, [3]int{work[0], work[1], work[2]})

	return triangles, nil
}

// containsOther reports whether any remaining vertex other than the ear's
// corners lies inside (or on) the candidate triangle.
func containsOther(ring []geom.Point2D, work []int, a, b, c int) bool {
	pa, pb, pc := ring[a], ring[b], ring[c]
	for _, idx := range work {
		if idx == a || idx == b || idx == c {
			continue
		}
		if inTriangle(ring[idx], pa, pb, pc) {
			return true
		}
	}
	return false
}

// inTriangle is an inclusive orientation test for a CCW triangle.
func inTriangle(p, a, b, c geom.Point2D) bool {
	return geom.Cross(a, b, p) >= -convexEps &&
		geom.Cross(b, c, p) >= -convexEps &&
		geom.Cross(c, a, p) >= -convexEps
}
