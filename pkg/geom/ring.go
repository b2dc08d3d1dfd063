package geom

import "math"

// collinearEps bounds the cross product under which three consecutive
// vertices are considered collinear.
const collinearEps = 1e-9

// CleanRing normalizes a raw polygon ring: consecutive duplicate points and
// a repeated closing point are removed, then collinear vertices are removed
// iteratively until the ring is stable or fewer than 3 points remain.
// The input slice is not modified. Callers must treat a result with fewer
// than 3 points as a malformed ring.
func CleanRing(ring []Point2D) []Point2D {
	if len(ring) < 3 {
		return append([]Point2D(nil), ring...)
	}

	cleaned := make([]Point2D, 0, len(ring))
	for _, p := range ring {
		if len(cleaned) == 0 || p != cleaned[len(cleaned)-1] {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) >= 2 && cleaned[0] == cleaned[len(cleaned)-1] {
		cleaned = cleaned[:len(cleaned)-1]
	}

	for i := 0; len(cleaned) >= 3 && i < len(cleaned); {
		prev := cleaned[(i+len(cleaned)-1)%len(cleaned)]
		curr := cleaned[i]
		next := cleaned[(i+1)%len(cleaned)]
		if math.Abs(Cross(curr, prev, next)) < collinearEps {
			cleaned = append(cleaned[:i], cleaned[i+1:]...)
			if i > 0 {
				i--
			}
			continue
		}
		i++
	}

	return cleaned
}

// Reverse flips the winding of the ring in place.
func Reverse(ring []Point2D) {
	for i, j := 0, len(ring)-1; i < j; i, j = i+1, j-1 {
		ring[i], ring[j] = ring[j], ring[i]
	}
}
