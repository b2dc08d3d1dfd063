package wall

// extentEps is the minimum rectangle extent kept after clamping and
// splitting; anything thinner is treated as degenerate.
const extentEps = 1e-9

// Rect is an axis-aligned rectangle in a wall panel's local coordinates:
// u runs along the wall, z up from the floor.
type Rect struct {
	U0, U1 float64
	Z0, Z1 float64
}

// Width returns the extent along the wall.
func (r Rect) Width() float64 { return r.U1 - r.U0 }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Z1 - r.Z0 }

// Area returns the rectangle area.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// intersect returns the overlap of a and b, and whether it has positive
// extent in both axes.
func intersect(a, b Rect) (Rect, bool) {
	i := Rect{
		U0: max(a.U0, b.U0),
		U1: min(a.U1, b.U1),
		Z0: max(a.Z0, b.Z0),
		Z1: min(a.Z1, b.Z1),
	}
	if i.Width() <= extentEps || i.Height() <= extentEps {
		return Rect{}, false
	}
	return i, true
}

// SubtractRects returns disjoint rectangles whose union equals base minus
// the union of cutters. Each cutter splits any overlapping remainder into up
// to four pieces: left and right strips spanning the full vertical extent,
// and bottom/top bands within the intersection's horizontal band. The
// covered area is independent of cutter order; the decomposition itself is
// not guaranteed minimal.
func SubtractRects(base Rect, cutters []Rect) []Rect {
	remaining := []Rect{base}

	for _, cutter := range cutters {
		next := remaining[:0:0]
		for _, r := range remaining {
			overlap, ok := intersect(r, cutter)
			if !ok {
				next = append(next, r)
				continue
			}

			if overlap.U0 > r.U0+extentEps {
				next = append(next, Rect{U0: r.U0, U1: overlap.U0, Z0: r.Z0, Z1: r.Z1})
			}
			if overlap.U1 < r.U1-extentEps {
				next = append(next, Rect{U0: overlap.U1, U1: r.U1, Z0: r.Z0, Z1: r.Z1})
			}
			if overlap.Z0 > r.Z0+extentEps {
				next = append(next, Rect{U0: overlap.U0, U1: overlap.U1, Z0: r.Z0, Z1: overlap.Z0})
			}
			if overlap.Z1 < r.Z1-extentEps {
				next = append(next, Rect{U0: overlap.U0, U1: overlap.U1, Z0: overlap.Z1, Z1: r.Z1})
			}
		}
		remaining = next
		if len(remaining) == 0 {
			break
		}
	}

	return remaining
}
