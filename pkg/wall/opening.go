package wall

import (
	"math"

	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// OpeningRect maps an opening onto a wall panel's local (u,z) rectangle.
// The opening center projects onto the wall parametrization (clamped); an
// id-anchored opening without a center lands at the wall midpoint. Both axes
// are clamped into the panel, and a rectangle left degenerate by clamping is
// discarded (ok == false).
func OpeningRect(o plan.Opening, seg Segment, wallLength, wallHeight float64) (Rect, bool) {
	var uCenter float64
	if o.Center != nil {
		t := geom.ProjectParam(*o.Center, seg.Start, seg.End)
		uCenter = t * wallLength
	} else {
		uCenter = wallLength / 2
	}

	if o.Width <= 0 || o.Height <= 0 {
		return Rect{}, false
	}

	r := Rect{
		U0: clamp(uCenter-o.Width/2, 0, wallLength),
		U1: clamp(uCenter+o.Width/2, 0, wallLength),
		Z0: clamp(o.Bottom, 0, wallHeight),
		Z1: clamp(o.Bottom+o.Height, 0, wallHeight),
	}
	if r.Width() <= extentEps || r.Height() <= extentEps {
		return Rect{}, false
	}
	return r, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
