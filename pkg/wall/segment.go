// Package wall decomposes room outlines into wall panels, assigns openings
// to panels, cuts opening rectangles out of them, and emits the resulting
// wall quads as triangle geometry.
package wall

import (
	"fmt"

	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// Segment is one wall panel in plan view, before openings are cut.
type Segment struct {
	ID    string
	Start geom.Point2D
	End   geom.Point2D
}

// BuildSegments returns the wall segments for a room. Explicit overrides are
// used verbatim, ids included. Otherwise one segment is synthesized per
// consecutive ring edge, ids "edge_0".."edge_{n-1}", wrapping last to first.
func BuildSegments(ring []geom.Point2D, override []plan.WallSegment) []Segment {
	if len(override) > 0 {
		segments := make([]Segment, 0, len(override))
		for _, w := range override {
			segments = append(segments, Segment{ID: w.ID, Start: w.Start, End: w.End})
		}
		return segments
	}

	n := len(ring)
	segments := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		segments = append(segments, Segment{
			ID:    fmt.Sprintf("edge_%d", i),
			Start: ring[i],
			End:   ring[(i+1)%n],
		})
	}
	return segments
}

// AssignOpenings resolves each opening to exactly one segment index: an
// exact wall-id match wins, otherwise the segment nearest to the opening's
// center, ties broken by the first segment encountered. Openings with
// neither a resolvable id nor a center are dropped without error.
func AssignOpenings(segments []Segment, openings []plan.Opening) map[int][]plan.Opening {
	assigned := make(map[int][]plan.Opening)
	if len(segments) == 0 || len(openings) == 0 {
		return assigned
	}

	idToIndex := make(map[string]int, len(segments))
	for i, s := range segments {
		if s.ID != "" {
			if _, ok := idToIndex[s.ID]; !ok {
				idToIndex[s.ID] = i
			}
		}
	}

	for _, o := range openings {
		if o.WallID != "" {
			if idx, ok := idToIndex[o.WallID]; ok {
				assigned[idx] = append(assigned[idx], o)
				continue
			}
		}

		if o.Center == nil {
			continue
		}

		best := -1
		bestDist := 0.0
		for i, s := range segments {
			d := geom.DistanceToSegment(*o.Center, s.Start, s.End)
			if best < 0 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if best >= 0 {
			assigned[best] = append(assigned[best], o)
		}
	}

	return assigned
}
