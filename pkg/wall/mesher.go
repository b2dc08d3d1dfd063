package wall

import (
	"math"

	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// MeshSegments builds the zero-thickness wall shell for one room: every wall
// panel minus its opening rectangles, as two CCW triangles per surviving
// rectangle. Winding is reversed from a naive outward quad so faces point
// into a CCW room and render from inside. Near-zero-length segments are
// skipped. baseZ is the room floor height after world-offset correction.
func MeshSegments(ring []geom.Point2D, wallHeight float64, openings []plan.Opening, override []plan.WallSegment, offset mesh.WorldOffset, baseZ float64) *mesh.Part {
	segments := BuildSegments(ring, override)
	assigned := AssignOpenings(segments, openings)

	part := &mesh.Part{}

	for i, seg := range segments {
		length := math.Hypot(seg.End.X-seg.Start.X, seg.End.Y-seg.Start.Y)
		if length <= extentEps {
			continue
		}
		dirX := (seg.End.X - seg.Start.X) / length
		dirY := (seg.End.Y - seg.Start.Y) / length

		var cutters []Rect
		for _, o := range assigned[i] {
			if r, ok := OpeningRect(o, seg, length, wallHeight); ok {
				cutters = append(cutters, r)
			}
		}

		remaining := SubtractRects(Rect{U0: 0, U1: length, Z0: 0, Z1: wallHeight}, cutters)

		toWorld := func(u, z float64) geom.Point3D {
			return geom.Point3D{
				X: seg.Start.X + dirX*u - offset.X,
				Y: seg.Start.Y + dirY*u - offset.Y,
				Z: baseZ + z,
			}
		}

		for _, r := range remaining {
			if r.Width() <= extentEps || r.Height() <= extentEps {
				continue
			}

			base := len(part.Vertices)
			part.Vertices = append(part.Vertices,
				toWorld(r.U0, r.Z0),
				toWorld(r.U1, r.Z0),
				toWorld(r.U1, r.Z1),
				toWorld(r.U0, r.Z1),
			)
			part.Faces = append(part.Faces,
				[3]int{base + 0, base + 2, base + 1},
				[3]int{base + 0, base + 3, base + 2},
			)
		}
	}

	return part
}
