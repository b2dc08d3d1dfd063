package wall

import (
	"math"
	"testing"

	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/mesh"
	"github.com/twinforge/twinmesh/pkg/plan"
)

var square = []geom.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}

func TestBuildSegmentsFromRing(t *testing.T) {
	segments := BuildSegments(square, nil)
	if len(segments) != 4 {
		t.Fatalf("got %d segments, want 4", len(segments))
	}
	if segments[0].ID != "edge_0" || segments[3].ID != "edge_3" {
		t.Fatalf("unexpected edge ids: %q, %q", segments[0].ID, segments[3].ID)
	}
	// Last segment wraps back to the first vertex.
	if segments[3].Start != square[3] || segments[3].End != square[0] {
		t.Fatalf("edge_3 = %v -> %v, want wrap to first vertex", segments[3].Start, segments[3].End)
	}
}

func TestBuildSegmentsOverride(t *testing.T) {
	override := []plan.WallSegment{
		{ID: "north", Start: geom.Point2D{X: 0, Y: 4}, End: geom.Point2D{X: 4, Y: 4}},
		{Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 4, Y: 0}},
	}
	segments := BuildSegments(square, override)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].ID != "north" || segments[1].ID != "" {
		t.Fatalf("override ids not kept verbatim: %q, %q", segments[0].ID, segments[1].ID)
	}
}

func TestAssignOpeningsByID(t *testing.T) {
	segments := BuildSegments(square, nil)
	// Center sits on edge_0 but the id anchors the opening to edge_2.
	center := geom.Point2D{X: 2, Y: 0}
	openings := []plan.Opening{
		{ID: "door_1", Kind: plan.OpeningDoor, WallID: "edge_2", Center: &center, Width: 0.9, Height: 2},
	}
	assigned := AssignOpenings(segments, openings)
	if len(assigned[2]) != 1 {
		t.Fatalf("id-anchored opening not on edge_2: %v", assigned)
	}
	if len(assigned[0]) != 0 {
		t.Fatalf("opening also assigned by distance: %v", assigned)
	}
}

func TestAssignOpeningsByDistance(t *testing.T) {
	segments := BuildSegments(square, nil)
	center := geom.Point2D{X: 2, Y: 0.3}
	openings := []plan.Opening{
		{ID: "win_1", Kind: plan.OpeningWindow, Center: &center, Width: 1, Height: 1, Bottom: 1},
	}
	assigned := AssignOpenings(segments, openings)
	if len(assigned[0]) != 1 {
		t.Fatalf("opening not assigned to nearest segment: %v", assigned)
	}
}

func TestAssignOpeningsTieBreak(t *testing.T) {
	segments := BuildSegments(square, nil)
	// The exact center is equidistant from all four edges; the first
	// segment in iteration order must win, deterministically.
	center := geom.Point2D{X: 2, Y: 2}
	openings := []plan.Opening{
		{ID: "win_1", Kind: plan.OpeningWindow, Center: &center, Width: 1, Height: 1},
	}
	for run := 0; run < 20; run++ {
		assigned := AssignOpenings(segments, openings)
		if len(assigned[0]) != 1 {
			t.Fatalf("run %d: tie not broken toward first segment: %v", run, assigned)
		}
	}
}

func TestAssignOpeningsUnplacedDropped(t *testing.T) {
	segments := BuildSegments(square, nil)
	openings := []plan.Opening{
		{ID: "ghost", Kind: plan.OpeningDoor, WallID: "no_such_wall", Width: 1, Height: 2},
	}
	assigned := AssignOpenings(segments, openings)
	for idx, list := range assigned {
		if len(list) > 0 {
			t.Fatalf("unplaceable opening assigned to segment %d", idx)
		}
	}
}

func TestOpeningRect(t *testing.T) {
	seg := Segment{ID: "edge_0", Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 4, Y: 0}}

	center := geom.Point2D{X: 2, Y: 0}
	o := plan.Opening{ID: "door_1", Kind: plan.OpeningDoor, Center: &center, Width: 0.9, Height: 2}
	r, ok := OpeningRect(o, seg, 4, 2.8)
	if !ok {
		t.Fatal("expected a rectangle")
	}
	if math.Abs(r.U0-1.55) > 1e-9 || math.Abs(r.U1-2.45) > 1e-9 {
		t.Fatalf("u range [%v,%v], want [1.55,2.45]", r.U0, r.U1)
	}
	if r.Z0 != 0 || math.Abs(r.Z1-2) > 1e-9 {
		t.Fatalf("z range [%v,%v], want [0,2]", r.Z0, r.Z1)
	}
}

func TestOpeningRectClamped(t *testing.T) {
	seg := Segment{ID: "edge_0", Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 4, Y: 0}}

	// Center near the wall end: the rectangle clamps into the panel.
	center := geom.Point2D{X: 3.9, Y: 0}
	o := plan.Opening{ID: "win", Kind: plan.OpeningWindow, Center: &center, Width: 1, Height: 5, Bottom: 1}
	r, ok := OpeningRect(o, seg, 4, 2.8)
	if !ok {
		t.Fatal("expected a rectangle")
	}
	if r.U1 != 4 {
		t.Fatalf("U1 = %v, want clamped to 4", r.U1)
	}
	if r.Z1 != 2.8 {
		t.Fatalf("Z1 = %v, want clamped to 2.8", r.Z1)
	}

	// Fully outside the vertical extent: degenerate after clamping.
	o = plan.Opening{ID: "win2", Kind: plan.OpeningWindow, Center: &center, Width: 1, Height: 1, Bottom: 5}
	if _, ok := OpeningRect(o, seg, 4, 2.8); ok {
		t.Fatal("degenerate rectangle should be discarded")
	}
}

func TestOpeningRectIDAnchoredMidpoint(t *testing.T) {
	seg := Segment{ID: "edge_0", Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 4, Y: 0}}
	o := plan.Opening{ID: "door", Kind: plan.OpeningDoor, WallID: "edge_0", Width: 1, Height: 2}
	r, ok := OpeningRect(o, seg, 4, 2.8)
	if !ok {
		t.Fatal("expected a rectangle")
	}
	if math.Abs((r.U0+r.U1)/2-2) > 1e-9 {
		t.Fatalf("id-anchored opening not centered at wall midpoint: [%v,%v]", r.U0, r.U1)
	}
}

func totalArea(rects []Rect) float64 {
	sum := 0.0
	for _, r := range rects {
		sum += r.Area()
	}
	return sum
}

func rectsOverlap(a, b Rect) bool {
	_, ok := intersect(a, b)
	return ok
}

func TestSubtractRects(t *testing.T) {
	base := Rect{U0: 0, U1: 4, Z0: 0, Z1: 2.8}

	t.Run("cutter outside", func(t *testing.T) {
		out := SubtractRects(base, []Rect{{U0: 5, U1: 6, Z0: 0, Z1: 1}})
		if len(out) != 1 || out[0] != base {
			t.Fatalf("base should be unchanged: %v", out)
		}
	})

	t.Run("cutter equals base", func(t *testing.T) {
		out := SubtractRects(base, []Rect{base})
		if len(out) != 0 {
			t.Fatalf("expected empty result, got %v", out)
		}
	})

	t.Run("cutter centered inside", func(t *testing.T) {
		cutter := Rect{U0: 1.5, U1: 2.5, Z0: 1, Z1: 2}
		out := SubtractRects(base, []Rect{cutter})
		want := base.Area() - cutter.Area()
		if got := totalArea(out); math.Abs(got-want) > 1e-9 {
			t.Fatalf("remaining area = %v, want %v", got, want)
		}
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if rectsOverlap(out[i], out[j]) {
					t.Fatalf("result rectangles overlap: %v, %v", out[i], out[j])
				}
			}
		}
	})

	t.Run("two overlapping cutters", func(t *testing.T) {
		cutters := []Rect{
			{U0: 0.5, U1: 1.5, Z0: 0, Z1: 2},
			{U0: 1.0, U1: 2.0, Z0: 0, Z1: 2},
		}
		// Union of the cutters inside the base covers 1.5 x 2.
		want := base.Area() - 3.0
		out := SubtractRects(base, cutters)
		if got := totalArea(out); math.Abs(got-want) > 1e-9 {
			t.Fatalf("remaining area = %v, want %v", got, want)
		}
	})
}

// partArea sums triangle areas of a wall part in 3D.
func partArea(p *mesh.Part) float64 {
	total := 0.0
	for _, f := range p.Faces {
		a, b, c := p.Vertices[f[0]], p.Vertices[f[1]], p.Vertices[f[2]]
		ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
		vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
		cx := uy*vz - uz*vy
		cy := uz*vx - ux*vz
		cz := ux*vy - uy*vx
		total += math.Sqrt(cx*cx+cy*cy+cz*cz) / 2
	}
	return total
}

func TestMeshSegmentsDoorArea(t *testing.T) {
	// One 4m wall, 2.8m high, with a 0.9x2.0 door centered at u=2.
	override := []plan.WallSegment{
		{ID: "w1", Start: geom.Point2D{X: 0, Y: 0}, End: geom.Point2D{X: 4, Y: 0}},
	}
	center := geom.Point2D{X: 2, Y: 0}
	openings := []plan.Opening{
		{ID: "door_1", Kind: plan.OpeningDoor, Center: &center, Width: 0.9, Height: 2},
	}

	part := MeshSegments(square, 2.8, openings, override, mesh.WorldOffset{}, 0)
	want := 4*2.8 - 0.9*2.0
	if got := partArea(part); math.Abs(got-want) > 1e-9 {
		t.Fatalf("wall area = %v, want %v", got, want)
	}
}

func TestMeshSegmentsSkipsDegenerate(t *testing.T) {
	override := []plan.WallSegment{
		{ID: "point", Start: geom.Point2D{X: 1, Y: 1}, End: geom.Point2D{X: 1, Y: 1}},
	}
	part := MeshSegments(square, 2.8, nil, override, mesh.WorldOffset{}, 0)
	if !part.IsEmpty() {
		t.Fatalf("zero-length segment should emit nothing, got %d vertices", part.VertexCount())
	}
}

func TestMeshSegmentsFaceIndices(t *testing.T) {
	part := MeshSegments(square, 2.8, nil, nil, mesh.WorldOffset{X: 2, Y: 2}, 0)
	if part.FaceCount() != 8 {
		t.Fatalf("4 walls should emit 8 triangles, got %d", part.FaceCount())
	}
	for _, f := range part.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= part.VertexCount() {
				t.Fatalf("face index %d out of range [0,%d)", idx, part.VertexCount())
			}
		}
	}
}
