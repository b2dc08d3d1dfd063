package sdfcsg

import (
	"math"
	"testing"

	"github.com/twinforge/twinmesh/pkg/csg"
	"github.com/twinforge/twinmesh/pkg/geom"
	"github.com/twinforge/twinmesh/pkg/plan"
)

// testCarver uses a reduced marching cubes resolution to keep tests fast.
func testCarver() *Carver {
	return &Carver{Cells: 64}
}

func squareRequest() csg.Request {
	return csg.Request{
		Ring:          []geom.Point2D{{X: 0, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 3}, {X: 0, Y: 3}},
		WallHeight:    2.4,
		WallThickness: 0.2,
	}
}

func TestCarveWallsPlain(t *testing.T) {
	part, err := testCarver().CarveWalls(squareRequest())
	if err != nil {
		t.Fatalf("CarveWalls failed: %v", err)
	}
	if part.IsEmpty() {
		t.Fatal("carved walls are empty")
	}
	for _, f := range part.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= part.VertexCount() {
				t.Fatalf("face index %d out of range [0,%d)", idx, part.VertexCount())
			}
		}
	}
	// Cap faces are filtered, so every kept triangle is near-vertical.
	for _, f := range part.Faces {
		a, b, c := part.Vertices[f[0]], part.Vertices[f[1]], part.Vertices[f[2]]
		nz := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		ux, uy, uz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
		vx, vy, vz := c.X-a.X, c.Y-a.Y, c.Z-a.Z
		nx := uy*vz - uz*vy
		ny := uz*vx - ux*vz
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length == 0 {
			continue
		}
		if math.Abs(nz/length) >= verticalMax {
			t.Fatalf("non-vertical face kept: normal z fraction %v", nz/length)
		}
	}
}

func TestCarveWallsWithDoor(t *testing.T) {
	req := squareRequest()
	center := geom.Point2D{X: 1.5, Y: 0}
	req.Openings = []plan.Opening{
		{ID: "door_1", Kind: plan.OpeningDoor, Center: &center, Width: 0.9, Height: 2.0},
	}

	part, err := testCarver().CarveWalls(req)
	if err != nil {
		t.Fatalf("CarveWalls failed: %v", err)
	}
	if part.IsEmpty() {
		t.Fatal("carved walls are empty")
	}
}

func TestCarveWallsRejectsZeroThickness(t *testing.T) {
	req := squareRequest()
	req.WallThickness = 0
	if _, err := testCarver().CarveWalls(req); err == nil {
		t.Fatal("expected error for zero wall thickness")
	}
}

func TestCarveWallsRejectsDegenerateRing(t *testing.T) {
	req := squareRequest()
	req.Ring = req.Ring[:2]
	if _, err := testCarver().CarveWalls(req); err == nil {
		t.Fatal("expected error for a 2-point ring")
	}
}
