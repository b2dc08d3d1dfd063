package geom

import (
	"encoding/json"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSignedArea(t *testing.T) {
	ccw := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if got := SignedArea(ccw); !almostEqual(got, 1.0) {
		t.Fatalf("CCW unit square area = %v, want 1.0", got)
	}

	cw := []Point2D{{0, 0}, {0, 1}, {1, 1}, {1, 0}}
	if got := SignedArea(cw); !almostEqual(got, -1.0) {
		t.Fatalf("CW unit square area = %v, want -1.0", got)
	}
}

func TestDistanceToSegment(t *testing.T) {
	a := Point2D{0, 0}
	b := Point2D{4, 0}

	cases := []struct {
		name string
		p    Point2D
		want float64
	}{
		{"above middle", Point2D{2, 3}, 3},
		{"on segment", Point2D{1, 0}, 0},
		{"beyond end", Point2D{7, 0}, 3},
		{"before start", Point2D{-3, 4}, 5},
	}
	for _, tc := range cases {
		if got := DistanceToSegment(tc.p, a, b); !almostEqual(got, tc.want) {
			t.Errorf("%s: distance = %v, want %v", tc.name, got, tc.want)
		}
	}

	// Degenerate segment degrades to point distance.
	if got := DistanceToSegment(Point2D{3, 4}, a, a); !almostEqual(got, 5) {
		t.Errorf("degenerate segment distance = %v, want 5", got)
	}
}

func TestProjectParam(t *testing.T) {
	a := Point2D{0, 0}
	b := Point2D{4, 0}

	if got := ProjectParam(Point2D{2, 5}, a, b); !almostEqual(got, 0.5) {
		t.Errorf("midpoint projection = %v, want 0.5", got)
	}
	if got := ProjectParam(Point2D{-2, 0}, a, b); got != 0 {
		t.Errorf("before start: t = %v, want 0 (clamped)", got)
	}
	if got := ProjectParam(Point2D{9, 0}, a, b); got != 1 {
		t.Errorf("beyond end: t = %v, want 1 (clamped)", got)
	}
	if got := ProjectParam(Point2D{1, 1}, a, a); got != 0 {
		t.Errorf("degenerate segment: t = %v, want 0", got)
	}
}

func TestCleanRing(t *testing.T) {
	// Repeated closing point and a consecutive duplicate.
	ring := []Point2D{{0, 0}, {1, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	got := CleanRing(ring)
	want := []Point2D{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("cleaned ring has %d points, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cleaned[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCleanRingCollinear(t *testing.T) {
	// Midpoints on every edge of a square must all be removed.
	ring := []Point2D{
		{0, 0}, {0.5, 0}, {1, 0}, {1, 0.5}, {1, 1}, {0.5, 1}, {0, 1}, {0, 0.5},
	}
	got := CleanRing(ring)
	if len(got) != 4 {
		t.Fatalf("collinear removal left %d points, want 4: %v", len(got), got)
	}
	if !almostEqual(SignedArea(got), 1.0) {
		t.Fatalf("cleaned area = %v, want 1.0", SignedArea(got))
	}
}

func TestCleanRingDegenerate(t *testing.T) {
	// All points on one line collapse below 3 survivors.
	ring := []Point2D{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if got := CleanRing(ring); len(got) >= 3 {
		t.Fatalf("collinear ring survived cleanup: %v", got)
	}
}

func TestPointTupleWireFormat(t *testing.T) {
	b, err := json.Marshal(Point3D{1, 2.5, 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[1,2.5,3]" {
		t.Fatalf("Point3D wire format = %s, want [1,2.5,3]", b)
	}

	var p Point2D
	if err := json.Unmarshal([]byte("[4,5]"), &p); err != nil {
		t.Fatal(err)
	}
	if p != (Point2D{4, 5}) {
		t.Fatalf("decoded %v, want {4 5}", p)
	}
}
