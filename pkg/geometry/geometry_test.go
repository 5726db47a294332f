package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRect_AreaAndBounds(t *testing.T) {
	r := Rect(0, 0, 10, 4)

	if got := r.Area(); !almostEqual(got, 40, 1e-9) {
		t.Errorf("Area() = %g, want 40", got)
	}
	b := r.BoundingBox()
	if b.Min.X != 0 || b.Min.Y != 0 || b.Max.X != 10 || b.Max.Y != 4 {
		t.Errorf("BoundingBox() = %+v, want [0,0]-[10,4]", b)
	}
}

func TestRect_SwappedCorners(t *testing.T) {
	r := Rect(10, 4, 0, 0)
	if got := r.Area(); !almostEqual(got, 40, 1e-9) {
		t.Errorf("Area() = %g, want 40", got)
	}
}

func TestRect_Degenerate(t *testing.T) {
	if r := Rect(0, 0, 0, 5); !r.IsEmpty() {
		t.Error("zero-width Rect should be empty")
	}
	if r := Rect(0, 0, 5, 0); !r.IsEmpty() {
		t.Error("zero-height Rect should be empty")
	}
}

func TestNewRegion_ValidTriangle(t *testing.T) {
	r, err := NewRegion(Contour{{0, 0}, {4, 0}, {0, 3}})
	if err != nil {
		t.Fatalf("NewRegion error: %v", err)
	}
	if got := r.Area(); !almostEqual(got, 6, 1e-9) {
		t.Errorf("Area() = %g, want 6", got)
	}
}

func TestNewRegion_ClosedRing(t *testing.T) {
	// An explicitly closed ring must be accepted: the duplicate closing
	// vertex is dropped before validation.
	r, err := NewRegion(Contour{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}})
	if err != nil {
		t.Fatalf("NewRegion error: %v", err)
	}
	if got := r.Area(); !almostEqual(got, 16, 1e-9) {
		t.Errorf("Area() = %g, want 16", got)
	}
}

func TestNewRegion_ClockwiseNormalized(t *testing.T) {
	r, err := NewRegion(Contour{{0, 0}, {0, 4}, {4, 4}, {4, 0}})
	if err != nil {
		t.Fatalf("NewRegion error: %v", err)
	}
	if got := r.Area(); !almostEqual(got, 16, 1e-9) {
		t.Errorf("Area() = %g, want 16", got)
	}
}

func TestNewRegion_Invalid(t *testing.T) {
	cases := []struct {
		name string
		ring Contour
	}{
		{"too few vertices", Contour{{0, 0}, {1, 1}}},
		{"repeated vertex only", Contour{{1, 1}, {1, 1}, {1, 1}}},
		{"zero area", Contour{{0, 0}, {5, 0}, {10, 0}}},
		{"self intersecting bowtie", Contour{{0, 0}, {10, 10}, {10, 0}, {0, 10}}},
		{"nan coordinate", Contour{{0, 0}, {math.NaN(), 0}, {1, 1}}},
		{"infinite coordinate", Contour{{0, 0}, {math.Inf(1), 0}, {1, 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewRegion(tc.ring); err == nil {
				t.Errorf("NewRegion(%v) succeeded, want error", tc.ring)
			}
		})
	}
}

func TestUnion_DisjointAndOverlapping(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(20, 0, 30, 10)
	if got := a.Union(b).Area(); !almostEqual(got, 200, 1e-9) {
		t.Errorf("disjoint union area = %g, want 200", got)
	}

	c := Rect(5, 0, 15, 10)
	if got := a.Union(c).Area(); !almostEqual(got, 150, 1e-9) {
		t.Errorf("overlapping union area = %g, want 150", got)
	}
}

func TestUnion_EmptyOperands(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	if got := a.Union(Empty).Area(); !almostEqual(got, 100, 1e-9) {
		t.Errorf("a ∪ ∅ area = %g, want 100", got)
	}
	if got := Empty.Union(a).Area(); !almostEqual(got, 100, 1e-9) {
		t.Errorf("∅ ∪ a area = %g, want 100", got)
	}
	if !Empty.Union(Empty).IsEmpty() {
		t.Error("∅ ∪ ∅ should be empty")
	}
}

func TestUnion_ClosedFrameHole(t *testing.T) {
	// Four rectangles forming a closed frame: the union encloses a hole
	// the clipper reports as a second ring. The net area must not depend
	// on the winding the clipper happened to emit.
	frame := Rect(0, 6, 8, 8).
		Union(Rect(0, 0, 8, 2)).
		Union(Rect(0, 2, 2, 6)).
		Union(Rect(6, 2, 8, 6))

	if got := frame.Area(); !almostEqual(got, 48, 1e-9) {
		t.Errorf("frame area = %g, want 48", got)
	}
}

func TestDifference(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(0, 0, 10, 5)
	if got := a.Difference(b).Area(); !almostEqual(got, 50, 1e-9) {
		t.Errorf("difference area = %g, want 50", got)
	}
	if got := a.Difference(Empty).Area(); !almostEqual(got, 100, 1e-9) {
		t.Errorf("a − ∅ area = %g, want 100", got)
	}
	if !Empty.Difference(a).IsEmpty() {
		t.Error("∅ − a should be empty")
	}
}

func TestDifference_Hole(t *testing.T) {
	outer := Rect(0, 0, 10, 10)
	inner := Rect(4, 4, 6, 6)
	holed := outer.Difference(inner)

	if got := holed.Area(); !almostEqual(got, 96, 1e-9) {
		t.Errorf("holed area = %g, want 96", got)
	}
	if got := holed.NumContours(); got != 2 {
		t.Errorf("NumContours() = %d, want 2", got)
	}
}

func TestDifference_HoleWinding(t *testing.T) {
	holed := Rect(0, 0, 10, 10).Difference(Rect(4, 4, 6, 6))

	contours := holed.Contours()
	if len(contours) != 2 {
		t.Fatalf("NumContours() = %d, want 2", len(contours))
	}
	s0, s1 := signedArea(contours[0]), signedArea(contours[1])
	if s0*s1 >= 0 {
		t.Errorf("hole ring must wind opposite to its outer ring, got signed areas %g and %g", s0, s1)
	}
}

func TestIntersection(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(5, 5, 15, 15)
	if got := a.Intersection(b).Area(); !almostEqual(got, 25, 1e-9) {
		t.Errorf("intersection area = %g, want 25", got)
	}
	if !a.Intersection(Empty).IsEmpty() {
		t.Error("a ∩ ∅ should be empty")
	}
}

func TestSimilar(t *testing.T) {
	a := Rect(0, 0, 10, 10)
	b := Rect(0, 0, 5, 10).Union(Rect(5, 0, 10, 10))

	if !a.Similar(b, 1e-6) {
		t.Error("rectangle should be similar to its two halves unioned")
	}
	if a.Similar(Rect(0, 0, 9, 10), 1e-6) {
		t.Error("differing rectangles should not be similar")
	}
}

func TestTranslate(t *testing.T) {
	r := Rect(0, 0, 2, 2).Translate(10, -5)
	b := r.BoundingBox()
	if b.Min.X != 10 || b.Min.Y != -5 || b.Max.X != 12 || b.Max.Y != -3 {
		t.Errorf("BoundingBox() = %+v, want [10,-5]-[12,-3]", b)
	}
}

func TestRotate_Quarter(t *testing.T) {
	r := Rect(0, 0, 4, 2).Rotate(90, Point{})
	b := r.BoundingBox()
	if !almostEqual(b.Min.X, -2, 1e-9) || !almostEqual(b.Max.Y, 4, 1e-9) {
		t.Errorf("BoundingBox() = %+v, want [-2,0]-[0,4]", b)
	}
	if got := r.Area(); !almostEqual(got, 8, 1e-9) {
		t.Errorf("Area() = %g, want 8 (rotation preserves area)", got)
	}
}

func TestDisjointRects(t *testing.T) {
	rects := []Bounds{
		{Min: Point{0, 0}, Max: Point{2, 2}},
		{Min: Point{10, 0}, Max: Point{12, 2}},
		{Min: Point{5, 5}, Max: Point{5, 9}}, // degenerate, skipped
	}
	r := DisjointRects(rects)

	if got := r.NumContours(); got != 2 {
		t.Errorf("NumContours() = %d, want 2", got)
	}
	if got := r.Area(); !almostEqual(got, 8, 1e-9) {
		t.Errorf("Area() = %g, want 8", got)
	}
}

func TestDisjointRects_Empty(t *testing.T) {
	if !DisjointRects(nil).IsEmpty() {
		t.Error("DisjointRects(nil) should be empty")
	}
}
