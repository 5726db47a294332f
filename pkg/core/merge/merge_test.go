package merge

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func rectShape(name string, x0, y0, x1, y1 float64) host.RawShape {
	return host.RawShape{
		Component: name,
		Layer:     host.GroundLayer,
		Rings: []geometry.Contour{{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		}},
	}
}

func bowtieShape(name string) host.RawShape {
	return host.RawShape{
		Component: name,
		Layer:     host.GroundLayer,
		Rings: []geometry.Contour{{
			{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10},
		}},
	}
}

func TestShapes_Empty(t *testing.T) {
	res := Shapes(nil)
	if !res.Region.IsEmpty() {
		t.Error("merging zero shapes should yield the empty region")
	}
	if len(res.Rejected) != 0 || res.Accepted != 0 {
		t.Errorf("Rejected = %d, Accepted = %d, want 0, 0", len(res.Rejected), res.Accepted)
	}
}

func TestShapes_SingleRect(t *testing.T) {
	res := Shapes([]host.RawShape{rectShape("pad", 0, 0, 10, 10)})
	if got := res.Region.Area(); got != 100 {
		t.Errorf("Area() = %g, want 100", got)
	}
	if res.Accepted != 1 {
		t.Errorf("Accepted = %d, want 1", res.Accepted)
	}
}

func TestShapes_OverlappingRects(t *testing.T) {
	res := Shapes([]host.RawShape{
		rectShape("a", 0, 0, 10, 10),
		rectShape("b", 5, 0, 15, 10),
	})
	if got := res.Region.Area(); got != 150 {
		t.Errorf("Area() = %g, want 150", got)
	}
	if len(res.Rejected) != 0 {
		t.Errorf("Rejected = %v, want none", res.Rejected)
	}
}

func TestShapes_ClosedFrame(t *testing.T) {
	// Four valid rectangles forming a closed frame: the union encloses a
	// hole. All four must be accepted, and the net area must discount
	// the enclosed opening.
	res := Shapes([]host.RawShape{
		rectShape("frame_top", 0, 6, 8, 8),
		rectShape("frame_bottom", 0, 0, 8, 2),
		rectShape("frame_left", 0, 2, 2, 6),
		rectShape("frame_right", 6, 2, 8, 6),
	})
	if len(res.Rejected) != 0 {
		t.Fatalf("Rejected = %v, want none", res.Rejected)
	}
	if res.Accepted != 4 {
		t.Errorf("Accepted = %d, want 4", res.Accepted)
	}
	if got := res.Region.Area(); !almostEqual(got, 48, 1e-9) {
		t.Errorf("Area() = %g, want 48 (64 minus the 4×4 opening)", got)
	}
}

func TestShapes_RejectsMalformed(t *testing.T) {
	// One valid rectangle and one self-intersecting bowtie: the result
	// must equal the rectangle exactly and report one rejection.
	res := Shapes([]host.RawShape{
		rectShape("pad", 0, 0, 10, 10),
		bowtieShape("broken"),
	})

	if !res.Region.Similar(geometry.Rect(0, 0, 10, 10), 1e-9) {
		t.Errorf("merged region differs from the valid rectangle, area = %g", res.Region.Area())
	}
	if len(res.Rejected) != 1 {
		t.Fatalf("Rejected = %d, want 1", len(res.Rejected))
	}
	r := res.Rejected[0]
	if r.Component != "broken" || r.Layer != host.GroundLayer {
		t.Errorf("rejection identity = %q layer %d, want \"broken\" layer %d", r.Component, r.Layer, host.GroundLayer)
	}
	if r.Reason == "" {
		t.Error("rejection must carry a reason")
	}
}

func TestShapes_AllMalformed(t *testing.T) {
	res := Shapes([]host.RawShape{bowtieShape("b1"), bowtieShape("b2")})
	if !res.Region.IsEmpty() {
		t.Error("all-malformed input should yield the empty region")
	}
	if len(res.Rejected) != 2 {
		t.Errorf("Rejected = %d, want 2", len(res.Rejected))
	}
}

func TestShapes_EmptyShape(t *testing.T) {
	res := Shapes([]host.RawShape{{Component: "ghost", Layer: host.GroundLayer}})
	if len(res.Rejected) != 1 {
		t.Errorf("Rejected = %d, want 1 for ring-less shape", len(res.Rejected))
	}
}

func TestShapes_DeterministicUnderPermutation(t *testing.T) {
	shapes := []host.RawShape{
		rectShape("big", -50, -50, 50, 50),
		rectShape("right", 40, -10, 80, 10),
		rectShape("top", -10, 40, 10, 80),
		rectShape("tiny", 70, 0, 75, 5),
		bowtieShape("broken"),
		rectShape("island", 200, 200, 210, 210),
	}

	base := Shapes(shapes)
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 10; trial++ {
		perm := make([]host.RawShape, len(shapes))
		for i, j := range rng.Perm(len(shapes)) {
			perm[i] = shapes[j]
		}
		res := Shapes(perm)

		if !res.Region.Similar(base.Region, 1e-6) {
			t.Fatalf("trial %d: permuted merge differs geometrically", trial)
		}
		if len(res.Rejected) != len(base.Rejected) {
			t.Fatalf("trial %d: Rejected = %d, want %d", trial, len(res.Rejected), len(base.Rejected))
		}
		if res.Accepted != base.Accepted {
			t.Fatalf("trial %d: Accepted = %d, want %d", trial, res.Accepted, base.Accepted)
		}
	}
}

func TestShapes_EqualAreaTieBreak(t *testing.T) {
	// Equal-area disjoint squares exercise the deterministic tie-break.
	shapes := []host.RawShape{
		rectShape("c", 20, 0, 30, 10),
		rectShape("a", 0, 0, 10, 10),
		rectShape("b", 0, 20, 10, 30),
	}
	first := Shapes(shapes)
	second := Shapes([]host.RawShape{shapes[2], shapes[0], shapes[1]})

	if !first.Region.Similar(second.Region, 1e-9) {
		t.Error("tie-break ordering should make equal-area merges identical")
	}
	if got := first.Region.Area(); got != 300 {
		t.Errorf("Area() = %g, want 300", got)
	}
}

func TestShapes_MultiRingShape(t *testing.T) {
	s := host.RawShape{
		Component: "frame",
		Layer:     host.GroundLayer,
		Rings: []geometry.Contour{
			{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 5}, {X: 0, Y: 5}},
			{{X: 0, Y: 25}, {X: 30, Y: 25}, {X: 30, Y: 30}, {X: 0, Y: 30}},
		},
	}
	res := Shapes([]host.RawShape{s})
	if got := res.Region.Area(); got != 300 {
		t.Errorf("Area() = %g, want 300", got)
	}
}

func TestShapes_MultiRingShapeRejectedWholly(t *testing.T) {
	// A shape with one good and one bad ring is rejected as a unit:
	// embedding half a component would be worse than dropping it.
	s := host.RawShape{
		Component: "half-broken",
		Layer:     host.GroundLayer,
		Rings: []geometry.Contour{
			{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}},
			{{X: 0, Y: 0}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 10}},
		},
	}
	res := Shapes([]host.RawShape{s})
	if !res.Region.IsEmpty() {
		t.Error("partially malformed shape should be rejected whole")
	}
	if len(res.Rejected) != 1 {
		t.Errorf("Rejected = %d, want 1", len(res.Rejected))
	}
}
