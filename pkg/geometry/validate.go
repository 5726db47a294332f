package geometry

import (
	"fmt"
	"math"
)

// Ring validation errors. Wrapped into structured pipeline errors at the
// merge boundary; kept as plain errors here so the geometry package stays
// free of application error codes.
var (
	errTooFewVertices   = fmt.Errorf("ring has fewer than 3 distinct vertices")
	errNonFinite        = fmt.Errorf("ring contains non-finite coordinates")
	errZeroArea         = fmt.Errorf("ring encloses zero area")
	errSelfIntersecting = fmt.Errorf("ring boundary self-intersects")
)

// validateRing checks that a ring is a usable simple polygon boundary:
// at least three distinct vertices, finite coordinates, non-zero area and
// no self-intersection. Rings failing any check are excluded from Region
// construction rather than embedded and discovered later inside a clipping
// operation.
func validateRing(ring Contour) error {
	if len(ring) < 3 {
		return errTooFewVertices
	}
	for _, p := range ring {
		if !isFinite(p.X) || !isFinite(p.Y) {
			return errNonFinite
		}
	}
	if distinctVertices(ring) < 3 {
		return errTooFewVertices
	}
	if signedArea(ring) == 0 {
		return errZeroArea
	}
	if selfIntersects(ring) {
		return errSelfIntersecting
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func distinctVertices(ring Contour) int {
	seen := make(map[Point]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// selfIntersects reports whether any two non-adjacent edges of the ring
// cross or overlap. Adjacent edges sharing only their common vertex are
// fine. Quadratic in the number of vertices, which is acceptable for the
// component-sized rings this engine sees.
func selfIntersects(ring Contour) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a1 := ring[i]
		a2 := ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// Skip the edge itself and the two neighbours that share a
			// vertex with edge i.
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1 := ring[j]
			b2 := ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// segmentsIntersect reports whether segments a1a2 and b1b2 share any
// point, including collinear overlap and endpoint touches.
func segmentsIntersect(a1, a2, b1, b2 Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// cross returns the z-component of (b−a) × (p−a).
func cross(a, b, p Point) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}

// onSegment reports whether p, collinear with segment ab, lies on it.
func onSegment(a, b, p Point) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}
