package geometry

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// Point is a location in the chip plane. Coordinates are in the single
// linear unit the host resolved all lengths to (micrometres in practice).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Contour is a closed ring of vertices. The closing edge from the last
// vertex back to the first is implicit; contours are stored unclosed.
type Contour []Point

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min Point
	Max Point
}

// Empty reports whether the bounds cover no area.
func (b Bounds) Empty() bool {
	return b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// extend grows the bounds to include p.
func (b *Bounds) extend(p Point) {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
}

// Region is an immutable multi-part polygon. The zero value is the empty
// region. Construct non-empty regions with [NewRegion], [FromRings] or
// [Rect]; all boolean operations return new values and never mutate their
// receivers.
type Region struct {
	poly polyclip.Polygon
}

// Empty is the region covering no area.
var Empty = Region{}

// NewRegion builds a region from a single ring, validating it first.
// The ring may repeat its first vertex at the end; the duplicate is dropped.
func NewRegion(ring Contour) (Region, error) {
	return FromRings([]Contour{ring})
}

// FromRings builds a region from a set of rings, validating each one.
// A ring nested inside an odd number of other rings is a hole. Input
// winding is ignored: rings are re-oriented from their nesting depth, so
// producers need not agree on a convention. If any ring is invalid the
// whole shape is rejected: partially embedding a malformed boundary
// would poison every later boolean operation.
func FromRings(rings []Contour) (Region, error) {
	if len(rings) == 0 {
		return Empty, nil
	}
	clean := make([]Contour, 0, len(rings))
	for _, ring := range rings {
		ring = dropClosingVertex(ring)
		if err := validateRing(ring); err != nil {
			return Empty, err
		}
		clean = append(clean, ring)
	}

	poly := make(polyclip.Polygon, 0, len(clean))
	for i, ring := range clean {
		// Outer rings (even nesting depth) wind counter-clockwise,
		// holes clockwise.
		ccw := nestingDepth(clean, i)%2 == 0
		c := make(polyclip.Contour, len(ring))
		if (signedArea(ring) >= 0) == ccw {
			for j, p := range ring {
				c[j] = polyclip.Point{X: p.X, Y: p.Y}
			}
		} else {
			for j, p := range ring {
				c[len(ring)-1-j] = polyclip.Point{X: p.X, Y: p.Y}
			}
		}
		poly = append(poly, c)
	}
	return Region{poly: poly}, nil
}

// Reassemble reconstructs a region from contours previously produced by
// [Region.Contours], preserving winding and skipping validation. It is
// meant for deserializing regions this package already built; arbitrary
// input belongs in [FromRings].
func Reassemble(rings []Contour) Region {
	if len(rings) == 0 {
		return Empty
	}
	poly := make(polyclip.Polygon, len(rings))
	for i, ring := range rings {
		c := make(polyclip.Contour, len(ring))
		for j, p := range ring {
			c[j] = polyclip.Point{X: p.X, Y: p.Y}
		}
		poly[i] = c
	}
	return Region{poly: poly}
}

// nestingDepth counts how many other rings enclose ring i. Rings of one
// shape may touch but not cross, so testing a single vertex suffices.
func nestingDepth(rings []Contour, i int) int {
	depth := 0
	probe := rings[i][0]
	for j, ring := range rings {
		if j != i && pointInRing(probe, ring) {
			depth++
		}
	}
	return depth
}

// pointInRing reports whether p lies strictly inside the ring, by ray
// casting.
func pointInRing(p Point, ring Contour) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// Rect returns the rectangular region [x0,x1] × [y0,y1]. Callers may pass
// the corners in either order; a degenerate (zero width or height)
// rectangle yields the empty region.
func Rect(x0, y0, x1, y1 float64) Region {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if x0 == x1 || y0 == y1 {
		return Empty
	}
	return Region{poly: polyclip.Polygon{{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}}}
}

// IsEmpty reports whether the region covers no area.
func (r Region) IsEmpty() bool {
	return len(r.poly) == 0
}

// NumContours returns the number of boundary rings, counting holes.
func (r Region) NumContours() int {
	return len(r.poly)
}

// Contours returns a copy of the boundary rings. Hole rings are wound
// opposite to their enclosing ring.
func (r Region) Contours() []Contour {
	out := make([]Contour, len(r.poly))
	for i, c := range r.poly {
		ring := make(Contour, len(c))
		for j, p := range c {
			ring[j] = Point{X: p.X, Y: p.Y}
		}
		out[i] = ring
	}
	return out
}

// Area returns the area covered by the region. Every constructor —
// [FromRings], [Rect], [DisjointRects] and the boolean operations, which
// normalize the clipper's output winding — establishes that hole contours
// carry the opposite winding to their enclosing contour, so summing
// signed ring areas yields the net covered area.
func (r Region) Area() float64 {
	var sum float64
	for _, c := range r.poly {
		sum += signedAreaClip(c)
	}
	return math.Abs(sum)
}

// BoundingBox returns the axis-aligned extent of the region.
// The empty region returns a zero Bounds.
func (r Region) BoundingBox() Bounds {
	if r.IsEmpty() {
		return Bounds{}
	}
	b := Bounds{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, c := range r.poly {
		for _, p := range c {
			b.extend(Point{X: p.X, Y: p.Y})
		}
	}
	return b
}

// Union returns the region covered by r or other.
func (r Region) Union(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Region{poly: normalizeWinding(r.poly.Construct(polyclip.UNION, other.poly))}
}

// Difference returns the region covered by r but not other.
func (r Region) Difference(other Region) Region {
	if r.IsEmpty() || other.IsEmpty() {
		return r
	}
	return Region{poly: normalizeWinding(r.poly.Construct(polyclip.DIFFERENCE, other.poly))}
}

// Intersection returns the region covered by both r and other.
func (r Region) Intersection(other Region) Region {
	if r.IsEmpty() || other.IsEmpty() {
		return Empty
	}
	return Region{poly: normalizeWinding(r.poly.Construct(polyclip.INTERSECTION, other.poly))}
}

// SymmetricDifference returns the region covered by exactly one of r and
// other.
func (r Region) SymmetricDifference(other Region) Region {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Region{poly: normalizeWinding(r.poly.Construct(polyclip.XOR, other.poly))}
}

// Similar reports whether r and other cover the same point set up to tol:
// the area of their symmetric difference must not exceed tol. This is the
// comparison used by tests and by idempotence checks, where boolean
// operations may reorder vertices without changing the covered set.
func (r Region) Similar(other Region, tol float64) bool {
	return r.SymmetricDifference(other).Area() <= tol
}

// Translate returns the region shifted by (dx, dy).
func (r Region) Translate(dx, dy float64) Region {
	out := make(polyclip.Polygon, len(r.poly))
	for i, c := range r.poly {
		nc := make(polyclip.Contour, len(c))
		for j, p := range c {
			nc[j] = polyclip.Point{X: p.X + dx, Y: p.Y + dy}
		}
		out[i] = nc
	}
	return Region{poly: out}
}

// Rotate returns the region rotated by deg degrees counter-clockwise
// about the given point.
func (r Region) Rotate(deg float64, about Point) Region {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	out := make(polyclip.Polygon, len(r.poly))
	for i, c := range r.poly {
		nc := make(polyclip.Contour, len(c))
		for j, p := range c {
			dx, dy := p.X-about.X, p.Y-about.Y
			nc[j] = polyclip.Point{
				X: about.X + dx*cos - dy*sin,
				Y: about.Y + dx*sin + dy*cos,
			}
		}
		out[i] = nc
	}
	return Region{poly: out}
}

// DisjointRects builds a region directly from axis-aligned rectangles
// whose interiors do not overlap. Each rectangle becomes one contour, so
// batch producers (the cheese grid) assemble their output in one pass
// instead of folding a sequential union. Degenerate rectangles are
// skipped.
func DisjointRects(rects []Bounds) Region {
	poly := make(polyclip.Polygon, 0, len(rects))
	for _, b := range rects {
		if b.Empty() {
			continue
		}
		poly = append(poly, polyclip.Contour{
			{X: b.Min.X, Y: b.Min.Y},
			{X: b.Max.X, Y: b.Min.Y},
			{X: b.Max.X, Y: b.Max.Y},
			{X: b.Min.X, Y: b.Max.Y},
		})
	}
	if len(poly) == 0 {
		return Empty
	}
	return Region{poly: poly}
}

// signedArea returns the shoelace area of a ring. Positive for
// counter-clockwise winding.
func signedArea(ring Contour) float64 {
	var sum float64
	n := len(ring)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// signedAreaClip is signedArea over a polyclip contour.
func signedAreaClip(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return sum / 2
}

// dropClosingVertex removes an explicit closing vertex if present.
func dropClosingVertex(ring Contour) Contour {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}
