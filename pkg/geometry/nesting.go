package geometry

import (
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// normalizeWinding reorients contours so outer rings (even nesting depth)
// wind counter-clockwise and hole rings clockwise. The clipper makes no
// winding promise on its output — hole rings can come back wound the same
// way as their enclosing ring — so every boolean result passes through
// here before it becomes a Region. [Region.Area] and [Region.Contours]
// rely on the invariant.
func normalizeWinding(poly polyclip.Polygon) polyclip.Polygon {
	switch len(poly) {
	case 0:
		return poly
	case 1:
		if signedAreaClip(poly[0]) < 0 {
			reverseClip(poly[0])
		}
		return poly
	}
	depths := ringDepths(poly)
	for i, c := range poly {
		ccw := depths[i]%2 == 0
		if (signedAreaClip(c) >= 0) != ccw {
			reverseClip(c)
		}
	}
	return poly
}

// ringDepths computes the nesting depth of every contour. Rings of one
// polygon may touch but not cross, so testing a single vertex against
// each candidate suffices. Candidates are looked up through a uniform
// grid over ring bounding boxes: the disjoint hole lattices the
// perforation stage produces resolve in near linear time instead of the
// quadratic all-pairs scan.
func ringDepths(poly polyclip.Polygon) []int {
	k := len(poly)
	boxes := make([]Bounds, k)
	areas := make([]float64, k)
	total := Bounds{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for i, c := range poly {
		boxes[i] = contourBounds(c)
		areas[i] = math.Abs(signedAreaClip(c))
		total.extend(boxes[i].Min)
		total.extend(boxes[i].Max)
	}

	cells := int(math.Ceil(math.Sqrt(float64(k))))
	cellW := total.Width() / float64(cells)
	cellH := total.Height() / float64(cells)
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	cellOf := func(x, y float64) (int, int) {
		cx := int((x - total.Min.X) / cellW)
		cy := int((y - total.Min.Y) / cellH)
		if cx < 0 {
			cx = 0
		} else if cx >= cells {
			cx = cells - 1
		}
		if cy < 0 {
			cy = 0
		} else if cy >= cells {
			cy = cells - 1
		}
		return cx, cy
	}

	grid := make(map[int][]int)
	for i, b := range boxes {
		x0, y0 := cellOf(b.Min.X, b.Min.Y)
		x1, y1 := cellOf(b.Max.X, b.Max.Y)
		for cy := y0; cy <= y1; cy++ {
			for cx := x0; cx <= x1; cx++ {
				key := cy*cells + cx
				grid[key] = append(grid[key], i)
			}
		}
	}

	depths := make([]int, k)
	for i, c := range poly {
		pt := Point{X: c[0].X, Y: c[0].Y}
		cx, cy := cellOf(pt.X, pt.Y)
		for _, j := range grid[cy*cells+cx] {
			// A ring strictly containing another has strictly larger area.
			if j == i || areas[j] <= areas[i] {
				continue
			}
			b := boxes[j]
			if pt.X < b.Min.X || pt.X > b.Max.X ||
				pt.Y < b.Min.Y || pt.Y > b.Max.Y {
				continue
			}
			if pointInClipRing(pt, poly[j]) {
				depths[i]++
			}
		}
	}
	return depths
}

// contourBounds returns the bounding box of a single clipper contour.
func contourBounds(c polyclip.Contour) Bounds {
	b := Bounds{
		Min: Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range c {
		b.extend(Point{X: p.X, Y: p.Y})
	}
	return b
}

// pointInClipRing is [pointInRing] over a clipper contour.
func pointInClipRing(p Point, ring polyclip.Contour) bool {
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

// reverseClip reverses a contour in place.
func reverseClip(c polyclip.Contour) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}
