package cheese

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lithoprep/maskforge/pkg/geometry"
)

// Pattern is the generated cheese lattice.
type Pattern struct {
	// Region is the union of every retained hole, assembled as one
	// multi-part region.
	Region geometry.Region
	// Count is the exact number of retained holes.
	Count int
	// MaxI and MaxJ are the largest lattice indices outward from the
	// chip centre considered in each direction (-1 when no hole fits).
	MaxI, MaxJ int
}

// Generate computes the cheese pattern for the given spec.
//
// Candidate hole centres form a lattice symmetric about the chip centre:
// x_k = centre + k·step for k in [-maxI, maxI], where maxI is the largest
// index whose hole still fits the inner window. Each candidate rectangle
// is then masked against the window independently — the index bound and
// the mask can disagree by one lattice step when asymmetric half-extents
// round badly, and the mask is the source of truth.
//
// A window too small for a single hole yields an empty pattern, which is
// a valid result, not an error.
func Generate(spec TilingSpec) (Pattern, error) {
	if err := spec.Validate(); err != nil {
		return Pattern{}, err
	}

	halfW, halfH := spec.HalfWidth(), spec.HalfHeight()
	stepX, stepY := spec.StepX(), spec.StepY()
	hw, hh := spec.HoleWidth/2, spec.HoleHeight/2

	maxI := maxIndex(halfW, hw, stepX)
	maxJ := maxIndex(halfH, hh, stepY)
	if maxI < 0 || maxJ < 0 {
		return Pattern{MaxI: maxI, MaxJ: maxJ}, nil
	}

	xs := lattice(spec.Chip.CenterX, stepX, maxI)
	ys := lattice(spec.Chip.CenterY, stepY, maxJ)

	// Inner window, inclusive: holes may touch the window boundary but
	// not cross it.
	xMin, xMax := spec.Chip.CenterX-halfW, spec.Chip.CenterX+halfW
	yMin, yMax := spec.Chip.CenterY-halfH, spec.Chip.CenterY+halfH

	rects := make([]geometry.Bounds, 0, len(xs)*len(ys))
	for _, y := range ys {
		bottom, top := y-hh, y+hh
		if bottom < yMin || top > yMax {
			continue
		}
		for _, x := range xs {
			left, right := x-hw, x+hw
			if left < xMin || right > xMax {
				continue
			}
			rects = append(rects, geometry.Bounds{
				Min: geometry.Point{X: left, Y: bottom},
				Max: geometry.Point{X: right, Y: top},
			})
		}
	}

	return Pattern{
		Region: geometry.DisjointRects(rects),
		Count:  len(rects),
		MaxI:   maxI,
		MaxJ:   maxJ,
	}, nil
}

// maxIndex returns the largest lattice index k such that a hole centred
// k steps from the chip centre still fits the half-extent, or -1 when
// not even the central hole fits.
func maxIndex(half, halfHole, step float64) int {
	if half < halfHole {
		return -1
	}
	return int(math.Floor((half - halfHole) / step))
}

// lattice returns the 2·maxIdx+1 candidate centres symmetric about
// centre with the given pitch.
func lattice(centre, step float64, maxIdx int) []float64 {
	n := 2*maxIdx + 1
	if n == 1 {
		return []float64{centre}
	}
	xs := make([]float64, n)
	floats.Span(xs, centre-float64(maxIdx)*step, centre+float64(maxIdx)*step)
	return xs
}
