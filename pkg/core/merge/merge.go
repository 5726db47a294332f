// Package merge implements robust N-way union of raw component shapes
// into a single ground region.
//
// Individual shapes arrive from many independently authored components
// and can be malformed (self-intersecting boundaries, zero-area slivers).
// The merger excludes such shapes from the union instead of failing the
// whole export, and reports every exclusion to the caller: silently
// losing chip features is treated as a correctness defect, not a
// recovery strategy.
//
// The union is an explicitly sequential reduction ordered by decreasing
// area. Unions over regions are not independently associative once
// numerical failure handling enters the picture, so the ordering contract
// is what makes the result deterministic under input permutation.
package merge

import (
	"fmt"
	"sort"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

// Rejected records one shape excluded from the merge.
type Rejected struct {
	// Component is the contributing component's name.
	Component string `json:"component"`
	// Layer the shape was drawn on.
	Layer host.Layer `json:"layer"`
	// Err describes why the shape was excluded.
	Err error `json:"-"`
	// Reason is Err's message, kept separately so reports serialize.
	Reason string `json:"reason"`
}

// Result is the outcome of a merge.
type Result struct {
	// Region is the union of every accepted shape. Empty when no shape
	// survived, which is a valid outcome, not an error.
	Region geometry.Region
	// Rejected lists every excluded shape in rejection order.
	Rejected []Rejected
	// Accepted is the number of shapes embedded in the region.
	Accepted int
}

// candidate pairs a converted region with the identity of its shape.
type candidate struct {
	region    geometry.Region
	area      float64
	bounds    geometry.Bounds
	component string
	layer     host.Layer
}

// Shapes unions the given raw shapes into one region.
//
// Each shape is first converted to a validated region; conversion
// failures are rejected up front. Candidates are then sorted by
// decreasing area — larger regions first minimizes the chance that a
// union straddles a degenerate sliver and bounds the incremental cost,
// since large regions dominate the evolving boundary — with a fixed
// tie-break on bounds and component name so equal-area inputs still
// reduce in one canonical order. The accumulator starts from the largest
// candidate; any union attempt that fails discards that candidate and
// leaves the accumulator untouched.
func Shapes(shapes []host.RawShape) Result {
	var res Result
	candidates := make([]candidate, 0, len(shapes))

	// Conversion is independent per shape; only the reduction below is
	// order-sensitive.
	for _, s := range shapes {
		region, err := geometry.FromRings(s.Rings)
		if err != nil {
			res.Rejected = append(res.Rejected, reject(s.Component, s.Layer, err))
			continue
		}
		if region.IsEmpty() {
			res.Rejected = append(res.Rejected, reject(s.Component, s.Layer,
				errors.New(errors.ErrCodeInvalidGeometry, "shape has no rings")))
			continue
		}
		candidates = append(candidates, candidate{
			region:    region,
			area:      region.Area(),
			bounds:    region.BoundingBox(),
			component: s.Component,
			layer:     s.Layer,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.area != b.area {
			return a.area > b.area
		}
		if a.bounds.Min.X != b.bounds.Min.X {
			return a.bounds.Min.X < b.bounds.Min.X
		}
		if a.bounds.Min.Y != b.bounds.Min.Y {
			return a.bounds.Min.Y < b.bounds.Min.Y
		}
		return a.component < b.component
	})

	var acc geometry.Region
	accArea := 0.0
	for i, c := range candidates {
		if i == 0 {
			acc = c.region
			accArea = c.area
			res.Accepted++
			continue
		}
		merged, err := safeUnion(acc, c.region)
		if err == nil {
			err = checkUnion(merged, accArea, c.area)
		}
		if err != nil {
			res.Rejected = append(res.Rejected, reject(c.component, c.layer,
				errors.Wrap(errors.ErrCodeInvalidGeometry, err, "union failed for %q", c.component)))
			continue
		}
		acc = merged
		accArea = merged.Area()
		res.Accepted++
	}

	res.Region = acc
	return res
}

func reject(component string, layer host.Layer, err error) Rejected {
	return Rejected{
		Component: component,
		Layer:     layer,
		Err:       err,
		Reason:    err.Error(),
	}
}

// safeUnion performs acc ∪ cand, converting a clipper panic on
// numerically hostile input into an error the caller can skip past.
func safeUnion(acc, cand geometry.Region) (merged geometry.Region, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("clipping panic: %v", r)
		}
	}()
	return acc.Union(cand), nil
}

// checkUnion rejects a union result whose area is inconsistent with its
// operands. The union of two regions can never cover less than either
// operand nor more than both together; a result outside those bounds
// means the clipper lost or fabricated geometry on a degenerate input.
func checkUnion(merged geometry.Region, accArea, candArea float64) error {
	const relTol = 1e-9
	tol := relTol * (accArea + candArea)
	area := merged.Area()
	if lower := accArea; area < lower-tol {
		return fmt.Errorf("union area %g below operand area %g", area, lower)
	}
	if lower := candArea; area < lower-tol {
		return fmt.Errorf("union area %g below operand area %g", area, lower)
	}
	if upper := accArea + candArea; area > upper+tol {
		return fmt.Errorf("union area %g above operand sum %g", area, upper)
	}
	return nil
}
