// Package shapes generates parametric mask components that are etched
// into the ground plane: the chip boundary frame and square alignment
// markers. Each generator emits raw shapes for the host geometry table;
// markup destined for the no-cheese layer is emitted alongside the
// etched geometry so downstream exclusion handling picks it up without
// extra bookkeeping.
package shapes

import (
	"math"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

// ============================================================================
// CHIP BOUNDARY
// ============================================================================

// BoundaryOptions parameterizes the chip boundary frame: a rectangular
// frame of the given thickness with a filled square in each corner,
// centred on (X, Y).
type BoundaryOptions struct {
	Width      float64    // outer frame width
	Height     float64    // outer frame height
	Thickness  float64    // frame wall thickness
	CornerSize float64    // side length of the corner squares
	NoCheese   float64    // buffer distance for the no-cheese markup
	X, Y       float64    // frame centre
	Layer      host.Layer // layer carrying the etched frame
	QuadSegs   int        // arc resolution for the no-cheese buffer
}

// DefaultBoundaryOptions returns the standard 10 mm chip frame, in
// micrometres.
func DefaultBoundaryOptions() BoundaryOptions {
	return BoundaryOptions{
		Width:      10000,
		Height:     10000,
		Thickness:  50,
		CornerSize: 250,
		NoCheese:   30,
		Layer:      host.GroundLayer,
	}
}

// Validate checks the options for geometric consistency.
func (o BoundaryOptions) Validate() error {
	if !isFinite(o.Width, o.Height, o.Thickness, o.CornerSize, o.NoCheese, o.X, o.Y) {
		return errors.New(errors.ErrCodeInvalidShape, "boundary options must be finite")
	}
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidShape,
			"boundary dimensions must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Thickness <= 0 {
		return errors.New(errors.ErrCodeInvalidShape,
			"boundary thickness must be positive, got %g", o.Thickness)
	}
	if 2*o.Thickness >= o.Width || 2*o.Thickness >= o.Height {
		return errors.New(errors.ErrCodeInvalidShape,
			"boundary thickness %g leaves no interior in a %gx%g frame",
			o.Thickness, o.Width, o.Height)
	}
	if o.CornerSize < 0 || o.CornerSize > o.Width/2 || o.CornerSize > o.Height/2 {
		return errors.New(errors.ErrCodeInvalidShape,
			"corner size %g must lie in [0, half the frame extent]", o.CornerSize)
	}
	if o.NoCheese < 0 {
		return errors.New(errors.ErrCodeInvalidShape,
			"no-cheese distance must be non-negative, got %g", o.NoCheese)
	}
	return errors.ValidateLayer(int(o.Layer))
}

// Boundary builds the chip boundary frame. It returns two raw shapes:
// the etched frame on the configured layer, and the frame buffered by
// the no-cheese distance on the no-cheese layer. The component name of
// the markup shape is derived from name.
func Boundary(name string, o BoundaryOptions) ([]host.RawShape, error) {
	if err := errors.ValidateComponentName(name); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	outer := centredRect(o.Width, o.Height)
	inner := centredRect(o.Width-2*o.Thickness, o.Height-2*o.Thickness)
	frame := outer.Difference(inner)

	if o.CornerSize > 0 {
		hw, hh, hc := o.Width/2, o.Height/2, o.CornerSize/2
		for _, at := range []geometry.Point{
			{X: -hw + hc, Y: +hh - hc},
			{X: +hw - hc, Y: +hh - hc},
			{X: -hw + hc, Y: -hh + hc},
			{X: +hw - hc, Y: -hh + hc},
		} {
			corner := centredRect(o.CornerSize, o.CornerSize).Translate(at.X, at.Y)
			frame = frame.Union(corner)
		}
	}
	frame = frame.Translate(o.X, o.Y)

	markup := frame.Buffer(o.NoCheese, o.QuadSegs)

	return []host.RawShape{
		{
			Component: name,
			Layer:     o.Layer,
			Rings:     frame.Contours(),
			Subtract:  true,
		},
		{
			Component: name + "_no_cheese",
			Layer:     host.NoCheeseLayer,
			Rings:     markup.Contours(),
			Subtract:  true,
		},
	}, nil
}

// ============================================================================
// ALIGNMENT MARKER
// ============================================================================

// MarkerOptions parameterizes a square alignment marker with a square
// no-cheese backing, both centred on (X, Y) and rotated by Orientation
// degrees counter-clockwise.
type MarkerOptions struct {
	Size        float64    // side length of the marker
	Backing     float64    // side length of the no-cheese backing square
	X, Y        float64    // marker centre
	Orientation float64    // rotation in degrees, counter-clockwise
	Layer       host.Layer // layer carrying the etched marker
}

// DefaultMarkerOptions returns the standard marker geometry, in
// micrometres.
func DefaultMarkerOptions() MarkerOptions {
	return MarkerOptions{
		Size:    20,
		Backing: 220,
		Layer:   host.GroundLayer,
	}
}

// Validate checks the options for geometric consistency.
func (o MarkerOptions) Validate() error {
	if !isFinite(o.Size, o.Backing, o.X, o.Y, o.Orientation) {
		return errors.New(errors.ErrCodeInvalidShape, "marker options must be finite")
	}
	if o.Size <= 0 {
		return errors.New(errors.ErrCodeInvalidShape,
			"marker size must be positive, got %g", o.Size)
	}
	if o.Backing < o.Size {
		return errors.New(errors.ErrCodeInvalidShape,
			"marker backing %g must not be smaller than the marker %g",
			o.Backing, o.Size)
	}
	return errors.ValidateLayer(int(o.Layer))
}

// Marker builds a square alignment marker and its no-cheese backing.
func Marker(name string, o MarkerOptions) ([]host.RawShape, error) {
	if err := errors.ValidateComponentName(name); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	marker := centredRect(o.Size, o.Size).
		Rotate(o.Orientation, geometry.Point{}).
		Translate(o.X, o.Y)
	backing := centredRect(o.Backing, o.Backing).
		Rotate(o.Orientation, geometry.Point{}).
		Translate(o.X, o.Y)

	return []host.RawShape{
		{
			Component: name,
			Layer:     o.Layer,
			Rings:     marker.Contours(),
			Subtract:  true,
		},
		{
			Component: name + "_backing",
			Layer:     host.NoCheeseLayer,
			Rings:     backing.Contours(),
			Subtract:  true,
		},
	}, nil
}

func centredRect(w, h float64) geometry.Region {
	return geometry.Rect(-w/2, -h/2, w/2, h/2)
}

func isFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
