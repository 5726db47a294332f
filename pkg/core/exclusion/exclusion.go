// Package exclusion derives the no-cheese region: the area where
// perforation holes must never be placed.
//
// The exclusion region is a safety buffer around the merged ground
// geometry, unioned with any polygons the design explicitly marked as
// protected. It is computed once per export pass and passed by value from
// there on; nothing in this package caches across runs.
package exclusion

import (
	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
)

// Options configures exclusion-region construction.
type Options struct {
	// Distance is the outward buffer distance around the merged ground
	// region, in the pipeline's linear unit. Zero disables buffering and
	// passes the ground region through unchanged.
	Distance float64 `json:"distance" toml:"distance"`

	// QuadSegs is the number of arc segments per quarter turn used for
	// rounded buffer joins. Zero selects [geometry.DefaultQuadSegs].
	QuadSegs int `json:"quad_segs,omitempty" toml:"quad_segs"`
}

// Validate checks the options before any geometry work begins.
func (o Options) Validate() error {
	if o.Distance < 0 {
		return errors.New(errors.ErrCodeInvalidTiling,
			"buffer distance cannot be negative, got %g", o.Distance)
	}
	if o.QuadSegs < 0 {
		return errors.New(errors.ErrCodeInvalidTiling,
			"quad segments cannot be negative, got %d", o.QuadSegs)
	}
	return nil
}

// Build computes the exclusion region:
//
//	buffer(ground, distance) ∪ explicit
//
// ground is the merged ground-plane region; explicit carries polygons the
// design marked no-cheese by hand. Either operand may be empty: an empty
// ground region buffers to itself, and an empty explicit region leaves
// the buffered ground unchanged.
func Build(ground, explicit geometry.Region, opts Options) (geometry.Region, error) {
	if err := opts.Validate(); err != nil {
		return geometry.Empty, err
	}
	quadSegs := opts.QuadSegs
	if quadSegs == 0 {
		quadSegs = geometry.DefaultQuadSegs
	}
	return ground.Buffer(opts.Distance, quadSegs).Union(explicit), nil
}
