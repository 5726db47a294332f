// Package pipeline provides the core perforation pipeline for Maskforge.
//
// This package implements the complete extract → merge → exclude → grid →
// compose → register flow that can be used by CLI, API, and worker
// components. By centralizing this logic, we ensure consistent behavior
// across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Extract: Pull raw shapes and the chip outline from the shape source
//  2. Merge: Union the ground-plane shapes into one region, skipping and
//     reporting malformed shapes
//  3. Exclude: Buffer the merged ground plane and union it with the
//     explicit no-cheese markup
//  4. Grid: Generate the periodic hole lattice inside the chip window
//  5. Compose: Subtract the exclusion region from the lattice and register
//     the results in the host geometry table
//
// Registration is the only externally visible side effect and happens
// only after every stage succeeded.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: source,
//	    Table:  table,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	holes := result.Perforation
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lithoprep/maskforge/pkg/cache"
	"github.com/lithoprep/maskforge/pkg/core/cheese"
	"github.com/lithoprep/maskforge/pkg/core/exclusion"
	"github.com/lithoprep/maskforge/pkg/core/merge"
	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultBufferDistance is the outward offset applied to the merged
	// ground plane when deriving the exclusion region, in layout units.
	DefaultBufferDistance = 70.0

	// DefaultHoleWidth and DefaultHoleHeight size each perforation.
	DefaultHoleWidth  = 2.0
	DefaultHoleHeight = 2.0

	// DefaultGapX and DefaultGapY separate neighboring perforations.
	DefaultGapX = 8.0
	DefaultGapY = 8.0

	// DefaultEdgeMargin keeps perforations away from the chip edge.
	DefaultEdgeMargin = 200.0
)

// Fixed registration names in the host geometry table. Re-running the
// pipeline replaces these entries rather than accumulating new ones.
const (
	// RegistrationCheese is the final perforation pattern.
	RegistrationCheese = "cheese"

	// RegistrationBuffer is the derived exclusion region.
	RegistrationBuffer = "global_buffer"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the perforation pipeline.
// The numeric fields support JSON serialization for API requests.
type Options struct {
	// Exclusion options. BufferDistance left nil means the default; an
	// explicit zero is the identity transform (the exclusion region is
	// the unbuffered ground plane plus markup).
	BufferDistance *float64 `json:"buffer_distance,omitempty"`
	QuadSegs       int      `json:"quad_segs,omitempty"`

	// Tiling options. The chip bounds are always taken from the shape
	// source; any chip set here is overwritten. A fully zero spec means
	// the defaults; a partially filled spec is taken verbatim, since
	// zero gaps and a zero edge margin are legitimate lattices.
	Tiling cheese.TilingSpec `json:"tiling"`

	// Layer assignments
	GroundLayer   host.Layer `json:"ground_layer,omitempty"`
	NoCheeseLayer host.Layer `json:"no_cheese_layer,omitempty"`
	CheeseLayer   host.Layer `json:"cheese_layer,omitempty"`

	// Refresh bypasses cache lookups and overwrites cached entries.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Source host.ShapeSource   `json:"-"`
	Table  host.GeometryTable `json:"-"` // nil disables registration
	Logger *log.Logger        `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this execution.
	RunID string

	// Ground is the merged ground plane.
	Ground geometry.Region

	// GroundHash is the content hash of the merged ground plane.
	GroundHash string

	// Exclusion is the buffered ground plane unioned with the explicit
	// no-cheese markup.
	Exclusion geometry.Region

	// Pattern is the hole lattice before exclusion.
	Pattern cheese.Pattern

	// Perforation is the final pattern: lattice minus exclusion.
	Perforation geometry.Region

	// Rejected lists the shapes skipped as malformed during the merge.
	Rejected []merge.Rejected

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShapeCount int // raw shapes seen on the ground layer
	Accepted   int // shapes merged into the ground plane
	Rejected   int // shapes skipped as malformed
	HoleCount  int // lattice holes before exclusion

	ExtractTime   time.Duration
	MergeTime     time.Duration
	ExclusionTime time.Duration
	GridTime      time.Duration
	ComposeTime   time.Duration
	RegisterTime  time.Duration
}

// CacheInfo tracks cache hits for each cacheable pipeline stage.
type CacheInfo struct {
	GroundHit    bool // Whether the merged ground plane came from cache
	ExclusionHit bool // Whether the exclusion region came from cache
	PatternHit   bool // Whether the hole pattern came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once. The tiling spec itself is validated later,
// once the chip bounds have been extracted from the source.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Source == nil {
		return errors.New(errors.ErrCodeInvalidInput, "shape source is required")
	}
	if o.BufferDistance == nil {
		o.BufferDistance = Float64(DefaultBufferDistance)
	} else if *o.BufferDistance < 0 {
		return errors.New(errors.ErrCodeInvalidTiling,
			"buffer distance must be non-negative, got %g", *o.BufferDistance)
	}
	if o.QuadSegs == 0 {
		o.QuadSegs = geometry.DefaultQuadSegs
	}

	// Only an entirely unset tiling spec falls back to the defaults.
	// Defaulting field by field would turn an explicit zero gap or zero
	// edge margin into something else entirely; impossible explicit
	// combinations (a zero hole width, say) are caught by the spec's
	// own validation once the chip bounds are known.
	if o.Tiling.HoleWidth == 0 && o.Tiling.HoleHeight == 0 &&
		o.Tiling.GapX == 0 && o.Tiling.GapY == 0 && o.Tiling.EdgeMargin == 0 {
		o.Tiling.HoleWidth = DefaultHoleWidth
		o.Tiling.HoleHeight = DefaultHoleHeight
		o.Tiling.GapX = DefaultGapX
		o.Tiling.GapY = DefaultGapY
		o.Tiling.EdgeMargin = DefaultEdgeMargin
	}

	if o.GroundLayer == 0 && o.NoCheeseLayer == 0 && o.CheeseLayer == 0 {
		o.GroundLayer = host.GroundLayer
		o.NoCheeseLayer = host.NoCheeseLayer
		o.CheeseLayer = host.CheeseLayer
	}
	for _, l := range []host.Layer{o.GroundLayer, o.NoCheeseLayer, o.CheeseLayer} {
		if err := errors.ValidateLayer(int(l)); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Float64 returns a pointer to v, for the optional [Options] fields.
func Float64(v float64) *float64 { return &v }

// ExclusionOpts returns the buffer parameters as exclusion options.
// Call after [Options.ValidateAndSetDefaults].
func (o *Options) ExclusionOpts() exclusion.Options {
	return exclusion.Options{
		Distance: *o.BufferDistance,
		QuadSegs: o.QuadSegs,
	}
}

// ExclusionKeyOpts returns cache key options for the exclusion region.
// Call after [Options.ValidateAndSetDefaults].
func (o *Options) ExclusionKeyOpts() cache.ExclusionKeyOpts {
	return cache.ExclusionKeyOpts{
		Distance: *o.BufferDistance,
		QuadSegs: o.QuadSegs,
	}
}

// PatternKeyOpts returns cache key options for the hole pattern.
func (o *Options) PatternKeyOpts() cache.PatternKeyOpts {
	return cache.PatternKeyOpts{
		HoleWidth:  o.Tiling.HoleWidth,
		HoleHeight: o.Tiling.HoleHeight,
		GapX:       o.Tiling.GapX,
		GapY:       o.Tiling.GapY,
		EdgeMargin: o.Tiling.EdgeMargin,
	}
}
