// Package geometry provides the planar region value type shared by all
// mask-preparation components.
//
// A [Region] is an immutable, possibly multi-part polygon. Regions are the
// universal currency of the pipeline: the merger produces one, the buffer
// builder expands one, the cheese generator emits one, and the compositor
// subtracts one from another. Boolean operations (union, difference,
// intersection, symmetric difference) are delegated to the polyclip-go
// clipping library; this package never reimplements clipping.
//
// # Validity
//
// Every Region is a valid planar point set by construction. The validating
// constructors ([NewRegion], [FromRings]) reject rings that are degenerate,
// self-intersecting, zero-area, or contain non-finite coordinates. Code
// holding a Region may therefore assume its boundary is consistent; raw
// shapes of unknown provenance must pass through a constructor first.
//
// # Buffering
//
// [Region.Buffer] offsets a region outward with rounded joins. Corner arcs
// are discretized with a configurable number of segments per quarter turn
// (see [DefaultQuadSegs]); callers trading fidelity for speed pass their own
// value.
package geometry
