// Package host defines the boundary between the perforation engine and
// the design system that owns component registration and layer metadata.
//
// The engine never subclasses or embeds host infrastructure; it consumes
// shapes through [ShapeSource] and hands results back through
// [GeometryTable]. This package also ships self-contained implementations
// of both ([StaticSource], [MemTable]) so the engine runs and tests
// without the external design system.
package host

import (
	"context"

	"github.com/lithoprep/maskforge/pkg/geometry"
)

// Layer identifies a photomask layer. Layer numbers follow the GDS
// convention of small non-negative integers.
type Layer int

// Standard layer assignments for the perforation flow.
const (
	// CheeseLayer holds the final perforation pattern.
	CheeseLayer Layer = 0
	// GroundLayer holds the ground-plane geometry contributed by
	// components.
	GroundLayer Layer = 1
	// NoCheeseLayer holds explicitly protected polygons and receives the
	// derived exclusion region.
	NoCheeseLayer Layer = 2
)

// RawShape is a layer-tagged, component-tagged polygon as produced by the
// host's rendering of a component. Rings may be degenerate or
// self-intersecting; the merger validates them. RawShapes are ephemeral:
// created per extraction call, converted to regions, never persisted.
type RawShape struct {
	// Component is the contributing component's name.
	Component string `json:"component"`
	// Layer is the mask layer the shape was drawn on.
	Layer Layer `json:"layer"`
	// Rings are the shape's boundary rings, one vertex list per ring.
	Rings []geometry.Contour `json:"rings"`
	// Subtract mirrors the host's etch flag: true when the shape is
	// removed from the ground plane rather than added to it.
	Subtract bool `json:"subtract,omitempty"`
}

// ChipBounds describes the substrate outline, pre-resolved by the host
// configuration layer to the pipeline's linear unit.
type ChipBounds struct {
	CenterX float64 `json:"center_x" toml:"center_x"`
	CenterY float64 `json:"center_y" toml:"center_y"`
	Width   float64 `json:"width" toml:"width"`
	Height  float64 `json:"height" toml:"height"`
}

// ShapeSource provides the engine's only inputs: per-layer raw shapes and
// the chip outline. Implementations are expected to have materialized
// their geometry already; no mask-format parsing happens behind this
// interface.
type ShapeSource interface {
	// GroundLayers returns every raw shape grouped by layer. The engine
	// reads the ground layer and the explicit no-cheese layer; other
	// layers are ignored.
	GroundLayers(ctx context.Context) (map[Layer][]RawShape, error)

	// ChipBounds returns the substrate outline.
	ChipBounds(ctx context.Context) (ChipBounds, error)
}

// Entry is one registration in the host geometry table.
type Entry struct {
	// Layer the geometry is registered under.
	Layer Layer `json:"layer"`
	// Name identifies the registration within the layer. Re-registering
	// the same (Layer, Name) replaces the previous entry.
	Name string `json:"name"`
	// Region is the registered geometry. Ownership transfers to the
	// table at registration.
	Region geometry.Region `json:"-"`
	// Subtract mirrors the host's etch flag for the registered geometry.
	Subtract bool `json:"subtract"`
}

// GeometryTable receives the engine's outputs. Registration is the only
// externally visible side effect of a pipeline run and happens only after
// the whole computation succeeded.
type GeometryTable interface {
	// Register stores an entry, replacing any prior entry with the same
	// layer and name. Replacement is what makes re-export idempotent.
	Register(ctx context.Context, e Entry) error

	// Entries returns all current registrations, ordered by layer then
	// name.
	Entries(ctx context.Context) ([]Entry, error)
}
