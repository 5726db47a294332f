// Package pkg provides the core libraries for maskforge photomask preparation.
//
// # Overview
//
// Maskforge prepares superconducting-circuit photomask layouts for
// fabrication: it merges the ground-plane geometry contributed by every
// component, grows a protective exclusion region around it, and fills the
// remaining chip area with a periodic pattern of relief holes ("cheesing").
// The pkg directory is organized into four main areas:
//
//  1. [core] - Domain logic (merging, exclusion buffering, hole lattices)
//  2. [geometry] - Polygon regions and boolean operations
//  3. [host] - Shape sources and the geometry table the results register into
//  4. [pipeline] - Orchestration (extract → merge → exclusion → grid → compose)
//
// # Architecture
//
// The typical data flow through maskforge:
//
//	Geometry Document / Host Design
//	         ↓
//	    [core/merge] package (validate + union ground shapes)
//	         ↓
//	    [core/exclusion] package (buffer + no-cheese markup)
//	         ↓
//	    [core/cheese] package (hole lattice + composition)
//	         ↓
//	    Registered mask entries (cheese, global_buffer)
//
// # Quick Start
//
// Run the full pipeline against a static shape source:
//
//	src, _ := host.NewStaticSource(bounds, shapes)
//	table := host.NewMemTable()
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{Source: src, Table: table})
//
// Supporting packages: [cache] persists per-stage results between runs,
// [io] reads and writes geometry documents, [errors] defines the shared
// error taxonomy, and [observability] exposes process-wide hooks.
package pkg
