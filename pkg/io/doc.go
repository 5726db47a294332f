// Package io provides JSON import and export for geometry documents.
//
// # Overview
//
// A geometry document is the interchange format between the perforation
// pipeline and external design tools. It carries the chip outline and
// the raw component shapes the pipeline consumes, and on the way out,
// the registered geometry the pipeline produced. The format is designed
// for:
//
//   - Feeding the pipeline from any tool that can emit polygons
//   - Inspecting pipeline output without a mask-format viewer
//   - Round-trip preservation: import, run, export, and re-import
//
// # JSON Format
//
// An input document has a "chip" object and a "shapes" array:
//
//	{
//	  "chip": {"center_x": 0, "center_y": 0, "width": 10000, "height": 10000},
//	  "shapes": [
//	    {
//	      "component": "pad_q1",
//	      "layer": 1,
//	      "rings": [[{"x": -50, "y": -50}, {"x": 50, "y": -50}, {"x": 50, "y": 50}, {"x": -50, "y": 50}]]
//	    }
//	  ]
//	}
//
// # Shape Fields
//
// Required:
//   - component: Contributing component's name
//   - layer: Mask layer number (0-255)
//   - rings: Boundary rings, one vertex list per ring
//
// Optional:
//   - subtract: Etch flag; true when the shape is removed from the
//     ground plane rather than added to it
//
// Ring winding is not significant on import: nesting decides which
// rings are holes. Malformed rings are accepted by the codec and
// rejected later by the merger, which reports them per shape.
//
// # Result Documents
//
// Pipeline output is exported as an "entries" array, each entry carrying
// the registered layer, name, etch flag, and boundary rings.
package io
