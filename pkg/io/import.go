package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
)

// Document is a decoded geometry document: the chip outline plus the
// raw component shapes feeding the pipeline.
type Document struct {
	Chip   host.ChipBounds `json:"chip"`
	Shapes []host.RawShape `json:"shapes"`
}

// Source builds a shape source over the document's contents.
func (d *Document) Source() (*host.StaticSource, error) {
	return host.NewStaticSource(d.Chip, d.Shapes)
}

// ReadJSON decodes a geometry document from r.
//
// The input must be a JSON object with a "chip" object and a "shapes"
// array; see the package documentation for the full format. ReadJSON
// validates structure only: chip dimensions must be positive, every
// shape needs a component name and an in-range layer, and every shape
// needs at least one ring. Geometric validity of the rings themselves
// is the merger's concern.
//
// ReadJSON does not close r. The returned document is independent of r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode geometry document")
	}

	if doc.Chip.Width <= 0 || doc.Chip.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument,
			"chip dimensions must be positive, got %g x %g", doc.Chip.Width, doc.Chip.Height)
	}
	for i, s := range doc.Shapes {
		if err := errors.ValidateComponentName(s.Component); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "shape %d", i)
		}
		if err := errors.ValidateLayer(int(s.Layer)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "shape %d (%s)", i, s.Component)
		}
		if len(s.Rings) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"shape %d (%s) has no rings", i, s.Component)
		}
	}

	return &doc, nil
}

// ImportJSON reads a geometry document from the file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes
// the file. Errors wrap the underlying cause with the file path for
// context.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
