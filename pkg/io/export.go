package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

// ResultEntry is one registered geometry in a result document.
type ResultEntry struct {
	Layer    host.Layer         `json:"layer"`
	Name     string             `json:"name"`
	Subtract bool               `json:"subtract,omitempty"`
	Rings    []geometry.Contour `json:"rings"`
}

type resultDocument struct {
	Entries []ResultEntry `json:"entries"`
}

// WriteJSON encodes a geometry document as indented JSON and writes it
// to w. The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode geometry document: %w", err)
	}
	return nil
}

// ExportJSON writes a geometry document to the file at path, creating
// or truncating it.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// WriteResultJSON encodes registered geometry table entries as an
// indented JSON result document. Entries keep the order they were
// given in, which the table already sorts by layer then name.
func WriteResultJSON(entries []host.Entry, w io.Writer) error {
	out := resultDocument{Entries: make([]ResultEntry, len(entries))}
	for i, e := range entries {
		out.Entries[i] = ResultEntry{
			Layer:    e.Layer,
			Name:     e.Name,
			Subtract: e.Subtract,
			Rings:    e.Region.Contours(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode result document: %w", err)
	}
	return nil
}

// ExportResultJSON writes registered entries to the file at path,
// creating or truncating it.
func ExportResultJSON(entries []host.Entry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteResultJSON(entries, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
