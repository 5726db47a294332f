package cli

import (
	"context"
	"testing"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
)

func TestResultPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"explicit output wins", "out.json", "chip.json", "out.json"},
		{"derived from input", "", "designs/chip.json", "designs/chip_perforated.json"},
		{"input without extension", "", "chip", "chip_perforated.json"},
		{"demo default", "", "", "demo_perforated.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resultPath(tt.output, tt.input); got != tt.want {
				t.Errorf("resultPath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestSourceName(t *testing.T) {
	if got := sourceName("designs/chip.json", false); got != "chip.json" {
		t.Errorf("sourceName = %q, want chip.json", got)
	}
	if got := sourceName("", true); got != "demo layout" {
		t.Errorf("sourceName = %q, want demo layout", got)
	}
}

func TestLoadSource_MissingFile(t *testing.T) {
	_, err := loadSource("nonexistent.json", false)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDemoSource(t *testing.T) {
	src, err := demoSource()
	if err != nil {
		t.Fatalf("demoSource: %v", err)
	}

	bounds, err := src.ChipBounds(context.Background())
	if err != nil {
		t.Fatalf("ChipBounds: %v", err)
	}
	if bounds.Width != 10000 || bounds.Height != 10000 {
		t.Errorf("chip = %g x %g, want 10000 x 10000", bounds.Width, bounds.Height)
	}

	layers, err := src.GroundLayers(context.Background())
	if err != nil {
		t.Fatalf("GroundLayers: %v", err)
	}
	if len(layers[host.GroundLayer]) == 0 {
		t.Error("demo has no ground shapes")
	}
	// The boundary frame and marker backings both protect geometry from
	// perforation, so the demo must carry no-cheese markup.
	if len(layers[host.NoCheeseLayer]) == 0 {
		t.Error("demo has no no-cheese markup")
	}

	for _, shapes := range layers {
		for _, s := range shapes {
			if s.Component == "" {
				t.Error("demo shape with empty component name")
			}
			if len(s.Rings) == 0 {
				t.Errorf("demo shape %s has no rings", s.Component)
			}
		}
	}
}
