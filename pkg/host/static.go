package host

import (
	"context"

	"github.com/lithoprep/maskforge/pkg/errors"
)

// StaticSource is a ShapeSource over a fixed shape collection. The CLI
// builds one from an imported geometry document or from the demo
// fixtures; tests build them inline.
type StaticSource struct {
	bounds ChipBounds
	shapes map[Layer][]RawShape
}

// NewStaticSource creates a source over the given shapes. The shape
// slices are not copied; callers must not mutate them afterwards.
func NewStaticSource(bounds ChipBounds, shapes []RawShape) (*StaticSource, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidChip,
			"chip dimensions must be positive, got %g x %g", bounds.Width, bounds.Height)
	}
	byLayer := make(map[Layer][]RawShape)
	for _, s := range shapes {
		if err := errors.ValidateLayer(int(s.Layer)); err != nil {
			return nil, err
		}
		byLayer[s.Layer] = append(byLayer[s.Layer], s)
	}
	return &StaticSource{bounds: bounds, shapes: byLayer}, nil
}

// GroundLayers returns the shapes grouped by layer.
func (s *StaticSource) GroundLayers(ctx context.Context) (map[Layer][]RawShape, error) {
	out := make(map[Layer][]RawShape, len(s.shapes))
	for layer, shapes := range s.shapes {
		out[layer] = append([]RawShape(nil), shapes...)
	}
	return out, nil
}

// ChipBounds returns the substrate outline.
func (s *StaticSource) ChipBounds(ctx context.Context) (ChipBounds, error) {
	return s.bounds, nil
}

// Ensure StaticSource implements ShapeSource.
var _ ShapeSource = (*StaticSource)(nil)
