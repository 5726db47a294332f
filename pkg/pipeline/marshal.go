package pipeline

import (
	"encoding/json"

	"github.com/lithoprep/maskforge/pkg/core/cheese"
	"github.com/lithoprep/maskforge/pkg/geometry"
)

// Cache payloads. Regions are stored as their contour lists and rebuilt
// with [geometry.Reassemble]; the contours were produced by this module,
// so re-validating them on every cache hit would be wasted work.

type regionPayload struct {
	Rings []geometry.Contour `json:"rings"`
}

type patternPayload struct {
	Rings []geometry.Contour `json:"rings"`
	Count int                `json:"count"`
	MaxI  int                `json:"max_i"`
	MaxJ  int                `json:"max_j"`
}

func marshalRegion(r geometry.Region) ([]byte, error) {
	return json.Marshal(regionPayload{Rings: r.Contours()})
}

func unmarshalRegion(data []byte) (geometry.Region, error) {
	var p regionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return geometry.Empty, err
	}
	return geometry.Reassemble(p.Rings), nil
}

func marshalPattern(p cheese.Pattern) ([]byte, error) {
	return json.Marshal(patternPayload{
		Rings: p.Region.Contours(),
		Count: p.Count,
		MaxI:  p.MaxI,
		MaxJ:  p.MaxJ,
	})
}

func unmarshalPattern(data []byte) (cheese.Pattern, error) {
	var p patternPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return cheese.Pattern{}, err
	}
	return cheese.Pattern{
		Region: geometry.Reassemble(p.Rings),
		Count:  p.Count,
		MaxI:   p.MaxI,
		MaxJ:   p.MaxJ,
	}, nil
}
