package cheese

import (
	"github.com/lithoprep/maskforge/pkg/geometry"
)

// Compose subtracts the exclusion region from the cheese pattern,
// yielding the final perforation geometry. An empty pattern composes to
// the empty region.
func Compose(pattern Pattern, exclusion geometry.Region) geometry.Region {
	if pattern.Region.IsEmpty() {
		return geometry.Empty
	}
	return pattern.Region.Difference(exclusion)
}
