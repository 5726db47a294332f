// Package cache provides content-addressed caching for the perforation
// pipeline. Intermediate products — merged ground planes, exclusion
// regions, hole patterns — are keyed by a hash of their inputs, so a
// rerun with unchanged geometry and tiling parameters is served from
// the cache instead of recomputed.
//
// Backends are pluggable behind the [Cache] interface: [FileCache] for
// CLI usage, [RedisCache] for the service deployment, and [NullCache]
// to disable caching entirely.
package cache

import (
	"context"
	"time"
)

// Default TTLs per product kind. Ground planes and exclusion regions
// change whenever the layout changes; patterns depend only on chip and
// tiling parameters and stay valid far longer.
const (
	TTLGround    = 24 * time.Hour
	TTLExclusion = 24 * time.Hour
	TTLPattern   = 7 * 24 * time.Hour
)

// Cache is the storage backend for serialized pipeline products.
type Cache interface {
	// Get retrieves a value. The second return reports whether the
	// key was present; an absent key is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ExclusionKeyOpts are the parameters that shape an exclusion region
// beyond the ground plane itself.
type ExclusionKeyOpts struct {
	Distance float64 // outward buffer distance
	QuadSegs int     // arc resolution
}

// PatternKeyOpts are the tiling parameters that determine a hole
// pattern for a given chip.
type PatternKeyOpts struct {
	HoleWidth  float64
	HoleHeight float64
	GapX       float64
	GapY       float64
	EdgeMargin float64
}

// Keyer generates cache keys for pipeline products.
// Implementations must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// GroundKey keys a merged ground plane by layer and a hash of the
	// raw shapes feeding the merge.
	GroundKey(layer int, shapesHash string) string

	// ExclusionKey keys an exclusion region by the merged ground
	// plane it grew from plus the buffer parameters.
	ExclusionKey(groundHash string, opts ExclusionKeyOpts) string

	// PatternKey keys a hole pattern by a hash of the chip bounds
	// plus the tiling parameters.
	PatternKey(chipHash string, opts PatternKeyOpts) string

	// ResultKey keys a final perforation result by its pattern and
	// exclusion inputs.
	ResultKey(patternHash, exclusionHash string) string
}

// DefaultKeyer generates sha256-based keys with stable prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GroundKey generates a key for a merged ground plane.
func (k *DefaultKeyer) GroundKey(layer int, shapesHash string) string {
	return hashKey("ground", layer, shapesHash)
}

// ExclusionKey generates a key for an exclusion region.
func (k *DefaultKeyer) ExclusionKey(groundHash string, opts ExclusionKeyOpts) string {
	return hashKey("exclusion", groundHash, opts)
}

// PatternKey generates a key for a hole pattern.
func (k *DefaultKeyer) PatternKey(chipHash string, opts PatternKeyOpts) string {
	return hashKey("pattern", chipHash, opts)
}

// ResultKey generates a key for a perforation result.
func (k *DefaultKeyer) ResultKey(patternHash, exclusionHash string) string {
	return hashKey("result", patternHash, exclusionHash)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
