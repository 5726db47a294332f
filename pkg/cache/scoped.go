package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several mask projects share one cache backend
// and need separate key spaces.
//
// Example usage:
//
//	// Project-specific keys
//	projKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:qpu7:")
//
//	// Shared keys for common library shapes
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// GroundKey generates a prefixed key for a merged ground plane.
func (k *ScopedKeyer) GroundKey(layer int, shapesHash string) string {
	return k.prefix + k.inner.GroundKey(layer, shapesHash)
}

// ExclusionKey generates a prefixed key for an exclusion region.
func (k *ScopedKeyer) ExclusionKey(groundHash string, opts ExclusionKeyOpts) string {
	return k.prefix + k.inner.ExclusionKey(groundHash, opts)
}

// PatternKey generates a prefixed key for a hole pattern.
func (k *ScopedKeyer) PatternKey(chipHash string, opts PatternKeyOpts) string {
	return k.prefix + k.inner.PatternKey(chipHash, opts)
}

// ResultKey generates a prefixed key for a perforation result.
func (k *ScopedKeyer) ResultKey(patternHash, exclusionHash string) string {
	return k.prefix + k.inner.ResultKey(patternHash, exclusionHash)
}
