package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lithoprep/maskforge/pkg/cache"
	"github.com/lithoprep/maskforge/pkg/core/cheese"
	"github.com/lithoprep/maskforge/pkg/core/exclusion"
	"github.com/lithoprep/maskforge/pkg/core/merge"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
	"github.com/lithoprep/maskforge/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete extract → merge → exclude → grid → compose →
// register pipeline with caching. Nothing is registered in the host
// geometry table until every stage has succeeded.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Extract
	extractStart := time.Now()
	layers, err := opts.Source.GroundLayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract shapes: %w", err)
	}
	bounds, err := opts.Source.ChipBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("extract chip bounds: %w", err)
	}
	opts.Tiling.Chip = bounds
	if err := opts.Tiling.Validate(); err != nil {
		return nil, err
	}
	result.Stats.ExtractTime = time.Since(extractStart)

	groundShapes := layers[opts.GroundLayer]
	markupShapes := layers[opts.NoCheeseLayer]
	result.Stats.ShapeCount = len(groundShapes)
	if len(groundShapes) == 0 {
		opts.Logger.Warn("ground layer carries no shapes; result will be an unobstructed lattice",
			"layer", opts.GroundLayer)
	}

	// Stage 2: Merge the ground plane, plus the explicit no-cheese markup
	// as a second independent merge.
	mergeStart := time.Now()
	observability.Pipeline().OnMergeStart(ctx, int(opts.GroundLayer), len(groundShapes))
	groundMerge, groundHit := r.MergeWithCacheInfo(ctx, int(opts.GroundLayer), groundShapes, opts.Refresh)
	markupMerge := merge.Shapes(markupShapes)

	result.Ground = groundMerge.Region
	result.Rejected = append(groundMerge.Rejected, markupMerge.Rejected...)
	result.Stats.Accepted = groundMerge.Accepted
	result.Stats.Rejected = len(result.Rejected)
	result.Stats.MergeTime = time.Since(mergeStart)
	result.CacheInfo.GroundHit = groundHit
	result.GroundHash = r.groundHash(int(opts.GroundLayer), groundShapes)
	observability.Pipeline().OnMergeComplete(ctx, int(opts.GroundLayer),
		groundMerge.Accepted, len(result.Rejected), result.Stats.MergeTime, nil)

	opts.Logger.Info("merged ground plane",
		"layer", opts.GroundLayer,
		"accepted", groundMerge.Accepted,
		"rejected", len(result.Rejected),
		"cached", groundHit,
		"duration", result.Stats.MergeTime)
	for _, rej := range result.Rejected {
		opts.Logger.Warn("skipped malformed shape",
			"component", rej.Component,
			"layer", rej.Layer,
			"reason", rej.Reason)
	}

	// Stage 3: Exclusion region
	exclusionStart := time.Now()
	excl, exclusionHit, err := r.ExclusionWithCacheInfo(ctx, result.GroundHash, result.Ground, markupMerge.Region, opts)
	result.Stats.ExclusionTime = time.Since(exclusionStart)
	observability.Pipeline().OnExclusionComplete(ctx, *opts.BufferDistance, result.Stats.ExclusionTime, err)
	if err != nil {
		return nil, fmt.Errorf("exclusion: %w", err)
	}
	result.Exclusion = excl
	result.CacheInfo.ExclusionHit = exclusionHit

	opts.Logger.Info("built exclusion region",
		"distance", *opts.BufferDistance,
		"contours", excl.NumContours(),
		"cached", exclusionHit,
		"duration", result.Stats.ExclusionTime)

	// Stage 4: Hole lattice
	gridStart := time.Now()
	pattern, patternHit, err := r.PatternWithCacheInfo(ctx, opts)
	result.Stats.GridTime = time.Since(gridStart)
	observability.Pipeline().OnGridComplete(ctx, pattern.Count, result.Stats.GridTime, err)
	if err != nil {
		return nil, fmt.Errorf("grid: %w", err)
	}
	result.Pattern = pattern
	result.Stats.HoleCount = pattern.Count
	result.CacheInfo.PatternHit = patternHit
	if pattern.Count == 0 {
		opts.Logger.Warn("no hole fits the chip window; pattern is empty",
			"chip", opts.Tiling.Chip, "margin", opts.Tiling.EdgeMargin)
	}

	opts.Logger.Info("generated hole lattice",
		"holes", pattern.Count,
		"max_i", pattern.MaxI,
		"max_j", pattern.MaxJ,
		"cached", patternHit,
		"duration", result.Stats.GridTime)

	// Stage 5: Compose and register
	composeStart := time.Now()
	result.Perforation = cheese.Compose(pattern, excl)
	result.Stats.ComposeTime = time.Since(composeStart)
	observability.Pipeline().OnComposeComplete(ctx, result.Perforation.Area(), result.Stats.ComposeTime, nil)

	opts.Logger.Info("composed perforation",
		"contours", result.Perforation.NumContours(),
		"duration", result.Stats.ComposeTime)

	if opts.Table != nil {
		registerStart := time.Now()
		if err := r.register(ctx, result, opts); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		result.Stats.RegisterTime = time.Since(registerStart)
		opts.Logger.Info("registered geometry",
			"entries", 2,
			"duration", result.Stats.RegisterTime)
	}

	return result, nil
}

// MergeWithCacheInfo merges ground shapes with caching and returns cache
// hit info. On a cache hit the rejection records carry their reasons but
// not the original error values.
func (r *Runner) MergeWithCacheInfo(ctx context.Context, layer int, shapes []host.RawShape, refresh bool) (merge.Result, bool) {
	cacheKey := r.Keyer.GroundKey(layer, r.groundHash(layer, shapes))

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := unmarshalMerge(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "ground")
				return res, true
			}
		}
		observability.Cache().OnCacheMiss(ctx, "ground")
	}

	res := merge.Shapes(shapes)

	if data, err := marshalMerge(res); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLGround) == nil {
			observability.Cache().OnCacheSet(ctx, "ground", len(data))
		}
	}
	return res, false
}

// ExclusionWithCacheInfo builds the exclusion region with caching and
// returns cache hit info. The cache key covers both inputs: the merged
// ground plane (through groundHash) and the explicit markup.
func (r *Runner) ExclusionWithCacheInfo(ctx context.Context, groundHash string, ground, markup geometry.Region, opts Options) (geometry.Region, bool, error) {
	exclOpts := opts.ExclusionOpts()
	if err := exclOpts.Validate(); err != nil {
		return geometry.Empty, false, err
	}
	markupData, _ := marshalRegion(markup)
	inputHash := cache.Hash([]byte(groundHash + ":" + cache.Hash(markupData)))
	cacheKey := r.Keyer.ExclusionKey(inputHash, opts.ExclusionKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if excl, err := unmarshalRegion(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "exclusion")
				return excl, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "exclusion")
	}

	excl, err := exclusion.Build(ground, markup, exclOpts)
	if err != nil {
		return geometry.Empty, false, err
	}

	if data, err := marshalRegion(excl); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLExclusion) == nil {
			observability.Cache().OnCacheSet(ctx, "exclusion", len(data))
		}
	}
	return excl, false, nil
}

// PatternWithCacheInfo generates the hole lattice with caching and
// returns cache hit info.
func (r *Runner) PatternWithCacheInfo(ctx context.Context, opts Options) (cheese.Pattern, bool, error) {
	chipData, _ := json.Marshal(opts.Tiling.Chip)
	cacheKey := r.Keyer.PatternKey(cache.Hash(chipData), opts.PatternKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if pattern, err := unmarshalPattern(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "pattern")
				return pattern, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "pattern")
	}

	pattern, err := cheese.Generate(opts.Tiling)
	if err != nil {
		return cheese.Pattern{}, false, err
	}

	if data, err := marshalPattern(pattern); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLPattern) == nil {
			observability.Cache().OnCacheSet(ctx, "pattern", len(data))
		}
	}
	return pattern, false, nil
}

// register writes both result entries into the host geometry table,
// replacing any prior registrations under the same names.
func (r *Runner) register(ctx context.Context, result *Result, opts Options) error {
	entries := []host.Entry{
		{
			Layer:    opts.NoCheeseLayer,
			Name:     RegistrationBuffer,
			Region:   result.Exclusion,
			Subtract: false,
		},
		{
			Layer:    opts.CheeseLayer,
			Name:     RegistrationCheese,
			Region:   result.Perforation,
			Subtract: true,
		},
	}
	for _, e := range entries {
		if err := opts.Table.Register(ctx, e); err != nil {
			return fmt.Errorf("entry %s/%d: %w", e.Name, e.Layer, err)
		}
		observability.Pipeline().OnRegister(ctx, int(e.Layer), e.Name)
	}
	return nil
}

// groundHash hashes the raw shape list feeding a merge.
func (r *Runner) groundHash(layer int, shapes []host.RawShape) string {
	data, _ := json.Marshal(struct {
		Layer  int             `json:"layer"`
		Shapes []host.RawShape `json:"shapes"`
	}{layer, shapes})
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// mergePayload is the cache form of a merge result.
type mergePayload struct {
	Rings    []geometry.Contour `json:"rings"`
	Rejected []merge.Rejected   `json:"rejected,omitempty"`
	Accepted int                `json:"accepted"`
}

func marshalMerge(res merge.Result) ([]byte, error) {
	return json.Marshal(mergePayload{
		Rings:    res.Region.Contours(),
		Rejected: res.Rejected,
		Accepted: res.Accepted,
	})
}

func unmarshalMerge(data []byte) (merge.Result, error) {
	var p mergePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return merge.Result{}, err
	}
	return merge.Result{
		Region:   geometry.Reassemble(p.Rings),
		Rejected: p.Rejected,
		Accepted: p.Accepted,
	}, nil
}
