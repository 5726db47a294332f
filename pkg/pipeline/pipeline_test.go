package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lithoprep/maskforge/pkg/cache"
	"github.com/lithoprep/maskforge/pkg/core/cheese"
	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func rectShape(name string, layer host.Layer, x0, y0, x1, y1 float64) host.RawShape {
	return host.RawShape{
		Component: name,
		Layer:     layer,
		Rings: []geometry.Contour{{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
		}},
	}
}

func bowtieShape(name string, layer host.Layer) host.RawShape {
	return host.RawShape{
		Component: name,
		Layer:     layer,
		Rings: []geometry.Contour{{
			{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 4},
		}},
	}
}

// testSource builds a 100x100 chip with one ground rectangle around the
// origin and one explicit no-cheese rectangle in the north-east.
func testSource(t *testing.T, extra ...host.RawShape) *host.StaticSource {
	t.Helper()
	shapes := append([]host.RawShape{
		rectShape("pad_center", host.GroundLayer, -5, -5, 5, 5),
		rectShape("keepout_ne", host.NoCheeseLayer, 25, 25, 35, 35),
	}, extra...)
	src, err := host.NewStaticSource(host.ChipBounds{Width: 100, Height: 100}, shapes)
	if err != nil {
		t.Fatalf("NewStaticSource() error = %v", err)
	}
	return src
}

func testOptions(src host.ShapeSource, table host.GeometryTable) Options {
	return Options{
		Source:         src,
		Table:          table,
		BufferDistance: Float64(3),
		QuadSegs:       4,
		Tiling: cheese.TilingSpec{
			HoleWidth:  2,
			HoleHeight: 2,
			GapX:       8,
			GapY:       8,
			EdgeMargin: 10,
		},
		Logger: quietLogger(),
	}
}

func TestExecute_FullRun(t *testing.T) {
	table := host.NewMemTable()
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions(testSource(t), table))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.RunID == "" {
		t.Error("Execute() produced no run ID")
	}
	// half extent 40, step 10, hole 2: indices -3..3 per axis.
	if result.Pattern.MaxI != 3 || result.Pattern.Count != 49 {
		t.Errorf("pattern maxI = %d count = %d, want 3 and 49", result.Pattern.MaxI, result.Pattern.Count)
	}
	if result.Stats.Accepted != 1 || result.Stats.Rejected != 0 {
		t.Errorf("stats = %+v, want 1 accepted, 0 rejected", result.Stats)
	}

	// The perforation never overlaps the exclusion region.
	if a := result.Perforation.Intersection(result.Exclusion).Area(); a > 1e-9 {
		t.Errorf("perforation overlaps exclusion by %g", a)
	}
	// The buffered center pad plus the keepout swallow some holes.
	if got := result.Perforation.Area(); got >= result.Pattern.Region.Area() {
		t.Errorf("perforation area %g should be below pattern area %g",
			got, result.Pattern.Region.Area())
	}

	if table.Len() != 2 {
		t.Fatalf("table has %d entries, want 2", table.Len())
	}
	cheeseEntry, ok := table.Lookup(host.CheeseLayer, RegistrationCheese)
	if !ok || !cheeseEntry.Subtract {
		t.Errorf("cheese entry = %+v ok = %v, want subtract=true", cheeseEntry, ok)
	}
	bufferEntry, ok := table.Lookup(host.NoCheeseLayer, RegistrationBuffer)
	if !ok || bufferEntry.Subtract {
		t.Errorf("buffer entry = %+v ok = %v, want subtract=false", bufferEntry, ok)
	}
	if !bufferEntry.Region.Similar(result.Exclusion, 1e-9) {
		t.Error("registered buffer differs from the computed exclusion region")
	}
}

func TestExecute_RejectsMalformedShapes(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	src := testSource(t, bowtieShape("bowtie", host.GroundLayer))
	result, err := runner.Execute(context.Background(), testOptions(src, nil))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.Accepted != 1 || result.Stats.Rejected != 1 {
		t.Fatalf("stats = %+v, want 1 accepted, 1 rejected", result.Stats)
	}
	rej := result.Rejected[0]
	if rej.Component != "bowtie" || rej.Reason == "" {
		t.Errorf("rejection = %+v, want named bowtie with a reason", rej)
	}
}

func TestExecute_IdempotentRegistration(t *testing.T) {
	table := host.NewMemTable()
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()
	ctx := context.Background()

	first, err := runner.Execute(ctx, testOptions(testSource(t), table))
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	second, err := runner.Execute(ctx, testOptions(testSource(t), table))
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}

	if table.Len() != 2 {
		t.Errorf("table has %d entries after re-run, want 2", table.Len())
	}
	if !first.Perforation.Similar(second.Perforation, 1e-9) {
		t.Error("re-run produced a different perforation")
	}
	entry, _ := table.Lookup(host.CheeseLayer, RegistrationCheese)
	if !entry.Region.Similar(second.Perforation, 1e-9) {
		t.Error("table entry does not match the latest run")
	}
}

func TestExecute_CacheHits(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	runner := NewRunner(c, nil, quietLogger())
	defer runner.Close()
	ctx := context.Background()

	cold, err := runner.Execute(ctx, testOptions(testSource(t), nil))
	if err != nil {
		t.Fatalf("cold Execute() error = %v", err)
	}
	if cold.CacheInfo.GroundHit || cold.CacheInfo.ExclusionHit || cold.CacheInfo.PatternHit {
		t.Errorf("cold run reported cache hits: %+v", cold.CacheInfo)
	}

	warm, err := runner.Execute(ctx, testOptions(testSource(t), nil))
	if err != nil {
		t.Fatalf("warm Execute() error = %v", err)
	}
	if !warm.CacheInfo.GroundHit || !warm.CacheInfo.ExclusionHit || !warm.CacheInfo.PatternHit {
		t.Errorf("warm run missed the cache: %+v", warm.CacheInfo)
	}
	if !warm.Perforation.Similar(cold.Perforation, 1e-9) {
		t.Error("cached run produced a different perforation")
	}

	// Refresh bypasses the cache.
	opts := testOptions(testSource(t), nil)
	opts.Refresh = true
	fresh, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if fresh.CacheInfo.GroundHit || fresh.CacheInfo.ExclusionHit || fresh.CacheInfo.PatternHit {
		t.Errorf("refresh run reported cache hits: %+v", fresh.CacheInfo)
	}
}

func TestExecute_EmptyGround(t *testing.T) {
	src, err := host.NewStaticSource(host.ChipBounds{Width: 100, Height: 100}, nil)
	if err != nil {
		t.Fatalf("NewStaticSource() error = %v", err)
	}
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions(src, nil))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !result.Ground.IsEmpty() {
		t.Error("empty source produced a non-empty ground plane")
	}
	// Nothing to exclude: the perforation is the full lattice.
	if !result.Perforation.Similar(result.Pattern.Region, 1e-9) {
		t.Error("perforation differs from the lattice despite an empty exclusion")
	}
}

func TestExecute_ExplicitZeroBuffer(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()

	// Zero disables the outward offset entirely; it must not be mistaken
	// for an unset distance and replaced by the default.
	opts := testOptions(testSource(t), nil)
	opts.BufferDistance = Float64(0)
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	unbuffered := geometry.Rect(-5, -5, 5, 5).Union(geometry.Rect(25, 25, 35, 35))
	if !result.Exclusion.Similar(unbuffered, 1e-9) {
		t.Errorf("exclusion area = %g, want the unbuffered ground and markup (area %g)",
			result.Exclusion.Area(), unbuffered.Area())
	}
}

func TestExecute_InvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	defer runner.Close()
	ctx := context.Background()

	if _, err := runner.Execute(ctx, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute() without source error = %v, want code %s", err, errors.ErrCodeInvalidInput)
	}

	opts := testOptions(testSource(t), nil)
	opts.BufferDistance = Float64(-1)
	if _, err := runner.Execute(ctx, opts); !errors.Is(err, errors.ErrCodeInvalidTiling) {
		t.Errorf("Execute() with negative buffer error = %v, want code %s", err, errors.ErrCodeInvalidTiling)
	}

	opts = testOptions(testSource(t), nil)
	opts.Tiling.EdgeMargin = 80
	if _, err := runner.Execute(ctx, opts); !errors.Is(err, errors.ErrCodeInvalidTiling) {
		t.Errorf("Execute() with margin past the chip error = %v, want code %s", err, errors.ErrCodeInvalidTiling)
	}
}
