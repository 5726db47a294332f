package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lithoprep/maskforge/pkg/core/cheese"
	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
	"github.com/lithoprep/maskforge/pkg/io"
	"github.com/lithoprep/maskforge/pkg/pipeline"
)

// runOpts holds the command-line flags for the run command.
type runOpts struct {
	output     string  // result document path (default: derived from input)
	configPath string  // TOML config file
	demo       bool    // use the built-in sample layout instead of a file
	noCache    bool    // disable the stage cache entirely
	refresh    bool    // recompute stages and overwrite cached entries
	pickLayer  bool    // interactively pick the ground layer
	buffer     float64 // exclusion buffer distance
	quadSegs   int     // arc segments per quarter circle
	holeWidth  float64 // perforation hole width
	holeHeight float64 // perforation hole height
	gapX       float64 // horizontal clearance between holes
	gapY       float64 // vertical clearance between holes
	edgeMargin float64 // keep-out distance from the chip edge
}

// runCommand creates the run command, which executes the full perforation
// pipeline on a geometry document and writes the resulting mask entries.
//
// Settings are resolved in order: built-in defaults, then the --config file,
// then explicit flags.
func (c *CLI) runCommand() *cobra.Command {
	opts := runOpts{
		buffer:     pipeline.DefaultBufferDistance,
		quadSegs:   geometry.DefaultQuadSegs,
		holeWidth:  pipeline.DefaultHoleWidth,
		holeHeight: pipeline.DefaultHoleHeight,
		gapX:       pipeline.DefaultGapX,
		gapY:       pipeline.DefaultGapY,
		edgeMargin: pipeline.DefaultEdgeMargin,
	}

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Perforate a geometry document",
		Long: `Run the perforation pipeline on a geometry document: merge the
ground plane, buffer an exclusion region around it, fill the remaining
chip area with relief holes, and write the resulting mask entries.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.demo && len(args) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "a geometry document is required (or pass --demo)")
			}
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runPerforation(ctx, cmd, input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "result document path (default: <input>_perforated.json)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "perforate the built-in sample layout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stage cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute all stages and overwrite cached entries")
	cmd.Flags().BoolVar(&opts.pickLayer, "pick-layer", false, "interactively pick the ground layer")
	cmd.Flags().Float64Var(&opts.buffer, "buffer", opts.buffer, "exclusion buffer distance")
	cmd.Flags().IntVar(&opts.quadSegs, "quad-segs", opts.quadSegs, "arc segments per quarter circle")
	cmd.Flags().Float64Var(&opts.holeWidth, "hole-width", opts.holeWidth, "perforation hole width")
	cmd.Flags().Float64Var(&opts.holeHeight, "hole-height", opts.holeHeight, "perforation hole height")
	cmd.Flags().Float64Var(&opts.gapX, "gap-x", opts.gapX, "horizontal clearance between holes")
	cmd.Flags().Float64Var(&opts.gapY, "gap-y", opts.gapY, "vertical clearance between holes")
	cmd.Flags().Float64Var(&opts.edgeMargin, "edge-margin", opts.edgeMargin, "keep-out distance from the chip edge")

	return cmd
}

// runPerforation loads the shape source, resolves pipeline options, executes
// the pipeline, and exports the registered mask entries.
func (c *CLI) runPerforation(ctx context.Context, cmd *cobra.Command, input string, opts *runOpts) error {
	logger := loggerFromContext(ctx)

	src, err := loadSource(input, opts.demo)
	if err != nil {
		return err
	}

	// Flags and config entries override field by field, so the options
	// start from the full defaults rather than the zero value. An explicit
	// zero from either source is kept as-is.
	table := host.NewMemTable()
	popts := pipeline.Options{
		Source:         src,
		Table:          table,
		Logger:         logger,
		Refresh:        opts.refresh,
		BufferDistance: pipeline.Float64(pipeline.DefaultBufferDistance),
		QuadSegs:       geometry.DefaultQuadSegs,
		Tiling: cheese.TilingSpec{
			HoleWidth:  pipeline.DefaultHoleWidth,
			HoleHeight: pipeline.DefaultHoleHeight,
			GapX:       pipeline.DefaultGapX,
			GapY:       pipeline.DefaultGapY,
			EdgeMargin: pipeline.DefaultEdgeMargin,
		},
	}

	if opts.configPath != "" {
		cfg, err := LoadConfig(opts.configPath)
		if err != nil {
			return err
		}
		cfg.apply(&popts)
		logger.Debugf("Loaded config %s", opts.configPath)
	}
	applyFlags(cmd, opts, &popts)

	if opts.pickLayer {
		layer, err := pickGroundLayer(ctx, src)
		if err != nil {
			return err
		}
		popts.GroundLayer = layer
		printInfo("Using ground layer %d", layer)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Perforating ground plane...")
	spinner.Start()
	pg := newProgress(logger)
	res, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		printError("Perforation failed: %s", errors.UserMessage(err))
		return err
	}
	pg.done(fmt.Sprintf("Perforated %d holes", res.Stats.HoleCount))

	printSuccess("Perforated %s", sourceName(input, opts.demo))
	printRunStats(res.Stats.Accepted, res.Stats.Rejected, res.Stats.HoleCount, res.CacheInfo.PatternHit)
	for _, rej := range res.Rejected {
		printWarning("Skipped %s (layer %d): %s", rej.Component, rej.Layer, rej.Reason)
	}

	entries, err := table.Entries(ctx)
	if err != nil {
		return err
	}
	outputPath := resultPath(opts.output, input)
	if err := io.ExportResultJSON(entries, outputPath); err != nil {
		return err
	}
	printFile(outputPath)

	if opts.demo {
		printNextStep("Serve the pipeline over HTTP", "maskforge serve")
	}
	return nil
}

// applyFlags copies explicitly set flags into the pipeline options,
// overriding any config file values.
func applyFlags(cmd *cobra.Command, opts *runOpts, popts *pipeline.Options) {
	f := cmd.Flags()
	if f.Changed("buffer") {
		popts.BufferDistance = &opts.buffer
	}
	if f.Changed("quad-segs") {
		popts.QuadSegs = opts.quadSegs
	}
	if f.Changed("hole-width") {
		popts.Tiling.HoleWidth = opts.holeWidth
	}
	if f.Changed("hole-height") {
		popts.Tiling.HoleHeight = opts.holeHeight
	}
	if f.Changed("gap-x") {
		popts.Tiling.GapX = opts.gapX
	}
	if f.Changed("gap-y") {
		popts.Tiling.GapY = opts.gapY
	}
	if f.Changed("edge-margin") {
		popts.Tiling.EdgeMargin = opts.edgeMargin
	}
}

// loadSource builds the shape source from the input document or the demo
// fixture.
func loadSource(input string, demo bool) (*host.StaticSource, error) {
	if demo {
		return demoSource()
	}
	doc, err := io.ImportJSON(input)
	if err != nil {
		return nil, err
	}
	return doc.Source()
}

// sourceName returns a human-readable name for the shape source.
func sourceName(input string, demo bool) string {
	if demo {
		return "demo layout"
	}
	return filepath.Base(input)
}

// resultPath derives the output path from the input file when no explicit
// output was given.
func resultPath(output, input string) string {
	if output != "" {
		return output
	}
	if input == "" {
		return "demo_perforated.json"
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_perforated.json"
}
