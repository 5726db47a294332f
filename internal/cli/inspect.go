package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lithoprep/maskforge/pkg/host"
	"github.com/lithoprep/maskforge/pkg/io"
)

// inspectCommand creates the inspect command, which summarizes a geometry
// document without running the pipeline.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a geometry document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0])
		},
	}
}

// layerRole names the standard pipeline layers.
func layerRole(layer host.Layer) string {
	switch layer {
	case host.CheeseLayer:
		return "cheese"
	case host.GroundLayer:
		return "ground"
	case host.NoCheeseLayer:
		return "no-cheese"
	}
	return ""
}

func runInspect(ctx context.Context, path string) error {
	doc, err := io.ImportJSON(path)
	if err != nil {
		return err
	}
	src, err := doc.Source()
	if err != nil {
		return err
	}

	bounds, err := src.ChipBounds(ctx)
	if err != nil {
		return err
	}
	layers, err := src.GroundLayers(ctx)
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(path))
	printDetail("Chip: %s x %s centred on (%g, %g)",
		StyleNumber.Render(fmt.Sprintf("%g", bounds.Width)),
		StyleNumber.Render(fmt.Sprintf("%g", bounds.Height)),
		bounds.CenterX, bounds.CenterY)

	nums := make([]host.Layer, 0, len(layers))
	for layer := range layers {
		nums = append(nums, layer)
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	total := 0
	for _, layer := range nums {
		shapes := layers[layer]
		total += len(shapes)

		rings := 0
		for _, s := range shapes {
			rings += len(s.Rings)
		}

		label := fmt.Sprintf("Layer %d", layer)
		if role := layerRole(layer); role != "" {
			label += " (" + role + ")"
		}
		printDetail("%s: %s shapes, %d rings",
			StyleValue.Render(label), StyleNumber.Render(fmt.Sprintf("%d", len(shapes))), rings)
	}
	printInfo("%d shapes on %d layers", total, len(nums))

	return nil
}
