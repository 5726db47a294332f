package cli

import (
	"fmt"

	"github.com/lithoprep/maskforge/pkg/core/shapes"
	"github.com/lithoprep/maskforge/pkg/geometry"
	"github.com/lithoprep/maskforge/pkg/host"
)

// demoSource builds a self-contained sample layout: a chip boundary frame,
// four alignment markers, and a handful of ground pads. It exists so the
// run command can be tried without a geometry document.
func demoSource() (*host.StaticSource, error) {
	chip := host.ChipBounds{Width: 10000, Height: 10000}

	var all []host.RawShape

	frame, err := shapes.Boundary("boundary", shapes.DefaultBoundaryOptions())
	if err != nil {
		return nil, err
	}
	all = append(all, frame...)

	corners := []struct {
		x, y, rot float64
	}{
		{-4600, -4600, 0},
		{4600, -4600, 90},
		{4600, 4600, 180},
		{-4600, 4600, 270},
	}
	for i, c := range corners {
		opts := shapes.DefaultMarkerOptions()
		opts.X, opts.Y, opts.Orientation = c.x, c.y, c.rot
		marker, err := shapes.Marker(fmt.Sprintf("marker_%d", i), opts)
		if err != nil {
			return nil, err
		}
		all = append(all, marker...)
	}

	pads := []struct {
		name string
		x, y float64
	}{
		{"pad_q0", -1500, -1500},
		{"pad_q1", 1500, -1500},
		{"pad_q2", 1500, 1500},
		{"pad_q3", -1500, 1500},
	}
	for _, p := range pads {
		all = append(all, demoRect(p.name, host.GroundLayer, p.x, p.y, 400, 600))
	}
	all = append(all, demoRect("feedline", host.GroundLayer, 0, 0, 8000, 20))

	return host.NewStaticSource(chip, all)
}

// demoRect builds a single axis-aligned rectangle shape centred on (x, y).
func demoRect(name string, layer host.Layer, x, y, w, h float64) host.RawShape {
	return host.RawShape{
		Component: name,
		Layer:     layer,
		Rings: []geometry.Contour{{
			{X: x - w/2, Y: y - h/2},
			{X: x + w/2, Y: y - h/2},
			{X: x + w/2, Y: y + h/2},
			{X: x - w/2, Y: y + h/2},
		}},
	}
}
