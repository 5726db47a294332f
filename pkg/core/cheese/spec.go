// Package cheese synthesizes the periodic perforation pattern and
// composes it against the exclusion region.
//
// "Cheesing" perforates otherwise-solid substrate regions with a lattice
// of small rectangular holes for fabrication process uniformity. The
// lattice is centred on the chip, stops an inward margin short of the
// chip edge, and every candidate hole is kept only if it lies entirely
// within that inner window. Candidates are evaluated independently — the
// lattice is a pure function of index — so generation is a batch
// computation, not a sequential union chain.
package cheese

import (
	"math"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
)

// TilingSpec is the full perforation configuration. All lengths share
// one linear unit, pre-resolved by the host configuration layer.
type TilingSpec struct {
	// HoleWidth and HoleHeight are the perforation rectangle dimensions.
	HoleWidth  float64 `json:"hole_width" toml:"hole_width"`
	HoleHeight float64 `json:"hole_height" toml:"hole_height"`

	// GapX and GapY are the clearances between adjacent holes; the
	// lattice pitch is hole size plus gap.
	GapX float64 `json:"gap_x" toml:"gap_x"`
	GapY float64 `json:"gap_y" toml:"gap_y"`

	// EdgeMargin is the inward keep-out distance from the chip edge.
	EdgeMargin float64 `json:"edge_margin" toml:"edge_margin"`

	// Chip is the substrate outline the lattice is centred on.
	Chip host.ChipBounds `json:"chip" toml:"chip"`
}

// StepX returns the horizontal centre-to-centre pitch.
func (s TilingSpec) StepX() float64 { return s.HoleWidth + s.GapX }

// StepY returns the vertical centre-to-centre pitch.
func (s TilingSpec) StepY() float64 { return s.HoleHeight + s.GapY }

// HalfWidth returns the inner window's horizontal half-extent.
func (s TilingSpec) HalfWidth() float64 { return s.Chip.Width/2 - s.EdgeMargin }

// HalfHeight returns the inner window's vertical half-extent.
func (s TilingSpec) HalfHeight() float64 { return s.Chip.Height/2 - s.EdgeMargin }

// Validate fails fast on configuration the grid generator cannot work
// with. It runs before any geometry work begins; no partial computation
// is attempted on invalid tiling parameters.
func (s TilingSpec) Validate() error {
	for name, v := range map[string]float64{
		"hole_width":  s.HoleWidth,
		"hole_height": s.HoleHeight,
	} {
		if v <= 0 || !finite(v) {
			return errors.New(errors.ErrCodeInvalidTiling, "%s must be positive, got %g", name, v)
		}
	}
	for name, v := range map[string]float64{
		"gap_x":       s.GapX,
		"gap_y":       s.GapY,
		"edge_margin": s.EdgeMargin,
	} {
		if v < 0 || !finite(v) {
			return errors.New(errors.ErrCodeInvalidTiling, "%s cannot be negative, got %g", name, v)
		}
	}
	if s.StepX() <= 0 || s.StepY() <= 0 {
		return errors.New(errors.ErrCodeInvalidTiling,
			"step sizes must be positive, got %g x %g", s.StepX(), s.StepY())
	}
	if s.Chip.Width <= 0 || s.Chip.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidChip,
			"chip dimensions must be positive, got %g x %g", s.Chip.Width, s.Chip.Height)
	}
	if !finite(s.Chip.CenterX) || !finite(s.Chip.CenterY) {
		return errors.New(errors.ErrCodeInvalidChip, "chip center must be finite")
	}
	if s.HalfWidth() < 0 || s.HalfHeight() < 0 {
		return errors.New(errors.ErrCodeInvalidTiling,
			"edge margin %g exceeds chip half-extents %g x %g",
			s.EdgeMargin, s.Chip.Width/2, s.Chip.Height/2)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
