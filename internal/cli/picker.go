package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lithoprep/maskforge/pkg/errors"
	"github.com/lithoprep/maskforge/pkg/host"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// LayerListModel - Interactive ground layer selection
// =============================================================================

// LayerChoice describes one selectable layer and its shape count.
type LayerChoice struct {
	Layer  host.Layer
	Shapes int
}

// LayerListModel is the bubbletea model for interactive layer selection.
type LayerListModel struct {
	Choices  []LayerChoice
	Cursor   int
	Selected *LayerChoice
}

// NewLayerListModel creates a new layer list model.
func NewLayerListModel(choices []LayerChoice) LayerListModel {
	return LayerListModel{Choices: choices}
}

func (m LayerListModel) Init() tea.Cmd {
	return nil
}

func (m LayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Choices)-1 {
				m.Cursor++
			}
		case "enter":
			choice := m.Choices[m.Cursor]
			m.Selected = &choice
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LayerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Ground Layer"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, choice := range m.Choices {
		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}
		line := fmt.Sprintf("Layer %d", choice.Layer)
		count := listDimStyle.Render(fmt.Sprintf("  %d shapes", choice.Shapes))
		b.WriteString(cursor + style.Render(line) + count + "\n")
	}

	return b.String()
}

// =============================================================================
// Picker Entry Point
// =============================================================================

// pickGroundLayer lists the layers present in the source and asks which one
// holds the ground plane. A single-layer document is selected automatically.
func pickGroundLayer(ctx context.Context, src host.ShapeSource) (host.Layer, error) {
	layers, err := src.GroundLayers(ctx)
	if err != nil {
		return 0, err
	}
	if len(layers) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "document has no shapes to pick a layer from")
	}

	choices := make([]LayerChoice, 0, len(layers))
	for layer, shapes := range layers {
		choices = append(choices, LayerChoice{Layer: layer, Shapes: len(shapes)})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Layer < choices[j].Layer })

	if len(choices) == 1 {
		return choices[0].Layer, nil
	}

	p := tea.NewProgram(NewLayerListModel(choices))
	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	fm, ok := finalModel.(LayerListModel)
	if !ok || fm.Selected == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no layer selected")
	}
	return fm.Selected.Layer, nil
}
