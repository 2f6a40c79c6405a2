// Package graph shows the performance chart for the current player.
package graph

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/plot"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/tracker"
	"github.com/quizadv/quizadv/internal/ui/layout"
)

// chrome is the number of chart lines that are not data rows.
const chrome = 8

// GraphScreen renders a tracker.Series with the plot package.
type GraphScreen struct {
	series tracker.Series
}

var _ screen.Screen = (*GraphScreen)(nil)
var _ screen.KeyHintProvider = (*GraphScreen)(nil)

// New creates a GraphScreen for series.
func New(series tracker.Series) *GraphScreen {
	return &GraphScreen{series: series}
}

func (g *GraphScreen) Init() tea.Cmd  { return nil }
func (g *GraphScreen) Title() string { return "Performance Graph" }

func (g *GraphScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc/Enter", Description: "Back"}}
}

func (g *GraphScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return g, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return g, nil
}

func (g *GraphScreen) View(width, height int) string {
	chart := plot.Render(g.series, plot.Options{
		Height: min(max(height-chrome, 4), 12),
		Color:  true,
	})
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, chart)
}
