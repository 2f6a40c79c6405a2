// Package plot renders a tracker's per-question history as a text chart.
package plot

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/tracker"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

// EmptyMessage is rendered for a series with no points.
const EmptyMessage = "No performance data available to plot."

const (
	defaultHeight = 10
	columnWidth   = 4
	labelWidth    = 6

	accuracyMark = '●'
	timeMark     = '▲'
	overlapMark  = '◆'
)

// Options controls chart rendering.
type Options struct {
	// Height is the number of chart rows. Defaults to 10.
	Height int

	// Color styles the title and markers with the theme palette.
	Color bool
}

type styles struct {
	title, accuracy, time, overlap, axis lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain}
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		accuracy: lipgloss.NewStyle().Foreground(theme.Secondary),
		time:     lipgloss.NewStyle().Foreground(theme.Accent),
		overlap:  lipgloss.NewStyle().Foreground(theme.Primary),
		axis:     lipgloss.NewStyle().Foreground(theme.TextDim),
	}
}

// Render draws cumulative accuracy (%) and response time (s) per question
// on one shared y axis.
func Render(s tracker.Series, opts Options) string {
	if s.Len() == 0 {
		return EmptyMessage
	}
	height := opts.Height
	if height < 2 {
		height = defaultHeight
	}
	st := newStyles(opts.Color)
	top := axisMax(s)

	n := s.Len()
	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = make([]rune, n)
	}
	for i := 0; i < n; i++ {
		ra := rowFor(s.CumulativeAccuracy[i], top, height)
		rt := rowFor(s.Seconds[i], top, height)
		if ra == rt {
			grid[ra][i] = overlapMark
			continue
		}
		grid[ra][i] = accuracyMark
		grid[rt][i] = timeMark
	}

	var b strings.Builder
	b.WriteString(st.title.Render("Performance Trend — " + s.Name))
	b.WriteString("\n\n")
	b.WriteString(st.axis.Render(fmt.Sprintf("%*s", labelWidth, "Value")))
	b.WriteString("\n")

	for r := height - 1; r >= 0; r-- {
		value := top * float64(r) / float64(height-1)
		b.WriteString(st.axis.Render(fmt.Sprintf("%*.0f │", labelWidth-2, value)))
		for _, mark := range grid[r] {
			b.WriteString(" ")
			switch mark {
			case accuracyMark:
				b.WriteString(st.accuracy.Render(string(mark)))
			case timeMark:
				b.WriteString(st.time.Render(string(mark)))
			case overlapMark:
				b.WriteString(st.overlap.Render(string(mark)))
			default:
				b.WriteString(" ")
			}
			b.WriteString(strings.Repeat(" ", columnWidth-2))
		}
		b.WriteString("\n")
	}

	b.WriteString(st.axis.Render(strings.Repeat(" ", labelWidth-2) + " └" + strings.Repeat("─", n*columnWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for i := 1; i <= n; i++ {
		b.WriteString(fmt.Sprintf("%-*d", columnWidth, i))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	b.WriteString(st.axis.Render("Question Number"))
	b.WriteString("\n\n")

	b.WriteString(st.accuracy.Render(string(accuracyMark)) + " Cumulative Accuracy (%)   ")
	b.WriteString(st.time.Render(string(timeMark)) + " Response Time (s)   ")
	b.WriteString(st.overlap.Render(string(overlapMark)) + " both")
	return b.String()
}

// axisMax is the largest plotted value rounded up to a multiple of 10.
func axisMax(s tracker.Series) float64 {
	top := 10.0
	for i := 0; i < s.Len(); i++ {
		top = math.Max(top, math.Max(s.CumulativeAccuracy[i], s.Seconds[i]))
	}
	return math.Ceil(top/10) * 10
}

func rowFor(v, top float64, height int) int {
	r := int(math.Round(v / top * float64(height-1)))
	return min(max(r, 0), height-1)
}
