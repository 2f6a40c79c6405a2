// Package summary shows performance figures: the result of one session
// or the player's totals across the run.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/tracker"
	"github.com/quizadv/quizadv/internal/ui/layout"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

type row struct {
	label, value string
}

// SummaryScreen displays a titled list of figures.
type SummaryScreen struct {
	title   string
	heading string
	rows    []row
	note    string
	footer  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// NewResult shows the outcome of a finished session. note, when set, is
// shown above the figures.
func NewResult(res *session.Result, player, note string) *SummaryScreen {
	sum := res.Summary
	rows := []row{
		{"Subject", string(res.Subject)},
	}
	if res.Topic != "" {
		rows = append(rows, row{"Topic", res.Topic})
	}
	rows = append(rows,
		row{"Difficulty", res.FinalLevel.String()},
		row{"Total Questions", fmt.Sprint(res.Attempted)},
		row{"Correct Answers", fmt.Sprint(res.Correct)},
	)
	if res.Skipped > 0 {
		rows = append(rows, row{"Skipped", fmt.Sprint(res.Skipped)})
	}
	rows = append(rows,
		row{"Accuracy", fmt.Sprintf("%.2f%%", sum.AccuracyPercent())},
		row{"Average Time per Question", fmt.Sprintf("%.2fs", sum.AvgTime.Seconds())},
		row{"Recommended Next Level", sum.RecommendedLevel.String()},
		row{"Total Duration", fmt.Sprintf("%.2fs", res.Duration.Seconds())},
	)
	return &SummaryScreen{
		title:   "Session Summary",
		heading: "Performance Summary for " + player,
		rows:    rows,
		note:    note,
		footer:  "Great job! Returning to main menu...",
	}
}

// NewOverall shows the tracker's totals after sessions games.
func NewOverall(sum tracker.Summary, sessions int) *SummaryScreen {
	s := &SummaryScreen{
		title:   "Performance Summary",
		heading: "Session Summary",
	}
	if sum.Empty() {
		s.note = "No questions answered yet. Start a session first!"
	}
	s.rows = []row{
		{"Sessions Played", fmt.Sprint(sessions)},
		{"Total Attempts", fmt.Sprint(sum.TotalAttempts)},
		{"Correct Answers", fmt.Sprint(sum.CorrectAnswers)},
		{"Accuracy", fmt.Sprintf("%.2f%%", sum.AccuracyPercent())},
		{"Average Time", fmt.Sprintf("%.2fs", sum.AvgTime.Seconds())},
		{"Recommended Next Level", sum.RecommendedLevel.String()},
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return s.title
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(s.heading), width))
	b.WriteString("\n\n")

	if s.note != "" {
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.note), width))
		b.WriteString("\n\n")
	}

	labelWidth := 0
	for _, r := range s.rows {
		labelWidth = max(labelWidth, lipgloss.Width(r.label))
	}
	lines := make([]string, len(s.rows))
	for i, r := range s.rows {
		lines[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Width(labelWidth+2).Render(r.label+":") +
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(r.value)
	}
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))

	if s.footer != "" {
		b.WriteString("\n\n")
		b.WriteString(layout.Centered(theme.Hint.Render(s.footer), width))
	}
	return b.String()
}
