package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/ui/layout"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	switch s.phase {
	case phaseLoading:
		b.WriteString(s.renderLoading(width))
	case phaseQuestion:
		b.WriteString(s.renderQuestion(width))
	case phaseFeedback:
		b.WriteString(s.renderFeedback(width))
	}
	return b.String()
}

// renderInfoLine shows the subject and topic on the left and round
// progress with the current tier on the right.
func (s *QuizScreen) renderInfoLine(width int) string {
	topic := s.setup.Topic
	if topic == "" {
		topic = "General"
	}
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s · %s", s.setup.Subject, topic))

	level := s.setup.Level
	if s.state != nil {
		level = s.state.Level
	}
	right := s.track.View() + "   " + theme.TierBadge(level)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		return left + "\n  " + right
	}
	return left + strings.Repeat(" ", gap) + right
}

func (s *QuizScreen) renderLoading(width int) string {
	var b strings.Builder
	if s.notice != "" {
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Accent).Render(s.notice), width))
		b.WriteString("\n\n")
	}
	b.WriteString(layout.Centered(theme.Hint.Render(fmt.Sprintf("Generating Q%d of %d...", min(s.round+1, s.rounds), s.rounds)), width))
	return b.String()
}

func (s *QuizScreen) renderQuestion(width int) string {
	var b strings.Builder

	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q%d of %d   ⏱ %ds", s.round, s.rounds, int(s.clock.Seconds()))), width))
	b.WriteString("\n\n")

	qWidth := min(width-8, 72)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(qWidth).Foreground(theme.Text).Bold(true).Render(s.question.Text)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(qWidth).Render(s.choices.View())))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint.Render(fmt.Sprintf("Your answer (1-%d)", len(s.question.Choices))), width))
	return b.String()
}

func (s *QuizScreen) renderFeedback(width int) string {
	fb := s.feedback
	qWidth := min(width-8, 72)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(qWidth).Foreground(theme.Text).Bold(true).Render(s.question.Text)))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(qWidth).Render(s.choices.View())))
	b.WriteString("\n")

	if fb.Correct {
		b.WriteString(layout.Centered(theme.Correct.Render("✅ Correct!"), width))
	} else {
		b.WriteString(layout.Centered(theme.Incorrect.Render("❌ Wrong."), width))
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Body.Render("Correct answer: "+fb.CorrectAnswer()), width))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(qWidth).Foreground(theme.Text).Render("Explanation: "+fb.Explanation())))
	b.WriteString("\n\n")

	if fb.NextLevel != fb.PreviousLevel {
		b.WriteString(layout.Centered(theme.Hint.Render("Next question: ")+theme.TierBadge(fb.NextLevel), width))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Centered(theme.Hint.Render("Press any key to continue..."), width))
	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("End session early?"), width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Answers so far still count."), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Success).Render("[Y] Yes, end session"), width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Primary).Render("[N] No, keep going"), width))
	return b.String()
}
