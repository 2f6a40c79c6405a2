// Package layout arranges the frame around each screen: a header bar, the
// screen body and a footer of key hints.
package layout

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/ui/theme"
)

// Terminal size limits.
const (
	MinWidth  = 80
	MinHeight = 24

	compactWidth  = 100
	compactHeight = 30
)

// Bar heights including their borders.
const (
	HeaderHeight = 3
	FooterHeight = 3
)

const brand = "Quiz Adventures"

// KeyHint is one entry of the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompact reports whether screens should drop decorative sections.
func IsCompact(width, height int) bool {
	return width < compactWidth || height < compactHeight
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// Centered renders each line of s centered in width.
func Centered(s string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s)
}

// RenderMinSizeMessage fills the terminal with a resize request.
func RenderMinSizeMessage(width, height int) string {
	msg := lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(fmt.Sprintf(
		"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height,
	))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

func bar(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderHeader draws the brand on the left, title in the middle and status
// on the right. status may be empty.
func RenderHeader(title, status string, width int) string {
	inner := max(width-4, 3)
	third := inner / 3

	left := lipgloss.NewStyle().Width(third).Foreground(theme.Primary).Bold(true).
		Render(" " + brand)
	center := lipgloss.NewStyle().Width(inner - 2*third).Align(lipgloss.Center).
		Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Width(third).Align(lipgloss.Right).
		Foreground(theme.Accent).Render(status + " ")

	row := lipgloss.JoinHorizontal(lipgloss.Top, left, center, right)
	return bar(width).Render(lipgloss.NewStyle().MaxHeight(1).Render(row))
}

// RenderFooter draws the key hints left to right.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)
	gap := lipgloss.NewStyle().PaddingLeft(3)

	parts := []string{" "}
	for i, h := range hints {
		hint := key.Render(h.Key) + " " + desc.Render(h.Description)
		if i > 0 {
			hint = gap.Render(hint)
		}
		parts = append(parts, hint)
	}
	return bar(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

// RenderFrame stacks header, content and footer, stretching the content
// to fill height.
func RenderFrame(header, content, footer string, width, height int) string {
	body := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Width(width).Height(body).Render(content),
		footer,
	)
}
