package components

import (
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/ui/theme"
)

// ContentWidth is the width shared by every box inside the cabinet so
// their borders line up. It never exceeds 64 columns.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// CabinetFrame draws the double border around the main menu and centers
// content inside it.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), true).
		BorderForeground(theme.Primary).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		AlignHorizontal(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

// ArcadeCard is a padded rounded box cw columns wide.
func ArcadeCard(content string, cw int) string {
	return theme.Card.UnsetBackground().Width(max(cw-2, 0)).Render(content)
}

// StatsBar frames the one-line player stats.
func StatsBar(stats string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder(), true).
		BorderForeground(theme.ArcadeCyan).
		Width(max(cw-2, 0)).
		Padding(0, 1).
		AlignHorizontal(lipgloss.Center).
		Render(stats)
}

type buttonState int

const (
	buttonIdle buttonState = iota
	buttonSelected
	buttonDisabled
)

const buttonWidth = 26

func buttonStyle(st buttonState) lipgloss.Style {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Padding(0, 1).
		AlignHorizontal(lipgloss.Center).
		Border(lipgloss.RoundedBorder(), true).
		BorderForeground(theme.Border).
		Foreground(theme.Text)
	switch st {
	case buttonSelected:
		return base.Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow)
	case buttonDisabled:
		return base.Foreground(theme.TextDim)
	}
	return base
}

func compactStyle(st buttonState) lipgloss.Style {
	switch st {
	case buttonSelected:
		return lipgloss.NewStyle().Bold(true).Foreground(theme.BgDark).Background(theme.ArcadeYellow)
	case buttonDisabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim)
	}
	return lipgloss.NewStyle().Foreground(theme.Text)
}

// ArcadeMenu stacks the menu entries as buttons. compact renders plain
// rows for short terminals.
func ArcadeMenu(m Menu, cw int, compact bool) string {
	disabled := m.DisabledSet()
	rows := make([]string, 0, len(m.Labels()))
	for i, label := range m.Labels() {
		st := buttonIdle
		if disabled[i] {
			st = buttonDisabled
		}
		if i == m.Selected {
			st = buttonSelected
		}

		switch {
		case compact && st == buttonSelected:
			rows = append(rows, compactStyle(st).Render(" ▸ "+label+" "))
		case compact:
			rows = append(rows, compactStyle(st).Render("   "+label))
		case st == buttonSelected:
			rows = append(rows, buttonStyle(st).Render("▸ "+label))
		default:
			rows = append(rows, buttonStyle(st).Render(label))
		}
	}
	column := lipgloss.JoinVertical(lipgloss.Center, rows...)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, column)
}
