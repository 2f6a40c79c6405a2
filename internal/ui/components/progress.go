package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/ui/theme"
)

// Outcome is the state of one round slot.
type Outcome int

const (
	Pending Outcome = iota
	Current
	Right
	Wrong
	Skipped
)

// RoundTrack draws one marker per round of a session.
type RoundTrack struct {
	slots []Outcome
}

// NewRoundTrack returns a track with every slot pending.
func NewRoundTrack(rounds int) RoundTrack {
	return RoundTrack{slots: make([]Outcome, max(rounds, 0))}
}

// Set records the outcome of round, counted from 1. Out-of-range rounds
// are ignored.
func (r *RoundTrack) Set(round int, o Outcome) {
	if round >= 1 && round <= len(r.slots) {
		r.slots[round-1] = o
	}
}

// Outcome returns the state of round, counted from 1.
func (r RoundTrack) Outcome(round int) Outcome {
	if round < 1 || round > len(r.slots) {
		return Pending
	}
	return r.slots[round-1]
}

// Label reads "Round n/N" for the first slot not yet decided.
func (r RoundTrack) Label() string {
	decided := 0
	for _, o := range r.slots {
		if o == Right || o == Wrong || o == Skipped {
			decided++
		}
	}
	return fmt.Sprintf("Round %d/%d", min(decided+1, len(r.slots)), len(r.slots))
}

type marker struct {
	glyph string
	style lipgloss.Style
}

var markers = map[Outcome]marker{
	Pending: {"·", lipgloss.NewStyle().Foreground(theme.Border)},
	Current: {"◆", lipgloss.NewStyle().Foreground(theme.Accent)},
	Right:   {"●", lipgloss.NewStyle().Foreground(theme.Success)},
	Wrong:   {"●", lipgloss.NewStyle().Foreground(theme.Error)},
	Skipped: {"○", lipgloss.NewStyle().Foreground(theme.TextDim)},
}

// View renders the label followed by the markers.
func (r RoundTrack) View() string {
	parts := make([]string, len(r.slots))
	for i, o := range r.slots {
		m := markers[o]
		parts[i] = m.style.Render(m.glyph)
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render(r.Label()) + "  " + strings.Join(parts, " ")
}
