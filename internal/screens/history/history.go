// Package history lists past sessions from the event store.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/store"
	"github.com/quizadv/quizadv/internal/ui/layout"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

// pageSize is the number of sessions loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Sessions []store.SessionRecord
	Err      error
}

type attemptsLoadedMsg struct {
	SessionID string
	Attempts  []store.AttemptEvent
	Err       error
}

// HistoryScreen displays past sessions. Enter expands a session into
// its answered questions.
type HistoryScreen struct {
	repo     store.EventRepo
	sessions []store.SessionRecord
	attempts map[string][]store.AttemptEvent
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.EventRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		attempts: make(map[string][]store.AttemptEvent),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		sessions, err := repo.QuerySessions(context.Background(), store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Session History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case attemptsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.attempts[msg.SessionID] = msg.Attempts
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			if len(s.sessions) == 0 {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			if s.expanded[s.selected] {
				return s, s.loadAttempts(s.sessions[s.selected].SessionID)
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) loadAttempts(sessionID string) tea.Cmd {
	if _, ok := s.attempts[sessionID]; ok {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		attempts, err := repo.QueryAttempts(context.Background(), sessionID)
		return attemptsLoadedMsg{SessionID: sessionID, Attempts: attempts, Err: err}
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return layout.Centered(lipgloss.NewStyle().Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg)), width)
	}
	if !s.loaded {
		return layout.Centered(theme.Hint.Render("\n\n  Loading history..."), width)
	}
	if len(s.sessions) == 0 {
		return layout.Centered(theme.Hint.Render("\n\n  No sessions yet. Start a new session!"), width)
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+sessionLine(sess))))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderAttempts(sess.SessionID, width))
		}
	}

	return b.String()
}

func sessionLine(sess store.SessionRecord) string {
	var accuracy float64
	if sess.Attempted > 0 {
		accuracy = float64(sess.Correct) / float64(sess.Attempted) * 100
	}
	d := time.Duration(sess.DurationSecs * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%s  %-10s  %-6s  %d/%d correct  %.0f%%  %s",
		sess.Timestamp.Local().Format("Jan 02 15:04"),
		sess.Subject, sess.Level, sess.Correct, sess.Attempted, accuracy, d)
}

func (s *HistoryScreen) renderAttempts(sessionID string, width int) string {
	attempts, ok := s.attempts[sessionID]
	if !ok {
		return layout.Centered(theme.Hint.Render("    Loading..."), width) + "\n"
	}
	if len(attempts) == 0 {
		return layout.Centered(theme.Hint.Render("    No questions answered"), width) + "\n"
	}

	var b strings.Builder
	for _, a := range attempts {
		mark := theme.Correct.Render("✓")
		if !a.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		text := a.QuestionText
		if r := []rune(text); len(r) > 48 {
			text = string(r[:45]) + "..."
		}
		line := fmt.Sprintf("    %s Q%d [%s→%s] %s", mark, a.Round, a.Level, a.NextLevel, text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
