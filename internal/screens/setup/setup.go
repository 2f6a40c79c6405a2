// Package setup walks the player through subject, topic and difficulty
// before a session starts.
package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screen"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/subject"
	"github.com/quizadv/quizadv/internal/ui/components"
	"github.com/quizadv/quizadv/internal/ui/layout"
	"github.com/quizadv/quizadv/internal/ui/theme"
)

type step int

const (
	stepSubject step = iota
	stepTopic
	stepLevel
)

type subjectPickedMsg struct{ Subject subject.Subject }

type levelPickedMsg struct{ Level difficulty.Tier }

// backMsg leaves setup for the main menu.
type backMsg struct{}

// SetupScreen collects a session.Setup. Picking Back on either menu
// returns to the main menu; Esc steps back one prompt.
type SetupScreen struct {
	step     step
	subjects components.Menu
	topic    components.TextInput
	levels   components.Menu
	picked   subject.Subject
	start    func(session.Setup) screen.Screen
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)
var _ screen.EscapeHandler = (*SetupScreen)(nil)

// New creates a SetupScreen. start builds the screen that replaces this
// one once every choice is made.
func New(start func(session.Setup) screen.Screen) *SetupScreen {
	var subjects []components.MenuItem
	for _, subj := range subject.All() {
		subjects = append(subjects, components.MenuItem{
			Label:  subj.String(),
			Action: emit(subjectPickedMsg{Subject: subj}),
		})
	}
	subjects = append(subjects, components.MenuItem{Label: "Back", Action: emit(backMsg{})})

	var levels []components.MenuItem
	for _, tier := range difficulty.All() {
		levels = append(levels, components.MenuItem{
			Label:  tier.Title(),
			Action: emit(levelPickedMsg{Level: tier}),
		})
	}
	levels = append(levels, components.MenuItem{Label: "Back", Action: emit(backMsg{})})

	return &SetupScreen{
		subjects: components.NewMenu(subjects),
		topic:    components.NewTextInput("e.g. Photosynthesis", 60),
		levels:   components.NewMenu(levels),
		start:    start,
	}
}

func emit(msg tea.Msg) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg { return msg }
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) HandlesEscape() bool {
	return true
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.step == stepTopic {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter/1-9", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case subjectPickedMsg:
		s.picked = msg.Subject
		s.step = stepTopic
		return s, s.topic.Focus()

	case levelPickedMsg:
		next := s.start(session.Setup{Subject: s.picked, Topic: s.topic.Value(), Level: msg.Level})
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case backMsg:
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyPressMsg:
		if msg.String() == "esc" {
			if s.step == stepSubject {
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			s.step--
			return s, nil
		}
	}

	var cmd tea.Cmd
	switch s.step {
	case stepSubject:
		s.subjects, cmd = s.subjects.Update(msg)
	case stepTopic:
		if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "enter" {
			s.step = stepLevel
			return s, nil
		}
		s.topic, cmd = s.topic.Update(msg)
	case stepLevel:
		s.levels, cmd = s.levels.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	var sections []string

	heading := func(text string) string {
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(text)
	}

	switch s.step {
	case stepSubject:
		sections = append(sections, heading("Choose subject:"), "", s.subjects.View())
	case stepTopic:
		sections = append(sections,
			theme.Body.Render("Subject: "+s.picked.String()), "",
			heading("Topic:"), s.topic.View(), "",
			theme.Hint.Render("Leave empty for a general question"))
	case stepLevel:
		topic := s.topic.Value()
		if topic == "" {
			topic = "General"
		}
		sections = append(sections,
			theme.Body.Render("Subject: "+s.picked.String()+"   Topic: "+topic), "",
			heading("Choose difficulty level:"), "", s.levels.View())
	}

	content := components.ArcadeCard(strings.Join(sections, "\n"), components.ContentWidth(width))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
