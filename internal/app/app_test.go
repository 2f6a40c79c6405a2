package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/screens/home"
	"github.com/quizadv/quizadv/internal/screens/setup"
)

type idleGenerator struct{}

func (idleGenerator) Generate(ctx context.Context, _ mcq.GenerateInput) (mcq.Payload, error) {
	return nil, ctx.Err()
}

// deliver feeds msg to the model and delivers the message of the
// command it returns, one level deep.
func deliver(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m
	}
	if out := cmd(); out != nil {
		next, _ = m.Update(out)
		m = next.(AppModel)
	}
	return m
}

func enterHome(t *testing.T) AppModel {
	t.Helper()
	m := newAppModel(Options{Name: "Asha", Generator: idleGenerator{}})
	m = deliver(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = deliver(m, tea.KeyPressMsg{Code: ' ', Text: " "}) // skip animation
	m = deliver(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Fatalf("expected home screen, got %T", m.router.Active())
	}
	return m
}

func TestApp_WelcomeToHome(t *testing.T) {
	m := enterHome(t)
	if m.router.Depth() != 1 {
		t.Errorf("welcome should be replaced, depth = %d", m.router.Depth())
	}
	content := m.render()
	if !strings.Contains(content, "Quiz Adventures") || !strings.Contains(content, "Asha") {
		t.Error("header should show the brand and player")
	}
}

func TestApp_EscPopsToHome(t *testing.T) {
	m := enterHome(t)
	m = deliver(m, tea.KeyPressMsg{Code: '3', Text: "3"})
	if m.router.Depth() != 2 {
		t.Fatalf("expected graph pushed, depth = %d", m.router.Depth())
	}
	m = deliver(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Errorf("esc should pop, depth = %d", m.router.Depth())
	}
}

func TestApp_EscLeavesSummary(t *testing.T) {
	m := enterHome(t)
	m = deliver(m, tea.KeyPressMsg{Code: '2', Text: "2"})
	m = deliver(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 1 {
		t.Fatalf("esc should leave the summary, depth = %d", m.router.Depth())
	}
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestApp_TooSmall(t *testing.T) {
	m := deliver(newAppModel(Options{}), tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.render(), "Terminal too small") {
		t.Error("expected the min size message")
	}
}

func TestApp_EscHandledBySetup(t *testing.T) {
	m := enterHome(t)
	m = deliver(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	if _, ok := m.router.Active().(*setup.SetupScreen); !ok {
		t.Fatalf("expected setup screen, got %T", m.router.Active())
	}

	// Pick Math; the menu action message goes back to the setup screen.
	m = deliver(m, tea.KeyPressMsg{Code: '1', Text: "1"})
	m = deliver(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.router.Depth() != 2 {
		t.Errorf("esc should step back inside setup, depth = %d", m.router.Depth())
	}
}
