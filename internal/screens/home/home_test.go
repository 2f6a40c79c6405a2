package home

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/mcq"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/screens/graph"
	"github.com/quizadv/quizadv/internal/screens/quiz"
	"github.com/quizadv/quizadv/internal/screens/setup"
	"github.com/quizadv/quizadv/internal/screens/summary"
	"github.com/quizadv/quizadv/internal/session"
	"github.com/quizadv/quizadv/internal/subject"
)

type nopGenerator struct{}

func (nopGenerator) Generate(context.Context, mcq.GenerateInput) (mcq.Payload, error) {
	return nil, context.Canceled
}

func pick(t *testing.T, h *HomeScreen, r rune) tea.Msg {
	t.Helper()
	_, cmd := h.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func pushed(t *testing.T, msg tea.Msg) any {
	t.Helper()
	p, ok := msg.(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", msg)
	}
	return p.Screen
}

func TestHome_MenuRoutes(t *testing.T) {
	h := New("Asha", Config{Generator: nopGenerator{}})

	if _, ok := pushed(t, pick(t, h, '1')).(*setup.SetupScreen); !ok {
		t.Error("1 should open the setup screen")
	}
	if _, ok := pushed(t, pick(t, h, '2')).(*summary.SummaryScreen); !ok {
		t.Error("2 should open the summary screen")
	}
	if _, ok := pushed(t, pick(t, h, '3')).(*graph.GraphScreen); !ok {
		t.Error("3 should open the graph screen")
	}
	if msg := pick(t, h, '4'); msg != nil {
		t.Errorf("history should be disabled without a store, got %T", msg)
	}
	if _, ok := pick(t, h, '5').(tea.QuitMsg); !ok {
		t.Error("5 should quit")
	}
}

func TestHome_StartDisabledWithoutGenerator(t *testing.T) {
	h := New("Asha", Config{})
	if msg := pick(t, h, '1'); msg != nil {
		t.Errorf("start should be disabled, got %T", msg)
	}
	if !strings.Contains(h.View(100, 40), "Set an LLM API key") {
		t.Error("expected the LLM banner")
	}
}

func TestHome_StartQuizRecordsResult(t *testing.T) {
	h := New("Asha", Config{Generator: nopGenerator{}})
	s := h.startQuiz(session.Setup{Subject: subject.English, Level: difficulty.Medium})
	if _, ok := s.(*quiz.QuizScreen); !ok {
		t.Fatalf("expected quiz screen, got %T", s)
	}

	h.record(&session.Result{Subject: subject.English})
	if len(h.Results()) != 1 {
		t.Errorf("Results = %d, want 1", len(h.Results()))
	}
}

func TestHome_ViewAndStatus(t *testing.T) {
	h := New("Asha", Config{Generator: nopGenerator{}})
	h.Tracker().Record(difficulty.Easy, true, 0)

	for _, size := range [][2]int{{120, 40}, {80, 18}} {
		view := h.View(size[0], size[1])
		if !strings.Contains(view, "Hello, Asha!") {
			t.Errorf("%dx%d: greeting missing", size[0], size[1])
		}
		if !strings.Contains(view, "START NEW SESSION") {
			t.Errorf("%dx%d: menu missing", size[0], size[1])
		}
	}
	if got := h.Status(); !strings.Contains(got, "Asha") || !strings.Contains(got, "★ 1") {
		t.Errorf("Status = %q", got)
	}
}
