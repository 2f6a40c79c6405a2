package graph

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/quizadv/quizadv/internal/difficulty"
	"github.com/quizadv/quizadv/internal/plot"
	"github.com/quizadv/quizadv/internal/router"
	"github.com/quizadv/quizadv/internal/tracker"
)

func TestGraph_Empty(t *testing.T) {
	g := New(tracker.New("Asha").Series())
	if !strings.Contains(g.View(100, 30), plot.EmptyMessage) {
		t.Error("expected the empty message")
	}
}

func TestGraph_RendersSeries(t *testing.T) {
	tr := tracker.New("Asha")
	tr.Record(difficulty.Easy, true, 4*time.Second)
	tr.Record(difficulty.Medium, false, 9*time.Second)

	view := New(tr.Series()).View(100, 30)
	for _, want := range []string{"Asha", "Question Number"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGraph_EscPops(t *testing.T) {
	g := New(tracker.Series{})
	_, cmd := g.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
