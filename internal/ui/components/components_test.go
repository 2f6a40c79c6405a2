package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

type picked struct{ index int }

func testMenu() Menu {
	item := func(i int, disabled bool) MenuItem {
		return MenuItem{
			Label:    []string{"Start", "Summary", "Exit"}[i],
			Disabled: disabled,
			Action:   func() tea.Cmd { return func() tea.Msg { return picked{i} } },
		}
	}
	return NewMenu([]MenuItem{item(0, false), item(1, true), item(2, false)})
}

func TestMenu_NavigationSkipsDisabled(t *testing.T) {
	m := testMenu()
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 2 {
		t.Errorf("Selected = %d, want 2", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
}

func TestMenu_EnterActivates(t *testing.T) {
	m := testMenu()
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if got := cmd().(picked); got.index != 0 {
		t.Errorf("picked %d, want 0", got.index)
	}
}

func TestMenu_NumberShortcut(t *testing.T) {
	m := testMenu()
	m, cmd := m.Update(key('3'))
	if cmd == nil || m.Selected != 2 {
		t.Fatalf("expected item 3 to activate, selected=%d", m.Selected)
	}
	if _, cmd := m.Update(key('2')); cmd != nil {
		t.Error("disabled item should not activate")
	}
	if _, cmd := m.Update(key('9')); cmd != nil {
		t.Error("out of range number should be ignored")
	}
}

func TestMultiChoice_NumberSubmits(t *testing.T) {
	mc := NewMultiChoice("Capital of France?", []string{"Rome", "Paris", "Oslo", "Bern"}, 1)
	mc, _ = mc.Update(key('2'))
	if !mc.Submitted || mc.ChosenIndex != 1 || !mc.IsCorrect() {
		t.Errorf("unexpected state after pressing 2: %+v", mc)
	}

	mc, _ = mc.Update(key('3'))
	if mc.ChosenIndex != 1 {
		t.Error("input after submission should be ignored")
	}
}

func TestMultiChoice_ArrowsAndEnter(t *testing.T) {
	mc := NewMultiChoice("Q", []string{"a", "b", "c", "d"}, 0)
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	mc, _ = mc.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if mc.ChosenIndex != 2 || mc.IsCorrect() {
		t.Errorf("ChosenIndex = %d, want 2 (wrong)", mc.ChosenIndex)
	}
	if !strings.Contains(mc.View(), "3. c") {
		t.Errorf("view missing numbered option:\n%s", mc.View())
	}
}

func TestRoundTrack(t *testing.T) {
	tr := NewRoundTrack(5)
	if tr.Label() != "Round 1/5" {
		t.Errorf("fresh label = %q", tr.Label())
	}

	tr.Set(1, Right)
	tr.Set(2, Skipped)
	tr.Set(3, Current)
	if tr.Label() != "Round 3/5" {
		t.Errorf("label = %q, want Round 3/5", tr.Label())
	}
	if tr.Outcome(2) != Skipped || tr.Outcome(4) != Pending {
		t.Errorf("outcomes = %v %v", tr.Outcome(2), tr.Outcome(4))
	}

	tr.Set(0, Wrong)
	tr.Set(6, Wrong)
	if tr.Outcome(0) != Pending || tr.Outcome(6) != Pending {
		t.Error("out-of-range rounds must be ignored")
	}

	for i := 1; i <= 5; i++ {
		tr.Set(i, Wrong)
	}
	if tr.Label() != "Round 5/5" {
		t.Errorf("label should not pass the last round, got %q", tr.Label())
	}
	if strings.Count(tr.View(), "●") != 5 {
		t.Errorf("expected 5 markers:\n%s", tr.View())
	}
}

func TestTextInputNormalisesValue(t *testing.T) {
	ti := NewTextInput("name", 20)
	ti.SetValue("  Asha   Rao ")
	if ti.Value() != "Asha Rao" {
		t.Errorf("Value = %q", ti.Value())
	}
}

func TestTextInputReject(t *testing.T) {
	ti := NewTextInput("name", 20)
	ti.Reject()
	if !ti.Rejected() || !strings.Contains(ti.View(), "✗") {
		t.Fatal("rejected input should show a mark")
	}
	ti.SetValue("Asha")
	if ti.Rejected() {
		t.Error("setting a value should clear the rejection")
	}
}
