package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quizadv/quizadv/internal/ui/theme"
)

var rejectMark = lipgloss.NewStyle().Foreground(theme.Error).Render(" ✗")

// TextInput is a single-line field for names and topics. Its value is
// normalised to single spaces between words.
type TextInput struct {
	field    textinput.Model
	rejected bool
}

// NewTextInput returns a focused field accepting at most limit runes.
// A limit of zero means no limit.
func NewTextInput(placeholder string, limit int) TextInput {
	f := textinput.New()
	f.Placeholder = placeholder
	f.CharLimit = max(limit, 0)
	f.Focus()
	return TextInput{field: f}
}

// Focus returns the cursor blink command.
func (t TextInput) Focus() tea.Cmd {
	return t.field.Focus()
}

// Update feeds msg to the field. Any edit clears a previous rejection.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	before := t.field.Value()
	var cmd tea.Cmd
	t.field, cmd = t.field.Update(msg)
	if t.field.Value() != before {
		t.rejected = false
	}
	return t, cmd
}

func (t TextInput) View() string {
	if t.rejected {
		return t.field.View() + rejectMark
	}
	return t.field.View()
}

func (t TextInput) Value() string {
	return strings.Join(strings.Fields(t.field.Value()), " ")
}

func (t *TextInput) SetValue(s string) {
	t.field.SetValue(s)
	t.rejected = false
}

// Reject flags the current value until it is edited.
func (t *TextInput) Reject() { t.rejected = true }

func (t TextInput) Rejected() bool { return t.rejected }
