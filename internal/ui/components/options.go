package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/academy/internal/ui/theme"
)

// Choice is one selectable answer in an OptionList.
type Choice struct {
	Key  string
	Text string
}

// OptionList renders a multiple-choice question's answers. The cursor moves
// with the arrow keys; the chosen key is owned by the caller.
type OptionList struct {
	Choices []Choice
	Cursor  int
	Chosen  string // key of the recorded answer, "" if none
	Answer  string // correct key, set only when reviewing
}

// NewOptionList creates a list with the cursor on the chosen answer, or on
// the first choice when nothing is chosen.
func NewOptionList(choices []Choice, chosen string) OptionList {
	l := OptionList{Choices: choices, Chosen: chosen}
	for i, c := range choices {
		if c.Key == chosen {
			l.Cursor = i
		}
	}
	return l
}

// Update moves the cursor.
func (l OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch {
	case key.Matches(kmsg, KeyUp):
		if l.Cursor > 0 {
			l.Cursor--
		}
	case key.Matches(kmsg, KeyDown):
		if l.Cursor < len(l.Choices)-1 {
			l.Cursor++
		}
	}
	return l, nil
}

// Highlighted returns the key under the cursor.
func (l OptionList) Highlighted() string {
	if l.Cursor < 0 || l.Cursor >= len(l.Choices) {
		return ""
	}
	return l.Choices[l.Cursor].Key
}

// Reviewing reports whether the list shows the correct answer.
func (l OptionList) Reviewing() bool { return l.Answer != "" }

// View renders the choices.
func (l OptionList) View() string {
	var b strings.Builder
	for i, c := range l.Choices {
		prefix := "  "
		if i == l.Cursor && !l.Reviewing() {
			prefix = "▸ "
		}
		marker := "○"
		if c.Key == l.Chosen {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, strings.ToUpper(c.Key), c.Text)

		var style lipgloss.Style
		switch {
		case l.Reviewing() && c.Key == l.Answer:
			style = theme.Correct
		case l.Reviewing() && c.Key == l.Chosen:
			style = theme.Incorrect
		case l.Reviewing():
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case c.Key == l.Chosen:
			style = theme.Chosen
		case i == l.Cursor:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
