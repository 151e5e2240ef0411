package module

import (
	"fmt"
	"log/slog"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	quizscreen "github.com/abhisek/academy/internal/screens/quiz"
	"github.com/abhisek/academy/internal/ui/layout"
	"github.com/abhisek/academy/internal/ui/theme"
)

var (
	keyToggle = key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "Toggle complete"),
	)
	keyQuiz = key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "Take quiz"),
	)
)

// ModuleScreen shows a module's resources, completion and quiz status.
type ModuleScreen struct {
	deps     screen.Deps
	key      progress.ModuleKey
	module   *content.Module
	quiz     *content.QuizDefinition
	done     bool
	result   progress.QuizResult
	hasScore bool
	errMsg   string
	keyQuiz  key.Binding
}

var _ screen.Screen = (*ModuleScreen)(nil)
var _ screen.KeyHintProvider = (*ModuleScreen)(nil)
var _ screen.Refresher = (*ModuleScreen)(nil)

// New creates a ModuleScreen for the module at (year, index).
func New(deps screen.Deps, year, index int) *ModuleScreen {
	m := &ModuleScreen{
		deps:    deps,
		key:     progress.Key(year, index),
		keyQuiz: keyQuiz,
	}
	m.module, _ = deps.Library.Module(year, index)
	m.quiz, _ = deps.Library.Quiz(year, index)
	m.keyQuiz.SetEnabled(m.quiz != nil)
	m.Refresh()
	return m
}

// Refresh re-reads completion and the stored quiz result.
func (m *ModuleScreen) Refresh() {
	t := m.deps.Tracker
	m.done = t.IsModuleComplete(m.key.Year, m.key.Index)
	m.result, m.hasScore = t.QuizScore(m.key.Year, m.key.Index)
}

func (m *ModuleScreen) Init() tea.Cmd {
	return nil
}

func (m *ModuleScreen) Title() string {
	if m.module == nil {
		return "Module"
	}
	return m.module.Name
}

func (m *ModuleScreen) KeyHints() []layout.KeyHint {
	return append(layout.Hints(keyToggle, m.keyQuiz),
		layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (m *ModuleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.module == nil {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, keyToggle):
		m.toggle()
	case key.Matches(kmsg, m.keyQuiz):
		return m, m.startQuiz()
	}
	return m, nil
}

func (m *ModuleScreen) toggle() {
	t := m.deps.Tracker
	var err error
	if m.done {
		err = t.MarkModuleIncomplete(m.key.Year, m.key.Index)
	} else {
		err = t.MarkModuleComplete(m.key.Year, m.key.Index)
	}
	if err != nil {
		slog.Warn("toggle completion failed", "module", m.key.String(), "error", err)
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.Refresh()
}

func (m *ModuleScreen) startQuiz() tea.Cmd {
	qs, err := quizscreen.New(m.deps, m.key, m.quiz)
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: qs}
	}
}

func (m *ModuleScreen) View(width, height int) string {
	var b strings.Builder
	if m.module == nil {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("  Module %s is not part of the curriculum.", m.key)))
		return b.String()
	}

	b.WriteString(theme.Title.Render("  " + m.module.Name))
	b.WriteString("\n")
	if m.module.Description != "" {
		b.WriteString(theme.Subtitle.Width(max(width-4, 10)).Render("  " + m.module.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.done {
		b.WriteString(theme.Complete.Render("  ✓ Completed"))
	} else {
		b.WriteString(theme.Hint.Render("  Not completed yet"))
	}
	b.WriteString("\n")
	b.WriteString(m.quizLine())
	b.WriteString("\n\n")

	sections := m.module.Resources.Sections()
	if len(sections) == 0 {
		b.WriteString(theme.Hint.Render("  No resources listed."))
		b.WriteString("\n")
	}
	for _, s := range sections {
		b.WriteString(theme.Section.Render(fmt.Sprintf("  %s (%d)", s.Kind, len(s.Items))))
		b.WriteString("\n")
		for _, item := range s.Items {
			b.WriteString(theme.Body.Render("    • " + item))
			b.WriteString("\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("  " + m.errMsg))
	}
	return b.String()
}

func (m *ModuleScreen) quizLine() string {
	switch {
	case m.quiz == nil:
		return theme.Hint.Render("  No quiz for this module")
	case !m.hasScore:
		return theme.Body.Render(fmt.Sprintf("  Quiz: %s (%d questions), not taken", m.quiz.Name, len(m.quiz.Questions)))
	}
	pct := m.result.Percentage()
	line := fmt.Sprintf("  Quiz: %d/%d (%d%%) on %s", m.result.Score, m.result.TotalQuestions, pct,
		m.result.Timestamp.Local().Format("Jan 2, 2006"))
	if m.deps.Passed(pct) {
		return theme.Correct.Render(line + "  passed")
	}
	return theme.Chosen.Render(line)
}
