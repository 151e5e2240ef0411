package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	bannerAt     = 300 * time.Millisecond
	greetingAt   = 800 * time.Millisecond
	autoAdvance  = 2500 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen shows the banner and a progress greeting, then replaces
// itself with the screen produced by next. Any key skips ahead.
type WelcomeScreen struct {
	next         func() screen.Screen
	summary      progress.Summary
	elapsed      time.Duration
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen greeting the learner with summary.
func New(next func() screen.Screen, summary progress.Summary) *WelcomeScreen {
	return &WelcomeScreen{next: next, summary: summary}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed += tickInterval
		if w.elapsed >= autoAdvance {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// greeting describes where the learner left off.
func (w *WelcomeScreen) greeting() string {
	s := w.summary
	switch {
	case s.TotalModules == 0:
		return "The curriculum is empty."
	case s.CompletedModules == 0 && s.QuizzesTaken == 0:
		return fmt.Sprintf("Welcome! %d modules are waiting for you.", s.TotalModules)
	case s.CompletedModules >= s.TotalModules:
		return "Every module is complete. Well done!"
	}
	return fmt.Sprintf("Welcome back! %d of %d modules complete (%.0f%%).",
		s.CompletedModules, s.TotalModules, s.CatalogCompletion)
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed >= bannerAt {
		sections = append(sections, RenderBanner(width), "")
	}

	if w.elapsed >= greetingAt {
		sections = append(sections,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(w.greeting()),
			"",
			theme.Hint.Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
