package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/screens/dashboard"
	"github.com/abhisek/academy/internal/screens/welcome"
	"github.com/abhisek/academy/internal/ui/layout"
)

// Options holds dependencies for the app.
type Options struct {
	Library *content.Library
	Tracker *progress.Tracker
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	deps   screen.Deps
	counts map[int]int
	width  int
	height int
}

// newAppModel creates a new AppModel starting on the welcome screen, which
// hands over to the dashboard.
func newAppModel(opts Options) AppModel {
	deps := screen.Deps{
		Library: opts.Library,
		Tracker: opts.Tracker,
	}
	counts := opts.Library.Catalog.ModuleCounts()
	splash := welcome.New(func() screen.Screen {
		return dashboard.New(deps)
	}, opts.Tracker.Summary(counts))

	return AppModel{
		router: router.New(splash),
		deps:   deps,
		counts: counts,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerStats() layout.HeaderStats {
	s := m.deps.Tracker.Summary(m.counts)
	return layout.HeaderStats{
		Completed: s.CompletedModules,
		Total:     s.TotalModules,
		Percent:   s.CatalogCompletion,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStats(), m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
