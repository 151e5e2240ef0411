package dashboard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/screens/year"
	"github.com/abhisek/academy/internal/ui/components"
	"github.com/abhisek/academy/internal/ui/layout"
	"github.com/abhisek/academy/internal/ui/theme"
)

var keyQuit = key.NewBinding(
	key.WithKeys("q"),
	key.WithHelp("q", "Quit"),
)

// DashboardScreen shows overall progress and the list of years.
type DashboardScreen struct {
	deps    screen.Deps
	menu    components.Menu
	summary progress.Summary
	years   []yearRow
}

type yearRow struct {
	number    int
	title     string
	modules   int
	completed int
	percent   float64
}

var _ screen.Screen = (*DashboardScreen)(nil)
var _ screen.KeyHintProvider = (*DashboardScreen)(nil)
var _ screen.Refresher = (*DashboardScreen)(nil)

// New creates a new DashboardScreen.
func New(deps screen.Deps) *DashboardScreen {
	d := &DashboardScreen{deps: deps}
	d.Refresh()
	return d
}

// Refresh recomputes figures from the tracker.
func (d *DashboardScreen) Refresh() {
	cat := d.deps.Library.Catalog
	d.summary = d.deps.Tracker.Summary(cat.ModuleCounts())

	d.years = d.years[:0]
	items := make([]components.MenuItem, 0, len(cat.Years))
	for _, y := range cat.Years {
		row := yearRow{
			number:  y.Number,
			title:   y.Title,
			modules: len(y.Modules),
			percent: d.deps.Tracker.YearCompletion(y.Number, len(y.Modules)),
		}
		for i := range y.Modules {
			if d.deps.Tracker.IsModuleComplete(y.Number, i) {
				row.completed++
			}
		}
		d.years = append(d.years, row)

		number := y.Number
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("Year %d: %s", y.Number, y.Title),
			Detail: fmt.Sprintf("%d/%d modules", row.completed, row.modules),
			Done:   row.modules > 0 && row.completed == row.modules,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: year.New(d.deps, number)}
				}
			},
		})
	}
	d.menu.SetItems(items)
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Dashboard"
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return layout.Hints(components.KeyUp, components.KeyDown, components.KeySelect, keyQuit)
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && key.Matches(kmsg, keyQuit) {
		return d, tea.Quit
	}
	var cmd tea.Cmd
	d.menu, cmd = d.menu.Update(msg)
	return d, cmd
}

func (d *DashboardScreen) View(width, height int) string {
	s := d.summary
	barWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(theme.Title.Render("  Your progress"))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(components.NewProgressBar("Overall", s.CatalogCompletion, true, barWidth).View())
	b.WriteString("\n\n")

	stats := fmt.Sprintf("  Modules completed: %d of %d", s.CompletedModules, s.TotalModules)
	b.WriteString(theme.Body.Render(stats))
	b.WriteString("\n")

	quizLine := fmt.Sprintf("  Quizzes taken: %d    Passed: %d", s.QuizzesTaken, s.QuizzesPassed)
	if s.QuizzesTaken > 0 {
		quizLine += fmt.Sprintf("    Average: %.0f%%", s.AverageQuizScore)
	}
	b.WriteString(theme.Body.Render(quizLine))
	b.WriteString("\n\n")

	b.WriteString(theme.Section.Render("  Years"))
	b.WriteString("\n")
	b.WriteString("  " + layout.Divider(width))
	b.WriteString("\n")

	if len(d.years) == 0 {
		b.WriteString(theme.Hint.Render("    The curriculum has no years yet."))
		return b.String()
	}
	b.WriteString(d.menu.View())
	b.WriteString("\n")

	// Per-year bars only when there is room for them.
	if height-lipgloss.Height(b.String()) >= len(d.years) {
		for _, y := range d.years {
			b.WriteString("  ")
			b.WriteString(components.NewProgressBar(fmt.Sprintf("Year %-2d", y.number), y.percent, true, barWidth).View())
			b.WriteString("\n")
		}
	}
	return b.String()
}
