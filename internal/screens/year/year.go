package year

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/screens/module"
	"github.com/abhisek/academy/internal/ui/components"
	"github.com/abhisek/academy/internal/ui/layout"
	"github.com/abhisek/academy/internal/ui/theme"
)

// YearScreen lists the modules of one year with their completion state.
type YearScreen struct {
	deps    screen.Deps
	number  int
	year    *content.Year
	menu    components.Menu
	percent float64
}

var _ screen.Screen = (*YearScreen)(nil)
var _ screen.KeyHintProvider = (*YearScreen)(nil)
var _ screen.Refresher = (*YearScreen)(nil)

// New creates a YearScreen for the given year number. An unknown year
// renders a not-found message.
func New(deps screen.Deps, number int) *YearScreen {
	y := &YearScreen{deps: deps, number: number}
	y.year, _ = deps.Library.Year(number)
	y.Refresh()
	return y
}

// Refresh rebuilds the module list from the tracker.
func (y *YearScreen) Refresh() {
	if y.year == nil {
		return
	}
	t := y.deps.Tracker
	y.percent = t.YearCompletion(y.number, len(y.year.Modules))

	items := make([]components.MenuItem, 0, len(y.year.Modules))
	for i, m := range y.year.Modules {
		item := components.MenuItem{
			Label:  fmt.Sprintf("%d. %s", i+1, m.Name),
			Done:   t.IsModuleComplete(y.number, i),
			Detail: fmt.Sprintf("%d resources", m.Resources.Total()),
		}
		if _, ok := y.deps.Library.Quiz(y.number, i); ok {
			item.Badge = "quiz"
			if qr, ok := t.QuizScore(y.number, i); ok {
				item.Badge = fmt.Sprintf("quiz %d%%", qr.Percentage())
			}
		}

		index := i
		item.Action = func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: module.New(y.deps, y.number, index)}
			}
		}
		items = append(items, item)
	}
	y.menu.SetItems(items)
}

func (y *YearScreen) Init() tea.Cmd {
	return nil
}

func (y *YearScreen) Title() string {
	if y.year == nil {
		return fmt.Sprintf("Year %d", y.number)
	}
	return fmt.Sprintf("Year %d: %s", y.year.Number, y.year.Title)
}

func (y *YearScreen) KeyHints() []layout.KeyHint {
	return append(layout.Hints(components.KeyUp, components.KeyDown, components.KeySelect),
		layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (y *YearScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	y.menu, cmd = y.menu.Update(msg)
	return y, cmd
}

func (y *YearScreen) View(width, height int) string {
	var b strings.Builder
	if y.year == nil {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("  Year %d is not part of the curriculum.", y.number)))
		return b.String()
	}

	b.WriteString(theme.Title.Render("  " + y.year.Title))
	b.WriteString("\n\n  ")
	b.WriteString(components.NewProgressBar("Completion", y.percent, true, min(width-8, 70)).View())
	b.WriteString("\n\n")

	if len(y.year.Modules) == 0 {
		b.WriteString(theme.Hint.Render("    No modules this year."))
		return b.String()
	}
	b.WriteString(y.menu.View())
	return b.String()
}
