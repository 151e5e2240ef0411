package dashboard

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/screens/module"
	"github.com/abhisek/academy/internal/screens/year"
	"github.com/abhisek/academy/internal/store"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDeps(t *testing.T) screen.Deps {
	t.Helper()
	lib, err := content.LoadDefault(content.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("load sample content: %v", err)
	}
	tracker := progress.NewTracker(context.Background(), progress.NewAdapter(store.NewMemoryKV()))
	return screen.Deps{Library: lib, Tracker: tracker}
}

func TestDashboardScreen_Title(t *testing.T) {
	d := New(testDeps(t))
	if d.Title() != "Dashboard" {
		t.Errorf("Title = %q", d.Title())
	}
}

func TestDashboardScreen_EmptyProgress(t *testing.T) {
	d := New(testDeps(t))
	view := d.View(100, 30)
	for _, want := range []string{"Modules completed: 0 of 5", "Quizzes taken: 0", "Year 1: Foundations of Finance"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDashboardScreen_RefreshPicksUpProgress(t *testing.T) {
	deps := testDeps(t)
	d := New(deps)

	if err := deps.Tracker.MarkModuleComplete(2, 0); err != nil {
		t.Fatal(err)
	}
	if err := deps.Tracker.MarkModuleComplete(2, 1); err != nil {
		t.Fatal(err)
	}
	if err := deps.Tracker.SaveQuizScore(2, 0, 2, 2); err != nil {
		t.Fatal(err)
	}
	d.Refresh()

	view := d.View(100, 30)
	for _, want := range []string{"Modules completed: 2 of 5", "Passed: 1", "Average: 100%", "2/2 modules", "40%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestDashboardScreen_EnterPushesYear(t *testing.T) {
	d := New(testDeps(t))

	d.Update(specialKey(tea.KeyDown))
	_, cmd := d.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	y, ok := push.Screen.(*year.YearScreen)
	if !ok {
		t.Fatalf("pushed %T, want *year.YearScreen", push.Screen)
	}
	if !strings.HasPrefix(y.Title(), "Year 2") {
		t.Errorf("pushed %q, want year 2", y.Title())
	}
}

func TestDashboardScreen_QuitKey(t *testing.T) {
	d := New(testDeps(t))
	_, cmd := d.Update(keyPress('q'))
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestDashboardScreen_PassCountFollowsThreshold(t *testing.T) {
	lib, err := content.LoadDefault(content.DefaultLoadOptions())
	if err != nil {
		t.Fatalf("load sample content: %v", err)
	}
	tracker := progress.NewTracker(context.Background(), progress.NewAdapter(store.NewMemoryKV()),
		progress.WithPassThreshold(80))
	deps := screen.Deps{Library: lib, Tracker: tracker}
	if err := tracker.SaveQuizScore(1, 0, 3, 4); err != nil { // 75%
		t.Fatal(err)
	}

	if deps.Passed(75) {
		t.Error("75% should not pass at an 80% threshold")
	}
	view := New(deps).View(100, 30)
	if !strings.Contains(view, "Quizzes taken: 1    Passed: 0") {
		t.Errorf("dashboard disagrees with the pass rule:\n%s", view)
	}
	if detail := module.New(deps, 1, 0).View(100, 30); strings.Contains(detail, "passed") {
		t.Errorf("module view marks 75%% as passed:\n%s", detail)
	}
}
