package layout

import (
	"strings"
	"testing"

	"charm.land/bubbles/v2/key"
)

func TestHints_SkipsDisabled(t *testing.T) {
	on := key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "Complete"))
	off := key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "Quiz"), key.WithDisabled())

	hints := Hints(on, off)
	if len(hints) != 1 {
		t.Fatalf("len(hints) = %d, want 1", len(hints))
	}
	if hints[0] != (KeyHint{Key: "c", Description: "Complete"}) {
		t.Errorf("hint = %+v", hints[0])
	}
}

func TestRenderHeader_ShowsProgress(t *testing.T) {
	h := RenderHeader("Dashboard", HeaderStats{Completed: 3, Total: 12, Percent: 25}, 100)
	for _, want := range []string{AppName, "Dashboard", "3/12", "25%"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected too small for narrow terminal")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected minimum size to fit")
	}
}
