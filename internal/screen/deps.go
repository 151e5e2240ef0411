package screen

import (
	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
)

// Deps is what every screen needs to render and mutate progress.
type Deps struct {
	Library *content.Library
	Tracker *progress.Tracker
}

// Passed reports whether pct meets the tracker's passing percentage, the
// same rule its Summary counts with.
func (d Deps) Passed(pct int) bool {
	return d.Tracker.Passed(pct)
}
