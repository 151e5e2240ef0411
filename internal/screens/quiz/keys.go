package quiz

import "charm.land/bubbles/v2/key"

var (
	keyAnswer = key.NewBinding(
		key.WithKeys("enter", "space"),
		key.WithHelp("Enter", "Answer"),
	)
	keyPrev = key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "Prev"),
	)
	keyNext = key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→", "Next"),
	)
	keySubmit = key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "Submit"),
	)
	keyRetake = key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "Retake"),
	)
	keyDone = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Done"),
	)
	keyScrollUp = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑↓", "Scroll"),
	)
	keyScrollDown = key.NewBinding(
		key.WithKeys("down", "j"),
	)
)
