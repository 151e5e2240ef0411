package components

import "charm.land/bubbles/v2/key"

// Navigation bindings shared by list components.
var (
	KeyUp = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "Up"),
	)
	KeyDown = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "Down"),
	)
	KeySelect = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "Select"),
	)
)
