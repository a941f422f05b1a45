// Package keymap defines the account prompt's key bindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the prompt bindings. Switch, Keep and Abort choose directly;
// Up, Down and Select choose from the list.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	Switch key.Binding
	Keep   key.Binding
	Abort  key.Binding

	// Cancel leaves the prompt without a choice, which aborts the join.
	Cancel key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Switch: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "switch"),
		),
		Keep: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue as current"),
		),
		Abort: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "abort"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "q", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Switch, k.Keep, k.Abort, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Switch, k.Keep, k.Abort, k.Cancel},
	}
}
