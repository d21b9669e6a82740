// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// FastMultiplier scales the step for the fast bindings.
const FastMultiplier = 10

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the full help.
	Help key.Binding

	// Decrease lowers the scale by one step.
	Decrease key.Binding

	// Increase raises the scale by one step.
	Increase key.Binding

	// DecreaseFast lowers the scale by ten steps.
	DecreaseFast key.Binding

	// IncreaseFast raises the scale by ten steps.
	IncreaseFast key.Binding

	// Reset sets the scale back to 1.
	Reset key.Binding

	// Open prompts for a folder to load.
	Open key.Binding

	// Up moves up the asset list.
	Up key.Binding

	// Down moves down the asset list.
	Down key.Binding

	// Confirm accepts the prompt.
	Confirm key.Binding

	// Cancel closes the prompt.
	Cancel key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("left", "h", "-"),
			key.WithHelp("←/h", "smaller"),
		),
		Increase: key.NewBinding(
			key.WithKeys("right", "l", "+", "="),
			key.WithHelp("→/l", "larger"),
		),
		DecreaseFast: key.NewBinding(
			key.WithKeys("shift+left", "pgdown", "H"),
			key.WithHelp("⇧←/pgdn", "much smaller"),
		),
		IncreaseFast: key.NewBinding(
			key.WithKeys("shift+right", "pgup", "L"),
			key.WithHelp("⇧→/pgup", "much larger"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset scale"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "load"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Decrease, k.Increase, k.Open, k.Help, k.Quit}
}

// PromptHelp returns keybindings shown while the folder prompt is open.
func (k *KeyMap) PromptHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Decrease, k.Increase, k.DecreaseFast, k.IncreaseFast, k.Reset},
		{k.Up, k.Down, k.Open},
		{k.Help, k.Quit},
	}
}
