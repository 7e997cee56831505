package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// DefaultToggleKey opens and closes the menu when no key is configured.
const DefaultToggleKey = "ctrl+t"

type keyMap struct {
	Toggle   key.Binding
	Close    key.Binding
	Quit     key.Binding
	QuitIdle key.Binding
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Home     key.Binding
	End      key.Binding
	Copy     key.Binding
	Clear    key.Binding
}

func newKeyMap(toggle string) keyMap {
	toggle = strings.TrimSpace(toggle)
	if toggle == "" {
		toggle = DefaultToggleKey
	}
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(toggle),
			key.WithHelp(toggle, "toggle"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		QuitIdle: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "tab"),
			key.WithHelp("↓/tab", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("↑/shift+tab", "previous"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "switch"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy title"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear filter"),
		),
	}
}

func (k keyMap) footer(open bool) string {
	bindings := []key.Binding{k.Toggle, k.Quit}
	if open {
		bindings = []key.Binding{k.Next, k.Prev, k.Activate, k.Copy, k.Close}
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}
