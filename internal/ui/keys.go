package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// hostKeys are handled by the model before a key reaches the popup keymap.
type hostKeys struct {
	Up        key.Binding
	Down      key.Binding
	Cycle     key.Binding
	Close     key.Binding
	Interrupt key.Binding
}

type promptKeys struct {
	Submit     key.Binding
	Cancel     key.Binding
	Up         key.Binding
	Down       key.Binding
	DeleteRune key.Binding
	DeleteWord key.Binding
	Clear      key.Binding
}

// Cycle and Close are bound by every popup keymap; they are listed here for
// the footer only.
var keys = hostKeys{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑/↓", "move"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
	),
	Cycle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "cycle"),
	),
	Close: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q/esc", "close"),
	),
	Interrupt: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

var prompts = promptKeys{
	Submit:     key.NewBinding(key.WithKeys("enter")),
	Cancel:     key.NewBinding(key.WithKeys("esc", "ctrl+c", "ctrl+g")),
	Up:         key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:       key.NewBinding(key.WithKeys("down", "ctrl+n")),
	DeleteRune: key.NewBinding(key.WithKeys("backspace", "ctrl+h")),
	DeleteWord: key.NewBinding(key.WithKeys("ctrl+w")),
	Clear:      key.NewBinding(key.WithKeys("ctrl+u")),
}

// ShortHelp returns the bindings shown in the footer.
func (k hostKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Cycle, k.Close, k.Interrupt}
}

func footerHint() string {
	var parts []string
	for _, b := range keys.ShortHelp() {
		help := b.Help()
		if help.Key == "" {
			continue
		}
		parts = append(parts, help.Key+" "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
