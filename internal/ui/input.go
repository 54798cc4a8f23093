package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/ui/command"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.prompt != nil {
		return m.handlePromptKey(keyMsg)
	}
	if key.Matches(keyMsg, keys.Interrupt) {
		m.quit = true
		m.result = popup.Result{Close: true}
		events.Popup.Close(m.buffer.Name, "interrupt")
		return tea.Quit
	}
	if m.busy {
		return nil
	}
	switch {
	case key.Matches(keyMsg, keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(keyMsg, keys.Down):
		m.moveCursor(1)
		return nil
	}
	token := keyToken(keyMsg)
	if token == "" || m.buffer.Keymap == nil {
		return nil
	}
	m.notice = notice{}
	binding, pending := m.buffer.Keymap.Feed(token)
	if binding != nil {
		return m.dispatch(binding)
	}
	if !pending {
		m.notice = notice{level: noticeWarn, text: fmt.Sprintf("%s is undefined", token), expire: m.noticeExpiry()}
	}
	return nil
}

// dispatch runs the binding off the event loop so that the popup may block
// on prompts.
func (m *Model) dispatch(b *popup.Binding) tea.Cmd {
	m.busy = true
	p := m.popup
	cursor := m.cursor
	return m.bus.Execute(command.Request{ID: b.ID, Label: b.Key, Run: func() tea.Msg {
		return dispatchDoneMsg{result: p.Dispatch(b, cursor)}
	}})
}

// keyToken converts a key press to the notation used by popup keys: a
// printable character stands for itself and named keys use <name>.
func keyToken(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) != 1 {
			return ""
		}
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	case tea.KeyTab:
		return popup.KeyCycle
	case tea.KeyEsc:
		return popup.KeyEscape
	}
	return "<" + msg.String() + ">"
}
