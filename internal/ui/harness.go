package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const harnessTimeout = 5 * time.Second

// Harness drives the UI model programmatically for integration tests. Commands
// run on their own goroutines like they would under a tea.Program, and Send
// returns once the model is idle or waiting on a prompt.
type Harness struct {
	model    *Model
	msgs     chan tea.Msg
	inflight int
	quit     bool
}

type cmdDone struct {
	msg tea.Msg
}

// NewHarness creates a harness for the provided model and attaches bridge to
// it. The model's Init command is run before returning.
func NewHarness(model *Model, bridge *Bridge) *Harness {
	h := &Harness{model: model, msgs: make(chan tea.Msg, 64)}
	if bridge != nil {
		bridge.Attach(func(msg tea.Msg) { h.msgs <- msg })
	}
	h.run(model.Init())
	h.settle()
	return h
}

// Send routes a message through the model and processes the resulting
// commands until the model settles.
func (h *Harness) Send(msg tea.Msg) {
	h.update(msg)
	h.settle()
}

// Keys sends each key in order. Named keys use the popup notation such as
// "<tab>"; other strings are typed rune by rune.
func (h *Harness) Keys(keys ...string) {
	for _, key := range keys {
		for _, msg := range keyMsgs(key) {
			h.Send(msg)
		}
	}
}

func keyMsgs(key string) []tea.KeyMsg {
	switch key {
	case "<tab>":
		return []tea.KeyMsg{{Type: tea.KeyTab}}
	case "<esc>":
		return []tea.KeyMsg{{Type: tea.KeyEsc}}
	case "<enter>":
		return []tea.KeyMsg{{Type: tea.KeyEnter}}
	case "<up>":
		return []tea.KeyMsg{{Type: tea.KeyUp}}
	case "<down>":
		return []tea.KeyMsg{{Type: tea.KeyDown}}
	case "<backspace>":
		return []tea.KeyMsg{{Type: tea.KeyBackspace}}
	case "<ctrl+c>":
		return []tea.KeyMsg{{Type: tea.KeyCtrlC}}
	}
	msgs := make([]tea.KeyMsg, 0, len(key))
	for _, r := range key {
		if r == ' ' {
			msgs = append(msgs, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}})
			continue
		}
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

func (h *Harness) update(msg tea.Msg) {
	switch msg := msg.(type) {
	case tea.QuitMsg:
		h.quit = true
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			h.run(cmd)
		}
		return
	}
	_, cmd := h.model.Update(msg)
	h.run(cmd)
}

func (h *Harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	h.inflight++
	go func() { h.msgs <- cmdDone{msg: cmd()} }()
}

// settle pumps messages until no command is running, or until the remaining
// commands are blocked on a prompt the test has to answer.
func (h *Harness) settle() {
	for {
		if h.inflight == 0 || (h.model.prompt != nil && len(h.msgs) == 0) {
			return
		}
		select {
		case msg := <-h.msgs:
			if done, ok := msg.(cmdDone); ok {
				h.inflight--
				if done.msg != nil {
					h.update(done.msg)
				}
				continue
			}
			h.update(msg)
		case <-time.After(harnessTimeout):
			panic(fmt.Sprintf("ui harness: %d commands still running after %s", h.inflight, harnessTimeout))
		}
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}

// Quit reports whether the model asked the program to exit.
func (h *Harness) Quit() bool {
	return h.quit
}
