package ui

import (
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/git-popup/internal/logging/events"
	uistate "github.com/atomicstack/git-popup/internal/ui/state"
)

type promptKind int

const (
	promptText promptKind = iota
	promptSelect
	promptConfirm
)

func (k promptKind) String() string {
	switch k {
	case promptSelect:
		return "select"
	case promptConfirm:
		return "confirm"
	default:
		return "text"
	}
}

type promptReply struct {
	value string
	ok    bool
}

type promptRequestMsg struct {
	kind    promptKind
	label   string
	initial string
	choices []string
	reply   chan<- promptReply
}

// promptState is the prompt currently owning the keyboard.
type promptState struct {
	kind    promptKind
	label   string
	input   textinput.Model
	choices *uistate.Level
	reply   chan<- promptReply
}

func (m *Model) handlePromptRequestMsg(msg tea.Msg) tea.Cmd {
	req, ok := msg.(promptRequestMsg)
	if !ok {
		return nil
	}
	if m.prompt != nil {
		// one prompt at a time; the newcomer is cancelled
		req.reply <- promptReply{}
		return nil
	}
	state := &promptState{kind: req.kind, label: req.label, reply: req.reply}
	switch req.kind {
	case promptText:
		ti := textinput.New()
		ti.Prompt = ""
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(req.initial)
		ti.CursorEnd()
		ti.Focus()
		state.input = ti
	case promptSelect:
		state.choices = uistate.NewLevel(req.label, req.label, req.choices)
	}
	m.prompt = state
	events.Prompt.Request(req.kind.String(), req.label)
	return nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	if key.Matches(msg, prompts.Cancel) {
		m.answer(promptReply{})
		return nil
	}
	switch p.kind {
	case promptConfirm:
		switch msg.String() {
		case "y", "Y":
			m.answer(promptReply{ok: true})
		case "n", "N":
			m.answer(promptReply{})
		}
		return nil
	case promptSelect:
		return m.handleSelectKey(msg)
	}
	if key.Matches(msg, prompts.Submit) {
		m.answer(promptReply{value: p.input.Value(), ok: true})
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (m *Model) handleSelectKey(msg tea.KeyMsg) tea.Cmd {
	level := m.prompt.choices
	switch {
	case key.Matches(msg, prompts.Submit):
		if item, ok := level.Current(); ok {
			m.answer(promptReply{value: item.ID, ok: true})
		}
	case key.Matches(msg, prompts.Up):
		level.MoveCursor(-1)
	case key.Matches(msg, prompts.Down):
		level.MoveCursor(1)
	case key.Matches(msg, prompts.DeleteRune):
		if level.DeleteFilterRuneBackward() {
			events.Filter.Backspace(level.ID, level.Filter)
		}
	case key.Matches(msg, prompts.DeleteWord):
		if level.DeleteFilterWordBackward() {
			events.Filter.Backspace(level.ID, level.Filter)
		}
	case key.Matches(msg, prompts.Clear):
		if level.Filter != "" {
			level.SetFilter("", 0)
			events.Filter.Cleared(level.ID)
		}
	case msg.Type == tea.KeySpace:
		level.InsertFilterText(" ")
		events.Filter.Append(level.ID, level.Filter)
	case msg.Type == tea.KeyRunes:
		if !msg.Alt && level.InsertFilterText(string(msg.Runes)) {
			events.Filter.Append(level.ID, level.Filter)
		}
	}
	return nil
}

// answer replies to the waiting popup operation and releases the keyboard.
func (m *Model) answer(r promptReply) {
	p := m.prompt
	if p == nil {
		return
	}
	m.prompt = nil
	if r.ok {
		events.Prompt.Submit(p.kind.String(), r.value)
	} else {
		events.Prompt.Cancel(p.kind.String())
	}
	p.reply <- r
}
