package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/render"
)

// Bridge connects a popup to the running program. Popup operations run off
// the event loop, so every call is forwarded as a message; prompts block
// until the model replies.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
	root *render.Node
}

var (
	_ popup.Renderer = (*Bridge)(nil)
	_ popup.Prompter = (*Bridge)(nil)
	_ popup.Notifier = (*Bridge)(nil)
)

// NewBridge returns a bridge that drops messages until Attach is called.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages through send, typically tea.Program.Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) post(msg tea.Msg) {
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// Show lays out the buffer and hands it to the model.
func (b *Bridge) Show(buf popup.Buffer) {
	b.root = buf.Root
	b.post(showMsg{buffer: buf, lines: render.Layout(buf.Root)})
}

// Redraw lays out the current tree again.
func (b *Bridge) Redraw() {
	if b.root == nil {
		return
	}
	b.post(redrawMsg{lines: render.Layout(b.root)})
}

func (b *Bridge) ask(req promptRequestMsg) promptReply {
	reply := make(chan promptReply, 1)
	req.reply = reply
	b.mu.Lock()
	attached := b.send != nil
	b.mu.Unlock()
	if !attached {
		return promptReply{}
	}
	b.post(req)
	return <-reply
}

func (b *Bridge) FreeText(prompt, initial string) (string, bool) {
	r := b.ask(promptRequestMsg{kind: promptText, label: prompt, initial: initial})
	return r.value, r.ok
}

func (b *Bridge) SelectOne(prompt string, choices []string) (string, bool) {
	r := b.ask(promptRequestMsg{kind: promptSelect, label: prompt, choices: choices})
	return r.value, r.ok
}

func (b *Bridge) Confirm(prompt string) bool {
	return b.ask(promptRequestMsg{kind: promptConfirm, label: prompt}).ok
}

func (b *Bridge) Info(msg string) { b.post(notifyMsg{level: noticeInfo, text: msg}) }
func (b *Bridge) Warn(msg string) { b.post(notifyMsg{level: noticeWarn, text: msg}) }
func (b *Bridge) Error(err error) {
	if err != nil {
		b.post(notifyMsg{level: noticeError, text: err.Error()})
	}
}

type showMsg struct {
	buffer popup.Buffer
	lines  []render.Line
}

type redrawMsg struct {
	lines []render.Line
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarn
	noticeError
)

type notifyMsg struct {
	level noticeLevel
	text  string
}
