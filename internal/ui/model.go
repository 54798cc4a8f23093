package ui

import (
	"reflect"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/render"
	"github.com/atomicstack/git-popup/internal/theme"
	"github.com/atomicstack/git-popup/internal/ui/command"
)

var styles = theme.Default()

const noticeLifetime = 5 * time.Second

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the viewport of a Model.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
}

// Model implements the Bubble Tea model hosting one popup.
type Model struct {
	popup  *popup.Popup
	buffer popup.Buffer
	lines  []render.Line
	cursor int
	offset int

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool

	busy   bool
	prompt *promptState
	notice notice

	result popup.Result
	quit   bool

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus
}

type notice struct {
	level  noticeLevel
	text   string
	expire time.Time
}

type dispatchDoneMsg struct {
	result popup.Result
}

// NewModel prepares a model for p. The popup is shown once the program
// starts, from Init.
func NewModel(p *popup.Popup, opts Options) *Model {
	m := &Model{
		popup:      p,
		showFooter: opts.ShowFooter,
		busy:       true,
		bus:        command.New(),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	p := m.popup
	return m.bus.Execute(command.Request{ID: "show", Label: p.Name(), Run: func() tea.Msg {
		p.Show()
		return dispatchDoneMsg{}
	}})
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(showMsg{}):           m.handleShowMsg,
		reflect.TypeOf(redrawMsg{}):         m.handleRedrawMsg,
		reflect.TypeOf(notifyMsg{}):         m.handleNotifyMsg,
		reflect.TypeOf(promptRequestMsg{}):  m.handlePromptRequestMsg,
		reflect.TypeOf(dispatchDoneMsg{}):   m.handleDispatchDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// Result reports how the popup closed. It is meaningful once the program has
// exited.
func (m *Model) Result() popup.Result {
	return m.result
}

func (m *Model) handleShowMsg(msg tea.Msg) tea.Cmd {
	show, ok := msg.(showMsg)
	if !ok {
		return nil
	}
	m.buffer = show.buffer
	m.lines = show.lines
	m.cursor = m.lineOf(show.buffer.Focus)
	if m.cursor < 0 {
		m.cursor = m.nextInteractive(-1, 1)
	}
	m.offset = 0
	m.syncViewport()
	return nil
}

func (m *Model) handleRedrawMsg(msg tea.Msg) tea.Cmd {
	redraw, ok := msg.(redrawMsg)
	if !ok {
		return nil
	}
	m.lines = redraw.lines
	if m.cursor >= len(m.lines) {
		m.cursor = len(m.lines) - 1
	}
	m.syncViewport()
	events.UI.Redraw(m.buffer.Name, len(m.lines))
	return nil
}

func (m *Model) handleNotifyMsg(msg tea.Msg) tea.Cmd {
	n, ok := msg.(notifyMsg)
	if !ok {
		return nil
	}
	m.notice = notice{level: n.level, text: n.text, expire: m.noticeExpiry()}
	return nil
}

func (m *Model) handleDispatchDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(dispatchDoneMsg)
	if !ok {
		return nil
	}
	m.busy = false
	if !done.result.Close {
		return nil
	}
	m.result = done.result
	m.quit = true
	return tea.Quit
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport()
	return nil
}

func (m *Model) noticeExpiry() time.Time {
	return time.Now().Add(noticeLifetime)
}

func (m *Model) currentNotice() notice {
	if m.notice.text != "" && time.Now().After(m.notice.expire) {
		m.notice = notice{}
	}
	return m.notice
}
