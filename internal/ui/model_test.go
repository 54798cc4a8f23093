package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/store"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ui-test")
	if err == nil {
		logging.Configure(filepath.Join(dir, "git-popup.log"))
	}
	code := m.Run()
	if err == nil {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

var errBoom = errors.New("boom")

func testDefinition() popup.Definition {
	return popup.Definition{
		Name:  "log",
		Title: "Log",
		Env:   popup.Env{"branch": "main"},
		Args: []popup.Arg{
			&popup.Switch{Key: "-g", Flag: "--graph", Description: "Show graph"},
			&popup.Option{Key: "=n", Flag: "--max-count", Description: "Limit"},
			&popup.Option{Key: "=d", Flag: "--date", Description: "Date", Choices: []string{"relative", "iso"}},
		},
		Config: []popup.ConfigItem{
			&popup.Config{Key: "r", Name: "branch.main.rebase", Options: []popup.ConfigOption{{Value: "true"}, {Value: "false"}}},
		},
		Actions: []popup.ActionGroup{{Heading: "Log", Actions: []*popup.Action{
			{Key: "l", Description: "current", Callback: func(*popup.Popup) (popup.Continuation, error) {
				return func(context.Context) error { return nil }, nil
			}},
			{Key: "t", Description: "tags", Callback: func(p *popup.Popup) (popup.Continuation, error) {
				if !p.Deps().Prompt.Confirm("Show tags?") {
					return nil, popup.ErrKeepOpen
				}
				return nil, nil
			}},
			{Key: "o", Description: "other"},
			{Key: "x", Description: "broken", Callback: func(*popup.Popup) (popup.Continuation, error) {
				return nil, errBoom
			}},
		}}},
	}
}

func newTestHarness(t *testing.T, opts Options) (*Harness, *popup.Popup) {
	t.Helper()
	bridge := NewBridge()
	p, err := popup.New(testDefinition(), popup.Deps{
		States: store.NewMemory(),
		Config: store.NewMemoryConfig(nil),
		Prompt: bridge,
		View:   bridge,
		Notify: bridge,
	})
	if err != nil {
		t.Fatalf("new popup: %v", err)
	}
	return NewHarness(NewModel(p, opts), bridge), p
}

func TestShowRendersPopupWithCursorOnFirstArgument(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	view := h.View()
	for _, want := range []string{"Log", "Arguments", "--graph", "--max-count=", "branch.main.rebase", "l current"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q:\n%s", want, view)
		}
	}
	if h.Model().Cursor() != 1 {
		t.Fatalf("expected cursor on --graph line, got %d", h.Model().Cursor())
	}
	lines := strings.Split(view, "\n")
	if !strings.HasPrefix(lines[2], cursorIndicator) {
		t.Fatalf("expected cursor indicator on --graph row, got %q", lines[2])
	}
}

func TestKeySequenceTogglesSwitch(t *testing.T) {
	h, p := newTestHarness(t, Options{})
	h.Keys("-")
	if got := p.Keymap().Pending(); got != "-" {
		t.Fatalf("expected pending prefix, got %q", got)
	}
	h.Keys("g")
	if !p.Switch("--graph").Enabled {
		t.Fatalf("expected --graph enabled")
	}
	if h.Quit() {
		t.Fatalf("expected popup to stay open")
	}
}

func TestCursorSkipsNonInteractiveLines(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	var seen []int
	for i := 0; i < 6; i++ {
		h.Keys("<down>")
		seen = append(seen, h.Model().Cursor())
	}
	want := []int{2, 3, 6, 1, 2, 3}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected cursor path %v, got %v", want, seen)
		}
	}
	h.Keys("<up>")
	if h.Model().Cursor() != 2 {
		t.Fatalf("expected cursor back on line 2, got %d", h.Model().Cursor())
	}
}

func TestViewScrollsToKeepCursorVisible(t *testing.T) {
	h, _ := newTestHarness(t, Options{Height: 5})
	if view := h.View(); !strings.Contains(view, "Arguments") || !strings.Contains(view, cursorIndicator) {
		t.Fatalf("expected top of popup with cursor:\n%s", view)
	}
	h.Keys("<down>", "<down>", "<down>")
	if h.Model().Cursor() != 6 {
		t.Fatalf("expected cursor on rebase line, got %d", h.Model().Cursor())
	}
	view := h.View()
	lines := strings.Split(view, "\n")
	if len(lines) > 5 {
		t.Fatalf("expected at most 5 lines, got %d:\n%s", len(lines), view)
	}
	if !strings.Contains(lines[1], cursorIndicator) || !strings.Contains(lines[1], "branch.main.rebase") {
		t.Fatalf("expected cursor row at the top of the viewport:\n%s", view)
	}
	if strings.Contains(view, "Arguments") || !strings.Contains(view, "l current") {
		t.Fatalf("expected viewport scrolled past arguments:\n%s", view)
	}
	h.Keys("<down>")
	if view := h.View(); !strings.Contains(view, "Arguments") || !strings.Contains(view, cursorIndicator) {
		t.Fatalf("expected wrap to scroll back to the top:\n%s", view)
	}
}

func TestTabActsOnCursorLine(t *testing.T) {
	h, p := newTestHarness(t, Options{})
	h.Keys("<tab>")
	if !p.Switch("--graph").Enabled {
		t.Fatalf("expected tab to toggle --graph")
	}
	h.Keys("<down>", "<down>", "<down>", "<tab>")
	if got := p.Variable("branch.main.rebase").Value; got != "true" {
		t.Fatalf("expected rebase cycled to true, got %q", got)
	}
}

func TestFreeTextPrompt(t *testing.T) {
	h, p := newTestHarness(t, Options{})
	h.Keys("=n")
	if h.Model().prompt == nil {
		t.Fatalf("expected text prompt")
	}
	if !strings.Contains(h.View(), "Limit") {
		t.Fatalf("expected prompt label in view:\n%s", h.View())
	}
	h.Keys("25", "<enter>")
	if got := p.Option("--max-count").Value; got != "25" {
		t.Fatalf("expected option value 25, got %q", got)
	}
	if !strings.Contains(h.View(), "--max-count=25") {
		t.Fatalf("expected redrawn value:\n%s", h.View())
	}
}

func TestPromptEscapeCancels(t *testing.T) {
	h, p := newTestHarness(t, Options{})
	h.Keys("=n", "9", "<esc>")
	if h.Model().prompt != nil {
		t.Fatalf("expected prompt dismissed")
	}
	if got := p.Option("--max-count").Value; got != "" {
		t.Fatalf("expected option unchanged, got %q", got)
	}
	if h.Quit() {
		t.Fatalf("escape inside a prompt must not close the popup")
	}
}

func TestSelectPromptFilters(t *testing.T) {
	h, p := newTestHarness(t, Options{})
	h.Keys("=d")
	if h.Model().prompt == nil || h.Model().prompt.kind != promptSelect {
		t.Fatalf("expected select prompt")
	}
	h.Keys("is")
	if !strings.Contains(h.View(), "iso") || strings.Contains(h.View(), "relative") {
		t.Fatalf("expected filtered choices:\n%s", h.View())
	}
	h.Keys("<enter>")
	if got := p.Option("--date").Value; got != "iso" {
		t.Fatalf("expected iso, got %q", got)
	}
}

func TestConfirmPrompt(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	h.Keys("t")
	if !strings.Contains(h.View(), "Show tags?") {
		t.Fatalf("expected confirmation prompt:\n%s", h.View())
	}
	h.Keys("n")
	if h.Quit() {
		t.Fatalf("declined confirmation must keep the popup open")
	}
	h.Keys("t", "y")
	if !h.Quit() || !h.Model().Result().Close {
		t.Fatalf("expected popup closed after confirmation")
	}
}

func TestActionClosesWithContinuation(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	h.Keys("l")
	if !h.Quit() {
		t.Fatalf("expected quit")
	}
	res := h.Model().Result()
	if !res.Close || res.Then == nil {
		t.Fatalf("expected close with continuation, got %+v", res)
	}
}

func TestCloseKeys(t *testing.T) {
	for _, key := range []string{"q", "<esc>", "<ctrl+c>"} {
		h, _ := newTestHarness(t, Options{})
		h.Keys(key)
		if !h.Quit() || h.Model().Result().Then != nil {
			t.Fatalf("%s: expected plain close", key)
		}
	}
}

func TestNoticesShown(t *testing.T) {
	h, _ := newTestHarness(t, Options{})
	h.Keys("o")
	if !strings.Contains(h.View(), "other: not yet implemented") {
		t.Fatalf("expected placeholder warning:\n%s", h.View())
	}
	h.Keys("x")
	if !strings.Contains(h.View(), "Error: broken: boom") {
		t.Fatalf("expected action error:\n%s", h.View())
	}
	h.Keys("z")
	if !strings.Contains(h.View(), "z is undefined") {
		t.Fatalf("expected unbound key notice:\n%s", h.View())
	}
}

func TestViewHonoursSize(t *testing.T) {
	h, _ := newTestHarness(t, Options{Width: 12, Height: 5, ShowFooter: true})
	lines := strings.Split(h.View(), "\n")
	if len(lines) > 5 {
		t.Fatalf("expected at most 5 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w > 12 {
			t.Fatalf("line %q exceeds width: %d", line, w)
		}
	}
	h.Send(tea.WindowSizeMsg{Width: 80, Height: 40})
	if h.Model().width != 12 {
		t.Fatalf("expected fixed width to ignore resize")
	}
}

func TestKeyToken(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}, "a"},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, ""},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}, Alt: true}, ""},
		{tea.KeyMsg{Type: tea.KeyTab}, "<tab>"},
		{tea.KeyMsg{Type: tea.KeyEsc}, "<esc>"},
		{tea.KeyMsg{Type: tea.KeyEnter}, "<enter>"},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, " "},
	}
	for _, tc := range cases {
		if got := keyToken(tc.msg); got != tc.want {
			t.Fatalf("%v: expected %q, got %q", tc.msg, tc.want, got)
		}
	}
}

func TestBridgeWithoutProgramCancelsPrompts(t *testing.T) {
	b := NewBridge()
	if _, ok := b.FreeText("x", ""); ok {
		t.Fatalf("expected detached bridge to cancel")
	}
	if b.Confirm("sure?") {
		t.Fatalf("expected detached bridge to decline")
	}
	b.Redraw()
	b.Info("ignored")
}

func TestFooterHintListsHostKeys(t *testing.T) {
	want := "↑/↓ move  tab cycle  q/esc close  ctrl+c quit"
	if got := footerHint(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestKeyEventsTracedOnce(t *testing.T) {
	previous := logging.Path()
	path := filepath.Join(t.TempDir(), "trace.log")
	logging.Configure(path)
	logging.SetTraceEnabled(true)
	t.Cleanup(func() {
		logging.SetTraceEnabled(false)
		logging.Configure(previous)
	})

	h, _ := newTestHarness(t, Options{})
	h.Keys("-", "g", "z")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	for _, event := range []string{"keymap.pending", "keymap.dispatch", "keymap.unbound"} {
		if n := strings.Count(string(data), `"`+event+`"`); n != 1 {
			t.Fatalf("expected %s traced once, got %d", event, n)
		}
	}
}
