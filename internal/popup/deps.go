package popup

import "github.com/atomicstack/git-popup/internal/render"

// StateStore persists per-popup argument state keyed by (scope, key).
type StateStore interface {
	Bool(scope, key string) (bool, bool)
	String(scope, key string) (string, bool)
	SetBool(scope, key string, value bool) error
	SetString(scope, key, value string) error
}

// ConfigStore is the authoritative store behind config variables. Setting
// Unset removes the value.
type ConfigStore interface {
	Get(name string) (string, bool)
	Set(name, value string) error
}

// Prompter asks the user for input. A false second return means the prompt
// was cancelled.
type Prompter interface {
	FreeText(prompt, initial string) (string, bool)
	SelectOne(prompt string, choices []string) (string, bool)
	Confirm(prompt string) bool
}

// Renderer displays a popup buffer and redraws it after patches.
type Renderer interface {
	Show(buf Buffer)
	Redraw()
}

// Notifier surfaces non-fatal messages to the user.
type Notifier interface {
	Info(msg string)
	Warn(msg string)
	Error(err error)
}

// Buffer describes a popup to the renderer on first show.
type Buffer struct {
	Name   string
	Title  string
	Kind   string
	Keymap *Keymap
	Root   *render.Node
	// Focus is the component the cursor starts on.
	Focus string
}

// BufferKind identifies popup buffers.
const BufferKind = "GitPopup"

// Deps are the collaborators a popup talks to. Nil members are replaced with
// implementations that store nothing and cancel every prompt.
type Deps struct {
	States StateStore
	Config ConfigStore
	Prompt Prompter
	View   Renderer
	Notify Notifier
}

func (d Deps) withDefaults() Deps {
	if d.States == nil {
		d.States = nopStates{}
	}
	if d.Config == nil {
		d.Config = nopConfig{}
	}
	if d.Prompt == nil {
		d.Prompt = nopPrompt{}
	}
	if d.View == nil {
		d.View = nopView{}
	}
	if d.Notify == nil {
		d.Notify = nopNotify{}
	}
	return d
}

type nopStates struct{}

func (nopStates) Bool(string, string) (bool, bool)       { return false, false }
func (nopStates) String(string, string) (string, bool)   { return "", false }
func (nopStates) SetBool(string, string, bool) error     { return nil }
func (nopStates) SetString(string, string, string) error { return nil }

type nopConfig struct{}

func (nopConfig) Get(string) (string, bool) { return "", false }
func (nopConfig) Set(string, string) error  { return nil }

type nopPrompt struct{}

func (nopPrompt) FreeText(string, string) (string, bool)    { return "", false }
func (nopPrompt) SelectOne(string, []string) (string, bool) { return "", false }
func (nopPrompt) Confirm(string) bool                       { return false }

type nopView struct{}

func (nopView) Show(Buffer) {}
func (nopView) Redraw()     {}

type nopNotify struct{}

func (nopNotify) Info(string) {}
func (nopNotify) Warn(string) {}
func (nopNotify) Error(error) {}
