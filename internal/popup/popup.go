// Package popup implements the popup engine: the argument model, the display
// tree built from it, in-place patching of that tree and key dispatch.
package popup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/render"
)

// ErrInvalidDefinition is returned by New for definitions that cannot be built.
var ErrInvalidDefinition = errors.New("invalid popup definition")

// Popup owns the argument state of one popup invocation.
type Popup struct {
	name     string
	title    string
	instance string
	env      Env
	args     []Arg
	config   []ConfigItem
	actions  []ActionGroup
	deps     Deps

	root   *render.Node
	keymap *Keymap
	// patchScope restricts UpdateComponent while a config callback runs.
	patchScope map[string]struct{}
}

// New validates def, assigns component ids and seeds argument state from the
// stores in deps.
func New(def Definition, deps Deps) (*Popup, error) {
	if strings.TrimSpace(def.Name) == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidDefinition)
	}
	p := &Popup{
		name:     def.Name,
		title:    def.Title,
		instance: uuid.NewString(),
		env:      def.Env,
		args:     def.Args,
		config:   def.Config,
		actions:  def.Actions,
		deps:     deps.withDefaults(),
	}
	if p.title == "" {
		p.title = p.name
	}
	if p.env == nil {
		p.env = Env{}
	}
	if err := p.assignIDs(); err != nil {
		return nil, err
	}
	p.seed()
	p.root = p.build()
	km, err := p.buildKeymap()
	if err != nil {
		return nil, fmt.Errorf("popup %s: %w", p.name, err)
	}
	p.keymap = km
	if err := p.checkCallbacks(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Popup) assignIDs() error {
	seen := make(map[string]struct{})
	claim := func(id string) error {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: popup %s declares %s twice", ErrInvalidDefinition, p.name, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			if a.Flag == "" {
				return fmt.Errorf("%w: popup %s has a switch without a flag", ErrInvalidDefinition, p.name)
			}
			a.base = a.Flag
			a.id = "switch:" + a.base
			if err := claim(a.id); err != nil {
				return err
			}
		case *Option:
			if a.Flag == "" {
				return fmt.Errorf("%w: popup %s has an option without a flag", ErrInvalidDefinition, p.name)
			}
			a.id = "option:" + a.Flag
			if err := claim(a.id); err != nil {
				return err
			}
		case Heading:
		}
	}
	for _, item := range p.config {
		switch c := item.(type) {
		case *Config:
			if c.Name == "" {
				return fmt.Errorf("%w: popup %s has a variable without a name", ErrInvalidDefinition, p.name)
			}
			c.id = "config:" + c.Name
			if err := claim(c.id); err != nil {
				return err
			}
		case Heading:
		}
	}
	for g, group := range p.actions {
		for i, a := range group.Actions {
			a.id = fmt.Sprintf("action:%d.%d", g, i)
		}
	}
	return nil
}

func (p *Popup) checkCallbacks() error {
	for _, item := range p.config {
		c, ok := item.(*Config)
		if !ok || c.Callback == nil {
			continue
		}
		if c.Callback.Fn == nil {
			return fmt.Errorf("%w: variable %s has an empty callback", ErrInvalidDefinition, c.Name)
		}
		for _, id := range c.Callback.Touches {
			if p.root.Find(id) == nil {
				return fmt.Errorf("%w: callback of %s touches unknown component %q", ErrInvalidDefinition, c.Name, id)
			}
		}
	}
	return nil
}

// seed loads persisted argument state and live config values.
func (p *Popup) seed() {
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			if a.RequiresInput {
				if suffix, ok := p.deps.States.String(p.name, a.base); ok {
					a.Enabled = suffix != ""
					a.Flag = a.base + suffix
				}
				continue
			}
			if enabled, ok := p.deps.States.Bool(p.name, a.base); ok {
				a.Enabled = enabled
			}
		case *Option:
			if value, ok := p.deps.States.String(p.name, a.Flag); ok {
				a.Value = value
			}
		case Heading:
		}
	}
	for _, item := range p.config {
		if c, ok := item.(*Config); ok {
			c.Value = p.readConfig(c.Name)
		}
	}
}

func (p *Popup) readConfig(name string) string {
	value, ok := p.deps.Config.Get(name)
	if !ok || value == "" {
		return Unset
	}
	return value
}

// Show builds a fresh display tree and keymap and hands them to the renderer.
func (p *Popup) Show() {
	p.root = p.build()
	km, err := p.buildKeymap()
	if err != nil {
		fatal(err)
	}
	p.keymap = km
	events.Popup.Show(p.name, p.instance, len(km.order))
	p.deps.View.Show(Buffer{
		Name:   p.name,
		Title:  p.title,
		Kind:   BufferKind,
		Keymap: km,
		Root:   p.root,
		Focus:  p.firstInteractive(),
	})
}

func (p *Popup) firstInteractive() string {
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			return a.id
		case *Option:
			return a.id
		case Heading:
		}
	}
	for _, item := range p.config {
		if c, ok := item.(*Config); ok && !c.Passive {
			return c.id
		}
	}
	return ""
}

// ActiveFlags returns the command-line flags of every enabled switch and set
// option, in declaration order. Internal arguments are never included.
func (p *Popup) ActiveFlags() []string {
	flags := make([]string, 0, len(p.args))
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			if a.Enabled && !a.Internal {
				flags = append(flags, a.Prefix+a.Flag)
			}
		case *Option:
			if a.Value != "" && !a.Internal {
				flags = append(flags, a.Prefix+a.Flag+"="+a.Value)
			}
		case Heading:
		}
	}
	return flags
}

// InternalFlags reports the state of internal arguments keyed by flag.
func (p *Popup) InternalFlags() map[string]bool {
	flags := make(map[string]bool)
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			if a.Internal {
				flags[a.BaseFlag()] = a.Enabled
			}
		case *Option:
			if a.Internal {
				flags[a.Flag] = a.Value != ""
			}
		case Heading:
		}
	}
	return flags
}

func (p *Popup) Name() string     { return p.name }
func (p *Popup) Title() string    { return p.title }
func (p *Popup) Instance() string { return p.instance }
func (p *Popup) Env() Env         { return p.env }
func (p *Popup) Deps() Deps       { return p.deps }

// Root returns the live display tree.
func (p *Popup) Root() *render.Node { return p.root }

// Keymap returns the keymap built by the last Show.
func (p *Popup) Keymap() *Keymap { return p.keymap }

// Switch returns the switch declared with the given base flag.
func (p *Popup) Switch(flag string) *Switch {
	for _, arg := range p.args {
		if s, ok := arg.(*Switch); ok && s.BaseFlag() == flag {
			return s
		}
	}
	return nil
}

// Option returns the option declared with the given flag.
func (p *Popup) Option(flag string) *Option {
	for _, arg := range p.args {
		if o, ok := arg.(*Option); ok && o.Flag == flag {
			return o
		}
	}
	return nil
}

// Variable returns the config variable with the given name.
func (p *Popup) Variable(name string) *Config {
	for _, item := range p.config {
		if c, ok := item.(*Config); ok && c.Name == name {
			return c
		}
	}
	return nil
}

// Action returns the bound action with the given key.
func (p *Popup) Action(key string) *Action {
	for _, group := range p.actions {
		for _, a := range group.Actions {
			if a.Key == key {
				return a
			}
		}
	}
	return nil
}
