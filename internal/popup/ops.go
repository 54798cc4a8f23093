package popup

import (
	"errors"
	"fmt"

	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/render"
)

// ErrUndeclaredPatch means a config callback patched a component it did not
// list in Touches.
var ErrUndeclaredPatch = errors.New("patch outside declared components")

// Update is a change to one display component. See render.Patch for the
// accepted value types.
type Update struct {
	Highlight string
	Value     any
}

// UpdateComponent patches the component carrying id and requests a redraw.
// An id without a component is a programming error and panics.
func (p *Popup) UpdateComponent(id string, u Update) {
	if p.patchScope != nil {
		if _, ok := p.patchScope[id]; !ok {
			fatal(fmt.Errorf("%w: %q", ErrUndeclaredPatch, id))
		}
	}
	if err := p.root.Apply(id, render.Patch{Highlight: u.Highlight, Value: u.Value}); err != nil {
		fatal(fmt.Errorf("popup %s: %w", p.name, err))
	}
	p.deps.View.Redraw()
}

func fatal(err error) {
	logging.Error(err)
	panic(err)
}

// ToggleSwitch flips s. Enabling a switch that requires input prompts for it
// and stays disabled when the prompt is cancelled or left empty. Enabling a
// switch disables the other enabled switches it is incompatible with; that
// does not cascade further.
func (p *Popup) ToggleSwitch(s *Switch) {
	if s.Enabled {
		p.setSwitch(s, false, "")
		return
	}
	suffix := ""
	if s.RequiresInput {
		input, ok := p.deps.Prompt.FreeText(promptLabel(s.Description, s.BaseFlag()), s.InputTemplate)
		if !ok || input == "" {
			return
		}
		suffix = input
	}
	p.setSwitch(s, true, suffix)
	if len(s.Incompatible) == 0 {
		return
	}
	for _, arg := range p.args {
		other, ok := arg.(*Switch)
		if !ok || other == s || !other.Enabled || !s.IncompatibleWith(other.BaseFlag()) {
			continue
		}
		events.Popup.Incompatible(p.name, s.BaseFlag(), other.BaseFlag())
		p.setSwitch(other, false, "")
	}
}

func (p *Popup) setSwitch(s *Switch, enabled bool, suffix string) {
	s.Enabled = enabled
	s.Flag = s.BaseFlag() + suffix
	var err error
	if s.RequiresInput {
		err = p.deps.States.SetString(p.name, s.BaseFlag(), suffix)
	} else {
		err = p.deps.States.SetBool(p.name, s.BaseFlag(), enabled)
	}
	p.storeFailed(s.BaseFlag(), err)
	events.Popup.Toggle(p.name, s.Flag, enabled)
	p.UpdateComponent(s.id, Update{Highlight: switchToken(s), Value: s.Prefix + s.Flag})
}

// SetOption edits o. Options with choices alternate between picking a choice
// and clearing; free-form options prompt with the current value and fall back
// to the default on empty input.
func (p *Popup) SetOption(o *Option) {
	label := promptLabel(o.Description, o.Flag)
	switch {
	case len(o.Choices) > 0 && o.Value != "":
		o.Value = ""
	case len(o.Choices) > 0:
		choice, ok := p.deps.Prompt.SelectOne(label, o.Choices)
		if !ok {
			return
		}
		o.Value = choice
	default:
		input, ok := p.deps.Prompt.FreeText(label, o.Value)
		if !ok {
			return
		}
		if input == "" {
			input = o.Default
		}
		o.Value = input
	}
	p.storeFailed(o.Flag, p.deps.States.SetString(p.name, o.Flag, o.Value))
	events.Popup.Option(p.name, o.Flag, o.Value)
	p.UpdateComponent(o.id, Update{Highlight: optionToken(o), Value: optionText(o)})
}

// SetConfig edits c: variables with options cycle to the next option,
// variables with a callback delegate to it, and the rest prompt for a value.
// The variable takes the new value only once the configuration store accepts
// it, after which passive variables are refreshed.
func (p *Popup) SetConfig(c *Config) error {
	if c.Passive {
		return nil
	}
	prev := c.Value
	value := c.Value
	delegated := false
	switch {
	case len(c.Options) > 0:
		value = nextOption(c.Options, c.Value)
	case c.Callback != nil:
		if err := p.runCallback(c); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		value = c.Value
		delegated = true
	default:
		initial := c.Value
		if initial == Unset {
			initial = ""
		}
		input, ok := p.deps.Prompt.FreeText(promptLabel(c.Name, c.Name), initial)
		if !ok {
			return nil
		}
		if input == "" {
			input = Unset
		}
		value = input
	}
	if err := p.deps.Config.Set(c.Name, value); err != nil {
		// a callback may already have patched its node
		if c.Value != prev {
			c.Value = prev
			p.patchConfig(c)
		}
		return fmt.Errorf("set %s: %w", c.Name, err)
	}
	events.Popup.Config(p.name, c.Name, value)
	if !delegated {
		c.Value = value
		p.patchConfig(c)
	}
	p.refreshPassive()
	return nil
}

func nextOption(options []ConfigOption, current string) string {
	for i, o := range options {
		if o.Value == current {
			return options[(i+1)%len(options)].Value
		}
	}
	return options[0].Value
}

func (p *Popup) runCallback(c *Config) error {
	scope := map[string]struct{}{c.id: {}}
	for _, id := range c.Callback.Touches {
		scope[id] = struct{}{}
	}
	p.patchScope = scope
	defer func() { p.patchScope = nil }()
	return c.Callback.Fn(p, c)
}

// refreshPassive re-reads passive variables and patches those that changed.
func (p *Popup) refreshPassive() {
	for _, item := range p.config {
		c, ok := item.(*Config)
		if !ok || !c.Passive {
			continue
		}
		value := p.readConfig(c.Name)
		if value == c.Value {
			continue
		}
		c.Value = value
		events.Popup.Passive(p.name, c.Name, value)
		p.patchConfig(c)
	}
}

// PatchConfig redraws c from its current value. Config callbacks use it after
// changing c.Value.
func (p *Popup) PatchConfig(c *Config) {
	p.patchConfig(c)
}

func (p *Popup) patchConfig(c *Config) {
	if len(c.Options) > 0 {
		p.UpdateComponent(c.id, Update{Value: configChoices(c)})
		return
	}
	p.UpdateComponent(c.id, Update{Highlight: configToken(c), Value: c.Value})
}

func (p *Popup) storeFailed(key string, err error) {
	if err == nil {
		return
	}
	err = fmt.Errorf("persist %s/%s: %w", p.name, key, err)
	logging.Error(err)
	events.Store.Error(p.name, key, err)
	p.deps.Notify.Error(err)
}

func promptLabel(description, fallback string) string {
	if description == "" {
		return fallback
	}
	return description
}
