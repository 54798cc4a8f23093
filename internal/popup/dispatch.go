package popup

import (
	"errors"
	"fmt"

	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/render"
)

// ErrKeepOpen can be returned by an action to leave the popup open without
// reporting an error, for example when a confirmation was declined.
var ErrKeepOpen = errors.New("keep popup open")

// Result tells the host what to do after a binding was dispatched.
type Result struct {
	Close bool
	// Then runs after the popup has been torn down.
	Then Continuation
}

// Dispatch runs the behaviour bound to b. cursor is the display line under the
// cursor, used by the cycle binding.
func (p *Popup) Dispatch(b *Binding, cursor int) Result {
	if b == nil {
		return Result{}
	}
	events.Keymap.Dispatch(b.Key, describe(b))
	switch b.Kind {
	case BindClose:
		events.Popup.Close(p.name, "key")
		return Result{Close: true}
	case BindCycle:
		p.cycleAt(cursor)
	case BindSwitch:
		if s, ok := p.argAt(b.Ref).(*Switch); ok {
			p.ToggleSwitch(s)
		}
	case BindOption:
		if o, ok := p.argAt(b.Ref).(*Option); ok {
			p.SetOption(o)
		}
	case BindConfig:
		if c := p.configAt(b.Ref); c != nil {
			p.setConfig(c)
		}
	case BindAction:
		return p.invoke(p.actionAt(b.Ref))
	}
	return Result{}
}

// cycleAt edits the innermost switch, option or variable under the cursor.
func (p *Popup) cycleAt(cursor int) {
	for _, n := range render.StackAt(render.Layout(p.root), cursor) {
		switch n.Tag {
		case render.TagSwitch:
			if s, ok := p.argAt(n.Ref).(*Switch); ok {
				p.ToggleSwitch(s)
				return
			}
		case render.TagOption:
			if o, ok := p.argAt(n.Ref).(*Option); ok {
				p.SetOption(o)
				return
			}
		case render.TagConfig:
			if c := p.configAt(n.Ref); c != nil && !c.Passive {
				p.setConfig(c)
				return
			}
		}
	}
}

func (p *Popup) setConfig(c *Config) {
	if err := p.SetConfig(c); err != nil {
		logging.Error(err)
		p.deps.Notify.Error(err)
	}
}

func (p *Popup) invoke(a *Action) Result {
	if a == nil || a.Disabled {
		return Result{}
	}
	if a.Callback == nil {
		events.Action.Placeholder(p.name, a.Key)
		p.deps.Notify.Warn(fmt.Sprintf("%s: not yet implemented", a.Description))
		return Result{}
	}
	events.Action.Invoke(p.name, a.Key, a.Description)
	then, err := a.Callback(p)
	if errors.Is(err, ErrKeepOpen) {
		return Result{}
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", a.Description, err)
		events.Action.Error(err)
		logging.Error(err)
		p.deps.Notify.Error(err)
		return Result{}
	}
	if then != nil {
		events.Action.Continue(p.name, a.Key)
	}
	events.Popup.Close(p.name, "action")
	return Result{Close: true, Then: then}
}

func (p *Popup) argAt(ref render.Ref) Arg {
	if ref.Index < 0 || ref.Index >= len(p.args) {
		return nil
	}
	return p.args[ref.Index]
}

func (p *Popup) configAt(ref render.Ref) *Config {
	if ref.Index < 0 || ref.Index >= len(p.config) {
		return nil
	}
	c, _ := p.config[ref.Index].(*Config)
	return c
}

func (p *Popup) actionAt(ref render.Ref) *Action {
	if ref.Group < 0 || ref.Group >= len(p.actions) {
		return nil
	}
	group := p.actions[ref.Group]
	if ref.Index < 0 || ref.Index >= len(group.Actions) {
		return nil
	}
	return group.Actions[ref.Index]
}
