package popup

import (
	"context"
	"slices"
)

// Unset is the value of a config variable that has no value in the
// configuration store.
const Unset = "unset"

// Arg is an entry of a popup's argument list: *Switch, *Option or Heading.
type Arg interface {
	isArg()
}

// ConfigItem is an entry of a popup's variable list: *Config or Heading.
type ConfigItem interface {
	isConfigItem()
}

// Heading separates groups of arguments or variables. It is never bound.
type Heading struct {
	Text string
}

func (Heading) isArg()        {}
func (Heading) isConfigItem() {}

// Switch is a boolean command-line flag. A switch that requires input carries
// the user-supplied text appended to its flag while enabled.
type Switch struct {
	Key           string
	Flag          string
	Prefix        string
	Description   string
	Enabled       bool
	RequiresInput bool
	InputTemplate string
	Incompatible  []string
	Internal      bool

	id   string
	base string
}

func (*Switch) isArg() {}

// ID returns the component id of the switch's display node.
func (s *Switch) ID() string { return s.id }

// BaseFlag returns the flag without any user-supplied suffix.
func (s *Switch) BaseFlag() string {
	if s.base == "" {
		return s.Flag
	}
	return s.base
}

// IncompatibleWith reports whether enabling s must disable a switch with the
// given base flag.
func (s *Switch) IncompatibleWith(flag string) bool {
	return slices.Contains(s.Incompatible, flag)
}

// Option is a command-line flag carrying a value. An empty value is unset.
type Option struct {
	Key         string
	Flag        string
	Prefix      string
	Description string
	Value       string
	Default     string
	Choices     []string
	Internal    bool

	id string
}

func (*Option) isArg() {}

// ID returns the component id of the option's display node.
func (o *Option) ID() string { return o.id }

// ConfigOption is one value of a cycling config variable.
type ConfigOption struct {
	Value   string
	Display string
}

// Label returns the display text, falling back to the value.
func (o ConfigOption) Label() string {
	if o.Display != "" {
		return o.Display
	}
	return o.Value
}

// ConfigCallback replaces the default edit behaviour of a config variable.
// Touches lists the component ids, beyond the variable's own, that Fn may
// patch; it is checked when the popup is built and enforced while Fn runs.
type ConfigCallback struct {
	Touches []string
	Fn      func(p *Popup, c *Config) error
}

// Config is a variable backed by the configuration store. Passive variables
// are display-only mirrors refreshed after other variables change.
type Config struct {
	Key      string
	Name     string
	Value    string
	Type     string
	Options  []ConfigOption
	Passive  bool
	Callback *ConfigCallback

	id string
}

func (*Config) isConfigItem() {}

// ID returns the component id of the variable's display node.
func (c *Config) ID() string { return c.id }

// IsSet reports whether the variable carries a value.
func (c *Config) IsSet() bool {
	return c.Value != "" && c.Value != Unset
}

// Continuation runs after the popup has been torn down.
type Continuation func(ctx context.Context) error

// ActionFunc is invoked when an action's key is pressed. A non-nil
// continuation is run once the popup has closed.
type ActionFunc func(p *Popup) (Continuation, error)

// Action is an entry in the actions grid. An action without a callback is a
// placeholder for behaviour that does not exist yet; a disabled action is
// rendered muted and never bound.
type Action struct {
	Key         string
	Description string
	Callback    ActionFunc
	Disabled    bool

	id string
}

// ID returns the component id of the action's display node.
func (a *Action) ID() string { return a.id }

// Placeholder reports whether invoking a is a no-op that only warns.
func (a *Action) Placeholder() bool {
	return a.Callback == nil && !a.Disabled
}

// ActionGroup is one column of the actions grid.
type ActionGroup struct {
	Heading string
	Actions []*Action
}

// Env carries contextual values, such as the current branch, that headings
// can reference as {name}.
type Env map[string]string

// Definition describes a popup before it is built. New takes ownership of
// every record it references.
type Definition struct {
	Name    string
	Title   string
	Env     Env
	Args    []Arg
	Config  []ConfigItem
	Actions []ActionGroup
}
