// Package catalog describes popups in YAML and turns those descriptions into
// popup definitions wired to git.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// RootPopup is the name of the generated popup listing every other popup.
const RootPopup = "root"

var (
	// ErrUnknownPopup is returned for names missing from the catalog.
	ErrUnknownPopup = errors.New("unknown popup")
	// ErrInvalidCatalog is returned for malformed catalog entries.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

//go:embed builtin.yaml
var builtinCatalog []byte

// File is the top-level document of a catalog file.
type File struct {
	Popups []*Spec `yaml:"popups"`
}

// Spec describes one popup.
type Spec struct {
	Name       string       `yaml:"name"`
	Key        string       `yaml:"key"`
	Title      string       `yaml:"title"`
	Subcommand string       `yaml:"subcommand"`
	Args       []ArgSpec    `yaml:"args"`
	Config     []ConfigSpec `yaml:"config"`
	Actions    []GroupSpec  `yaml:"actions"`
}

// ArgSpec holds exactly one of Heading, Switch or Option.
type ArgSpec struct {
	Heading string      `yaml:"heading,omitempty"`
	Switch  *SwitchSpec `yaml:"switch,omitempty"`
	Option  *OptionSpec `yaml:"option,omitempty"`
}

type SwitchSpec struct {
	Key           string   `yaml:"key"`
	Flag          string   `yaml:"flag"`
	Prefix        string   `yaml:"prefix"`
	Description   string   `yaml:"description"`
	Enabled       bool     `yaml:"enabled"`
	RequiresInput bool     `yaml:"requires_input"`
	InputTemplate string   `yaml:"input_template"`
	Incompatible  []string `yaml:"incompatible"`
	Internal      bool     `yaml:"internal"`
}

type OptionSpec struct {
	Key         string   `yaml:"key"`
	Flag        string   `yaml:"flag"`
	Prefix      string   `yaml:"prefix"`
	Description string   `yaml:"description"`
	Default     string   `yaml:"default"`
	Choices     []string `yaml:"choices"`
	Internal    bool     `yaml:"internal"`
}

// ConfigSpec holds exactly one of Heading or Var.
type ConfigSpec struct {
	Heading string   `yaml:"heading,omitempty"`
	Var     *VarSpec `yaml:"var,omitempty"`
}

type VarSpec struct {
	Key      string          `yaml:"key"`
	Name     string          `yaml:"name"`
	Type     string          `yaml:"type"`
	Options  []VarOptionSpec `yaml:"options"`
	Passive  bool            `yaml:"passive"`
	Callback string          `yaml:"callback"`
}

type VarOptionSpec struct {
	Value   string `yaml:"value"`
	Display string `yaml:"display"`
}

// GroupSpec is one column of actions.
type GroupSpec struct {
	Heading string       `yaml:"heading"`
	Items   []ActionSpec `yaml:"items"`
}

// ActionSpec describes an action. Run, Popup and Copy are mutually
// exclusive; an action with none of them is a placeholder.
type ActionSpec struct {
	Key         string   `yaml:"key"`
	Description string   `yaml:"description"`
	Run         string   `yaml:"run"`
	Args        []string `yaml:"args"`
	Popup       string   `yaml:"popup"`
	Copy        string   `yaml:"copy"`
	Confirm     string   `yaml:"confirm"`
	Disabled    bool     `yaml:"disabled"`
}

// Catalog is an ordered set of popup specs.
type Catalog struct {
	specs map[string]*Spec
	order []string
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	c := &Catalog{specs: make(map[string]*Spec)}
	for _, spec := range file.Popups {
		if err := c.add(spec); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	c, err := Parse(builtinCatalog)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return c, nil
}

// Load returns the builtin catalog merged with the file at path. Entries in
// the file replace builtin popups of the same name. A missing file is only
// an error when required is set.
func Load(path string, required bool) (*Catalog, error) {
	c, err := Builtin()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return c, c.Validate()
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expand catalog path: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if os.IsNotExist(err) && !required {
		return c, c.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	user, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	c.Merge(user)
	return c, c.Validate()
}

func (c *Catalog) add(spec *Spec) error {
	if spec == nil || strings.TrimSpace(spec.Name) == "" {
		return fmt.Errorf("%w: popup without a name", ErrInvalidCatalog)
	}
	if spec.Name == RootPopup {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidCatalog, RootPopup)
	}
	if _, ok := c.specs[spec.Name]; ok {
		return fmt.Errorf("%w: popup %q declared twice", ErrInvalidCatalog, spec.Name)
	}
	if err := spec.check(); err != nil {
		return err
	}
	c.specs[spec.Name] = spec
	c.order = append(c.order, spec.Name)
	return nil
}

func (s *Spec) check() error {
	for i, arg := range s.Args {
		if count(arg.Heading != "", arg.Switch != nil, arg.Option != nil) != 1 {
			return fmt.Errorf("%w: %s args[%d] must set one of heading, switch, option", ErrInvalidCatalog, s.Name, i)
		}
	}
	for i, item := range s.Config {
		if count(item.Heading != "", item.Var != nil) != 1 {
			return fmt.Errorf("%w: %s config[%d] must set one of heading, var", ErrInvalidCatalog, s.Name, i)
		}
		if item.Var != nil && item.Var.Callback != "" {
			if _, ok := callbacks[item.Var.Callback]; !ok {
				return fmt.Errorf("%w: %s config[%d] uses unknown callback %q", ErrInvalidCatalog, s.Name, i, item.Var.Callback)
			}
		}
	}
	for g, group := range s.Actions {
		for i, a := range group.Items {
			if count(a.Run != "", a.Popup != "", a.Copy != "") > 1 {
				return fmt.Errorf("%w: %s actions[%d][%d] sets more than one of run, popup, copy", ErrInvalidCatalog, s.Name, g, i)
			}
		}
	}
	return nil
}

func count(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// Merge adds the popups of other, replacing popups of the same name.
func (c *Catalog) Merge(other *Catalog) {
	for _, name := range other.order {
		if _, ok := c.specs[name]; !ok {
			c.order = append(c.order, name)
		}
		c.specs[name] = other.specs[name]
	}
}

// Validate checks references between popups.
func (c *Catalog) Validate() error {
	for _, name := range c.order {
		for _, group := range c.specs[name].Actions {
			for _, a := range group.Items {
				if a.Popup == "" || a.Popup == RootPopup {
					continue
				}
				if _, ok := c.specs[a.Popup]; !ok {
					return fmt.Errorf("%w: %s opens %q: %w", ErrInvalidCatalog, name, a.Popup, ErrUnknownPopup)
				}
			}
		}
	}
	return nil
}

// Lookup returns the spec registered under name. The root popup is
// generated from the other entries.
func (c *Catalog) Lookup(name string) (*Spec, error) {
	if name == RootPopup || name == "" {
		return c.root(), nil
	}
	spec, ok := c.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPopup, name)
	}
	return spec, nil
}

// Names lists popup names in declaration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) root() *Spec {
	group := GroupSpec{Heading: "Popups"}
	for _, name := range c.order {
		spec := c.specs[name]
		if spec.Key == "" {
			continue
		}
		group.Items = append(group.Items, ActionSpec{Key: spec.Key, Description: spec.DisplayTitle(), Popup: name})
	}
	return &Spec{Name: RootPopup, Title: "Git", Actions: []GroupSpec{group}}
}

// DisplayTitle returns the title, falling back to the name.
func (s *Spec) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Name
}

// Command returns the git subcommand of the popup.
func (s *Spec) Command() string {
	if s.Subcommand != "" {
		return s.Subcommand
	}
	return s.Name
}
