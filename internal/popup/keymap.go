package popup

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/render"
)

// ErrDuplicateKey is returned when two bindings cannot be told apart.
var ErrDuplicateKey = errors.New("duplicate key")

// Fixed bindings present in every popup.
const (
	KeyClose     = "q"
	KeyEscape    = "<esc>"
	KeyCycle     = "<tab>"
	keySeparator = "\x00"
)

// BindingKind tells the dispatcher what a binding acts on.
type BindingKind int

const (
	BindClose BindingKind = iota
	BindCycle
	BindSwitch
	BindOption
	BindConfig
	BindAction
)

func (k BindingKind) String() string {
	switch k {
	case BindClose:
		return "close"
	case BindCycle:
		return "cycle"
	case BindSwitch:
		return "switch"
	case BindOption:
		return "option"
	case BindConfig:
		return "config"
	case BindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Binding maps a key sequence to a popup record.
type Binding struct {
	Key  string
	Kind BindingKind
	ID   string
	Ref  render.Ref
}

// Keymap resolves key tokens, one per keypress, into bindings. Keys made of
// several tokens (such as "-a") leave the keymap pending after the first.
type Keymap struct {
	bindings map[string]*Binding
	prefixes map[string]struct{}
	order    []*Binding
	pending  []string
}

func newKeymap() *Keymap {
	return &Keymap{
		bindings: make(map[string]*Binding),
		prefixes: make(map[string]struct{}),
	}
}

func (k *Keymap) add(b *Binding) error {
	tokens := SplitKey(b.Key)
	if len(tokens) == 0 {
		return fmt.Errorf("%w: empty key for %s", ErrDuplicateKey, b.ID)
	}
	seq := strings.Join(tokens, keySeparator)
	if existing, ok := k.bindings[seq]; ok {
		return fmt.Errorf("%w: %q bound to %s and %s", ErrDuplicateKey, b.Key, describe(existing), describe(b))
	}
	if _, ok := k.prefixes[seq]; ok {
		return fmt.Errorf("%w: %q (%s) is a prefix of another key", ErrDuplicateKey, b.Key, describe(b))
	}
	for i := 1; i < len(tokens); i++ {
		prefix := strings.Join(tokens[:i], keySeparator)
		if existing, ok := k.bindings[prefix]; ok {
			return fmt.Errorf("%w: %q (%s) shadows %q", ErrDuplicateKey, existing.Key, describe(existing), b.Key)
		}
	}
	for i := 1; i < len(tokens); i++ {
		k.prefixes[strings.Join(tokens[:i], keySeparator)] = struct{}{}
	}
	k.bindings[seq] = b
	k.order = append(k.order, b)
	return nil
}

func describe(b *Binding) string {
	if b.ID != "" {
		return b.ID
	}
	return b.Kind.String()
}

// Feed consumes one key token. It returns the completed binding, or reports
// whether the sequence so far is a prefix of some binding. A token that
// breaks a pending sequence is retried on its own.
func (k *Keymap) Feed(token string) (*Binding, bool) {
	if k == nil {
		return nil, false
	}
	seq := append(append([]string(nil), k.pending...), token)
	joined := strings.Join(seq, keySeparator)
	if b, ok := k.bindings[joined]; ok {
		k.pending = nil
		return b, false
	}
	if _, ok := k.prefixes[joined]; ok {
		k.pending = seq
		events.Keymap.Pending(strings.Join(seq, ""))
		return nil, true
	}
	if len(k.pending) > 0 {
		k.pending = nil
		return k.Feed(token)
	}
	events.Keymap.Unbound(token)
	return nil, false
}

// Pending returns the keys typed towards an incomplete sequence.
func (k *Keymap) Pending() string {
	if k == nil {
		return ""
	}
	return strings.Join(k.pending, "")
}

// Reset drops any pending sequence.
func (k *Keymap) Reset() {
	if k != nil {
		k.pending = nil
	}
}

// Lookup returns the binding for a complete key.
func (k *Keymap) Lookup(key string) *Binding {
	if k == nil {
		return nil
	}
	return k.bindings[strings.Join(SplitKey(key), keySeparator)]
}

// Bindings lists bindings in the order they were added.
func (k *Keymap) Bindings() []*Binding {
	if k == nil {
		return nil
	}
	return append([]*Binding(nil), k.order...)
}

// SplitKey splits a key into tokens. Angle-bracketed names such as "<tab>"
// form one token; every other rune is a token of its own.
func SplitKey(key string) []string {
	var tokens []string
	runes := []rune(key)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '<' {
			if end := indexRune(runes[i+1:], '>'); end > 0 {
				tokens = append(tokens, string(runes[i:i+end+2]))
				i += end + 1
				continue
			}
		}
		tokens = append(tokens, string(runes[i]))
	}
	return tokens
}

func indexRune(runes []rune, r rune) int {
	for i, c := range runes {
		if c == r {
			return i
		}
	}
	return -1
}

// buildKeymap binds the fixed keys, then every bound record in display order.
func (p *Popup) buildKeymap() (*Keymap, error) {
	km := newKeymap()
	fixed := []*Binding{
		{Key: KeyClose, Kind: BindClose, Ref: render.NoRef},
		{Key: KeyEscape, Kind: BindClose, Ref: render.NoRef},
		{Key: KeyCycle, Kind: BindCycle, Ref: render.NoRef},
	}
	for _, b := range fixed {
		if err := km.add(b); err != nil {
			return nil, err
		}
	}
	for i, arg := range p.args {
		var b *Binding
		switch a := arg.(type) {
		case *Switch:
			if a.Key != "" {
				b = &Binding{Key: a.Key, Kind: BindSwitch, ID: a.id, Ref: render.Ref{Group: -1, Index: i}}
			}
		case *Option:
			if a.Key != "" {
				b = &Binding{Key: a.Key, Kind: BindOption, ID: a.id, Ref: render.Ref{Group: -1, Index: i}}
			}
		case Heading:
		}
		if b == nil {
			continue
		}
		if err := km.add(b); err != nil {
			return nil, err
		}
	}
	for i, item := range p.config {
		c, ok := item.(*Config)
		if !ok || c.Passive || c.Key == "" {
			continue
		}
		if err := km.add(&Binding{Key: c.Key, Kind: BindConfig, ID: c.id, Ref: render.Ref{Group: -1, Index: i}}); err != nil {
			return nil, err
		}
	}
	for g, group := range p.actions {
		for i, a := range group.Actions {
			if a.Disabled || a.Key == "" {
				continue
			}
			if err := km.add(&Binding{Key: a.Key, Kind: BindAction, ID: a.id, Ref: render.Ref{Group: g, Index: i}}); err != nil {
				return nil, err
			}
		}
	}
	return km, nil
}
