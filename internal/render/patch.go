package render

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownComponent means no node carries the requested id.
	ErrUnknownComponent = errors.New("unknown component")
	// ErrUnsupportedValue means a patch value has a type or shape the node
	// cannot accept.
	ErrUnsupportedValue = errors.New("unsupported patch value")
)

// Patch describes an in-place update of one component. An empty Highlight
// leaves the highlight untouched. Value may be nil, a string replacing the
// trailing text child, or a []*Node replacing the trailing len(value)
// children.
type Patch struct {
	Highlight string
	Value     any
}

// Apply locates the node carrying id below n and applies p to it.
func (n *Node) Apply(id string, p Patch) error {
	target := n.Find(id)
	if target == nil {
		return fmt.Errorf("%w: %q", ErrUnknownComponent, id)
	}
	if p.Highlight != "" {
		if target.Delegate != nil {
			target.Delegate.Highlight = p.Highlight
		} else {
			target.Highlight = p.Highlight
		}
	}
	switch value := p.Value.(type) {
	case nil:
	case string:
		if target.layout == layoutText {
			target.Text = value
			return nil
		}
		if len(target.Children) == 0 || !target.Children[len(target.Children)-1].IsText() {
			return fmt.Errorf("%w: %q has no trailing text", ErrUnsupportedValue, id)
		}
		target.Children[len(target.Children)-1].Text = value
	case []*Node:
		keep := len(target.Children) - len(value)
		if keep < 0 {
			return fmt.Errorf("%w: %q has %d children, got %d replacements", ErrUnsupportedValue, id, len(target.Children), len(value))
		}
		for _, replaced := range target.Children[keep:] {
			if replaced == target.Delegate {
				target.Delegate = nil
			}
		}
		children := make([]*Node, 0, keep+len(value))
		children = append(children, target.Children[:keep]...)
		children = append(children, value...)
		target.Children = children
	default:
		return fmt.Errorf("%w: %q received %T", ErrUnsupportedValue, id, p.Value)
	}
	return nil
}
