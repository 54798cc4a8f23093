// Package render holds the display tree a popup is drawn from. Trees are built
// once when a popup is shown and afterwards patched in place by component id;
// Layout flattens a tree into monospace lines for whichever host draws them.
package render

// Tag names the semantic role of a node.
type Tag string

const (
	TagText    Tag = "text"
	TagRow     Tag = "row"
	TagBlock   Tag = "block"
	TagSection Tag = "section"
	TagSwitch  Tag = "switch"
	TagOption  Tag = "option"
	TagConfig  Tag = "config"
	TagActions Tag = "actions"
	TagAction  Tag = "action"
)

type layout int

const (
	layoutText layout = iota
	layoutRow
	layoutBlock
)

// Ref locates the record a node was produced from inside its owner's
// collections. Group is only meaningful for grouped collections (actions).
type Ref struct {
	Group int
	Index int
}

// NoRef marks nodes that do not stand for an owned record.
var NoRef = Ref{Group: -1, Index: -1}

// Node is a single element of the display tree.
type Node struct {
	Tag       Tag
	ID        string
	Ref       Ref
	Highlight string
	Text      string
	Children  []*Node
	// Delegate receives highlight patches addressed to this node.
	Delegate *Node

	layout layout
}

// Text returns an inline span.
func Text(text, highlight string) *Node {
	return &Node{Tag: TagText, Ref: NoRef, Text: text, Highlight: highlight, layout: layoutText}
}

// Row returns an inline container; all descendants render on one line.
func Row(tag Tag, children ...*Node) *Node {
	return &Node{Tag: tag, Ref: NoRef, Children: compact(children), layout: layoutRow}
}

// Block returns a vertical container; each child starts a new line.
func Block(tag Tag, children ...*Node) *Node {
	return &Node{Tag: tag, Ref: NoRef, Children: compact(children), layout: layoutBlock}
}

// Blank returns an empty line.
func Blank() *Node {
	return Row(TagRow)
}

// Identify attaches a stable component id and back-reference.
func (n *Node) Identify(id string, ref Ref) *Node {
	n.ID = id
	n.Ref = ref
	return n
}

// DelegateTo routes highlight patches to child.
func (n *Node) DelegateTo(child *Node) *Node {
	n.Delegate = child
	return n
}

// IsText reports whether n is an inline span.
func (n *Node) IsText() bool {
	return n != nil && n.layout == layoutText
}

// Find returns the node carrying id, searching depth first.
func (n *Node) Find(id string) *Node {
	if n == nil || id == "" {
		return nil
	}
	if n.ID == id {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.Walk(fn) {
			return false
		}
	}
	return true
}

// Content returns the concatenated text of n and its descendants.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	if n.layout == layoutText {
		return n.Text
	}
	out := ""
	for _, child := range n.Children {
		out += child.Content()
	}
	return out
}

func compact(nodes []*Node) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
