package render

import "strings"

// Span is a run of text sharing one highlight token.
type Span struct {
	Text      string
	Highlight string
}

// Line is one rendered row. Stack lists the container nodes covering the
// line, outermost first.
type Line struct {
	Spans []Span
	Stack []*Node
}

// String returns the unstyled text of the line.
func (l Line) String() string {
	var b strings.Builder
	for _, span := range l.Spans {
		b.WriteString(span.Text)
	}
	return b.String()
}

// Layout flattens the tree into lines. Highlights are inherited from the
// nearest highlighted ancestor.
func Layout(root *Node) []Line {
	if root == nil {
		return nil
	}
	lines := make([]Line, 0, 32)
	layoutNode(root, nil, "", &lines)
	return lines
}

func layoutNode(n *Node, stack []*Node, inherited string, lines *[]Line) {
	highlight := inherited
	if n.Highlight != "" {
		highlight = n.Highlight
	}
	switch n.layout {
	case layoutText:
		*lines = append(*lines, Line{
			Spans: []Span{{Text: n.Text, Highlight: highlight}},
			Stack: cloneStack(stack),
		})
	case layoutRow:
		line := Line{Stack: append(cloneStack(stack), n)}
		for _, child := range n.Children {
			collectInline(child, highlight, &line)
		}
		*lines = append(*lines, line)
	case layoutBlock:
		inner := append(cloneStack(stack), n)
		for _, child := range n.Children {
			layoutNode(child, inner, highlight, lines)
		}
	}
}

func collectInline(n *Node, inherited string, line *Line) {
	highlight := inherited
	if n.Highlight != "" {
		highlight = n.Highlight
	}
	if n.layout == layoutText {
		if n.Text != "" {
			line.Spans = append(line.Spans, Span{Text: n.Text, Highlight: highlight})
		}
		return
	}
	line.Stack = append(line.Stack, n)
	for _, child := range n.Children {
		collectInline(child, highlight, line)
	}
}

func cloneStack(stack []*Node) []*Node {
	out := make([]*Node, len(stack), len(stack)+1)
	copy(out, stack)
	return out
}

// StackAt returns the nodes covering row, innermost first.
func StackAt(lines []Line, row int) []*Node {
	if row < 0 || row >= len(lines) {
		return nil
	}
	stack := lines[row].Stack
	out := make([]*Node, 0, len(stack))
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return out
}

// Plain joins the unstyled lines with newlines.
func Plain(lines []Line) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return strings.Join(out, "\n")
}
