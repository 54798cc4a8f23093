package popup

import (
	"strings"

	"github.com/atomicstack/git-popup/internal/format/table"
	"github.com/atomicstack/git-popup/internal/render"
	"github.com/atomicstack/git-popup/internal/theme"
)

const (
	defaultArgsTitle   = "Arguments"
	defaultConfigTitle = "Variables"
	actionGap          = "   "
)

// build projects the popup state into a display tree. It reads state only.
func (p *Popup) build() *render.Node {
	var blocks []*render.Node
	blocks = append(blocks, p.argSections()...)
	if vars := p.variablesBlock(); vars != nil {
		blocks = append(blocks, vars)
	}
	if grid := p.actionsBlock(); grid != nil {
		blocks = append(blocks, grid)
	}
	children := make([]*render.Node, 0, len(blocks)*2)
	for i, block := range blocks {
		if i > 0 {
			children = append(children, render.Blank())
		}
		children = append(children, block)
	}
	return render.Block(render.TagBlock, children...)
}

func (p *Popup) argSections() []*render.Node {
	keyWidth, descWidth := 0, 0
	for _, arg := range p.args {
		switch a := arg.(type) {
		case *Switch:
			keyWidth = max(keyWidth, table.CellWidth(a.Key))
			descWidth = max(descWidth, table.CellWidth(a.Description))
		case *Option:
			keyWidth = max(keyWidth, table.CellWidth(a.Key))
			descWidth = max(descWidth, table.CellWidth(a.Description))
		case Heading:
		}
	}

	var sections, rows []*render.Node
	title := defaultArgsTitle
	flush := func() {
		if len(rows) > 0 {
			sections = append(sections, render.Block(render.TagSection, append([]*render.Node{p.heading(title)}, rows...)...))
		}
		rows = nil
	}
	for i, arg := range p.args {
		ref := render.Ref{Group: -1, Index: i}
		switch a := arg.(type) {
		case Heading:
			flush()
			title = a.Text
		case *Switch:
			flag := render.Text(a.Prefix+a.Flag, switchToken(a))
			rows = append(rows, render.Row(render.TagSwitch,
				render.Text(" "+table.Pad(a.Key, keyWidth), theme.SwitchKey),
				render.Text(" "+table.Pad(a.Description, descWidth)+" ", ""),
				flag,
			).Identify(a.id, ref).DelegateTo(flag))
		case *Option:
			value := render.Text(optionText(a), optionToken(a))
			rows = append(rows, render.Row(render.TagOption,
				render.Text(" "+table.Pad(a.Key, keyWidth), theme.OptionKey),
				render.Text(" "+table.Pad(a.Description, descWidth)+" ", ""),
				value,
			).Identify(a.id, ref).DelegateTo(value))
		}
	}
	flush()
	return sections
}

func (p *Popup) variablesBlock() *render.Node {
	if len(p.config) == 0 {
		return nil
	}
	labelWidth, nameWidth := 0, 0
	for _, item := range p.config {
		if c, ok := item.(*Config); ok {
			labelWidth = max(labelWidth, table.CellWidth(keyLabel(c.Key)))
			nameWidth = max(nameWidth, table.CellWidth(c.Name))
		}
	}
	var rows []*render.Node
	if _, ok := p.config[0].(Heading); !ok {
		rows = append(rows, p.heading(defaultConfigTitle))
	}
	for i, item := range p.config {
		switch c := item.(type) {
		case Heading:
			rows = append(rows, p.heading(c.Text))
		case *Config:
			row := render.Row(render.TagConfig,
				render.Text(" "+table.Pad(keyLabel(c.Key), labelWidth), theme.ConfigKey),
				render.Text(" "+table.Pad(c.Name, nameWidth)+" ", ""),
			).Identify(c.id, render.Ref{Group: -1, Index: i})
			if len(c.Options) > 0 {
				row.Children = append(row.Children, configChoices(c)...)
			} else {
				value := render.Text(c.Value, configToken(c))
				row.Children = append(row.Children, value)
				row.DelegateTo(value)
			}
			rows = append(rows, row)
		}
	}
	return render.Block(render.TagSection, rows...)
}

// actionsBlock lays the action groups out as columns.
func (p *Popup) actionsBlock() *render.Node {
	if len(p.actions) == 0 {
		return nil
	}
	height, headed := 0, false
	for _, group := range p.actions {
		height = max(height, len(group.Actions))
		headed = headed || group.Heading != ""
	}
	offset := 0
	if headed {
		offset = 1
	}
	texts := make([][]string, height+offset)
	cells := make([][]*render.Node, height+offset)
	for r := range texts {
		texts[r] = make([]string, len(p.actions))
		cells[r] = make([]*render.Node, len(p.actions))
	}
	for g, group := range p.actions {
		if headed && group.Heading != "" {
			texts[0][g] = p.expand(group.Heading)
			cells[0][g] = p.heading(group.Heading)
		}
		for i, a := range group.Actions {
			texts[i+offset][g] = a.Key + " " + a.Description
			cells[i+offset][g] = actionCell(a, render.Ref{Group: g, Index: i})
		}
	}

	widths := table.Widths(texts)
	lines := make([]*render.Node, 0, len(texts))
	for r, row := range texts {
		last := -1
		for c, text := range row {
			if text != "" {
				last = c
			}
		}
		var children []*render.Node
		for c := 0; c <= last; c++ {
			if c > 0 {
				children = append(children, render.Text(actionGap, ""))
			}
			children = append(children, cells[r][c])
			if c < last {
				if pad := widths[c] - table.CellWidth(row[c]); pad > 0 {
					children = append(children, render.Text(strings.Repeat(" ", pad), ""))
				}
			}
		}
		lines = append(lines, render.Row(render.TagRow, children...))
	}
	return render.Block(render.TagActions, lines...)
}

func actionCell(a *Action, ref render.Ref) *render.Node {
	keyToken, descToken := theme.ActionKey, ""
	if a.Disabled || a.Placeholder() {
		keyToken, descToken = theme.ActionDisabled, theme.Muted
	}
	return render.Row(render.TagAction,
		render.Text(a.Key, keyToken),
		render.Text(" "+a.Description, descToken),
	).Identify(a.id, ref)
}

// heading renders a title, highlighting {name} references found in env.
func (p *Popup) heading(text string) *render.Node {
	var spans []*render.Node
	for text != "" {
		start := strings.IndexByte(text, '{')
		end := -1
		if start >= 0 {
			end = strings.IndexByte(text[start:], '}')
		}
		if end < 0 {
			spans = append(spans, render.Text(text, ""))
			break
		}
		end += start
		value, ok := p.env[text[start+1:end]]
		if !ok {
			spans = append(spans, render.Text(text[:end+1], ""))
			text = text[end+1:]
			continue
		}
		if start > 0 {
			spans = append(spans, render.Text(text[:start], ""))
		}
		spans = append(spans, render.Text(value, theme.EnvValue))
		text = text[end+1:]
	}
	row := render.Row(render.TagRow, spans...)
	row.Highlight = theme.SectionTitle
	return row
}

// expand substitutes {name} references found in env.
func (p *Popup) expand(text string) string {
	return p.heading(text).Content()
}

// keyLabel spaces out multi-character keys so they align with single keys.
func keyLabel(key string) string {
	return strings.Join(SplitKey(key), " ")
}

func switchToken(s *Switch) string {
	if s.Enabled {
		return theme.SwitchEnabled
	}
	return theme.SwitchDisabled
}

func optionToken(o *Option) string {
	if o.Value != "" {
		return theme.OptionEnabled
	}
	return theme.OptionDisabled
}

func optionText(o *Option) string {
	return o.Prefix + o.Flag + "=" + o.Value
}

func configToken(c *Config) string {
	switch {
	case !c.IsSet():
		return theme.ConfigDisabled
	case c.Type != "":
		return c.Type
	default:
		return theme.ConfigEnabled
	}
}

// configChoices renders "[a|b|c]" with the active choice highlighted. The
// node count depends only on the number of options so that a patch can
// replace the same trailing children.
func configChoices(c *Config) []*render.Node {
	nodes := make([]*render.Node, 0, len(c.Options)*2+1)
	nodes = append(nodes, render.Text("[", theme.ConfigDisabled))
	for i, o := range c.Options {
		if i > 0 {
			nodes = append(nodes, render.Text("|", theme.ConfigDisabled))
		}
		token := theme.ConfigDisabled
		if o.Value == c.Value {
			token = theme.ConfigEnabled
		}
		nodes = append(nodes, render.Text(o.Label(), token))
	}
	return append(nodes, render.Text("]", theme.ConfigDisabled))
}
