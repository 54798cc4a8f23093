package popup

import (
	"context"
	"testing"

	"github.com/atomicstack/git-popup/internal/render"
	"github.com/atomicstack/git-popup/internal/theme"
)

func noopAction(*Popup) (Continuation, error) { return nil, nil }

func sampleDefinition() Definition {
	return Definition{
		Name: "log",
		Env:  Env{"branch": "main"},
		Args: []Arg{
			&Switch{Key: "-g", Flag: "--graph", Description: "Show graph", Enabled: true},
			&Option{Key: "=n", Flag: "-n", Description: "Limit"},
			Heading{Text: "Branch {branch}"},
			&Switch{Key: "-r", Flag: "--remotes", Description: "Remotes"},
		},
		Config: []ConfigItem{
			&Config{Key: "u", Name: "branch.main.rebase", Options: []ConfigOption{{Value: "true"}, {Value: "false"}}},
			&Config{Key: "dp", Name: "branch.main.description"},
		},
		Actions: []ActionGroup{
			{Heading: "Log", Actions: []*Action{
				{Key: "l", Description: "current", Callback: noopAction},
				{Key: "o", Description: "other"},
			}},
			{Heading: "Reflog", Actions: []*Action{
				{Key: "r", Description: "reflog", Callback: func(*Popup) (Continuation, error) {
					return func(context.Context) error { return nil }, nil
				}},
			}},
		},
	}
}

const sampleRender = `Arguments
 -g Show graph --graph
 =n Limit      -n=

Branch main
 -r Remotes    --remotes

Variables
 u   branch.main.rebase      [true|false]
 d p branch.main.description unset

Log         Reflog
l current   r reflog
o other`

func TestBuildLayout(t *testing.T) {
	h := newHarness()
	h.config.values["branch.main.rebase"] = "false"
	p := h.build(t, sampleDefinition())
	if got := render.Plain(render.Layout(p.Root())); got != sampleRender {
		t.Fatalf("unexpected render\nexpected:\n%s\nactual:\n%s", sampleRender, got)
	}
}

func TestBuildAssignsOneNodePerComponent(t *testing.T) {
	h := newHarness()
	p := h.build(t, sampleDefinition())
	counts := map[string]int{}
	p.Root().Walk(func(n *render.Node) bool {
		if n.ID != "" {
			counts[n.ID]++
		}
		return true
	})
	for _, id := range []string{
		"switch:--graph", "option:-n", "switch:--remotes",
		"config:branch.main.rebase", "config:branch.main.description",
		"action:0.0", "action:0.1", "action:1.0",
	} {
		if counts[id] != 1 {
			t.Fatalf("expected exactly one node for %s, got %d", id, counts[id])
		}
	}
	if len(counts) != 8 {
		t.Fatalf("unexpected ids %v", counts)
	}
}

func TestBuildReferencesOwningRecords(t *testing.T) {
	h := newHarness()
	p := h.build(t, sampleDefinition())
	if ref := p.Root().Find("switch:--remotes").Ref; ref.Index != 3 {
		t.Fatalf("expected arg index 3, got %+v", ref)
	}
	if ref := p.Root().Find("config:branch.main.description").Ref; ref.Index != 1 {
		t.Fatalf("expected config index 1, got %+v", ref)
	}
	if ref := p.Root().Find("action:1.0").Ref; ref.Group != 1 || ref.Index != 0 {
		t.Fatalf("expected action ref 1.0, got %+v", ref)
	}
}

func TestBuildHighlights(t *testing.T) {
	h := newHarness()
	h.config.values["branch.main.rebase"] = "false"
	p := h.build(t, sampleDefinition())
	lines := render.Layout(p.Root())

	heading := lines[4].Spans
	if len(heading) != 2 || heading[0].Highlight != theme.SectionTitle || heading[1].Highlight != theme.EnvValue {
		t.Fatalf("unexpected heading spans %+v", heading)
	}
	graph := lines[1].Spans
	if graph[len(graph)-1].Highlight != theme.SwitchEnabled {
		t.Fatalf("expected enabled switch highlight, got %+v", graph)
	}
	rebase := lines[8].Spans
	var active []string
	for _, span := range rebase {
		if span.Highlight == theme.ConfigEnabled {
			active = append(active, span.Text)
		}
	}
	if len(active) != 1 || active[0] != "false" {
		t.Fatalf("expected only the active choice highlighted, got %v", active)
	}
	placeholder := p.Root().Find("action:0.1")
	if placeholder.Children[0].Highlight != theme.ActionDisabled || placeholder.Children[1].Highlight != theme.Muted {
		t.Fatalf("expected muted placeholder, got %+v", placeholder.Children)
	}
}

func TestVariablesBlockOmitsDefaultTitleAfterHeading(t *testing.T) {
	h := newHarness()
	p := h.build(t, Definition{Name: "branch", Config: []ConfigItem{
		Heading{Text: "Configure {branch}"},
		&Config{Key: "d", Name: "description"},
	}, Env: Env{"branch": "dev"}})
	want := "Configure dev\n d description unset"
	if got := render.Plain(render.Layout(p.Root())); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestHeadingKeepsUnknownPlaceholders(t *testing.T) {
	h := newHarness()
	p := h.build(t, Definition{Name: "x", Args: []Arg{
		Heading{Text: "On {upstream}"},
		&Switch{Key: "-a", Flag: "--all"},
	}})
	lines := render.Layout(p.Root())
	if lines[0].String() != "On {upstream}" {
		t.Fatalf("expected literal placeholder, got %q", lines[0].String())
	}
}

func TestActionsWithoutHeadings(t *testing.T) {
	h := newHarness()
	p := h.build(t, Definition{Name: "x", Actions: []ActionGroup{
		{Actions: []*Action{{Key: "a", Description: "one", Callback: noopAction}}},
		{Actions: []*Action{{Key: "b", Description: "two", Disabled: true}, {Key: "c", Description: "three", Callback: noopAction}}},
	}})
	want := "a one   b two\n        c three"
	if got := render.Plain(render.Layout(p.Root())); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
