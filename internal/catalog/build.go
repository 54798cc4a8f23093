package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/atomicstack/git-popup/internal/git"
	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/popup"
)

var clipboardWrite = clipboard.WriteAll

// ErrNoBranch is returned by actions that reference {branch} on a detached HEAD.
var ErrNoBranch = errors.New("not on a branch")

// Context supplies the repository a definition is built for.
type Context struct {
	Runner *git.Runner
	Branch string
	// Open shows another popup once the current one has closed.
	Open func(ctx context.Context, name string) error
}

func (c Context) runner() *git.Runner {
	if c.Runner == nil {
		return git.NewRunner("", "")
	}
	return c.Runner
}

func (c Context) env() popup.Env {
	env := popup.Env{}
	if c.Branch != "" {
		env["branch"] = c.Branch
	}
	return env
}

// Definition builds the popup definition of name for ctx. Variables whose
// names reference unknown context values, such as {branch} on a detached
// HEAD, are left out.
func (c *Catalog) Definition(name string, ctx Context) (popup.Definition, error) {
	spec, err := c.Lookup(name)
	if err != nil {
		return popup.Definition{}, err
	}
	env := ctx.env()
	def := popup.Definition{Name: spec.Name, Title: spec.DisplayTitle(), Env: env}
	for _, arg := range spec.Args {
		switch {
		case arg.Switch != nil:
			s := arg.Switch
			def.Args = append(def.Args, &popup.Switch{
				Key:           s.Key,
				Flag:          s.Flag,
				Prefix:        s.Prefix,
				Description:   s.Description,
				Enabled:       s.Enabled,
				RequiresInput: s.RequiresInput,
				InputTemplate: s.InputTemplate,
				Incompatible:  append([]string(nil), s.Incompatible...),
				Internal:      s.Internal,
			})
		case arg.Option != nil:
			o := arg.Option
			def.Args = append(def.Args, &popup.Option{
				Key:         o.Key,
				Flag:        o.Flag,
				Prefix:      o.Prefix,
				Description: o.Description,
				Default:     o.Default,
				Choices:     append([]string(nil), o.Choices...),
				Internal:    o.Internal,
			})
		default:
			def.Args = append(def.Args, popup.Heading{Text: arg.Heading})
		}
	}
	for _, item := range spec.Config {
		if item.Var == nil {
			def.Config = append(def.Config, popup.Heading{Text: item.Heading})
			continue
		}
		v := item.Var
		varName, ok := expand(v.Name, env)
		if !ok {
			continue
		}
		cfg := &popup.Config{Key: v.Key, Name: varName, Type: v.Type, Passive: v.Passive}
		for _, o := range v.Options {
			cfg.Options = append(cfg.Options, popup.ConfigOption{Value: o.Value, Display: o.Display})
		}
		if v.Callback != "" {
			cfg.Callback = callbacks[v.Callback](ctx)
		}
		def.Config = append(def.Config, cfg)
	}
	def.Config = dropTrailingHeadings(def.Config)
	for _, group := range spec.Actions {
		g := popup.ActionGroup{Heading: group.Heading}
		for _, a := range group.Items {
			g.Actions = append(g.Actions, &popup.Action{
				Key:         a.Key,
				Description: a.Description,
				Disabled:    a.Disabled,
				Callback:    actionFunc(a, ctx, env),
			})
		}
		def.Actions = append(def.Actions, g)
	}
	return def, nil
}

// dropTrailingHeadings removes headings left without variables after them.
func dropTrailingHeadings(items []popup.ConfigItem) []popup.ConfigItem {
	for len(items) > 0 {
		if _, ok := items[len(items)-1].(popup.Heading); !ok {
			break
		}
		items = items[:len(items)-1]
	}
	return items
}

func actionFunc(a ActionSpec, ctx Context, env popup.Env) popup.ActionFunc {
	var fn popup.ActionFunc
	switch {
	case a.Disabled:
		return nil
	case a.Run != "":
		fn = func(p *popup.Popup) (popup.Continuation, error) {
			extra, err := expandArgs(a.Args, env)
			if err != nil {
				return nil, err
			}
			argv := git.Args(a.Run, p.ActiveFlags(), extra...)
			runner := ctx.runner()
			return func(c context.Context) error { return runner.Run(c, argv...) }, nil
		}
	case a.Popup != "":
		target := a.Popup
		fn = func(*popup.Popup) (popup.Continuation, error) {
			if ctx.Open == nil {
				return nil, fmt.Errorf("cannot open %s from here", target)
			}
			return func(c context.Context) error { return ctx.Open(c, target) }, nil
		}
	case a.Copy != "":
		fn = func(p *popup.Popup) (popup.Continuation, error) {
			extra, err := expandArgs(a.Args, env)
			if err != nil {
				return nil, err
			}
			line := git.CommandLine(ctx.runner().Binary, a.Copy, p.ActiveFlags(), extra...)
			if err := clipboardWrite(line); err != nil {
				return nil, fmt.Errorf("copy to clipboard: %w", err)
			}
			events.Action.Success("copied: " + line)
			p.Deps().Notify.Info("copied: " + line)
			return nil, popup.ErrKeepOpen
		}
	default:
		return nil
	}
	if a.Confirm == "" {
		return fn
	}
	inner := fn
	return func(p *popup.Popup) (popup.Continuation, error) {
		if !p.Deps().Prompt.Confirm(a.Confirm) {
			return nil, popup.ErrKeepOpen
		}
		return inner(p)
	}
}

// expand substitutes {name} references. It reports false when a reference
// has no value in env.
func expand(text string, env popup.Env) (string, bool) {
	var b strings.Builder
	for {
		start := strings.IndexByte(text, '{')
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start:], '}')
		if end < 0 {
			break
		}
		end += start
		value, ok := env[text[start+1:end]]
		if !ok {
			return "", false
		}
		b.WriteString(text[:start])
		b.WriteString(value)
		text = text[end+1:]
	}
	b.WriteString(text)
	return b.String(), true
}

func expandArgs(args []string, env popup.Env) ([]string, error) {
	out := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, ok := expand(arg, env)
		if !ok {
			return nil, fmt.Errorf("%q: %w", arg, ErrNoBranch)
		}
		out = append(out, expanded)
	}
	return out, nil
}

const callbackTimeout = 5 * time.Second

// callbacks are the named config callbacks catalog files can reference.
var callbacks = map[string]func(Context) *popup.ConfigCallback{
	"remote": remoteCallback,
}

// remoteCallback lets the user pick the variable's value among the
// repository's remotes.
func remoteCallback(ctx Context) *popup.ConfigCallback {
	return &popup.ConfigCallback{
		Fn: func(p *popup.Popup, c *popup.Config) error {
			runCtx, cancel := context.WithTimeout(context.Background(), callbackTimeout)
			defer cancel()
			remotes, err := ctx.runner().Remotes(runCtx)
			if err != nil {
				return err
			}
			if len(remotes) == 0 {
				return errors.New("no remotes configured")
			}
			choice, ok := p.Deps().Prompt.SelectOne(c.Name, remotes)
			if !ok {
				return nil
			}
			c.Value = choice
			p.PatchConfig(c)
			return nil
		},
	}
}
