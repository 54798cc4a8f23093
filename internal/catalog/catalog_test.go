package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomicstack/git-popup/internal/git"
	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/store"
	"github.com/atomicstack/git-popup/internal/testutil"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "catalog-test")
	if err == nil {
		logging.Configure(filepath.Join(dir, "git-popup.log"))
	}
	code := m.Run()
	if err == nil {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

type stubPrompt struct {
	selected string
	confirm  bool
	asked    []string
}

func (s *stubPrompt) FreeText(string, string) (string, bool) { return "", false }

func (s *stubPrompt) SelectOne(prompt string, choices []string) (string, bool) {
	s.asked = append(s.asked, prompt)
	for _, c := range choices {
		if c == s.selected {
			return c, true
		}
	}
	return "", false
}

func (s *stubPrompt) Confirm(prompt string) bool {
	s.asked = append(s.asked, prompt)
	return s.confirm
}

type recordedNotes struct {
	infos  []string
	errors []error
}

func (n *recordedNotes) Info(msg string) { n.infos = append(n.infos, msg) }
func (n *recordedNotes) Warn(string)     {}
func (n *recordedNotes) Error(err error) { n.errors = append(n.errors, err) }

func build(t *testing.T, c *Catalog, name string, ctx Context, deps popup.Deps) *popup.Popup {
	t.Helper()
	def, err := c.Definition(name, ctx)
	require.NoError(t, err)
	p, err := popup.New(def, deps)
	require.NoError(t, err)
	return p
}

func press(t *testing.T, p *popup.Popup, key string) popup.Result {
	t.Helper()
	b := p.Keymap().Lookup(key)
	require.NotNil(t, b, "no binding for %q", key)
	return p.Dispatch(b, 0)
}

func TestBuiltinCatalogBuildsEveryPopup(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, []string{"commit", "log", "push", "pull", "fetch", "branch"}, c.Names())

	for _, name := range append(c.Names(), RootPopup) {
		for _, branch := range []string{"main", ""} {
			def, err := c.Definition(name, Context{Branch: branch})
			require.NoError(t, err, name)
			_, err = popup.New(def, popup.Deps{States: store.NewMemory()})
			assert.NoError(t, err, "%s on branch %q", name, branch)
		}
	}
}

func TestRootListsKeyedPopups(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	spec, err := c.Lookup("")
	require.NoError(t, err)
	require.Len(t, spec.Actions, 1)

	var keys, targets []string
	for _, a := range spec.Actions[0].Items {
		keys = append(keys, a.Key)
		targets = append(targets, a.Popup)
	}
	assert.Equal(t, []string{"c", "l", "P", "F", "f", "b"}, keys)
	assert.Equal(t, c.Names(), targets)
}

func TestLookupUnknownPopup(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	_, err = c.Lookup("rebase")
	assert.ErrorIs(t, err, ErrUnknownPopup)
	_, err = c.Definition("rebase", Context{})
	assert.ErrorIs(t, err, ErrUnknownPopup)
}

func TestDefinitionSubstitutesBranch(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)

	p := build(t, c, "push", Context{Branch: "feature"}, popup.Deps{})
	assert.NotNil(t, p.Variable("branch.feature.pushRemote"))
	assert.NotNil(t, p.Variable("branch.feature.remote"))
	assert.Equal(t, "feature", p.Env()["branch"])

	detached := build(t, c, "push", Context{}, popup.Deps{})
	assert.Nil(t, detached.Variable("branch..pushRemote"))
	assert.NotNil(t, detached.Variable("remote.pushDefault"))
	assert.NotNil(t, detached.Variable("push.default"))

	// nothing but a heading would remain
	branch := build(t, c, "branch", Context{}, popup.Deps{})
	def, err := c.Definition("branch", Context{})
	require.NoError(t, err)
	assert.Empty(t, def.Config)
	assert.NotNil(t, branch.Action("l"))
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "popups.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
popups:
  - name: log
    key: l
    title: History
    args:
      - switch: {key: -o, flag: --oneline, description: One line per commit}
    actions:
      - items:
          - {key: l, description: current, run: log}
  - name: stash
    key: z
    actions:
      - items:
          - {key: z, description: both, run: stash, args: [push]}
          - {key: l, description: Open log, popup: log}
`), 0o644))

	c, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"commit", "log", "push", "pull", "fetch", "branch", "stash"}, c.Names())

	spec, err := c.Lookup("log")
	require.NoError(t, err)
	assert.Equal(t, "History", spec.DisplayTitle())
	require.Len(t, spec.Args, 1)
	assert.Equal(t, "--oneline", spec.Args[0].Switch.Flag)

	stash, err := c.Lookup("stash")
	require.NoError(t, err)
	assert.Equal(t, "stash", stash.DisplayTitle())
	assert.Equal(t, "stash", stash.Command())
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	c, err := Load(path, false)
	require.NoError(t, err)
	assert.Len(t, c.Names(), 6)

	_, err = Load(path, true)
	assert.Error(t, err)

	c, err = Load("", true)
	require.NoError(t, err)
	assert.Len(t, c.Names(), 6)
}

func TestParseRejectsInvalidEntries(t *testing.T) {
	cases := map[string]string{
		"missing name":     "popups: [{title: x}]",
		"reserved name":    "popups: [{name: root}]",
		"duplicate":        "popups: [{name: a}, {name: a}]",
		"two arg fields":   "popups: [{name: a, args: [{heading: h, switch: {flag: --x}}]}]",
		"empty arg":        "popups: [{name: a, args: [{}]}]",
		"empty config":     "popups: [{name: a, config: [{}]}]",
		"unknown callback": "popups: [{name: a, config: [{var: {name: x, callback: nope}}]}]",
		"two action kinds": "popups: [{name: a, actions: [{items: [{key: x, run: log, copy: log}]}]}]",
		"not yaml":         "popups: [",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidCatalog, name)
	}
}

func TestValidateRejectsUnknownTargets(t *testing.T) {
	c, err := Parse([]byte("popups: [{name: a, actions: [{items: [{key: x, popup: b}, {key: r, popup: root}]}]}]"))
	require.NoError(t, err)
	err = c.Validate()
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.ErrorIs(t, err, ErrUnknownPopup)
}

func TestPlaceholderAndDisabledActions(t *testing.T) {
	c, err := Parse([]byte("popups: [{name: a, actions: [{items: [{key: x, description: later}, {key: d, description: off, run: log, disabled: true}]}]}]"))
	require.NoError(t, err)
	p := build(t, c, "a", Context{}, popup.Deps{})
	assert.True(t, p.Action("x").Placeholder())
	assert.True(t, p.Action("d").Disabled)
	assert.Nil(t, p.Action("d").Callback)
	assert.Nil(t, p.Keymap().Lookup("d"))
}

func TestRunActionInvokesGitAfterClose(t *testing.T) {
	dir := testutil.InitRepo(t)
	c, err := Parse([]byte(`
popups:
  - name: commit
    args:
      - switch: {key: -e, flag: --allow-empty, enabled: true}
      - switch: {key: -q, flag: --quiet, enabled: true}
    actions:
      - items:
          - {key: c, description: Commit, run: commit, args: [-m, "work on {branch}"]}
`))
	require.NoError(t, err)
	runner := git.NewRunner("", dir)
	p := build(t, c, "commit", Context{Runner: runner, Branch: "main"}, popup.Deps{})

	res := press(t, p, "c")
	require.True(t, res.Close)
	require.NotNil(t, res.Then)
	assert.Equal(t, "initial", testutil.Git(t, dir, "log", "-1", "--format=%s"))

	require.NoError(t, res.Then(context.Background()))
	assert.Equal(t, "work on main", testutil.Git(t, dir, "log", "-1", "--format=%s"))
}

func TestRunActionWithoutBranch(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	notes := &recordedNotes{}
	p := build(t, c, "log", Context{}, popup.Deps{Notify: notes})

	res := press(t, p, "r")
	assert.False(t, res.Close)
	require.Len(t, notes.errors, 1)
	assert.ErrorIs(t, notes.errors[0], ErrNoBranch)
}

func TestCopyActionWritesCommandLine(t *testing.T) {
	var copied []string
	orig := clipboardWrite
	clipboardWrite = func(text string) error {
		copied = append(copied, text)
		return nil
	}
	t.Cleanup(func() { clipboardWrite = orig })

	c, err := Builtin()
	require.NoError(t, err)
	notes := &recordedNotes{}
	p := build(t, c, "push", Context{Branch: "main"}, popup.Deps{Notify: notes})
	press(t, p, "-f")
	press(t, p, "-n")

	res := press(t, p, "y")
	assert.False(t, res.Close, "copy keeps the popup open")
	assert.Equal(t, []string{"git push --force-with-lease --dry-run"}, copied)
	assert.Equal(t, []string{"copied: git push --force-with-lease --dry-run"}, notes.infos)

	clipboardWrite = func(string) error { return errors.New("no clipboard") }
	press(t, p, "y")
	require.Len(t, notes.errors, 1)
	assert.Contains(t, notes.errors[0].Error(), "no clipboard")
}

func TestConfirmGuardsAction(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	prompt := &stubPrompt{}
	p := build(t, c, "push", Context{Branch: "main"}, popup.Deps{Prompt: prompt})

	res := press(t, p, "t")
	assert.False(t, res.Close)
	assert.Equal(t, []string{"Push all tags?"}, prompt.asked)

	prompt.confirm = true
	res = press(t, p, "t")
	assert.True(t, res.Close)
	assert.NotNil(t, res.Then)
}

func TestPopupActionOpensTarget(t *testing.T) {
	c, err := Builtin()
	require.NoError(t, err)
	var opened []string
	ctx := Context{Branch: "main", Open: func(_ context.Context, name string) error {
		opened = append(opened, name)
		return nil
	}}
	p := build(t, c, RootPopup, ctx, popup.Deps{})
	res := press(t, p, "P")
	require.True(t, res.Close)
	require.NoError(t, res.Then(context.Background()))
	assert.Equal(t, []string{"push"}, opened)

	notes := &recordedNotes{}
	orphan := build(t, c, RootPopup, Context{}, popup.Deps{Notify: notes})
	assert.False(t, press(t, orphan, "l").Close)
	assert.Len(t, notes.errors, 1)
}

func TestRemoteCallbackStoresSelection(t *testing.T) {
	dir := testutil.InitRepo(t)
	testutil.Git(t, dir, "remote", "add", "origin", "https://example.com/origin.git")
	testutil.Git(t, dir, "remote", "add", "upstream", "https://example.com/upstream.git")
	runner := git.NewRunner("", dir)

	c, err := Builtin()
	require.NoError(t, err)
	prompt := &stubPrompt{selected: "upstream"}
	deps := popup.Deps{Config: git.NewConfigStore(runner), Prompt: prompt}
	p := build(t, c, "push", Context{Runner: runner, Branch: "main"}, deps)

	press(t, p, "P")
	assert.Equal(t, "upstream", p.Variable("remote.pushDefault").Value)
	assert.Equal(t, "upstream", testutil.Git(t, dir, "config", "--get", "remote.pushDefault"))
	assert.Equal(t, []string{"remote.pushDefault"}, prompt.asked)

	prompt.selected = ""
	press(t, p, "P")
	assert.Equal(t, "upstream", p.Variable("remote.pushDefault").Value, "cancel keeps the value")
}

func TestRemoteCallbackWithoutRemotes(t *testing.T) {
	dir := testutil.InitRepo(t)
	runner := git.NewRunner("", dir)
	c, err := Builtin()
	require.NoError(t, err)
	notes := &recordedNotes{}
	deps := popup.Deps{Config: git.NewConfigStore(runner), Notify: notes}
	p := build(t, c, "push", Context{Runner: runner, Branch: "main"}, deps)

	press(t, p, "P")
	require.Len(t, notes.errors, 1)
	assert.Contains(t, notes.errors[0].Error(), "no remotes")
	assert.Equal(t, popup.Unset, p.Variable("remote.pushDefault").Value)
}

func TestExpand(t *testing.T) {
	env := popup.Env{"branch": "main"}
	got, ok := expand("branch.{branch}.remote", env)
	assert.True(t, ok)
	assert.Equal(t, "branch.main.remote", got)

	_, ok = expand("{upstream}", env)
	assert.False(t, ok)

	got, ok = expand("open {brace", env)
	assert.True(t, ok)
	assert.Equal(t, "open {brace", got)
}
