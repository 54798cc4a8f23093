// Package app wires the catalog, stores and UI together and runs popups.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/git-popup/internal/catalog"
	"github.com/atomicstack/git-popup/internal/git"
	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/popup"
	"github.com/atomicstack/git-popup/internal/store"
	"github.com/atomicstack/git-popup/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Popup           string
	RepoDir         string
	GitBinary       string
	StatePath       string
	CatalogPath     string
	CatalogRequired bool
	Width           int
	Height          int
	ShowFooter      bool
}

var programOptions = []tea.ProgramOption{tea.WithAltScreen()}

// App runs popups for one repository.
type App struct {
	cfg     Config
	runner  *git.Runner
	catalog *catalog.Catalog
	states  popup.StateStore
	config  popup.ConfigStore
	closer  func() error
}

// New resolves the repository, loads the catalog and opens the state store.
func New(ctx context.Context, cfg Config) (*App, error) {
	runner := git.NewRunner(cfg.GitBinary, cfg.RepoDir)
	top, err := runner.TopLevel(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve repository: %w", err)
	}
	runner.Dir = top
	cat, err := catalog.Load(cfg.CatalogPath, cfg.CatalogRequired)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:     cfg,
		runner:  runner,
		catalog: cat,
		config:  git.NewConfigStore(runner),
		closer:  func() error { return nil },
	}
	if cfg.StatePath == "" {
		a.states = store.NewMemory()
		return a, nil
	}
	s, err := store.Open(cfg.StatePath)
	if err != nil {
		return nil, fmt.Errorf("open state: %w", err)
	}
	a.states = s
	a.closer = s.Close
	return a, nil
}

// Close releases the state store.
func (a *App) Close() error {
	return a.closer()
}

// Run opens the configured popup.
func Run(cfg Config) error {
	ctx := context.Background()
	a, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logging.Error(err)
		}
	}()
	return a.Open(ctx, cfg.Popup)
}

// Popup builds the named popup against the current branch, using bridge for
// every interaction.
func (a *App) Popup(ctx context.Context, name string, bridge *ui.Bridge) (*popup.Popup, error) {
	branch, err := a.runner.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	def, err := a.catalog.Definition(name, catalog.Context{Runner: a.runner, Branch: branch, Open: a.Open})
	if err != nil {
		return nil, err
	}
	return popup.New(def, popup.Deps{
		States: a.states,
		Config: a.config,
		Prompt: bridge,
		View:   bridge,
		Notify: bridge,
	})
}

// Open shows the named popup and, once it closes, runs the continuation of
// the action that closed it. Continuations may open further popups.
func (a *App) Open(ctx context.Context, name string) error {
	bridge := ui.NewBridge()
	p, err := a.Popup(ctx, name, bridge)
	if err != nil {
		return err
	}
	model := ui.NewModel(p, ui.Options{Width: a.cfg.Width, Height: a.cfg.Height, ShowFooter: a.cfg.ShowFooter})
	program := tea.NewProgram(model, programOptions...)
	bridge.Attach(program.Send)
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	res := model.Result()
	if res.Then == nil {
		return nil
	}
	events.App.Continue(p.Name())
	return res.Then(ctx)
}

// Catalog returns the loaded popup catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}
