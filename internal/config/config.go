package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"

	"github.com/atomicstack/git-popup/internal/app"
	"github.com/atomicstack/git-popup/internal/catalog"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envState   = "GIT_POPUP_STATE"
	envCatalog = "GIT_POPUP_CATALOG"
	envRepo    = "GIT_POPUP_REPO"
	envGit     = "GIT_POPUP_GIT"
	envWidth   = "GIT_POPUP_WIDTH"
	envHeight  = "GIT_POPUP_HEIGHT"
	envFooter  = "GIT_POPUP_FOOTER"
	envTrace   = "GIT_POPUP_TRACE"
	envLogFile = "GIT_POPUP_LOG_FILE"
)

const (
	// DefaultStatePath holds switch and option values between runs.
	DefaultStatePath = "~/.local/state/git-popup/state.db"
	// DefaultCatalogPath is read when present; it is not required to exist.
	DefaultCatalogPath = "~/.config/git-popup/popups.yaml"
)

// Flags holds the options registered on a flag set.
type Flags struct {
	fs  *pflag.FlagSet
	env map[string]string

	state   *string
	catalog *string
	repo    *string
	git     *string
	width   *int
	height  *int
	footer  *bool
	trace   *bool
	logFile *string
}

// Register adds the application options to fs. Defaults come from the
// GIT_POPUP_* variables in environ.
func Register(fs *pflag.FlagSet, environ []string) *Flags {
	env := parseEnv(environ)
	return &Flags{
		fs:      fs,
		env:     env,
		state:   fs.String("state", envOrDefault(env, envState, DefaultStatePath), "path to the state database (empty keeps state in memory)"),
		catalog: fs.String("catalog", envOrDefault(env, envCatalog, DefaultCatalogPath), "path to a popup catalog merged over the builtin popups"),
		repo:    fs.StringP("repo", "C", envOrDefault(env, envRepo, ""), "run as if git was started in this directory"),
		git:     fs.String("git", envOrDefault(env, envGit, "git"), "git binary to run"),
		width:   fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)"),
		height:  fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)"),
		footer:  fs.Bool("footer", envOrBool(env, envFooter, false), "enable footer hint row"),
		trace:   fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging"),
		logFile: fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file"),
	}
}

// Resolve validates the parsed flags. args are the positional arguments; the
// first one names the popup to open.
func (f *Flags) Resolve(args []string) (Config, error) {
	if *f.width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *f.width)
	}
	if *f.height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *f.height)
	}
	if len(args) > 1 {
		return Config{}, fmt.Errorf("expected at most one popup name, got %d arguments", len(args))
	}
	name := catalog.RootPopup
	if len(args) == 1 {
		name = args[0]
	}

	statePath, err := expand(*f.state)
	if err != nil {
		return Config{}, err
	}
	catalogPath, err := expand(*f.catalog)
	if err != nil {
		return Config{}, err
	}
	_, fromEnv := f.env[envCatalog]
	catalogRequired := f.fs.Changed("catalog") || fromEnv

	cfg := Config{
		App: app.Config{
			Popup:           name,
			RepoDir:         *f.repo,
			GitBinary:       *f.git,
			StatePath:       statePath,
			CatalogPath:     catalogPath,
			CatalogRequired: catalogRequired,
			Width:           *f.width,
			Height:          *f.height,
			ShowFooter:      *f.footer,
		},
		Logging: Logging{
			FilePath: *f.logFile,
			Trace:    *f.trace,
		},
		Flags: map[string]string{
			"state":   *f.state,
			"catalog": *f.catalog,
			"repo":    *f.repo,
			"git":     *f.git,
			"width":   strconv.Itoa(*f.width),
			"height":  strconv.Itoa(*f.height),
			"footer":  strconv.FormatBool(*f.footer),
			"trace":   strconv.FormatBool(*f.trace),
			"logFile": *f.logFile,
		},
		Args: append([]string(nil), args...),
	}
	return cfg, nil
}

// LoadArgs parses args against environ without a command tree.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("git-popup", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	flags := Register(fs, environ)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return flags.Resolve(fs.Args())
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

func expand(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", path, err)
	}
	return expanded, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
