package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atomicstack/git-popup/internal/app"
	"github.com/atomicstack/git-popup/internal/catalog"
	"github.com/atomicstack/git-popup/internal/config"
	"github.com/atomicstack/git-popup/internal/format/table"
	"github.com/atomicstack/git-popup/internal/git"
	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/logging/events"
	"github.com/atomicstack/git-popup/internal/ui"
)

func main() {
	if err := newRootCmd(os.Environ()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(environ []string) *cobra.Command {
	var flags *config.Flags
	resolve := func(args []string) (config.Config, error) {
		cfg, err := flags.Resolve(args)
		if err != nil {
			return cfg, err
		}
		logging.Configure(cfg.Logging.FilePath)
		logging.SetTraceEnabled(cfg.Logging.Trace)
		return cfg, nil
	}

	root := &cobra.Command{
		Use:           "git-popup [popup]",
		Short:         "Transient popups for git commands",
		Long:          "git-popup shows a keyboard driven popup for a git command, lets you pick\nswitches, options and config variables, and runs the chosen action.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(args)
			if err != nil {
				return err
			}
			traceStartup(cfg)
			if err := app.Run(cfg.App); err != nil {
				logging.Error(err)
				return err
			}
			return nil
		},
	}
	flags = config.Register(root.PersistentFlags(), environ)

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available popups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(nil)
			if err != nil {
				return err
			}
			cat, err := catalog.Load(cfg.App.CatalogPath, cfg.App.CatalogRequired)
			if err != nil {
				return err
			}
			return listPopups(cmd.OutOrStdout(), cat)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "flags <popup>",
		Short: "Print the git command line built from the saved state of a popup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(args)
			if err != nil {
				return err
			}
			return printFlags(cmd.Context(), cmd.OutOrStdout(), cfg.App)
		},
	})
	return root
}

func listPopups(w io.Writer, cat *catalog.Catalog) error {
	rows := [][]string{{"NAME", "KEY", "TITLE"}}
	for _, name := range cat.Names() {
		spec, err := cat.Lookup(name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{spec.Name, spec.Key, spec.DisplayTitle()})
	}
	for _, line := range table.Format(rows, nil) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func printFlags(ctx context.Context, w io.Writer, cfg app.Config) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	p, err := a.Popup(ctx, cfg.Popup, ui.NewBridge())
	if err != nil {
		return err
	}
	spec, err := a.Catalog().Lookup(cfg.Popup)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, git.CommandLine(cfg.GitBinary, spec.Command(), p.ActiveFlags()))
	return err
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	probes := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyProbeResult, 0, len(probes))
	var detected *ttyDetected
	for _, probe := range probes {
		entry := ttyProbeResult{Name: probe.name}
		fd := int(probe.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: probe.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Probes: results}
}
