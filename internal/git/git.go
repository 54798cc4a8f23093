// Package git runs the git binary on behalf of popups and exposes git config
// as a popup configuration store.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is used when no binary is configured.
const DefaultBinary = "git"

var execCommand = exec.CommandContext

// CommandError carries the arguments and stderr of a failed git invocation.
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes git in a working directory.
type Runner struct {
	Binary string
	Dir    string
}

// NewRunner returns a runner for dir. An empty binary selects DefaultBinary.
func NewRunner(binary, dir string) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Runner{Binary: binary, Dir: dir}
}

func (r *Runner) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := execCommand(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	return cmd
}

// Output runs git and returns its trimmed standard output.
func (r *Runner) Output(ctx context.Context, args ...string) (string, error) {
	cmd := r.command(ctx, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", commandError(args, stderr.String(), err)
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// Run runs git attached to the terminal.
func (r *Runner) Run(ctx context.Context, args ...string) error {
	cmd := r.command(ctx, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return commandError(args, "", err)
	}
	return nil
}

func commandError(args []string, stderr string, err error) error {
	cerr := &CommandError{Args: append([]string(nil), args...), Stderr: stderr, ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		cerr.ExitCode = exitErr.ExitCode()
	}
	return cerr
}

// ExitCode returns the exit status carried by err, or -1.
func ExitCode(err error) int {
	var cerr *CommandError
	if errors.As(err, &cerr) {
		return cerr.ExitCode
	}
	return -1
}

// CurrentBranch returns the checked out branch, or "" on a detached HEAD.
func (r *Runner) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.Output(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if ExitCode(err) == 1 {
		return "", nil
	}
	return out, err
}

// Remotes lists configured remotes.
func (r *Runner) Remotes(ctx context.Context) ([]string, error) {
	out, err := r.Output(ctx, "remote")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Branches lists local branches.
func (r *Runner) Branches(ctx context.Context) ([]string, error) {
	out, err := r.Output(ctx, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// TopLevel returns the root of the working tree.
func (r *Runner) TopLevel(ctx context.Context) (string, error) {
	return r.Output(ctx, "rev-parse", "--show-toplevel")
}

func lines(out string) []string {
	var result []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}

// Args assembles the argument list of a git invocation.
func Args(subcommand string, flags []string, extra ...string) []string {
	args := make([]string, 0, len(flags)+len(extra)+1)
	args = append(args, strings.Fields(subcommand)...)
	args = append(args, flags...)
	return append(args, extra...)
}

// CommandLine renders a git invocation as a shell command line.
func CommandLine(binary, subcommand string, flags []string, extra ...string) string {
	if binary == "" {
		binary = DefaultBinary
	}
	parts := []string{quote(binary)}
	for _, arg := range Args(subcommand, flags, extra...) {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " ")
}

func quote(arg string) string {
	if arg == "" {
		return "''"
	}
	if strings.IndexFunc(arg, needsQuote) < 0 {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_=./,:@%+", r)
}
