package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/git-popup/internal/app"
	"github.com/atomicstack/git-popup/internal/config"
	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/testutil"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "main-test")
	if err == nil {
		logging.Configure(filepath.Join(dir, "git-popup.log"))
	}
	code := m.Run()
	if err == nil {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	for i, name := range []string{"stdin", "stdout", "stderr"} {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Popup:     "push",
			RepoDir:   "/src/repo",
			GitBinary: "git",
			Width:     80,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"repo":  "/src/repo",
			"width": "80",
		},
		Args: []string{"push"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["repo"] != "/src/repo" || flagsValue["width"] != "80" {
		t.Fatalf("unexpected flags %v", flagsValue)
	}
	if flagsValue["trace"] != true || flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected logging flags in payload, got %v", flagsValue)
	}
	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok || cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v in payload", cfg.App)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list", "--catalog", filepath.Join(t.TempDir(), "none.yaml"))
	if err == nil {
		t.Fatalf("expected explicit missing catalog to fail")
	}

	out, err = execute(t, "list", "--catalog=")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	testutil.AssertGolden(t, "list.golden", out)
}

func TestFlagsCommandUsesSavedState(t *testing.T) {
	repo := testutil.InitRepo(t)
	state := filepath.Join(t.TempDir(), "state.db")

	out, err := execute(t, "flags", "log", "-C", repo, "--state", state, "--catalog=")
	if err != nil {
		t.Fatalf("flags failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "git log --graph --decorate" {
		t.Fatalf("unexpected command line %q", got)
	}

	if _, err := execute(t, "flags", "rebase", "-C", repo, "--state=", "--catalog="); err == nil {
		t.Fatalf("expected unknown popup to fail")
	}
}

func TestRootRejectsExtraArguments(t *testing.T) {
	if _, err := execute(t, "push", "pull"); err == nil {
		t.Fatalf("expected error for two popup names")
	}
}
