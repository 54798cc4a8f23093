package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// RequireGit skips the calling test when git is not present on PATH.
func RequireGit(t *testing.T) string {
	t.Helper()
	path, err := exec.LookPath("git")
	if err != nil {
		t.Skip("skipping: git binary not available")
	}
	return path
}

// InitRepo creates a repository on branch main with one commit and returns its
// path. Global and system config are ignored so results do not depend on the
// host.
func InitRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)
	dir := t.TempDir()
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(dir, ".gitconfig-global"))
	Git(t, dir, "init", "-q", "-b", "main")
	Git(t, dir, "config", "user.name", "Popup Test")
	Git(t, dir, "config", "user.email", "popup@example.com")
	if err := os.WriteFile(filepath.Join(dir, "README"), []byte("popup\n"), 0o644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	Git(t, dir, "add", "README")
	Git(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

// Git runs git in dir and returns its trimmed output, failing the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}
