package git

import (
	"context"
	"time"

	"github.com/atomicstack/git-popup/internal/popup"
)

const configTimeout = 5 * time.Second

// ConfigStore reads and writes git config through a Runner.
type ConfigStore struct {
	runner *Runner
}

// NewConfigStore returns a configuration store backed by git config.
func NewConfigStore(runner *Runner) *ConfigStore {
	return &ConfigStore{runner: runner}
}

// Get returns the value of name. Unset names and read failures report false.
func (s *ConfigStore) Get(name string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
	defer cancel()
	out, err := s.runner.Output(ctx, "config", "--get", name)
	if err != nil {
		return "", false
	}
	return out, true
}

// Set writes name. Setting popup.Unset removes it; removing a name that is
// not set is not an error.
func (s *ConfigStore) Set(name, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), configTimeout)
	defer cancel()
	if value == popup.Unset {
		_, err := s.runner.Output(ctx, "config", "--unset", name)
		if ExitCode(err) == 5 {
			return nil
		}
		return err
	}
	_, err := s.runner.Output(ctx, "config", name, value)
	return err
}

var _ popup.ConfigStore = (*ConfigStore)(nil)
