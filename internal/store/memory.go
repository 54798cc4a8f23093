package store

import (
	"sync"

	"github.com/atomicstack/git-popup/internal/popup"
)

// Memory is an in-process state store, used when persistence is disabled.
type Memory struct {
	mu      sync.Mutex
	bools   map[[2]string]bool
	strings map[[2]string]string
}

// NewMemory returns an empty in-process state store.
func NewMemory() *Memory {
	return &Memory{
		bools:   make(map[[2]string]bool),
		strings: make(map[[2]string]string),
	}
}

func (m *Memory) Bool(scope, key string) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.bools[[2]string{scope, key}]
	return v, ok
}

func (m *Memory) String(scope, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.strings[[2]string{scope, key}]
	return v, ok
}

func (m *Memory) SetBool(scope, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strings, [2]string{scope, key})
	m.bools[[2]string{scope, key}] = value
	return nil
}

func (m *Memory) SetString(scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bools, [2]string{scope, key})
	m.strings[[2]string{scope, key}] = value
	return nil
}

// MemoryConfig is an in-process configuration store.
type MemoryConfig struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryConfig returns a configuration store seeded with values.
func NewMemoryConfig(values map[string]string) *MemoryConfig {
	seeded := make(map[string]string, len(values))
	for k, v := range values {
		seeded[k] = v
	}
	return &MemoryConfig{values: seeded}
}

func (m *MemoryConfig) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	return v, ok
}

func (m *MemoryConfig) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == popup.Unset {
		delete(m.values, name)
		return nil
	}
	m.values[name] = value
	return nil
}

var (
	_ popup.StateStore  = (*Store)(nil)
	_ popup.StateStore  = (*Memory)(nil)
	_ popup.ConfigStore = (*MemoryConfig)(nil)
)
