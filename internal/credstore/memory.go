package credstore

import (
	"context"
	"fmt"
	"sync"
)

// Single wraps one store as the provider for every device.
type Single struct {
	S Store
}

func (s Single) ForDevice(string) Store { return s.S }

// Memory is an in-memory Store used by tests and short-lived tooling.
type Memory struct {
	mu     sync.Mutex
	values map[Key]string

	// FailPut, FailGet and FailClear simulate storage outages.
	FailPut   bool
	FailGet   bool
	FailClear map[Key]bool
}

func NewMemory() *Memory {
	return &Memory{values: make(map[Key]string)}
}

func (m *Memory) Put(_ context.Context, key Key, value string) error {
	if !validKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut {
		return fmt.Errorf("%w: put %s", ErrStorageUnavailable, key)
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Get(_ context.Context, key Key) (string, error) {
	if !validKey(key) {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return "", fmt.Errorf("%w: get %s", ErrStorageUnavailable, key)
	}
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var failed []Key
	for _, key := range Keys {
		if m.FailClear[key] {
			failed = append(failed, key)
			continue
		}
		delete(m.values, key)
	}
	if len(failed) > 0 {
		return &ClearError{Failed: failed}
	}
	return nil
}

// Len reports how many keys are currently set.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
