package credential

import (
	"context"
	"sync"
)

// Memory is a session-scoped in-memory Provider. The zero value is empty and
// ready to use.
type Memory struct {
	mu    sync.RWMutex
	token string
	set   bool
}

// NewMemory creates a Memory provider, optionally pre-loaded with a token.
func NewMemory(token string) *Memory {
	m := &Memory{}
	if token != "" {
		m.token = token
		m.set = true
	}
	return m
}

// Token implements Provider.
func (m *Memory) Token(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return "", ErrNoToken
	}
	return m.token, nil
}

// Store implements Provider.
func (m *Memory) Store(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.set = true
	return nil
}

// Delete implements Provider.
func (m *Memory) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.set = false
	return nil
}
