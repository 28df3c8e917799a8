package mocks

import (
	"context"
	"sync"

	"github.com/controlly-api/internal/storage"
)

// MockStore is a map-backed storage.Store with injectable failures
type MockStore struct {
	mu          sync.Mutex
	Values      map[string]string
	GetError    error
	SetError    error
	RemoveError error
	PingError   error
	SetCalls    int
	Closed      bool
}

// Verify interface compliance
var (
	_ storage.Store  = (*MockStore)(nil)
	_ storage.Pinger = (*MockStore)(nil)
)

func NewMockStore() *MockStore {
	return &MockStore{Values: make(map[string]string)}
}

func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetError != nil {
		return "", false, m.GetError
	}
	v, ok := m.Values[key]
	return v, ok, nil
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetError != nil {
		return m.SetError
	}
	m.Values[key] = value
	return nil
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RemoveError != nil {
		return m.RemoveError
	}
	delete(m.Values, key)
	return nil
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingError
}

func (m *MockStore) Close() error {
	m.Closed = true
	return nil
}
