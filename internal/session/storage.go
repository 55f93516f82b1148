package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a session field is absent.
var ErrNotFound = errors.New("session field not found")

// Storage is the persistence backend for per-session fields. SetAll must
// apply every field as one write so that concurrent readers never observe a
// partially written user record.
type Storage interface {
	Get(ctx context.Context, sid, field string) (string, error)
	GetAll(ctx context.Context, sid string) (map[string]string, error)
	SetAll(ctx context.Context, sid string, fields map[string]string) error
	Delete(ctx context.Context, sid string, fields ...string) error
}

// MemoryStorage keeps sessions in process memory. Suitable for tests and
// single-node deployments.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryStorage creates an empty in-memory session backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{sessions: make(map[string]map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, sid, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.sessions[sid][field]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) GetAll(_ context.Context, sid string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.sessions[sid]))
	for k, v := range m.sessions[sid] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStorage) SetAll(_ context.Context, sid string, fields map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sid]
	if !ok {
		sess = make(map[string]string, len(fields))
		m.sessions[sid] = sess
	}
	for k, v := range fields {
		sess[k] = v
	}
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, sid string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sid]
	if !ok {
		return nil
	}
	for _, f := range fields {
		delete(sess, f)
	}
	if len(sess) == 0 {
		delete(m.sessions, sid)
	}
	return nil
}
