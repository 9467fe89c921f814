package sessionstore

import (
	"context"
	"sync"

	"github.com/aldric144/g3ti-rtcc-platform-sub008/internal/domain"
)

// Memory keeps the encoded record in process memory. It serves tests and
// kiosks that must not leave credentials on disk.
type Memory struct {
	key string
	mu  sync.Mutex
	raw []byte
}

// NewMemory creates an empty in-memory store.
func NewMemory(key string) *Memory {
	return &Memory{key: key}
}

func (m *Memory) Load(_ context.Context) (*domain.PersistedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raw == nil {
		return nil, nil
	}
	return Decode(m.key, m.raw)
}

func (m *Memory) Save(_ context.Context, rec *domain.PersistedSession) error {
	raw, err := Encode(m.key, rec)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.raw = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.raw = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
