package store

import (
	"context"
	"sync"

	"finances/internal/core"
)

// MemoryStore keeps the ledger in process memory. It backs tests and the
// scratch backend; nothing survives the process.
type MemoryStore struct {
	mu     sync.Mutex
	ledger core.Ledger
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ledger: core.NewLedger()}
}

func (m *MemoryStore) Load(_ context.Context) (core.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ledger.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, l core.Ledger) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledger = l.Clone()
	return nil
}
