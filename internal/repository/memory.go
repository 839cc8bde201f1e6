package repository

import (
	"context"
	"sync"

	"github.com/joseph-ayodele/facility-ledger/internal/ledger"
)

// MemoryRepository keeps entries in insertion order, guarded by a mutex.
// Entries are copied on the way in and on the way out.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []*ledger.Entry
	index   map[string]int
}

var _ ledger.Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		entries: make([]*ledger.Entry, 0),
		index:   make(map[string]int),
	}
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return nil, ledger.ErrEntryNotFound
	}
	return m.entries[i].Clone(), nil
}

// Put replaces an existing entry in place or appends a new one.
func (m *MemoryRepository) Put(_ context.Context, e *ledger.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[e.ID]; ok {
		m.entries[i] = e.Clone()
		return nil
	}
	m.index[e.ID] = len(m.entries)
	m.entries = append(m.entries, e.Clone())
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return ledger.ErrEntryNotFound
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	delete(m.index, id)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].ID] = j
	}
	return nil
}

func (m *MemoryRepository) List(_ context.Context) ([]*ledger.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*ledger.Entry, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Clone()
	}
	return out, nil
}
