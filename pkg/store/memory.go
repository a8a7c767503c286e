package store

import (
	"context"
	"sync"

	"github.com/matzehuels/familytree/pkg/family"
)

// MemoryStore keeps the family in process memory. Saved data is copied so
// later changes by the caller do not leak in.
type MemoryStore struct {
	mu    sync.RWMutex
	data  *family.FamilyData
	saves int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (*family.FamilyData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.data == nil {
		return nil, nil
	}
	return m.data.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, d *family.FamilyData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = d.Clone()
	m.saves++
	return nil
}

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
