package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/epochline/internal/domain/model"
)

// MemoryStore keeps events in memory. It backs tests and database-less runs.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []Record
	cfg  storeConfig
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{cfg: newStoreConfig(opts)}
}

// Insert stores rec.
func (m *MemoryStore) Insert(_ context.Context, rec Record) (Record, error) {
	rec = rec.withDefaults()
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := m.cfg.now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.ContainsFunc(m.rows, func(r Record) bool { return r.ID == rec.ID }) {
		return Record{}, fmt.Errorf("%w: duplicate id %s", ErrInvalidRecord, rec.ID)
	}
	m.rows = append(m.rows, rec)
	return rec, nil
}

// Get returns the row with the given id.
func (m *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("get event %s: %w", id, ErrNotFound)
}

// ListApproved returns approved events ordered by start year ascending.
// Events sharing a start year keep insertion order.
func (m *MemoryStore) ListApproved(_ context.Context) ([]model.Event, error) {
	m.mu.RLock()
	approved := make([]Record, 0, len(m.rows))
	for _, r := range m.rows {
		if r.Status == StatusApproved {
			approved = append(approved, r)
		}
	}
	m.mu.RUnlock()

	slices.SortStableFunc(approved, func(a, b Record) int { return cmp.Compare(a.StartYear, b.StartYear) })
	return toEvents(approved), nil
}

// Count returns the number of rows.
func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
