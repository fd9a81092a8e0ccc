package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskhub/taskhub/api/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit and handler tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int
	store map[string]*models.Task
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.Task)}
}

func (m *MemoryRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *t
	cp.ID = fmt.Sprintf("task_%06d", m.seq)
	m.store[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepository) ListByList(ctx context.Context, listID string) ([]models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Task{}
	for _, t := range m.store {
		if t.ListID == listID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetByIDAndList(ctx context.Context, id, listID string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok || t.ListID != listID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryRepository) Patch(ctx context.Context, id, listID string, upd Update) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || t.ListID != listID {
		return false, nil
	}
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Completed != nil {
		t.Completed = *upd.Completed
	}
	return true, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id, listID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.store[id]
	if !ok || t.ListID != listID {
		return nil, nil
	}
	delete(m.store, id)
	cp := *t
	return &cp, nil
}

func (m *MemoryRepository) DeleteByList(ctx context.Context, listID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.store {
		if t.ListID == listID {
			delete(m.store, id)
			n++
		}
	}
	return n, nil
}
