package lists

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
	store map[string]*models.List
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.List)}
}

func (m *MemoryRepository) Create(ctx context.Context, l *models.List) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	cp := *l
	cp.ID = fmt.Sprintf("list_%06d", m.seq)
	m.store[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepository) ListByOwner(ctx context.Context, userID string) ([]models.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.List{}
	for _, l := range m.store {
		if l.UserID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *MemoryRepository) GetByIDAndOwner(ctx context.Context, id, userID string) (*models.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.store[id]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *MemoryRepository) UpdateTitle(ctx context.Context, id, userID, title string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok || l.UserID != userID {
		return false, nil
	}
	l.Title = title
	return true, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id, userID string) (*models.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.store[id]
	if !ok || l.UserID != userID {
		return nil, nil
	}
	delete(m.store, id)
	cp := *l
	return &cp, nil
}
