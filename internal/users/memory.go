package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/taskhub/taskhub/api/internal/models"
)

// MemoryRepository is an in-memory Repository used for unit and handler tests.
// Mutations take the store lock for the whole update, mirroring the
// single-document atomicity the Mongo repository provides.
type MemoryRepository struct {
	mu    sync.RWMutex
	seq   int
	store map[string]*models.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[string]*models.User)}
}

func (m *MemoryRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}
	m.seq++
	now := time.Now().UTC()
	cp := *u
	cp.ID = fmt.Sprintf("user_%06d", m.seq)
	cp.CreatedAt = now
	cp.UpdatedAt = now
	if cp.Sessions == nil {
		cp.Sessions = []models.Session{}
	}
	m.store[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.store {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *MemoryRepository) GetByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, nil
	}
	for _, s := range u.Sessions {
		if s.Token == token {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) AppendSession(ctx context.Context, id string, s models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil
	}
	u.Sessions = append(u.Sessions, s)
	return nil
}

func (m *MemoryRepository) RemoveSession(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil
	}
	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	return nil
}

func (m *MemoryRepository) PruneSessions(ctx context.Context, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil
	}
	kept := u.Sessions[:0]
	for _, s := range u.Sessions {
		if !s.Expired(now) {
			kept = append(kept, s)
		}
	}
	u.Sessions = kept
	return nil
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Sessions = append([]models.Session(nil), u.Sessions...)
	return &cp
}
