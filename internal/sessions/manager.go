package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/taskhub/taskhub/api/internal/models"
)

var (
	// ErrNotFound is returned when the user does not exist or no session
	// carries the presented token. The two causes are deliberately
	// indistinguishable to prevent user-id enumeration.
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned for a matching session past its expiry.
	ErrExpired = errors.New("session expired")
)

// Store is the persistence the manager needs: single-document session
// mutations against a user record keyed by id. Implemented by the users
// repositories.
type Store interface {
	GetByIDAndToken(ctx context.Context, userID, token string) (*models.User, error)
	AppendSession(ctx context.Context, userID string, s models.Session) error
	RemoveSession(ctx context.Context, userID, token string) error
	PruneSessions(ctx context.Context, userID string, now time.Time) error
}

// Manager owns the refresh-session lifecycle: creation, lookup, expiry and
// removal. Expiry is lazy: checked on lookup, with expired entries pruned on
// the next session creation rather than by a background sweeper.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager creates a manager issuing sessions with the given TTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create mints a new unguessable refresh token, appends a session expiring at
// now+TTL to the user record and returns the token. Concurrent calls for the
// same user each keep their own session.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)

	now := time.Now().UTC()
	// best effort: drop already-expired sessions so the array stays bounded
	_ = m.store.PruneSessions(ctx, userID, now)

	s := models.Session{Token: token, ExpiresAt: now.Add(m.ttl)}
	if err := m.store.AppendSession(ctx, userID, s); err != nil {
		return "", err
	}
	return token, nil
}

// Find resolves a (userID, refreshToken) pair to the owning user and the
// matching session. Returns ErrNotFound when either the user or the token is
// unknown, ErrExpired when the session matched but its TTL has elapsed.
func (m *Manager) Find(ctx context.Context, userID, token string) (*models.User, *models.Session, error) {
	if userID == "" || token == "" {
		return nil, nil, ErrNotFound
	}
	u, err := m.store.GetByIDAndToken(ctx, userID, token)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrNotFound
	}
	for i := range u.Sessions {
		if u.Sessions[i].Token == token {
			if u.Sessions[i].Expired(time.Now().UTC()) {
				return nil, nil, ErrExpired
			}
			return u, &u.Sessions[i], nil
		}
	}
	return nil, nil, ErrNotFound
}

// Remove deletes the session holding the given token (logout).
func (m *Manager) Remove(ctx context.Context, userID, token string) error {
	return m.store.RemoveSession(ctx, userID, token)
}
