package users

import (
	"context"
	"errors"
	"strings"

	"github.com/taskhub/taskhub/api/internal/models"
	"github.com/taskhub/taskhub/api/internal/password"
)

var (
	// ErrCredentialMismatch covers unknown email and wrong password alike so
	// callers cannot enumerate accounts.
	ErrCredentialMismatch = errors.New("credentials do not match")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
)

const minPasswordLen = 6

// Service encapsulates account creation and credential verification.
type Service struct {
	repo   Repository
	hasher *password.Hasher
}

func NewService(r Repository, h *password.Hasher) *Service {
	return &Service{repo: r, hasher: h}
}

// Signup creates a new user from an email/password pair. The email is
// case-normalized; the plaintext password is hashed and discarded.
func (s *Service) Signup(ctx context.Context, email, plaintext string) (*models.User, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(plaintext) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}
	u := &models.User{Email: email, Password: hash}
	return s.repo.Create(ctx, u)
}

// VerifyCredentials returns the user when the email/password pair matches a
// stored account, ErrCredentialMismatch otherwise.
func (s *Service) VerifyCredentials(ctx context.Context, email, plaintext string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Verify(plaintext, u.Password) {
		return nil, ErrCredentialMismatch
	}
	return u, nil
}

// GetByID returns the user or nil when not found.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// NormalizeEmail lowercases and trims an email used as a login key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
