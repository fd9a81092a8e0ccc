package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. All are terminal for the request: the caller must
// re-authenticate or refresh.
var (
	ErrMalformed        = errors.New("access token malformed")
	ErrInvalidSignature = errors.New("access token signature invalid")
	ErrExpired          = errors.New("access token expired")
)

// Codec issues and verifies signed, self-contained access tokens. Verification
// never touches storage: validity is a pure function of the token, the signing
// secret and the clock. The trade-off is that an issued token cannot be
// revoked before its TTL elapses.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec creates a codec with the given signing secret and token TTL.
func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed JWT embedding the user id with expiry now+TTL.
func (c *Codec) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(c.ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Failures map onto ErrMalformed, ErrInvalidSignature or ErrExpired.
func (c *Codec) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformed
		default:
			return "", ErrMalformed
		}
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", ErrMalformed
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrMalformed
	}
	return sub, nil
}
