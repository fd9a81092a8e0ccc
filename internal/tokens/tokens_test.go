package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c := NewCodec(testSecret, 15*time.Minute)

	tok, err := c.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sub, err := c.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestVerifyTamperedToken(t *testing.T) {
	c := NewCodec(testSecret, 15*time.Minute)

	tok, err := c.Issue("user-123")
	require.NoError(t, err)

	// flip one byte in the payload segment
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = c.Verify(tampered)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewCodec(testSecret, 15*time.Minute)
	verifier := NewCodec("a-completely-different-secret-value", 15*time.Minute)

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyExpiredToken(t *testing.T) {
	c := NewCodec(testSecret, -time.Minute)

	tok, err := c.Issue("user-123")
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyNotYetExpiredToken(t *testing.T) {
	// one second of TTL left must still verify
	c := NewCodec(testSecret, time.Second)

	tok, err := c.Issue("user-123")
	require.NoError(t, err)

	sub, err := c.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", sub)
}

func TestVerifyMalformedToken(t *testing.T) {
	c := NewCodec(testSecret, 15*time.Minute)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := c.Verify(tok)
		require.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}
