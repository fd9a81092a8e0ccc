package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/api/internal/sessions"
	"github.com/taskhub/taskhub/api/internal/tokens"
	"github.com/taskhub/taskhub/api/pkg/metrics"
)

// Request header names used by the authentication gates. Fixed contract with
// the web client; header lookup is case-insensitive.
const (
	HeaderAccessToken  = "x-access-token"
	HeaderRefreshToken = "x-refresh-token"
	HeaderUserID       = "_id"
)

// Gin context keys set by the gates. Downstream handlers must scope every
// query by these values and never trust ids from a request body.
const (
	CtxUserID       = "userID"
	CtxUser         = "user"
	CtxRefreshToken = "refreshToken"
	CtxAccessToken  = "accessToken"
)

// AccessGate verifies the x-access-token header with the codec and attaches
// the authenticated user id to the context. Verification is stateless except
// for an optional blacklist lookup for tokens revoked by logout.
func AccessGate(codec *tokens.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderAccessToken)
		if raw == "" {
			reject(c, "access", "missing_token", "missing access token")
			return
		}

		userID, err := codec.Verify(raw)
		if err != nil {
			switch {
			case errors.Is(err, tokens.ErrExpired):
				reject(c, "access", "expired", "access token expired")
			case errors.Is(err, tokens.ErrInvalidSignature):
				reject(c, "access", "invalid_signature", "access token signature invalid")
			default:
				reject(c, "access", "malformed", "access token malformed")
			}
			return
		}

		if revoked, err := sessions.IsAccessTokenBlacklisted(c.Request.Context(), raw); err == nil && revoked {
			reject(c, "access", "revoked", "access token revoked")
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxAccessToken, raw)
		metrics.AuthAccepted.WithLabelValues("access").Inc()
		c.Next()
	}
}

// SessionGate resolves the x-refresh-token and _id headers to a stored
// session via the manager and attaches the full user record to the context.
// Used only by the access-token refresh and logout endpoints.
func SessionGate(mgr *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		refresh := c.GetHeader(HeaderRefreshToken)
		userID := c.GetHeader(HeaderUserID)

		u, s, err := mgr.Find(c.Request.Context(), userID, refresh)
		if err != nil {
			switch {
			case errors.Is(err, sessions.ErrExpired):
				reject(c, "session", "expired", "refresh token has expired or the session is invalid")
			case errors.Is(err, sessions.ErrNotFound):
				reject(c, "session", "not_found", "user not found; make sure the refresh token and user id are correct")
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			}
			return
		}

		// defense in depth: the manager already filters expired sessions
		if s.Expired(time.Now().UTC()) {
			reject(c, "session", "expired", "refresh token has expired or the session is invalid")
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxUser, u)
		c.Set(CtxRefreshToken, refresh)
		metrics.AuthAccepted.WithLabelValues("session").Inc()
		c.Next()
	}
}

func reject(c *gin.Context, gate, reason, msg string) {
	metrics.AuthRejected.WithLabelValues(gate, reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
