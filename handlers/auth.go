package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/api/internal/models"
	"github.com/taskhub/taskhub/api/internal/sessions"
	"github.com/taskhub/taskhub/api/internal/tokens"
	"github.com/taskhub/taskhub/api/internal/users"
	"github.com/taskhub/taskhub/api/pkg/logger"
	"github.com/taskhub/taskhub/api/pkg/middleware"
)

// CredentialsRequest is the signup/login body.
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsMgr *sessions.Manager
	codec       *tokens.Codec
}

func NewAuthHandler(u *users.Service, s *sessions.Manager, c *tokens.Codec) *AuthHandler {
	return &AuthHandler{usersSvc: u, sessionsMgr: s, codec: c}
}

// Register wires the user/auth routes. The refresh and logout endpoints sit
// behind the session gate; signup and login are open.
func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/users", h.Signup)
	r.POST("/users/login", h.Login)

	me := r.Group("/users/me", middleware.SessionGate(h.sessionsMgr))
	me.GET("/access-token", h.AccessToken)
	me.POST("/logout", h.Logout)
}

// Signup creates an account and immediately authenticates it: the response
// carries the user body plus fresh x-access-token / x-refresh-token headers.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.usersSvc.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidEmail),
			errors.Is(err, users.ErrPasswordTooShort),
			errors.Is(err, users.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("signup failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		}
		return
	}

	h.issueTokens(c, u)
}

// Login verifies credentials and responds like Signup. Unknown email and
// wrong password produce the same 400.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.usersSvc.VerifyCredentials(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrCredentialMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or password"})
			return
		}
		logger.Errorf("login failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	h.issueTokens(c, u)
}

// AccessToken re-mints a short-lived access token for a session-gate
// authenticated user. The refresh token is not rotated.
func (h *AuthHandler) AccessToken(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(*models.User)

	access, err := h.codec.Issue(u.ID)
	if err != nil {
		logger.Errorf("failed to issue access token: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to issue access token"})
		return
	}

	c.Header(middleware.HeaderAccessToken, access)
	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// Logout removes the presented session. When the client also sends its
// current access token, it is blacklisted for its remaining TTL so the
// stateless access gate rejects it early.
func (h *AuthHandler) Logout(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(*models.User)
	refresh := c.GetString(middleware.CtxRefreshToken)

	if at := c.GetHeader(middleware.HeaderAccessToken); at != "" {
		if exp, err := parseExpFromJWT(at); err == nil {
			if ttl := time.Until(exp); ttl > 0 {
				if err := sessions.BlacklistAccessToken(c.Request.Context(), at, ttl); err != nil {
					logger.Warnf("failed to blacklist access token: %v", err)
				}
			}
		}
	}

	if err := h.sessionsMgr.Remove(c.Request.Context(), u.ID, refresh); err != nil {
		logger.Errorf("failed to remove session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) issueTokens(c *gin.Context, u *models.User) {
	refresh, err := h.sessionsMgr.Create(c.Request.Context(), u.ID)
	if err != nil {
		logger.Errorf("failed to create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	access, err := h.codec.Issue(u.ID)
	if err != nil {
		logger.Errorf("failed to issue access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue access token"})
		return
	}

	c.Header(middleware.HeaderRefreshToken, refresh)
	c.Header(middleware.HeaderAccessToken, access)
	c.JSON(http.StatusOK, u)
}

// parseExpFromJWT decodes the JWT payload and returns the `exp` claim as time.Time.
// This performs payload-only parsing (no signature verification) and is suitable
// for computing remaining TTLs for blacklisting purposes.
func parseExpFromJWT(tok string) (time.Time, error) {
	parts := strings.Split(tok, ".")
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	b, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	var claims struct {
		Exp float64 `json:"exp"`
	}
	if err := json.Unmarshal(b, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.Exp == 0 {
		return time.Time{}, fmt.Errorf("exp claim not present")
	}
	return time.Unix(int64(claims.Exp), 0), nil
}
