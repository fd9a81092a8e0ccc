package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/taskhub/taskhub/api/internal/lists"
	"github.com/taskhub/taskhub/api/internal/models"
	"github.com/taskhub/taskhub/api/internal/password"
	"github.com/taskhub/taskhub/api/internal/sessions"
	"github.com/taskhub/taskhub/api/internal/tasks"
	"github.com/taskhub/taskhub/api/internal/tokens"
	"github.com/taskhub/taskhub/api/internal/users"
	"github.com/taskhub/taskhub/api/pkg/middleware"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handler-test-secret-32-bytes-long"

type testEnv struct {
	router   *gin.Engine
	userRepo *users.MemoryRepository
	listRepo *lists.MemoryRepository
	taskRepo *tasks.MemoryRepository
	mgr      *sessions.Manager
	codec    *tokens.Codec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		userRepo: users.NewMemoryRepository(),
		listRepo: lists.NewMemoryRepository(),
		taskRepo: tasks.NewMemoryRepository(),
	}
	env.mgr = sessions.NewManager(env.userRepo, 10*24*time.Hour)
	env.codec = tokens.NewCodec(testSecret, 15*time.Minute)

	userSvc := users.NewService(env.userRepo, password.NewHasher(bcrypt.MinCost))

	env.router = gin.New()
	NewAuthHandler(userSvc, env.mgr, env.codec).Register(env.router)
	th := NewTasksHandler(env.listRepo, env.taskRepo)
	NewListsHandler(env.listRepo, env.taskRepo).Register(env.router, env.codec, th)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// signup runs POST /users and returns (userID, accessToken, refreshToken).
func (e *testEnv) signup(t *testing.T, email, pw string) (string, string, string) {
	t.Helper()
	w := e.do(t, "POST", "/users", gin.H{"email": email, "password": pw}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		ID string `json:"_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.ID)

	access := w.Header().Get(middleware.HeaderAccessToken)
	refresh := w.Header().Get(middleware.HeaderRefreshToken)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	return body.ID, access, refresh
}

func TestSignupReturnsUserAndTokens(t *testing.T) {
	env := newTestEnv(t)

	id, access, _ := env.signup(t, "a@b.com", "secret1")

	// the access token already authenticates the new user
	sub, err := env.codec.Verify(access)
	require.NoError(t, err)
	require.Equal(t, id, sub)

	// response body never carries hash material
	w := env.do(t, "POST", "/users/login", gin.H{"email": "a@b.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")
}

func TestSignupRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)

	for name, body := range map[string]gin.H{
		"missing password": {"email": "a@b.com"},
		"bad email":        {"email": "nope", "password": "secret1"},
		"short password":   {"email": "a@b.com", "password": "abc"},
	} {
		w := env.do(t, "POST", "/users", body, nil)
		require.Equal(t, http.StatusBadRequest, w.Code, name)
	}

	env.signup(t, "a@b.com", "secret1")
	w := env.do(t, "POST", "/users", gin.H{"email": "A@B.com", "password": "secret2"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, "duplicate email")
}

func TestLoginMismatchIsUniform(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@b.com", "secret1")

	wrongPw := env.do(t, "POST", "/users/login", gin.H{"email": "a@b.com", "password": "wrong-pass"}, nil)
	unknown := env.do(t, "POST", "/users/login", gin.H{"email": "x@y.com", "password": "secret1"}, nil)

	require.Equal(t, http.StatusBadRequest, wrongPw.Code)
	require.Equal(t, http.StatusBadRequest, unknown.Code)
	require.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestLoginCreatesSecondSession(t *testing.T) {
	env := newTestEnv(t)
	id, _, refresh1 := env.signup(t, "a@b.com", "secret1")

	w := env.do(t, "POST", "/users/login", gin.H{"email": "a@b.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	refresh2 := w.Header().Get(middleware.HeaderRefreshToken)
	require.NotEmpty(t, refresh2)
	require.NotEqual(t, refresh1, refresh2)

	// both device sessions stay valid
	ctx := context.Background()
	_, _, err := env.mgr.Find(ctx, id, refresh1)
	require.NoError(t, err)
	_, _, err = env.mgr.Find(ctx, id, refresh2)
	require.NoError(t, err)
}

func TestRefreshAccessToken(t *testing.T) {
	env := newTestEnv(t)
	id, _, refresh := env.signup(t, "a@b.com", "secret1")

	w := env.do(t, "GET", "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: refresh,
		middleware.HeaderUserID:       id,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	access := w.Header().Get(middleware.HeaderAccessToken)
	require.NotEmpty(t, access)
	sub, err := env.codec.Verify(access)
	require.NoError(t, err)
	require.Equal(t, id, sub)

	var body struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, access, body.AccessToken)
}

func TestRefreshRejectsBadSession(t *testing.T) {
	env := newTestEnv(t)
	id, _, refresh := env.signup(t, "a@b.com", "secret1")

	// wrong token
	w := env.do(t, "GET", "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: "bogus",
		middleware.HeaderUserID:       id,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// wrong user id
	w = env.do(t, "GET", "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: refresh,
		middleware.HeaderUserID:       "user_999999",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRejectsExpiredSession(t *testing.T) {
	env := newTestEnv(t)
	id, _, _ := env.signup(t, "a@b.com", "secret1")

	// plant a session that ran out ten days ago
	stale := models.Session{Token: "stale-token", ExpiresAt: time.Now().UTC().Add(-10 * 24 * time.Hour)}
	require.NoError(t, env.userRepo.AppendSession(context.Background(), id, stale))

	w := env.do(t, "GET", "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: stale.Token,
		middleware.HeaderUserID:       id,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "expired")
}

func TestLogoutRemovesSessionAndRevokesAccess(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	env := newTestEnv(t)
	id, access, refresh := env.signup(t, "a@b.com", "secret1")

	w := env.do(t, "POST", "/users/me/logout", nil, map[string]string{
		middleware.HeaderRefreshToken: refresh,
		middleware.HeaderUserID:       id,
		middleware.HeaderAccessToken:  access,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the refresh session is gone
	w = env.do(t, "GET", "/users/me/access-token", nil, map[string]string{
		middleware.HeaderRefreshToken: refresh,
		middleware.HeaderUserID:       id,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// the blacklisted access token no longer passes the access gate
	w = env.do(t, "GET", "/lists", nil, map[string]string{
		middleware.HeaderAccessToken: access,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "revoked")
}
