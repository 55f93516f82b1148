package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisetech/console/internal/dashboard"
	"github.com/wisetech/console/internal/models"
	"github.com/wisetech/console/internal/session"
	"github.com/wisetech/console/pkg/wisetech"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	sessions *session.Store
	router   *gin.Engine
}

// newAuthFixture wires the auth handler against a stub upstream, with the
// session ID pinned to "test-sid".
func newAuthFixture(t *testing.T, upstream http.Handler) *authFixture {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	sessions := session.NewStore(session.NewMemoryStorage())
	client := wisetech.NewClient(wisetech.Config{BaseURL: srv.URL})
	h := NewAuthHandler(client, sessions, dashboard.NewManager())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session_id", "test-sid")
		c.Next()
	})
	router.POST("/auth/login", h.Login)
	router.POST("/auth/logout", h.Logout)
	router.GET("/auth/session", h.Session)

	return &authFixture{sessions: sessions, router: router}
}

func loginUpstream(user string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostForm.Get("password") != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Incorrect email or password"}`))
			return
		}
		w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer"}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(user))
	})
	return mux
}

func (f *authFixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)
	return w
}

func TestLoginStoresTokenAndIdentity(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(
		`{"id":1,"email":"root@example.com","full_name":"Root","is_admin":true}`))

	w := f.do(http.MethodPost, "/auth/login", `{"email":"root@example.com","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Redirect string `json:"redirect"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "/admin", resp.Data.Redirect)

	ctx := context.Background()
	assert.Equal(t, "tok-1", f.sessions.Token(ctx, "test-sid"))
	assert.True(t, f.sessions.IsAdmin(ctx, "test-sid"))
	assert.Equal(t, "root@example.com", f.sessions.UserInfo(ctx, "test-sid").Email)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(`{}`))

	w := f.do(http.MethodPost, "/auth/login", `{"email":"root@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, f.sessions.Token(context.Background(), "test-sid"))
}

func TestLogoutPlainUser(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(`{}`))
	ctx := context.Background()
	require.NoError(t, f.sessions.SetToken(ctx, "test-sid", "tok"))
	require.NoError(t, f.sessions.SetUserInfo(ctx, "test-sid", models.User{ID: 2}))

	w := f.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.sessions.IsAuthenticated(ctx, "test-sid"))
}

func TestLogoutAdminRequiresConfirmation(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(`{}`))
	ctx := context.Background()
	require.NoError(t, f.sessions.SetToken(ctx, "test-sid", "tok"))
	require.NoError(t, f.sessions.SetUserInfo(ctx, "test-sid", models.User{ID: 1, IsAdmin: true}))

	// Without confirmation nothing changes.
	w := f.do(http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, f.sessions.IsAuthenticated(ctx, "test-sid"))
	assert.True(t, f.sessions.IsAdmin(ctx, "test-sid"))

	// Confirmed logout clears the session.
	w = f.do(http.MethodPost, "/auth/logout?confirm=true", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.sessions.IsAuthenticated(ctx, "test-sid"))
	assert.False(t, f.sessions.IsAdmin(ctx, "test-sid"))
}

func TestSessionEndpoint(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(`{}`))

	w := f.do(http.MethodGet, "/auth/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Authenticated bool `json:"authenticated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Authenticated)

	require.NoError(t, f.sessions.SetToken(context.Background(), "test-sid", "tok"))
	w = f.do(http.MethodGet, "/auth/session", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Authenticated)
}

func TestSessionExpiredTokenTearsDown(t *testing.T) {
	f := newAuthFixture(t, loginUpstream(`{}`))
	ctx := context.Background()

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ana@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.NoError(t, f.sessions.SetToken(ctx, "test-sid", expired))
	require.NoError(t, f.sessions.SetUserInfo(ctx, "test-sid", models.User{ID: 2, Email: "ana@example.com"}))

	w := f.do(http.MethodGet, "/auth/session", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Authenticated bool `json:"authenticated"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Authenticated)

	// The whole session was destroyed, not just the token.
	assert.False(t, f.sessions.IsAuthenticated(ctx, "test-sid"))
	assert.Equal(t, models.User{}, f.sessions.UserInfo(ctx, "test-sid"))
}
