package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/realtime"
	"classtrack/internal/repo"
	"classtrack/internal/store"
)

// newTestRouter wires the handler against unreachable postgres and redis
// endpoints. Paths that depend on them must degrade, never report healthy
// or hand out tokens.
func newTestRouter(t *testing.T) (config.App, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("pgx", "postgres://classtrack@127.0.0.1:1/classtrack?connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.App{
		JWTIssuer:     "classtrack",
		JWTSigningKey: "test-signing-key",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	hub := realtime.NewHub()
	h := New(cfg, repo.New(db), realtime.NewPublisher(nil, nil), hub, store.NewRedis("127.0.0.1:1"), nil)

	r := gin.New()
	h.Register(r)
	return cfg, r
}

func TestHealthzReportsDatabase(t *testing.T) {
	_, r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"db":false`)
	assert.Contains(t, w.Body.String(), `"redis":false`)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	_, r := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh",
		strings.NewReader(`{"refresh_token":"not-a-token"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshRequiresStoredToken(t *testing.T) {
	cfg, r := newTestRouter(t)

	// Validly signed, but the token store cannot vouch for it; no new pair
	// may be issued.
	pair, err := auth.Issue("u1", "a@b.c", "A", "admin",
		cfg.JWTIssuer, cfg.JWTSigningKey, cfg.AccessTTL, cfg.RefreshTTL)
	require.NoError(t, err)

	for _, token := range []string{pair.RefreshToken, pair.AccessToken} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh",
			strings.NewReader(`{"refresh_token":"`+token+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.NotEqual(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "access_token")
	}
}
