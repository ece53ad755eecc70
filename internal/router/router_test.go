package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/graficabr/printshop-core/internal/account/repo"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlx.Open("sqlite", "file:routertest?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repo.NewAccountRepo(db).EnsureTable(context.Background()))
	return RegisterRoutes(zap.NewNop().Sugar(), db)
}

func TestHealth(t *testing.T) {
	handler := setupRouter(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grafica-core/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMiddlewareHeaders(t *testing.T) {
	handler := setupRouter(t)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/grafica-core/accounts", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDIsPreserved(t *testing.T) {
	handler := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/grafica-core/accounts", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-Id"))
}

func TestAccountRoutesAreMounted(t *testing.T) {
	handler := setupRouter(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/grafica-core/accounts",
		strings.NewReader(`{"name":"Ana","email":"ana@shop.com","secret":"xyz1","role":"admin"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/grafica-core/login",
		strings.NewReader(`{"email":"ana@shop.com","secret":"xyz1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Ana"`)
}
