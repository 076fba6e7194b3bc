package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/EcoTrail/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, envs map[string]string) *config.Config {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNewApp_MemoryStore(t *testing.T) {
	cfg := testConfig(t, map[string]string{"STORE_DRIVER": "memory", "DATABASE_NAME": "ecotrail_app"})

	a, err := NewApp(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	h := a.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/products",
		strings.NewReader(`{"title":"Tent","category":"Camping","price":199}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"store"`)
}

func TestNewApp_NoDatabaseServesFallback(t *testing.T) {
	cfg := testConfig(t, map[string]string{"STORE_DRIVER": "mongo", "DATABASE_URL": "", "RATE_LIMIT_ENABLED": "false"})

	a, err := NewApp(cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Catalog-Fallback"))
	assert.Contains(t, rec.Body.String(), "demo-1")

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Contains(t, rec.Body.String(), "Not Connected")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	_, err := OpenStore(ctx, &config.Config{StoreDriver: config.DriverMongo}, discardLogger())
	assert.ErrorIs(t, err, ErrNoStore)

	st, err := OpenStore(ctx, &config.Config{StoreDriver: config.DriverMemory}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "memory", st.Name())
	assert.Equal(t, "ecotrail", st.Database())
	assert.NoError(t, st.Ping(ctx))
	assert.NoError(t, st.Close(ctx))
}
