package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(cfg CORSConfig, method, origin string) *httptest.ResponseRecorder {
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/api/products", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCORS_AllowOrigin(t *testing.T) {
	shop := []string{"https://shop.ecotrail.example", "https://admin.ecotrail.example"}

	tests := []struct {
		name       string
		cfg        CORSConfig
		origin     string
		wantOrigin string
		wantVary   string
	}{
		{"development wildcard", CORSConfig{AllowedOrigins: []string{"*"}, Environment: "development"}, "https://any.example", "*", ""},
		{"development without origin", CORSConfig{Environment: "development"}, "", "*", ""},
		{"production listed origin", CORSConfig{AllowedOrigins: shop, Environment: "production"}, "https://shop.ecotrail.example", "https://shop.ecotrail.example", "Origin"},
		{"production second origin", CORSConfig{AllowedOrigins: shop, Environment: "production"}, "https://admin.ecotrail.example", "https://admin.ecotrail.example", "Origin"},
		{"production unknown origin", CORSConfig{AllowedOrigins: shop, Environment: "production"}, "https://evil.example", "", ""},
		{"production no origin", CORSConfig{AllowedOrigins: shop, Environment: "production"}, "", "", ""},
		{"production explicit wildcard", CORSConfig{AllowedOrigins: []string{"*"}, Environment: "production"}, "https://any.example", "*", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveCORS(tt.cfg, http.MethodGet, tt.origin)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tt.wantOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantVary, rr.Header().Get("Vary"))
		})
	}
}

func TestCORS_PreflightReturns204(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/reviews", nil)
	req.Header.Set("Origin", "https://shop.ecotrail.example")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.False(t, called)
}

func TestCORS_Defaults(t *testing.T) {
	rr := serveCORS(CORSConfig{Environment: "development"}, http.MethodGet, "")

	assert.Equal(t, "GET, POST, OPTIONS", rr.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Accept, Content-Type, X-Correlation-ID", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_CustomValues(t *testing.T) {
	rr := serveCORS(CORSConfig{
		AllowedOrigins:   []string{"https://shop.ecotrail.example"},
		AllowedHeaders:   []string{"Accept", "X-Custom"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		MaxAge:           600,
		AllowCredentials: true,
	}, http.MethodGet, "https://shop.ecotrail.example")

	assert.Equal(t, "Accept, X-Custom", rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "X-Correlation-ID", rr.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, "600", rr.Header().Get("Access-Control-Max-Age"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.NotContains(t, cfg.AllowedMethods, http.MethodDelete)
	assert.Contains(t, cfg.AllowedHeaders, CorrelationIDHeader)
}
