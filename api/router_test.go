package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/distill/cache"
	"github.com/use-agent/distill/cleaner"
	"github.com/use-agent/distill/config"
	"github.com/use-agent/distill/models"
	"github.com/use-agent/distill/webhook"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Limits: config.LimitsConfig{
			MaxTextBytes:     1 << 20,
			MaxBatchItems:    100,
			BatchConcurrency: 4,
		},
		Auth: config.AuthConfig{
			Enabled: true,
			APIKeys: []string{"sk-test"},
		},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		Metrics:   config.MetricsConfig{Enabled: true},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(
		cleaner.NewCleaner(),
		cache.New(100, time.Hour),
		webhook.NewNotifier("", 10*time.Second),
		cfg,
		time.Now(),
	)
}

func TestRouter_HealthOutsideAuth(t *testing.T) {
	r := newTestRouter(testConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsOutsideAuth(t *testing.T) {
	r := newTestRouter(testConfig())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestRouter_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	r := newTestRouter(cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ProtectedEndpointsRequireKey(t *testing.T) {
	r := newTestRouter(testConfig())

	body, _ := json.Marshal(models.OptimizeRequest{Text: "Please utilize this."})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/optimize", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", "sk-test")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.OptimizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "use this.", resp.OptimizedText)
}

func TestRouter_AuthDisabledSkipsKeyCheck(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Enabled = false
	r := newTestRouter(cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/models", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
