package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/despensa/backend/config"
	"github.com/pageza/despensa/backend/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:                 config.Test,
		ServerHost:          "localhost",
		ServerPort:          "0",
		FrontendURL:         "http://localhost:3000",
		DBDriver:            "sqlite",
		SQLitePath:          filepath.Join(t.TempDir(), "despensa.db"),
		JWTSecret:           "server-test-secret",
		JWTTTL:              time.Hour,
		RateLimitRequests:   100,
		RateLimitWindow:     time.Minute,
		ExpiryThresholdDays: 3,
		ExpiryTimezone:      "UTC",
		S3Bucket:            "despensa-test",
		S3Region:            "us-east-1",
		S3Endpoint:          "http://localhost:9000",
		GraphBackend:        "sql",
	}
}

func TestNew(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	srv, err := New(context.Background(), testConfig(t), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, srv.Shutdown(context.Background()))
	})

	t.Run("health", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "go_goroutines")
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"route not found"}`, w.Body.String())
	})
}

func TestNewFailsOnBadDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "missing", "dir", "despensa.db")

	_, err := New(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}
