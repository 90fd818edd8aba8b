package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"bringlist/internal/config"
	"bringlist/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		HTTPPort:      "0",
		Env:           "development",
		PublicBaseURL: "http://localhost:8080",
		Auth: config.AuthConfig{
			AdminPassword: "admin123",
			SessionTTL:    time.Hour,
			RatePerMinute: 10,
		},
		Store: config.StoreConfig{
			Backend:     config.StoreBackendFile,
			DataDir:     filepath.Join(t.TempDir(), "data"),
			LockTimeout: time.Second,
		},
	}
}

func TestNewServesHealthAndMetrics(t *testing.T) {
	application, err := New(context.Background(), testConfig(t), logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })

	handler := application.HTTPServer().Handler

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bringlist_store_operations_total")

	loaded, err := application.Store().Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 5)
}

func TestNewRejectsInvalidPasswordHash(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.AdminPasswordHash = "not-a-bcrypt-hash"

	_, err := New(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestOpenStoreMemoryBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.StoreBackendMemory

	store, dbConn, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, dbConn)

	item, err := store.CreateItem(context.Background(), "Gourde")
	require.NoError(t, err)
	_, found, err := store.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, found)
}
