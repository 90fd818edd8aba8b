package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bringlist/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(60, 2, logger.Nop())
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
}

func TestRateLimiterForgetsIdleClients(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, 1, logger.Nop())
	limiter.now = func() time.Time { return now }

	require.True(t, limiter.Allow("a"))
	now = now.Add(visitorIdleTTL + time.Minute)
	limiter.Allow("b")

	limiter.mu.Lock()
	_, ok := limiter.visitors["a"]
	limiter.mu.Unlock()
	assert.False(t, ok)
}

func TestRateLimiterDisabled(t *testing.T) {
	limiter := NewRateLimiter(0, 0, logger.Nop())
	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("a"))
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	limiter := NewRateLimiter(1, 1, logger.Nop())
	h := limiter.Middleware(okHandler())

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}
