package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_GeneralBucket(t *testing.T) {
	m := NewRateLimitMiddleware(3, 100)
	h := m.Handler(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestRateLimit_CredentialBucketIsStricter(t *testing.T) {
	m := NewRateLimitMiddleware(100, 2)
	h := m.Handler(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// The general bucket is untouched by the credential exhaustion.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_PerClientIsolation(t *testing.T) {
	m := NewRateLimitMiddleware(1, 100)
	h := m.Handler(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/health", nil)
	first.RemoteAddr = "10.0.0.1:1111"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	blocked := httptest.NewRequest(http.MethodGet, "/health", nil)
	blocked.RemoteAddr = "10.0.0.1:1111"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, blocked)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest(http.MethodGet, "/health", nil)
	other.RemoteAddr = "10.0.0.2:2222"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIsCredentialRequest(t *testing.T) {
	assert.True(t, isCredentialRequest(http.MethodPost, "/api/v1/users"))
	assert.True(t, isCredentialRequest(http.MethodPost, "/api/v1/users/"))
	assert.True(t, isCredentialRequest(http.MethodPost, "/api/v1/users/login"))

	assert.False(t, isCredentialRequest(http.MethodGet, "/api/v1/users"))
	assert.False(t, isCredentialRequest(http.MethodPost, "/api/v1/users/password"))
	assert.False(t, isCredentialRequest(http.MethodPost, "/health"))
}

func TestExtractClientIP(t *testing.T) {
	t.Run("x-forwarded-for wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		assert.Equal(t, "203.0.113.7", extractClientIP(r))
	})

	t.Run("x-real-ip next", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Real-IP", "203.0.113.8")
		assert.Equal(t, "203.0.113.8", extractClientIP(r))
	})

	t.Run("remote addr host fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "198.51.100.4:5555"
		assert.Equal(t, "198.51.100.4", extractClientIP(r))
	})
}
