package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("test response"))
	})

	wrapped := createLoggingMiddleware(handler, NewHTTPLogger("test", false))

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	// Should not panic and should log
	wrapped.ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecoveryMiddleware(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("normal response"))
		})

		wrapped := createRecoveryMiddleware(handler, NewHTTPLogger("test", false))

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		wrapped.ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("panic recovery", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		})

		wrapped := createRecoveryMiddleware(handler, NewHTTPLogger("test", false))

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()

		// Should not panic
		wrapped.ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := securityHeadersMiddleware(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", resp.Header.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", resp.Header.Get("Referrer-Policy"))

	csp := resp.Header.Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "connect-src 'self' ws: wss:")
	assert.Contains(t, csp, "frame-ancestors 'none'")
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	wrapped := &responseWriter{
		ResponseWriter: w,
		status:         http.StatusOK,
	}

	t.Run("write header", func(t *testing.T) {
		wrapped.WriteHeader(http.StatusCreated)
		assert.Equal(t, http.StatusCreated, wrapped.status)
	})

	t.Run("write data", func(t *testing.T) {
		data := []byte("test data")
		n, err := wrapped.Write(data)
		assert.NoError(t, err)
		assert.Equal(t, len(data), n)
		assert.Equal(t, len(data), wrapped.size)
	})

	t.Run("multiple writes", func(t *testing.T) {
		wrapped.size = 0 // Reset

		data1 := []byte("first ")
		data2 := []byte("second")

		n1, err := wrapped.Write(data1)
		assert.NoError(t, err)
		assert.Equal(t, len(data1), n1)

		n2, err := wrapped.Write(data2)
		assert.NoError(t, err)
		assert.Equal(t, len(data2), n2)

		assert.Equal(t, len(data1)+len(data2), wrapped.size)
	})

	t.Run("hijack unsupported by recorder", func(t *testing.T) {
		_, _, err := wrapped.Hijack()
		assert.Error(t, err)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{
			name:       "X-Forwarded-For takes priority",
			remoteAddr: "10.0.0.1:1234",
			xff:        "203.0.113.7",
			xri:        "198.51.100.2",
			want:       "203.0.113.7",
		},
		{
			name:       "X-Real-IP when no forwarded header",
			remoteAddr: "10.0.0.1:1234",
			xri:        "198.51.100.2",
			want:       "198.51.100.2",
		},
		{
			name:       "falls back to remote address",
			remoteAddr: "192.0.2.9:5678",
			want:       "192.0.2.9",
		},
		{
			name:       "invalid forwarded value ignored",
			remoteAddr: "192.0.2.9:5678",
			xff:        "not-an-ip",
			want:       "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}

func TestRateLimiterIsAllowed(t *testing.T) {
	// Construct directly so no cleanup goroutine runs during the test
	rl := &rateLimiter{
		clients: make(map[string]*clientInfo),
		cleanup: time.Minute,
	}

	t.Run("allows up to the limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			assert.True(t, rl.isAllowed("192.0.2.1", 5, time.Minute), "request %d should be allowed", i+1)
		}
		assert.False(t, rl.isAllowed("192.0.2.1", 5, time.Minute))
	})

	t.Run("limits are per IP", func(t *testing.T) {
		assert.True(t, rl.isAllowed("192.0.2.2", 5, time.Minute))
	})

	t.Run("window expiry frees the budget", func(t *testing.T) {
		rl.clients["192.0.2.3"] = &clientInfo{
			lastSeen: time.Now(),
			requests: []time.Time{
				time.Now().Add(-2 * time.Minute),
				time.Now().Add(-90 * time.Second),
			},
		}

		// Both past requests are outside the window
		assert.True(t, rl.isAllowed("192.0.2.3", 2, time.Minute))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	wrapped := rateLimitMiddleware(handler)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.99:4321"
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
