package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barq/internal/render"
	"github.com/MeKo-Tech/barq/internal/scan"
)

func TestCORSMiddleware(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodOptions, "/generate", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	s, err := NewServer(Config{
		CORSOrigin:      "*",
		BarcodeDefaults: render.DefaultBarcodeOptions(),
		QRDefaults:      render.DefaultQROptions(),
		Scan:            scan.DefaultOptions(),
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 2,
		},
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	s.SetupRoutes(mux)

	doScan := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/generate/quick?data=HELLO", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, doScan().Code)
	require.Equal(t, http.StatusOK, doScan().Code)

	w := doScan()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "minute", w.Header().Get("X-RateLimit-Type"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	resp := decodeError(t, w)
	assert.Equal(t, "rate_limit_exceeded", resp.Kind)
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	mux := newTestMux(t)

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/generate/quick?data=HELLO", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "socket address",
			remoteAddr: "192.0.2.1:5000",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9"},
			want:       "198.51.100.9",
		},
		{
			name:       "x-forwarded-for chain",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.9, 203.0.113.1"},
			want:       "198.51.100.9",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Real-IP": "198.51.100.10"},
			want:       "198.51.100.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
