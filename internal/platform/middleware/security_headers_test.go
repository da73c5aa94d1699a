package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeadersAppliesDefaults(t *testing.T) {
	m := NewSecurityHeaders(nil)
	h := m.Handler(http.HandlerFunc(passthrough))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSecurityHeadersAppliesOverride(t *testing.T) {
	m := NewSecurityHeaders(map[string]string{"X-Custom": "1"})
	h := m.Handler(http.HandlerFunc(passthrough))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, "1", w.Header().Get("X-Custom"))
	assert.Empty(t, w.Header().Get("X-Frame-Options"))
}
