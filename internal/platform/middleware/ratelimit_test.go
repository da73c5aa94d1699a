package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUnderBudget(t *testing.T) {
	rl := NewRateLimiter(5, time.Second, 5, nil)
	h := rl.Handler(http.HandlerFunc(passthrough))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.1:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 1, nil)
	h := rl.Handler(http.HandlerFunc(passthrough))

	newReq := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.2:1234"
		return r
	}

	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, newReq())
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, newReq())
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.NotEmpty(t, w2.Header().Get("Retry-After"))
}

func TestRateLimiterKeysByDistinctIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, 1, nil)
	h := rl.Handler(http.HandlerFunc(passthrough))

	r1 := httptest.NewRequest(http.MethodGet, "/", nil)
	r1.RemoteAddr = "203.0.113.3:1"
	w1 := httptest.NewRecorder()
	h.ServeHTTP(w1, r1)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.RemoteAddr = "203.0.113.4:1"
	w2 := httptest.NewRecorder()
	h.ServeHTTP(w2, r2)

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestRateLimiterCleanupResetsWhenOversized(t *testing.T) {
	rl := NewRateLimiter(10, time.Second, 10, nil)
	for i := 0; i < 5; i++ {
		rl.getLimiter(string(rune('a' + i)))
	}
	rl.Cleanup()
	assert.LessOrEqual(t, len(rl.limiters), 50000)
}
