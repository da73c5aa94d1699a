package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/novacredit/engine/internal/platform/logging"
)

func TestRecoveryConvertsPanicToInternalError(t *testing.T) {
	logger := logging.New("test", "error", "text")
	m := NewRecovery(logger)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	h := m.Handler(panicky)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() { h.ServeHTTP(w, r) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecoveryPassesThroughNormalResponses(t *testing.T) {
	logger := logging.New("test", "error", "text")
	m := NewRecovery(logger)
	h := m.Handler(http.HandlerFunc(passthrough))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
}
