package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/httputil"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout bounds how long a request may run before the client receives a
// 504. Upstream calls (UIDAI, AA, GSP, BBPS) carry their own per-service
// timeouts, but a handler bug or a stuck downstream call must not pin the
// connection open indefinitely.
type Timeout struct {
	d time.Duration
}

// NewTimeout builds the middleware; d <= 0 applies a conservative default.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = defaultRequestTimeout
	}
	return &Timeout{d: d}
}

// Handler wraps next with a deadline applied to the request context.
func (m *Timeout) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), m.d)
		defer cancel()

		done := make(chan struct{})
		tw := &timeoutWriter{ResponseWriter: w}

		go func() {
			next.ServeHTTP(tw, r.WithContext(ctx))
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			tw.mu.Lock()
			wrote := tw.wroteHeader
			tw.mu.Unlock()
			if !wrote && ctx.Err() == context.DeadlineExceeded {
				svcErr := platerrors.New(platerrors.ErrCodeUpstreamTimeout, "request timed out", http.StatusGatewayTimeout)
				httputil.WriteServiceError(w, r, svcErr)
			}
		}
	})
}

type timeoutWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	wroteHeader bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.wroteHeader {
		tw.wroteHeader = true
		tw.ResponseWriter.WriteHeader(code)
	}
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	if !tw.wroteHeader {
		tw.wroteHeader = true
	}
	tw.mu.Unlock()
	return tw.ResponseWriter.Write(b)
}
