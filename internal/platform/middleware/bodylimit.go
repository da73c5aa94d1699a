package middleware

import (
	"net/http"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/httputil"
)

const defaultMaxRequestBodyBytes int64 = 1 << 20 // 1 MiB, matches httputil.DecodeJSON's cap

// BodyLimit rejects oversized request bodies before they reach a handler's
// decoder, bounding memory use from hostile or malformed clients.
type BodyLimit struct {
	maxBytes int64
}

// NewBodyLimit builds the middleware; maxBytes <= 0 applies the default.
func NewBodyLimit(maxBytes int64) *BodyLimit {
	if maxBytes <= 0 {
		maxBytes = defaultMaxRequestBodyBytes
	}
	return &BodyLimit{maxBytes: maxBytes}
}

// Handler enforces the body size cap via http.MaxBytesReader.
func (m *BodyLimit) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > m.maxBytes {
			svcErr := platerrors.New(platerrors.ErrCodeInvalidInput, "request body too large", http.StatusRequestEntityTooLarge).
				WithDetails("limit_bytes", m.maxBytes)
			httputil.WriteServiceError(w, r, svcErr)
			return
		}
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, m.maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}
