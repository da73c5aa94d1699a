package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/httputil"
	"github.com/novacredit/engine/internal/platform/logging"
)

// Recovery turns a panic anywhere downstream into a 500 response instead of
// killing the connection, and logs the stack trace so it can be triaged.
type Recovery struct {
	logger *logging.Logger
}

// NewRecovery builds a panic-recovery middleware.
func NewRecovery(logger *logging.Logger) *Recovery {
	return &Recovery{logger: logger}
}

// Handler wraps next with panic recovery.
func (m *Recovery) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := debug.Stack()
				if m.logger != nil {
					m.logger.WithContext(r.Context()).WithFields(map[string]interface{}{
						"panic":  fmt.Sprintf("%v", rec),
						"stack":  string(stack),
						"path":   r.URL.Path,
						"method": r.Method,
					}).Error("panic recovered")
				}
				svcErr := platerrors.Internal("internal error", fmt.Errorf("%v", rec))
				httputil.WriteServiceError(w, r, svcErr)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
