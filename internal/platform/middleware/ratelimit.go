package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/httputil"
	"github.com/novacredit/engine/internal/platform/logging"
)

// RateLimiter applies a per-key token bucket across HTTP requests. This is
// a transport-level guard on top of the domain-level identity lockout
// tracked by the identity store; it exists to absorb noisy/bot traffic
// before it ever reaches the Aadhaar OTP state machine.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
	window   time.Duration
	logger   *logging.Logger
}

// NewRateLimiter builds a limiter refilling at `limit` requests per `window`,
// with a bucket of `burst` tokens: at most `burst` requests pass at once.
func NewRateLimiter(limit int, window time.Duration, burst int, logger *logging.Logger) *RateLimiter {
	if window <= 0 {
		window = time.Second
	}
	perSecond := float64(limit) / window.Seconds()
	if perSecond < 0 {
		perSecond = 0
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
		window:   window,
		logger:   logger,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// Handler keys the bucket by identity hash when present (an authenticated
// session), falling back to client IP for anonymous endpoints.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := logging.GetIdentityHash(r.Context())
		if key == "" {
			key = httputil.ClientIP(r)
		}
		if key == "" {
			key = "unknown"
		}

		limiter := rl.getLimiter(key)
		if !limiter.Allow() {
			if rl.logger != nil {
				rl.logger.LogSecurityEvent(r.Context(), "rate_limit_exceeded", map[string]interface{}{
					"key":    key,
					"path":   r.URL.Path,
					"method": r.Method,
				})
			}
			seconds := int64(math.Ceil(rl.window.Seconds()))
			if seconds > 0 {
				w.Header().Set("Retry-After", strconv.FormatInt(seconds, 10))
			}
			svcErr := platerrors.RateLimited(seconds)
			httputil.WriteServiceError(w, r, svcErr)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Cleanup discards all tracked limiters once the table holds more than
// 50000 keys. The application's periodic sweep does not call it.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.limiters) > 50000 {
		rl.limiters = make(map[string]*rate.Limiter)
	}
}
