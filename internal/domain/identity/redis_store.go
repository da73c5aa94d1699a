package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is the distributed counterpart to Store: it implements the
// same Tracker contract backed by Redis so the lockout window and OTP
// session survive across multiple engine processes, at the cost of a
// round trip per call. Wired in when REDIS_URL is configured; otherwise
// the in-memory Store is used directly, per spec.md's single-process
// in-memory model.
type RedisStore struct {
	client      *redis.Client
	maxAttempts int
	lockout     time.Duration
	ctxTimeout  time.Duration
}

type attemptPayload struct {
	FailedCount int       `json:"failed_count"`
	LockedUntil time.Time `json:"locked_until"`
}

type sessionPayload struct {
	TxnID     string    `json:"txn_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisStore builds a Redis-backed identity tracker.
func NewRedisStore(client *redis.Client, maxAttempts int, lockout time.Duration) *RedisStore {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &RedisStore{client: client, maxAttempts: maxAttempts, lockout: lockout, ctxTimeout: 5 * time.Second}
}

func attemptsKey(h string) string { return "identity:attempts:" + h }
func sessionKey(h string) string  { return "identity:session:" + h }

func (r *RedisStore) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.ctxTimeout)
}

func (r *RedisStore) loadAttempts(ctx context.Context, h string) (attemptPayload, bool) {
	raw, err := r.client.Get(ctx, attemptsKey(h)).Bytes()
	if err != nil {
		return attemptPayload{}, false
	}
	var payload attemptPayload
	if json.Unmarshal(raw, &payload) != nil {
		return attemptPayload{}, false
	}
	return payload, true
}

func (r *RedisStore) saveAttempts(ctx context.Context, h string, payload attemptPayload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	ttl := r.lockout
	if payload.LockedUntil.IsZero() {
		ttl = 24 * time.Hour
	}
	r.client.Set(ctx, attemptsKey(h), raw, ttl)
}

// IsLocked reports whether h is currently locked, clearing an expired lock
// as a side effect.
func (r *RedisStore) IsLocked(h string) bool {
	ctx, cancel := r.withTimeout()
	defer cancel()

	payload, ok := r.loadAttempts(ctx, h)
	if !ok || payload.LockedUntil.IsZero() {
		return false
	}
	if time.Now().After(payload.LockedUntil) {
		payload.LockedUntil = time.Time{}
		payload.FailedCount = 0
		r.saveAttempts(ctx, h, payload)
		return false
	}
	return true
}

// RemainingLockout returns the seconds left on h's lock, 0 if unlocked.
func (r *RedisStore) RemainingLockout(h string) int64 {
	ctx, cancel := r.withTimeout()
	defer cancel()

	payload, ok := r.loadAttempts(ctx, h)
	if !ok || payload.LockedUntil.IsZero() {
		return 0
	}
	remaining := payload.LockedUntil.Sub(time.Now())
	if remaining < 0 {
		return 0
	}
	return int64(remaining.Seconds()) + 1
}

// IncrementFailed records one failed verification attempt against h.
func (r *RedisStore) IncrementFailed(h string) (locked bool, attemptsLeft int) {
	ctx, cancel := r.withTimeout()
	defer cancel()

	payload, _ := r.loadAttempts(ctx, h)
	payload.FailedCount++

	if payload.FailedCount >= r.maxAttempts {
		payload.LockedUntil = time.Now().Add(r.lockout)
		r.saveAttempts(ctx, h, payload)
		return true, 0
	}
	r.saveAttempts(ctx, h, payload)
	return false, r.maxAttempts - payload.FailedCount
}

// Reset clears h's failure count on a successful verify.
func (r *RedisStore) Reset(h string) {
	ctx, cancel := r.withTimeout()
	defer cancel()
	r.client.Del(ctx, attemptsKey(h))
}

// PutSession replaces h's OTP session.
func (r *RedisStore) PutSession(h, txnID string) {
	ctx, cancel := r.withTimeout()
	defer cancel()

	raw, err := json.Marshal(sessionPayload{TxnID: txnID, CreatedAt: time.Now()})
	if err != nil {
		return
	}
	r.client.Set(ctx, sessionKey(h), raw, time.Hour)
}

// GetSession returns h's current session, if any.
func (r *RedisStore) GetSession(h string) (Session, bool) {
	ctx, cancel := r.withTimeout()
	defer cancel()

	raw, err := r.client.Get(ctx, sessionKey(h)).Bytes()
	if err != nil {
		return Session{}, false
	}
	var payload sessionPayload
	if json.Unmarshal(raw, &payload) != nil {
		return Session{}, false
	}
	return Session{TxnID: payload.TxnID, CreatedAt: payload.CreatedAt}, true
}

// ClearSession deletes h's session.
func (r *RedisStore) ClearSession(h string) {
	ctx, cancel := r.withTimeout()
	defer cancel()
	r.client.Del(ctx, sessionKey(h))
}
