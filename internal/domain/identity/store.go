// Package identity tracks failed-attempt counters and OTP sessions keyed by
// a hashed identity. It is the shared-resource layer the Aadhaar OTP state
// machine sits on top of: every mutation here is a single critical section,
// so no caller ever observes a half-updated attempt record or session.
package identity

import (
	"sync"
	"time"
)

// DefaultMaxAttempts is the failed-verify count that triggers a lockout.
const DefaultMaxAttempts = 3

// DefaultLockout is how long an identity stays locked once MaxAttempts is reached.
const DefaultLockout = 5 * time.Minute

// Session is the OTP session created by an initiate call. At most one
// exists per hashed identity; a new initiate replaces any prior session.
type Session struct {
	TxnID     string
	CreatedAt time.Time
}

// attemptRecord mirrors the C3 data model: absence of a record is
// equivalent to zero failures and unlocked.
type attemptRecord struct {
	failedCount int
	lockedUntil time.Time
}

// Store is the in-process, mutex-guarded identity attempt/session map
// described by the concurrency model: fine-grained locking is fine, the
// contract is a single critical section per operation.
type Store struct {
	mu          sync.Mutex
	attempts    map[string]*attemptRecord
	sessions    map[string]Session
	maxAttempts int
	lockout     time.Duration
}

// NewStore builds an identity store with the given lockout policy.
// maxAttempts <= 0 and lockout <= 0 fall back to the package defaults.
func NewStore(maxAttempts int, lockout time.Duration) *Store {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &Store{
		attempts:    make(map[string]*attemptRecord),
		sessions:    make(map[string]Session),
		maxAttempts: maxAttempts,
		lockout:     lockout,
	}
}

// IsLocked reports whether h is currently locked out, clearing an expired
// lock as a side effect so stale records don't accumulate.
func (s *Store) IsLocked(h string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLockedLocked(h, time.Now())
}

func (s *Store) isLockedLocked(h string, now time.Time) bool {
	rec, ok := s.attempts[h]
	if !ok {
		return false
	}
	if rec.lockedUntil.IsZero() {
		return false
	}
	if now.After(rec.lockedUntil) {
		rec.lockedUntil = time.Time{}
		rec.failedCount = 0
		return false
	}
	return true
}

// RemainingLockout returns how many seconds remain on h's lock, 0 if unlocked.
func (s *Store) RemainingLockout(h string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.isLockedLocked(h, now) {
		return 0
	}
	rec := s.attempts[h]
	remaining := rec.lockedUntil.Sub(now)
	if remaining < 0 {
		return 0
	}
	return int64(remaining.Seconds()) + 1
}

// IncrementFailed records one failed verification attempt against h. When
// the running count reaches maxAttempts, h is locked for the configured
// lockout duration.
func (s *Store) IncrementFailed(h string) (locked bool, attemptsLeft int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.attempts[h]
	if !ok {
		rec = &attemptRecord{}
		s.attempts[h] = rec
	}
	rec.failedCount++

	if rec.failedCount >= s.maxAttempts {
		rec.lockedUntil = time.Now().Add(s.lockout)
		return true, 0
	}
	return false, s.maxAttempts - rec.failedCount
}

// Reset clears the failure count for h, called on a successful verify.
func (s *Store) Reset(h string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, h)
}

// PutSession replaces h's OTP session with a freshly created one. A new
// initiate always supersedes any session from an earlier initiate.
func (s *Store) PutSession(h, txnID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[h] = Session{TxnID: txnID, CreatedAt: time.Now()}
}

// GetSession returns h's current session, if any.
func (s *Store) GetSession(h string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[h]
	return sess, ok
}

// ClearSession deletes h's session, called once verification succeeds.
func (s *Store) ClearSession(h string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, h)
}

// Sweep drops expired locks and attempt records with no active lock and a
// zero failure count. It's an optional periodic maintenance hook — reads
// already clear expired locks lazily — wired to the cron sweeper in the
// orchestration layer so long-lived processes don't accumulate dead entries.
func (s *Store) Sweep() (cleared int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for h, rec := range s.attempts {
		if !rec.lockedUntil.IsZero() && now.After(rec.lockedUntil) {
			rec.lockedUntil = time.Time{}
			rec.failedCount = 0
		}
		if rec.failedCount == 0 && rec.lockedUntil.IsZero() {
			delete(s.attempts, h)
			cleared++
		}
	}
	return cleared
}
