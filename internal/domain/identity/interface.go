package identity

// Tracker is the contract the Aadhaar OTP state machine depends on. Store
// (in-process map) and RedisStore (shared across processes) both implement
// it; which one is wired is decided by configuration, not by the caller.
type Tracker interface {
	IsLocked(h string) bool
	RemainingLockout(h string) int64
	IncrementFailed(h string) (locked bool, attemptsLeft int)
	Reset(h string)
	PutSession(h, txnID string)
	GetSession(h string) (Session, bool)
	ClearSession(h string)
}

var (
	_ Tracker = (*Store)(nil)
	_ Tracker = (*RedisStore)(nil)
)
