package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementFailedTracksAttemptsLeftMonotonically(t *testing.T) {
	s := NewStore(3, time.Minute)
	const h = "hash-a"

	locked, left := s.IncrementFailed(h)
	assert.False(t, locked)
	assert.Equal(t, 2, left)

	locked, left = s.IncrementFailed(h)
	assert.False(t, locked)
	assert.Equal(t, 1, left)

	locked, left = s.IncrementFailed(h)
	assert.True(t, locked)
	assert.Equal(t, 0, left)
}

func TestLockoutHoldsForAtLeastConfiguredWindow(t *testing.T) {
	s := NewStore(1, 50*time.Millisecond)
	const h = "hash-b"

	locked, _ := s.IncrementFailed(h)
	require.True(t, locked)
	assert.True(t, s.IsLocked(h))
	assert.Greater(t, s.RemainingLockout(h), int64(0))

	time.Sleep(80 * time.Millisecond)
	assert.False(t, s.IsLocked(h))
	assert.Equal(t, int64(0), s.RemainingLockout(h))
}

func TestResetClearsFailureCount(t *testing.T) {
	s := NewStore(3, time.Minute)
	const h = "hash-c"

	s.IncrementFailed(h)
	s.IncrementFailed(h)
	s.Reset(h)

	_, left := s.IncrementFailed(h)
	assert.Equal(t, 2, left)
}

func TestSessionSingleWriterNewInitiateSupersedesOld(t *testing.T) {
	s := NewStore(3, time.Minute)
	const h = "hash-d"

	s.PutSession(h, "txn-1")
	s.PutSession(h, "txn-2")

	sess, ok := s.GetSession(h)
	require.True(t, ok)
	assert.Equal(t, "txn-2", sess.TxnID)
}

func TestClearSessionRemovesIt(t *testing.T) {
	s := NewStore(3, time.Minute)
	const h = "hash-e"

	s.PutSession(h, "txn-1")
	s.ClearSession(h)

	_, ok := s.GetSession(h)
	assert.False(t, ok)
}

func TestSweepClearsExpiredLockAndEmptyRecords(t *testing.T) {
	s := NewStore(1, 10*time.Millisecond)
	const h = "hash-f"

	s.IncrementFailed(h)
	time.Sleep(30 * time.Millisecond)

	cleared := s.Sweep()
	assert.Equal(t, 1, cleared)
	assert.False(t, s.IsLocked(h))
}

func TestUnknownIdentityIsUnlockedWithNoAttempts(t *testing.T) {
	s := NewStore(3, time.Minute)
	assert.False(t, s.IsLocked("never-seen"))
	assert.Equal(t, int64(0), s.RemainingLockout("never-seen"))
}
