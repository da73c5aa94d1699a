package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/novacredit/engine/internal/domain/consent"
)

func newArtefact(id string) consent.Artefact {
	now := time.Now().UTC()
	return consent.Artefact{
		ConsentID:       id,
		UserReferenceID: "user-1",
		Status:          consent.StatusActive,
		FITypes:         []consent.FIType{consent.FITypeDeposit},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	s := New()
	a := newArtefact("c-1")
	require.NoError(t, s.Create(context.Background(), a))

	got, ok, err := s.Get(context.Background(), "c-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, consent.StatusActive, got.Status)
}

func TestGetMissingReturnsNotOK(t *testing.T) {
	s := New()
	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListByUserFiltersByOwner(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(context.Background(), newArtefact("c-1")))
	other := newArtefact("c-2")
	other.UserReferenceID = "user-2"
	require.NoError(t, s.Create(context.Background(), other))

	list, err := s.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "c-1", list[0].ConsentID)
}

func TestRevokeActiveTransitionsToRevoked(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(context.Background(), newArtefact("c-1")))

	revokedAt := time.Now().UTC()
	a, found, wasActive, err := s.Revoke(context.Background(), "c-1", revokedAt)
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, wasActive)
	require.Equal(t, consent.StatusRevoked, a.Status)
	require.NotNil(t, a.RevokedAt)
}

func TestRevokeNonActiveIsConflict(t *testing.T) {
	s := New()
	require.NoError(t, s.Create(context.Background(), newArtefact("c-1")))

	revokedAt := time.Now().UTC()
	_, _, _, err := s.Revoke(context.Background(), "c-1", revokedAt)
	require.NoError(t, err)

	a, found, wasActive, err := s.Revoke(context.Background(), "c-1", revokedAt.Add(time.Minute))
	require.NoError(t, err)
	require.True(t, found)
	require.False(t, wasActive)
	require.Equal(t, consent.StatusRevoked, a.Status)
}

func TestRevokeMissingIsNotFound(t *testing.T) {
	s := New()
	_, found, _, err := s.Revoke(context.Background(), "nope", time.Now().UTC())
	require.NoError(t, err)
	require.False(t, found)
}

var _ consent.Store = (*Store)(nil)
