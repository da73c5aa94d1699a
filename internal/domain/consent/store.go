package consent

import (
	"context"
	"time"
)

// Store is the persistence contract both the Postgres-backed primary store
// and the in-memory fallback satisfy, so the service layer above them
// doesn't know which one it's talking to.
type Store interface {
	Create(ctx context.Context, artefact Artefact) error
	Get(ctx context.Context, consentID string) (Artefact, bool, error)
	ListByUser(ctx context.Context, userReferenceID string) ([]Artefact, error)
	// Revoke transitions consentID from ACTIVE to REVOKED and returns the
	// updated artefact. found is false when the artefact doesn't exist;
	// wasActive is false when it exists but is not currently ACTIVE (the
	// caller maps these to a NotFoundError and a ConflictError respectively).
	Revoke(ctx context.Context, consentID string, revokedAt time.Time) (artefact Artefact, found bool, wasActive bool, err error)
}
