// Package memory implements the consent store's fallback persistence: a
// flat, mutex-guarded list with the same revoke-vs-get serialisability
// guarantee the primary relational store provides via row-level semantics.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/novacredit/engine/internal/domain/consent"
)

// Store is an in-process consent artefact list. Appended-to, never
// compacted; lookups are linear, which is acceptable at fallback scale.
type Store struct {
	mu        sync.Mutex
	artefacts []consent.Artefact
}

// New returns an empty in-memory consent store.
func New() *Store {
	return &Store{}
}

// Create appends artefact to the list.
func (s *Store) Create(ctx context.Context, artefact consent.Artefact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artefacts = append(s.artefacts, artefact)
	return nil
}

// Get returns the artefact with the given id, if present.
func (s *Store) Get(ctx context.Context, consentID string) (consent.Artefact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.artefacts {
		if a.ConsentID == consentID {
			return a, true, nil
		}
	}
	return consent.Artefact{}, false, nil
}

// ListByUser returns every artefact belonging to userReferenceID.
func (s *Store) ListByUser(ctx context.Context, userReferenceID string) ([]consent.Artefact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []consent.Artefact
	for _, a := range s.artefacts {
		if a.UserReferenceID == userReferenceID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Revoke transitions the artefact to REVOKED iff it is currently ACTIVE.
// The single critical section spanning the read-check-write makes revoke
// serialisable against concurrent Get calls: no caller ever observes ACTIVE
// after a concurrent revoke has completed.
func (s *Store) Revoke(ctx context.Context, consentID string, revokedAt time.Time) (consent.Artefact, bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.artefacts {
		if s.artefacts[i].ConsentID != consentID {
			continue
		}
		if s.artefacts[i].Status != consent.StatusActive {
			return s.artefacts[i], true, false, nil
		}
		s.artefacts[i].Status = consent.StatusRevoked
		s.artefacts[i].RevokedAt = &revokedAt
		s.artefacts[i].UpdatedAt = revokedAt
		return s.artefacts[i], true, true, nil
	}
	return consent.Artefact{}, false, false, nil
}

var _ consent.Store = (*Store)(nil)
