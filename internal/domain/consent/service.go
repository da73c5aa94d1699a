package consent

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/logging"
)

// Service is the consent.create/get/list_by_user/revoke operation surface.
// It validates input, generates ids, and delegates persistence to primary
// (normally Postgres-backed). If primary is nil, fallback (normally the
// in-memory store) is used. If a Create against primary fails, the service
// switches to fallback for every later operation and logs a degraded-mode
// warning exactly once per process. Errors from Get, ListByUser and Revoke
// against primary are returned as Internal errors and do not switch stores.
type Service struct {
	primary  Store
	fallback Store
	logger   *logging.Logger

	degradedOnce  sync.Once
	usingFallback bool
	mu            sync.Mutex
}

// NewService wires a consent service. primary may be nil to force
// fallback-only operation (e.g. no DATABASE_DSN configured).
func NewService(primary, fallback Store, logger *logging.Logger) *Service {
	return &Service{primary: primary, fallback: fallback, logger: logger}
}

func (s *Service) activeStore(ctx context.Context) Store {
	s.mu.Lock()
	usingFallback := s.usingFallback
	s.mu.Unlock()

	if s.primary == nil || usingFallback {
		return s.fallback
	}
	return s.primary
}

func (s *Service) degradeToFallback(reason error) {
	s.mu.Lock()
	s.usingFallback = true
	s.mu.Unlock()

	s.degradedOnce.Do(func() {
		if s.logger != nil {
			s.logger.LogDegraded(context.Background(), "consent_store", reason.Error())
		}
	})
}

// Create validates in, assigns a fresh consent_id, and persists an ACTIVE artefact.
func (s *Service) Create(ctx context.Context, in CreateInput) (Artefact, error) {
	if err := ValidateCreateInput(in); err != nil {
		return Artefact{}, err
	}

	now := time.Now().UTC()
	consentID := uuid.New().String()
	artefact := Artefact{
		ConsentID:       consentID,
		UserReferenceID: in.UserReferenceID,
		Status:          StatusActive,
		FITypes:         in.FITypes,
		DataRange:       in.DataRange,
		DataLife:        in.DataLife,
		Purpose:         orDefault(in.Purpose, defaultPurpose()),
		Frequency:       orDefault(in.Frequency, defaultFrequency()),
		ConsentArtefact: buildConsentArtefact(consentID, in),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	store := s.activeStore(ctx)
	if err := store.Create(ctx, artefact); err != nil {
		if store != s.fallback && s.fallback != nil {
			s.degradeToFallback(err)
			if fallbackErr := s.fallback.Create(ctx, artefact); fallbackErr != nil {
				return Artefact{}, platerrors.Internal("persist consent artefact", fallbackErr)
			}
			return artefact, nil
		}
		return Artefact{}, platerrors.Internal("persist consent artefact", err)
	}
	return artefact, nil
}

// Get returns the artefact for consentID, requiring a syntactically valid UUIDv4.
func (s *Service) Get(ctx context.Context, consentID string) (Artefact, error) {
	if _, err := uuid.Parse(consentID); err != nil {
		return Artefact{}, platerrors.Validation("consent_id must be a valid UUID", nil)
	}

	a, ok, err := s.activeStore(ctx).Get(ctx, consentID)
	if err != nil {
		return Artefact{}, platerrors.Internal("read consent artefact", err)
	}
	if !ok {
		return Artefact{}, platerrors.NotFound("consent", consentID)
	}
	return a, nil
}

// ListByUser returns every artefact belonging to userReferenceID.
func (s *Service) ListByUser(ctx context.Context, userReferenceID string) ([]Artefact, error) {
	artefacts, err := s.activeStore(ctx).ListByUser(ctx, userReferenceID)
	if err != nil {
		return nil, platerrors.Internal("list consent artefacts", err)
	}
	return artefacts, nil
}

// Revoke transitions consentID from ACTIVE to REVOKED. It returns
// NotFoundError if the id doesn't exist and ConflictError if it exists but
// isn't ACTIVE.
func (s *Service) Revoke(ctx context.Context, consentID string) (Artefact, error) {
	if _, err := uuid.Parse(consentID); err != nil {
		return Artefact{}, platerrors.Validation("consent_id must be a valid UUID", nil)
	}

	a, found, wasActive, err := s.activeStore(ctx).Revoke(ctx, consentID, time.Now().UTC())
	if err != nil {
		return Artefact{}, platerrors.Internal("revoke consent artefact", err)
	}
	if !found {
		return Artefact{}, platerrors.NotFound("consent", consentID)
	}
	if !wasActive {
		return Artefact{}, platerrors.Conflict("consent is not ACTIVE")
	}
	return a, nil
}

func orDefault(m map[string]any, fallback map[string]any) map[string]any {
	if len(m) == 0 {
		return fallback
	}
	return m
}
