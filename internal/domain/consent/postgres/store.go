// Package postgres implements the consent store's primary persistence
// against the consent_log relational table, using conditional updates so
// revoke is serialisable against get without an explicit transaction.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/novacredit/engine/internal/domain/consent"
)

// Store implements consent.Store against consent_log via sqlx.
type Store struct {
	db *sqlx.DB
}

// New wraps an existing sqlx connection pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type row struct {
	ConsentID       string          `db:"consent_id"`
	UserReferenceID string          `db:"user_reference_id"`
	Status          string          `db:"status"`
	FITypes         json.RawMessage `db:"fi_types"`
	DataRange       json.RawMessage `db:"data_range"`
	DataLife        json.RawMessage `db:"data_life"`
	Purpose         json.RawMessage `db:"purpose"`
	Frequency       json.RawMessage `db:"frequency"`
	ConsentArtefact json.RawMessage `db:"consent_artefact"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	RevokedAt       sql.NullTime    `db:"revoked_at"`
}

func (r row) toArtefact() (consent.Artefact, error) {
	a := consent.Artefact{
		ConsentID:       r.ConsentID,
		UserReferenceID: r.UserReferenceID,
		Status:          consent.Status(r.Status),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.RevokedAt.Valid {
		t := r.RevokedAt.Time
		a.RevokedAt = &t
	}
	if err := json.Unmarshal(r.FITypes, &a.FITypes); err != nil {
		return consent.Artefact{}, err
	}
	if err := json.Unmarshal(r.DataRange, &a.DataRange); err != nil {
		return consent.Artefact{}, err
	}
	if err := json.Unmarshal(r.DataLife, &a.DataLife); err != nil {
		return consent.Artefact{}, err
	}
	if len(r.Purpose) > 0 {
		if err := json.Unmarshal(r.Purpose, &a.Purpose); err != nil {
			return consent.Artefact{}, err
		}
	}
	if len(r.Frequency) > 0 {
		if err := json.Unmarshal(r.Frequency, &a.Frequency); err != nil {
			return consent.Artefact{}, err
		}
	}
	if len(r.ConsentArtefact) > 0 {
		if err := json.Unmarshal(r.ConsentArtefact, &a.ConsentArtefact); err != nil {
			return consent.Artefact{}, err
		}
	}
	return a, nil
}

// Create inserts a new consent_log row.
func (s *Store) Create(ctx context.Context, a consent.Artefact) error {
	fiTypes, err := json.Marshal(a.FITypes)
	if err != nil {
		return err
	}
	dataRange, err := json.Marshal(a.DataRange)
	if err != nil {
		return err
	}
	dataLife, err := json.Marshal(a.DataLife)
	if err != nil {
		return err
	}
	purpose, err := json.Marshal(a.Purpose)
	if err != nil {
		return err
	}
	frequency, err := json.Marshal(a.Frequency)
	if err != nil {
		return err
	}
	artefactJSON, err := json.Marshal(a.ConsentArtefact)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO consent_log
			(consent_id, user_reference_id, status, fi_types, data_range, data_life, purpose, frequency, consent_artefact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, a.ConsentID, a.UserReferenceID, string(a.Status), fiTypes, dataRange, dataLife, purpose, frequency, artefactJSON, a.CreatedAt, a.UpdatedAt)
	return err
}

// Get fetches one consent_log row by primary key.
func (s *Store) Get(ctx context.Context, consentID string) (consent.Artefact, bool, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `
		SELECT consent_id, user_reference_id, status, fi_types, data_range, data_life, purpose, frequency, consent_artefact, created_at, updated_at, revoked_at
		FROM consent_log WHERE consent_id = $1
	`, consentID)
	if errors.Is(err, sql.ErrNoRows) {
		return consent.Artefact{}, false, nil
	}
	if err != nil {
		return consent.Artefact{}, false, err
	}
	a, err := r.toArtefact()
	return a, true, err
}

// ListByUser fetches every consent_log row for userReferenceID, newest first.
func (s *Store) ListByUser(ctx context.Context, userReferenceID string) ([]consent.Artefact, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows, `
		SELECT consent_id, user_reference_id, status, fi_types, data_range, data_life, purpose, frequency, consent_artefact, created_at, updated_at, revoked_at
		FROM consent_log WHERE user_reference_id = $1 ORDER BY created_at DESC
	`, userReferenceID)
	if err != nil {
		return nil, err
	}
	out := make([]consent.Artefact, 0, len(rows))
	for _, r := range rows {
		a, err := r.toArtefact()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Revoke performs a conditional UPDATE ... WHERE status='ACTIVE', which is
// what makes revoke serialisable against get without an explicit
// transaction: a concurrent get either observes the row before or after
// this single statement commits, never mid-update.
func (s *Store) Revoke(ctx context.Context, consentID string, revokedAt time.Time) (consent.Artefact, bool, bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE consent_log SET status = 'REVOKED', revoked_at = $2, updated_at = $2
		WHERE consent_id = $1 AND status = 'ACTIVE'
	`, consentID, revokedAt)
	if err != nil {
		return consent.Artefact{}, false, false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return consent.Artefact{}, false, false, err
	}

	a, found, err := s.Get(ctx, consentID)
	if err != nil {
		return consent.Artefact{}, false, false, err
	}
	return a, found, affected > 0, nil
}

var _ consent.Store = (*Store)(nil)
