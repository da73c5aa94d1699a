// Package consent implements the consent-artefact lifecycle: validation,
// CRUD, and the ACTIVE/REVOKED/PAUSED/EXPIRED status machine backing the
// Account Aggregator request/fetch pipeline's authorization trail.
package consent

import "time"

// Status is a consent artefact's lifecycle state.
type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusRevoked Status = "REVOKED"
	StatusPaused  Status = "PAUSED"
	StatusExpired Status = "EXPIRED"
)

// FIType enumerates the financial information categories a consent may cover.
type FIType string

const (
	FITypeDeposit          FIType = "DEPOSIT"
	FITypeUPI              FIType = "UPI"
	FITypeGST              FIType = "GST"
	FITypeUtility          FIType = "UTILITY"
	FITypeSocial           FIType = "SOCIAL"
	FITypeTermDeposit      FIType = "TERM_DEPOSIT"
	FITypeRecurringDeposit FIType = "RECURRING_DEPOSIT"
	FITypeMutualFunds      FIType = "MUTUAL_FUNDS"
	FITypeSIP              FIType = "SIP"
)

// AllowedFITypes is the full set of fi_types a consent artefact may name.
var AllowedFITypes = map[FIType]bool{
	FITypeDeposit: true, FITypeUPI: true, FITypeGST: true, FITypeUtility: true,
	FITypeSocial: true, FITypeTermDeposit: true, FITypeRecurringDeposit: true,
	FITypeMutualFunds: true, FITypeSIP: true,
}

// DataLifeUnit is the unit a consent's data-retention life is expressed in.
type DataLifeUnit string

const (
	DataLifeDay   DataLifeUnit = "DAY"
	DataLifeMonth DataLifeUnit = "MONTH"
	DataLifeYear  DataLifeUnit = "YEAR"
	DataLifeInf   DataLifeUnit = "INF"
)

// DataRange bounds the time window a consent authorizes data fetches over.
type DataRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// DataLife bounds how long the fetched data may be retained.
type DataLife struct {
	Unit  DataLifeUnit `json:"unit"`
	Value int          `json:"value"`
}

// CreateInput is the caller-supplied payload for consent.create.
type CreateInput struct {
	UserReferenceID string         `json:"user_reference_id"`
	FITypes         []FIType       `json:"fi_types"`
	DataRange       DataRange      `json:"data_range"`
	DataLife        DataLife       `json:"data_life"`
	Purpose         map[string]any `json:"purpose"`
	Frequency       map[string]any `json:"frequency"`
}

// Artefact is the persisted consent record.
type Artefact struct {
	ConsentID       string         `json:"consent_id"`
	UserReferenceID string         `json:"user_reference_id"`
	Status          Status         `json:"status"`
	FITypes         []FIType       `json:"fi_types"`
	DataRange       DataRange      `json:"data_range"`
	DataLife        DataLife       `json:"data_life"`
	Purpose         map[string]any `json:"purpose"`
	Frequency       map[string]any `json:"frequency"`
	ConsentArtefact map[string]any `json:"consent_artefact"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	RevokedAt       *time.Time     `json:"revoked_at,omitempty"`
}

func defaultPurpose() map[string]any {
	return map[string]any{
		"code": "101", "refUri": "https://api.rebit.org.in/aa/purpose/101.xml",
		"text": "Wealth management service", "category": map[string]any{"type": "straight"},
	}
}

func defaultFrequency() map[string]any {
	return map[string]any{"unit": "MONTH", "value": 1}
}

// buildConsentArtefact renders the signed-JSON-blob shape transmitted to the
// AA network — a denormalised snapshot of the artefact's authorizing fields.
func buildConsentArtefact(consentID string, in CreateInput) map[string]any {
	return map[string]any{
		"consentId": consentID,
		"consentDetail": map[string]any{
			"consentStart": in.DataRange.From.UTC().Format(time.RFC3339),
			"consentExpiry": in.DataRange.To.UTC().Format(time.RFC3339),
			"consentMode":   "STORE",
			"fetchType":     "PERIODIC",
			"consentTypes":  []string{"PROFILE", "SUMMARY", "TRANSACTIONS"},
			"fiTypes":       in.FITypes,
			"DataConsumer":  map[string]any{"id": in.UserReferenceID},
			"DataLife":      map[string]any{"unit": in.DataLife.Unit, "value": in.DataLife.Value},
		},
	}
}
