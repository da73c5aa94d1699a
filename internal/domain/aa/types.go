// Package aa implements the Account Aggregator FI-request/fetch pipeline:
// building and signing the request payload, dispatching it to the AA
// backend, tracking the resulting session, and decrypting the fetched
// financial data before handing it to the transaction parser.
package aa

import "time"

// SessionStatus is an FI session's lifecycle state.
type SessionStatus string

const (
	SessionPending SessionStatus = "PENDING"
	SessionReady   SessionStatus = "READY"
	SessionFailed  SessionStatus = "FAILED"
)

// RequestInput is the caller-supplied payload for fi.request.
type RequestInput struct {
	ConsentID     string    `json:"consent_id"`
	FIType        string    `json:"fi_type"`
	MaskedAccount string    `json:"masked_account,omitempty"`
	LinkRef       string    `json:"link_ref,omitempty"`
	From          time.Time `json:"from,omitempty"`
	To            time.Time `json:"to,omitempty"`
}

// Session is the FI session created by a request and consumed by a fetch,
// keyed by txn_id.
type Session struct {
	TxnID               string
	SessionID           string
	ConsentID           string
	FIType              string
	MaskedAccountNumber string
	Status              SessionStatus
	CreatedAt           time.Time
	Payload             map[string]any
	JWSSignature        string
	Degraded            bool
	SessionKey          []byte // AES-256-GCM key generated by RequestFI for every session; FetchFI decrypts the FI payload with it
}

// RequestResult is the fi.request operation's return value.
type RequestResult struct {
	TxnID        string         `json:"txn_id"`
	SessionID    string         `json:"session_id"`
	Timestamp    string         `json:"timestamp"`
	JWSSignature string         `json:"jws_signature"`
	AAResponse   map[string]any `json:"aa_response,omitempty"`
	Degraded     bool           `json:"degraded"`
}

// FetchResult is the fi.fetch operation's return value. Plaintext is the
// decrypted FI payload; the orchestration layer hands it to the
// transaction parser before anything reaches a caller.
type FetchResult struct {
	TxnID     string `json:"txn_id"`
	SessionID string `json:"session_id"`
	Plaintext []byte `json:"-"`
	Degraded  bool   `json:"degraded"`
}
