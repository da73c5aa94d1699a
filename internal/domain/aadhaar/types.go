// Package aadhaar implements the Aadhaar OTP authentication state machine:
// session-backed initiate/verify, PID-XML construction, AES-GCM sealing of
// the PID block, RSA-OAEP wrapping of the session key, and JWT issuance on
// successful verification.
package aadhaar

import (
	"context"
	"regexp"
	"time"

	"github.com/novacredit/engine/internal/domain/identity"
	"github.com/novacredit/engine/internal/platform/sms"
)

var (
	aadhaarPattern = regexp.MustCompile(`^\d{12}$`)
	otpPattern     = regexp.MustCompile(`^\d{6}$`)
)

// Backend submits a built Auth XML envelope to the UIDAI endpoint and
// returns the raw response body. uidFirst/uidSecond are the first two
// digits of the Aadhaar number, used to build the path segment UIDAI's
// real API requires; a fake/mock implementation can ignore them.
type Backend interface {
	SubmitAuth(ctx context.Context, uidFirst, uidSecond string, envelope []byte) ([]byte, error)
}

// InitiateResult is returned by Initiate.
type InitiateResult struct {
	TxnID    string `json:"txn_id"`
	Degraded bool   `json:"degraded"`
}

// VerifyResult is returned by Verify on success.
type VerifyResult struct {
	JWT      string `json:"jwt"`
	Degraded bool   `json:"degraded"`
}

// Config carries the tunables the state machine needs beyond the identity
// lockout policy (owned by the identity.Tracker itself).
type Config struct {
	UIDAIPublicKeyPEM   []byte
	JWTSecret           []byte
	JWTExpiry           time.Duration
	TestOTP             string
	DegradedModeAllowed bool
}

// Service wires the state machine's dependencies: an identity tracker for
// lockout/session state, an SMS capability to deliver OTPs, and a Backend
// capability for the UIDAI round trip.
type Service struct {
	tracker identity.Tracker
	sms     sms.Sender
	backend Backend
	cfg     Config
}

// NewService builds the Aadhaar state machine. tracker may be backed by an
// in-memory Store or a RedisStore; both satisfy identity.Tracker.
func NewService(tracker identity.Tracker, smsSender sms.Sender, backend Backend, cfg Config) *Service {
	return &Service{tracker: tracker, sms: smsSender, backend: backend, cfg: cfg}
}
