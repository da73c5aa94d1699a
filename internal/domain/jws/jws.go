// Package jws implements the detached-JWS signer used to authenticate
// Account Aggregator request payloads: RS256 over a canonical JSON body,
// with the `b64:false` critical header so the payload segment is never
// re-encoded into the compact serialisation.
package jws

import (
	"context"
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/novacredit/engine/internal/platform/encoding"
	"github.com/novacredit/engine/internal/platform/logging"
)

// header is the fixed detached-JWS protected header shape for AA payloads.
type header struct {
	Alg  string   `json:"alg"`
	Kid  string   `json:"kid"`
	B64  bool     `json:"b64"`
	Crit []string `json:"crit"`
}

// Signer produces detached JWS signatures over AA request payloads. It
// prefers RSA-SHA256 under a configured private key; if no key is
// available and degraded mode is allowed, it falls back to HMAC-SHA256
// under a shared secret, which must never happen in production.
type Signer struct {
	clientID         string
	privateKey       *rsa.PrivateKey
	hmacSecret       []byte
	degradedAllowed  bool
	productionLocked bool
	logger           *logging.Logger
}

// Config configures a Signer.
type Config struct {
	ClientID            string
	PrivateKeyPEM       []byte // RS256 signing key; optional
	HMACSecret          []byte // degraded-mode fallback secret; optional
	DegradedModeAllowed bool
	ProductionLocked    bool // when true, the HMAC fallback is refused outright
}

// NewSigner builds a Signer from cfg. A bad PEM is tolerated (falls back to
// HMAC) unless no secret is configured either, in which case every Sign
// call will fail.
func NewSigner(cfg Config, logger *logging.Logger) *Signer {
	s := &Signer{
		clientID:         cfg.ClientID,
		hmacSecret:       cfg.HMACSecret,
		degradedAllowed:  cfg.DegradedModeAllowed,
		productionLocked: cfg.ProductionLocked,
		logger:           logger,
	}
	if len(cfg.PrivateKeyPEM) > 0 {
		if key, err := parseRSAPrivateKey(cfg.PrivateKeyPEM); err == nil {
			s.privateKey = key
		}
	}
	return s
}

// Sign marshals payload to canonical JSON and returns the detached JWS
// compact serialisation "header..signature" (empty payload segment).
func (s *Signer) Sign(ctx context.Context, payload any) (string, []byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", nil, fmt.Errorf("marshal jws payload: %w", err)
	}

	h := header{Alg: "RS256", Kid: s.clientID, B64: false, Crit: []string{"b64"}}
	headerJSON, err := json.Marshal(h)
	if err != nil {
		return "", nil, fmt.Errorf("marshal jws header: %w", err)
	}

	signingInput := encoding.Base64URLEncode(headerJSON) + "." + encoding.Base64URLEncode(payloadJSON)

	sig, err := s.sign(ctx, []byte(signingInput))
	if err != nil {
		return "", nil, err
	}

	compact := encoding.Base64URLEncode(headerJSON) + ".." + encoding.Base64URLEncode(sig)
	return compact, payloadJSON, nil
}

func (s *Signer) sign(ctx context.Context, signingInput []byte) ([]byte, error) {
	if s.privateKey != nil {
		digest := sha256.Sum256(signingInput)
		return rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	}

	if !s.degradedAllowed || len(s.hmacSecret) == 0 {
		return nil, errors.New("jws: no signing key available and degraded mode is not allowed")
	}
	if s.productionLocked {
		return nil, errors.New("jws: HMAC fallback is disabled in production")
	}
	if s.logger != nil {
		s.logger.LogDegraded(ctx, "jws_signer", "signing with HMAC fallback, no RSA key configured")
	}
	mac := hmac.New(sha256.New, s.hmacSecret)
	mac.Write(signingInput)
	return mac.Sum(nil), nil
}

// Verify mirrors Sign for tests: it recomputes the signing input from
// header and payload, decodes the signature segment, and checks it against
// either the RSA public key or the HMAC secret, matching whichever
// mechanism signed it (determined by the presence of an RSA public key).
func Verify(compact string, payload []byte, publicKey *rsa.PublicKey, hmacSecret []byte) (bool, error) {
	headerB64, sigB64, err := splitDetached(compact)
	if err != nil {
		return false, err
	}

	signingInput := headerB64 + "." + encoding.Base64URLEncode(payload)
	sig, err := encoding.Base64URLDecode(sigB64)
	if err != nil {
		return false, fmt.Errorf("decode jws signature: %w", err)
	}

	if publicKey != nil {
		digest := sha256.Sum256([]byte(signingInput))
		return rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], sig) == nil, nil
	}
	if len(hmacSecret) > 0 {
		mac := hmac.New(sha256.New, hmacSecret)
		mac.Write([]byte(signingInput))
		return hmac.Equal(mac.Sum(nil), sig), nil
	}
	return false, errors.New("jws: no verification key provided")
}

// splitDetached splits a "header..signature" compact serialisation into its
// header and signature segments, rejecting anything that isn't detached.
func splitDetached(compact string) (headerB64, sigB64 string, err error) {
	parts := make([]string, 0, 3)
	start := 0
	for i := 0; i < len(compact); i++ {
		if compact[i] == '.' {
			parts = append(parts, compact[start:i])
			start = i + 1
		}
	}
	parts = append(parts, compact[start:])
	if len(parts) != 3 || parts[1] != "" {
		return "", "", errors.New("jws: not a detached compact serialisation")
	}
	return parts[0], parts[2], nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.New("jws: invalid PEM block")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jws: parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("jws: private key is not RSA")
	}
	return key, nil
}
