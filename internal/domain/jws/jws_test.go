package jws

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novacredit/engine/internal/platform/logging"
)

func generateKeyPEM(t *testing.T) ([]byte, *rsa.PublicKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der := x509.MarshalPKCS1PrivateKey(key)
	block := &pem.Block{Type: "RSA PRIVATE KEY", Bytes: der}
	return pem.EncodeToMemory(block), &key.PublicKey
}

func TestSignProducesDetachedCompactSerialisation(t *testing.T) {
	keyPEM, _ := generateKeyPEM(t)
	s := NewSigner(Config{ClientID: "client-1", PrivateKeyPEM: keyPEM}, nil)

	compact, payload, err := s.Sign(context.Background(), map[string]any{"foo": "bar"})
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	parts := strings.Split(compact, ".")
	require.Len(t, parts, 3)
	require.Empty(t, parts[1])
}

func TestSignVerifyRoundTripRSA(t *testing.T) {
	keyPEM, pub := generateKeyPEM(t)
	s := NewSigner(Config{ClientID: "client-1", PrivateKeyPEM: keyPEM}, nil)

	payload := map[string]any{"consentId": "c-1", "fiType": "DEPOSIT"}
	compact, payloadJSON, err := s.Sign(context.Background(), payload)
	require.NoError(t, err)

	ok, err := Verify(compact, payloadJSON, pub, nil)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	keyPEM, pub := generateKeyPEM(t)
	s := NewSigner(Config{ClientID: "client-1", PrivateKeyPEM: keyPEM}, nil)

	compact, _, err := s.Sign(context.Background(), map[string]any{"a": 1})
	require.NoError(t, err)

	tampered := []byte(`{"a":2}`)

	ok, err := Verify(compact, tampered, pub, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignFallsBackToHMACWhenNoKeyAndDegradedAllowed(t *testing.T) {
	s := NewSigner(Config{
		ClientID:            "client-1",
		HMACSecret:          []byte("shared-secret"),
		DegradedModeAllowed: true,
	}, logging.New("test", "error", "text"))

	compact, payloadJSON, err := s.Sign(context.Background(), map[string]any{"a": 1})
	require.NoError(t, err)

	ok, err := Verify(compact, payloadJSON, nil, []byte("shared-secret"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSignFailsWithoutKeyWhenDegradedModeNotAllowed(t *testing.T) {
	s := NewSigner(Config{ClientID: "client-1"}, nil)
	_, _, err := s.Sign(context.Background(), map[string]any{"a": 1})
	require.Error(t, err)
}

func TestSignRefusesHMACFallbackWhenProductionLocked(t *testing.T) {
	s := NewSigner(Config{
		ClientID:            "client-1",
		HMACSecret:          []byte("shared-secret"),
		DegradedModeAllowed: true,
		ProductionLocked:    true,
	}, nil)
	_, _, err := s.Sign(context.Background(), map[string]any{"a": 1})
	require.Error(t, err)
}
