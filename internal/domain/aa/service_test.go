package aa

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacredit/engine/internal/domain/jws"
	platcrypto "github.com/novacredit/engine/internal/platform/crypto"
)

type fakeBackend struct {
	failRequest bool
	failFetch   bool
	sessionID   string
	fetchResp   map[string]any
}

func (b *fakeBackend) SubmitFIRequest(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	if b.failRequest {
		return nil, errors.New("aa unreachable")
	}
	return map[string]any{"sessionId": b.sessionID}, nil
}

func (b *fakeBackend) SubmitFIFetch(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	if b.failFetch {
		return nil, errors.New("aa unreachable")
	}
	return b.fetchResp, nil
}

func newTestSigner() *jws.Signer {
	return jws.NewSigner(jws.Config{
		ClientID:            "test-client",
		HMACSecret:          []byte("test-hmac-secret"),
		DegradedModeAllowed: true,
	}, nil)
}

func TestRequestFIHappyPath(t *testing.T) {
	backend := &fakeBackend{sessionID: "sess-123"}
	svc := NewService(backend, newTestSigner(), NewSessionStore(), Config{DegradedAllowed: true}, nil)

	result, err := svc.RequestFI(context.Background(), RequestInput{
		ConsentID: "11111111-1111-4111-8111-111111111111",
		FIType:    "DEPOSIT",
		From:      time.Now().Add(-30 * 24 * time.Hour),
		To:        time.Now(),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.TxnID)
	assert.Equal(t, "sess-123", result.SessionID)
	assert.False(t, result.Degraded)
	assert.NotEmpty(t, result.JWSSignature)
}

func TestRequestFIDegradesOnUpstreamFailure(t *testing.T) {
	backend := &fakeBackend{failRequest: true}
	svc := NewService(backend, newTestSigner(), NewSessionStore(), Config{DegradedAllowed: true}, nil)

	result, err := svc.RequestFI(context.Background(), RequestInput{
		ConsentID: "11111111-1111-4111-8111-111111111111",
		FIType:    "DEPOSIT",
		From:      time.Now().Add(-30 * 24 * time.Hour),
		To:        time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Contains(t, result.SessionID, "dev-session-")
}

func TestFetchFIDecryptsEncryptedBlob(t *testing.T) {
	sessions := NewSessionStore()
	key, err := platcrypto.RandomBytes(platcrypto.KeySize)
	require.NoError(t, err)
	plaintext := []byte(`{"Transactions":{"Transaction":[{"amount":"100.00"}]}}`)
	blob, err := platcrypto.SealAESGCMBlob(key, plaintext)
	require.NoError(t, err)

	sessions.Put(Session{TxnID: "txn-1", SessionID: "sess-abc", SessionKey: key})

	backend := &fakeBackend{fetchResp: map[string]any{
		"encryptedFI": base64.StdEncoding.EncodeToString(blob),
	}}
	svc := NewService(backend, newTestSigner(), sessions, Config{DegradedAllowed: true}, nil)

	result, err := svc.FetchFI(context.Background(), "sess-abc", "", nil)
	require.NoError(t, err)
	assert.Equal(t, plaintext, result.Plaintext)
	assert.False(t, result.Degraded)
}

func TestFetchFIUnknownSession(t *testing.T) {
	svc := NewService(&fakeBackend{}, newTestSigner(), NewSessionStore(), Config{DegradedAllowed: true}, nil)
	_, err := svc.FetchFI(context.Background(), "nope", "", nil)
	assert.Error(t, err)
}
