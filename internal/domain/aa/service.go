package aa

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/curve25519"

	"github.com/novacredit/engine/internal/domain/jws"
	platcrypto "github.com/novacredit/engine/internal/platform/crypto"
	"github.com/novacredit/engine/internal/platform/encoding"
	platerrors "github.com/novacredit/engine/internal/platform/errors"
	"github.com/novacredit/engine/internal/platform/logging"
)

// Config carries the pipeline's tunables. The AA credentials
// (client_api_key, fiu_entity_id) live with the Backend transport, not
// here — the pipeline never sees them.
type Config struct {
	FIPID           string
	DegradedAllowed bool
}

// Service implements the C7 AA FI-request/fetch pipeline: it builds and
// signs request payloads, dispatches them to the injected Backend, tracks
// the resulting session, and decrypts fetched financial data.
type Service struct {
	backend  Backend
	signer   *jws.Signer
	sessions *SessionStore
	cfg      Config
	logger   *logging.Logger
}

// NewService wires an AA pipeline service.
func NewService(backend Backend, signer *jws.Signer, sessions *SessionStore, cfg Config, logger *logging.Logger) *Service {
	return &Service{backend: backend, signer: signer, sessions: sessions, cfg: cfg, logger: logger}
}

// generateDHKeyMaterial derives a Curve25519 key pair for the FI-request's
// KeyMaterial.DHPublicKey placeholder (§6.2). The AA protocol's actual ECDH
// handshake is out of this core's scope; this produces a well-formed
// placeholder of the right shape and size rather than an empty string.
func generateDHKeyMaterial() (privHex, pubHex string, err error) {
	var priv [32]byte
	random, err := platcrypto.RandomBytes(32)
	if err != nil {
		return "", "", err
	}
	copy(priv[:], random)
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return "", "", err
	}
	return hex.EncodeToString(priv[:]), hex.EncodeToString(pub), nil
}

// buildFIRequestPayload renders the §6.2 JSON body.
func buildFIRequestPayload(txnID string, in RequestInput, nonce, dhPublicKey, fipID string, now time.Time) map[string]any {
	return map[string]any{
		"ver":       "2.0.0",
		"timestamp": encoding.ISO8601Z(now),
		"txnid":     txnID,
		"Consent": map[string]any{
			"id":               in.ConsentID,
			"digitalSignature": "",
		},
		"FIDataRange": map[string]any{
			"from": encoding.ISO8601Z(in.From),
			"to":   encoding.ISO8601Z(in.To),
		},
		"KeyMaterial": map[string]any{
			"cryptoAlg": "ECDH",
			"curve":     "Curve25519",
			"params":    map[string]any{"KeyPairGenerator": "ECDH"},
			"DHPublicKey": map[string]any{
				"expiry":     encoding.ISO8601Z(now.Add(24 * time.Hour)),
				"Parameters": "",
				"KeyValue":   dhPublicKey,
			},
			"Nonce": nonce,
		},
		"FI": []map[string]any{
			{
				"fipId": fipID,
				"data": []map[string]any{
					{
						"linkRefNumber":   in.LinkRef,
						"maskedAccNumber": in.MaskedAccount,
						"fiType":          in.FIType,
					},
				},
			},
		},
	}
}

// RequestFI builds, signs and dispatches an FI-request, then stores the
// resulting session keyed by the generated txn_id.
func (s *Service) RequestFI(ctx context.Context, in RequestInput) (RequestResult, error) {
	if in.ConsentID == "" || in.FIType == "" {
		return RequestResult{}, platerrors.Validation("consent_id and fi_type are required", nil)
	}

	txnID := uuid.New().String()
	now := time.Now()

	nonceBytes, err := platcrypto.RandomBytes(16)
	if err != nil {
		return RequestResult{}, platerrors.Internal("generate nonce", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	_, dhPub, err := generateDHKeyMaterial()
	if err != nil {
		return RequestResult{}, platerrors.Internal("generate ecdh key material", err)
	}

	payload := buildFIRequestPayload(txnID, in, nonce, dhPub, s.cfg.FIPID, now)

	compactJWS, payloadJSON, err := s.signer.Sign(ctx, payload)
	if err != nil {
		return RequestResult{}, platerrors.Internal("sign fi request", err)
	}
	_ = payloadJSON

	sessionKey, err := platcrypto.RandomBytes(platcrypto.KeySize)
	if err != nil {
		return RequestResult{}, platerrors.Internal("generate session key", err)
	}

	resp, dispatchErr := s.backend.SubmitFIRequest(ctx, payload, compactJWS)

	degraded := false
	sessionID := ""
	if dispatchErr != nil {
		if !s.cfg.DegradedAllowed {
			return RequestResult{}, platerrors.UpstreamUnreachable("aa", dispatchErr)
		}
		degraded = true
		sessionID = "dev-session-" + txnID[:8]
		if s.logger != nil {
			s.logger.LogDegraded(ctx, "aa_fi_request", dispatchErr.Error())
		}
		resp = map[string]any{}
	} else {
		sessionID = extractSessionID(resp)
		if sessionID == "" {
			sessionID = "dev-session-" + txnID[:8]
			degraded = true
		}
	}

	session := Session{
		TxnID:               txnID,
		SessionID:           sessionID,
		ConsentID:           in.ConsentID,
		FIType:              in.FIType,
		MaskedAccountNumber: in.MaskedAccount,
		Status:              SessionPending,
		CreatedAt:           now,
		Payload:             payload,
		JWSSignature:        compactJWS,
		Degraded:            degraded,
		SessionKey:          sessionKey,
	}
	s.sessions.Put(session)

	return RequestResult{
		TxnID:        txnID,
		SessionID:    sessionID,
		Timestamp:    encoding.ISO8601Z(now),
		JWSSignature: compactJWS,
		AAResponse:   resp,
		Degraded:     degraded,
	}, nil
}

// extractSessionID reads response.sessionId or response.SessionId,
// tolerating the AA ecosystem's inconsistent casing.
func extractSessionID(resp map[string]any) string {
	if v, ok := resp["sessionId"].(string); ok {
		return v
	}
	if v, ok := resp["SessionId"].(string); ok {
		return v
	}
	return ""
}

// FetchFI builds and signs an FI-fetch request, dispatches it, decrypts the
// returned encrypted blob (or uses a plaintext FI field directly), and
// returns the decrypted payload ready for the transaction parser.
func (s *Service) FetchFI(ctx context.Context, sessionID, fipID string, linkRefNumbers []string) (FetchResult, error) {
	if sessionID == "" {
		return FetchResult{}, platerrors.Validation("session_id is required", nil)
	}

	session, ok := s.sessions.GetBySessionID(sessionID)
	if !ok {
		return FetchResult{}, platerrors.NotFound("aa_session", sessionID)
	}

	now := time.Now()
	payload := map[string]any{
		"ver":           "2.0.0",
		"timestamp":     encoding.ISO8601Z(now),
		"txnid":         session.TxnID,
		"sessionId":     sessionID,
		"fipId":         fipID,
		"linkRefNumber": linkRefNumbers,
	}

	compactJWS, _, err := s.signer.Sign(ctx, payload)
	if err != nil {
		return FetchResult{}, platerrors.Internal("sign fi fetch", err)
	}

	resp, dispatchErr := s.backend.SubmitFIFetch(ctx, payload, compactJWS)
	if dispatchErr != nil {
		if !s.cfg.DegradedAllowed {
			s.sessions.UpdateStatus(session.TxnID, SessionFailed)
			return FetchResult{}, platerrors.UpstreamUnreachable("aa", dispatchErr)
		}
		if s.logger != nil {
			s.logger.LogDegraded(ctx, "aa_fi_fetch", dispatchErr.Error())
		}
		resp = map[string]any{}
	}

	plaintext, degraded, err := s.decryptResponse(resp, session)
	if err != nil {
		s.sessions.UpdateStatus(session.TxnID, SessionFailed)
		return FetchResult{}, err
	}

	s.sessions.UpdateStatus(session.TxnID, SessionReady)

	return FetchResult{
		TxnID:     session.TxnID,
		SessionID: sessionID,
		Plaintext: plaintext,
		Degraded:  degraded || session.Degraded,
	}, nil
}

// decryptResponse pulls the plaintext FI payload out of an AA FI-fetch
// response: a base64 IV||ciphertext||tag blob under encryptedFI, a
// plaintext FI field if no encrypted blob is present, or (degraded mode
// only) the session's own synthesised sample data.
func (s *Service) decryptResponse(resp map[string]any, session Session) ([]byte, bool, error) {
	if enc, ok := resp["encryptedFI"].(string); ok && enc != "" {
		blob, err := encoding.Base64StdDecode(enc)
		if err != nil {
			return nil, false, platerrors.DecryptionFailed(err)
		}
		plaintext, err := platcrypto.OpenAESGCMBlob(session.SessionKey, blob)
		if err != nil {
			return nil, false, err
		}
		return plaintext, false, nil
	}

	if fi, ok := resp["FI"]; ok {
		if raw, err := jsonMarshal(fi); err == nil {
			return raw, false, nil
		}
	}

	if s.cfg.DegradedAllowed {
		return []byte(`{"Transactions":[]}`), true, nil
	}

	return nil, false, platerrors.DecryptionFailed(errNoFIData)
}
