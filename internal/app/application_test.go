package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novacredit/engine/internal/domain/consent"
	"github.com/novacredit/engine/internal/domain/gst"
	"github.com/novacredit/engine/internal/domain/quiz"
	"github.com/novacredit/engine/internal/domain/scoring"
	"github.com/novacredit/engine/internal/platform/config"
)

type fakeAadhaarBackend struct{}

func (fakeAadhaarBackend) SubmitAuth(ctx context.Context, uidFirst, uidSecond string, envelope []byte) ([]byte, error) {
	return []byte(`<AuthRes ret="y"/>`), nil
}

type fakeAABackend struct{}

func (fakeAABackend) SubmitFIRequest(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	return map[string]any{"sessionId": "sess-123"}, nil
}

func (fakeAABackend) SubmitFIFetch(ctx context.Context, payload map[string]any, jwsSignature string) (map[string]any, error) {
	return map[string]any{}, nil
}

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	cfg := config.FromEnv()
	application, err := New(cfg, Stores{},
		WithAadhaarBackend(fakeAadhaarBackend{}),
		WithAABackend(fakeAABackend{}),
	)
	require.NoError(t, err)
	return application
}

func TestApplicationLifecycle(t *testing.T) {
	application := newTestApplication(t)

	ctx := context.Background()
	require.NoError(t, application.Start(ctx))
	require.NoError(t, application.Stop(ctx))
}

func TestApplicationNewRequiresBackends(t *testing.T) {
	cfg := config.FromEnv()
	_, err := New(cfg, Stores{})
	assert.Error(t, err)
}

func TestApplicationAadhaarInitiateAndVerify(t *testing.T) {
	application := newTestApplication(t)
	ctx := context.Background()

	initiated, err := application.Aadhaar.Initiate(ctx, "123456789012", "+919999999999")
	require.NoError(t, err)
	assert.NotEmpty(t, initiated.TxnID)

	verified, err := application.Aadhaar.Verify(ctx, "123456789012", "123456", initiated.TxnID)
	require.NoError(t, err)
	assert.NotEmpty(t, verified.JWT)
}

func consentCreateInputFixture() consent.CreateInput {
	now := time.Now()
	return consent.CreateInput{
		UserReferenceID: "user-1",
		FITypes:         []consent.FIType{consent.FITypeDeposit},
		DataRange:       consent.DataRange{From: now.AddDate(-1, 0, 0), To: now},
		DataLife:        consent.DataLife{Unit: consent.DataLifeMonth, Value: 1},
	}
}

func TestApplicationConsentLifecycle(t *testing.T) {
	application := newTestApplication(t)
	ctx := context.Background()

	artefact, err := application.Consent.Create(ctx, consentCreateInputFixture())
	require.NoError(t, err)
	assert.NotEmpty(t, artefact.ConsentID)

	fetched, err := application.Consent.Get(ctx, artefact.ConsentID)
	require.NoError(t, err)
	assert.Equal(t, artefact.ConsentID, fetched.ConsentID)
}

func TestApplicationGSTFetchUsesSampleFetcher(t *testing.T) {
	application := newTestApplication(t)
	report, degraded, err := application.GSTFetch(context.Background(), "29ABCDE1234F1Z5", []gst.ReturnType{gst.ReturnGSTR1})
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, report.Results)
}

func TestApplicationUtilityFetchUsesSampleFetcher(t *testing.T) {
	application := newTestApplication(t)
	report, degraded, err := application.UtilityFetch(context.Background(), "9999999999", nil)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, report.Results)
}

func TestApplicationQuizRoundTrip(t *testing.T) {
	application := newTestApplication(t)
	questions, _ := application.QuizQuestions()
	require.Len(t, questions, quiz.QuizSize)

	responses := make([]quiz.Response, len(questions))
	for i, q := range questions {
		responses[i] = quiz.Response{ID: q.ID, Choice: "Often"}
	}

	scored, err := application.QuizSubmit(responses)
	require.NoError(t, err)
	assert.NotEmpty(t, scored.Persona)
}

func TestApplicationSocialConnect(t *testing.T) {
	application := newTestApplication(t)
	result, record, err := application.SocialConnect(context.Background(), []string{
		"https://www.linkedin.com/in/jane-doe",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record.SessionID)
	assert.GreaterOrEqual(t, result.SocialScore, 0.0)
}

func TestApplicationScoreApplication(t *testing.T) {
	application := newTestApplication(t)
	result, err := application.ScoreApplication(scoring.Input{UPITotalInflow: 100, UPITotalOutflow: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AuditHash)
}
