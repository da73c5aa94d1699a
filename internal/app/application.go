// Package app wires every domain service behind the C1-C14 operation
// surface plus the NovaScore façade, generalised from the teacher's
// Stores/Option/Start-Stop application shape to this engine's analysers.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/novacredit/engine/internal/domain/aa"
	"github.com/novacredit/engine/internal/domain/aadhaar"
	"github.com/novacredit/engine/internal/domain/consent"
	"github.com/novacredit/engine/internal/domain/consent/memory"
	"github.com/novacredit/engine/internal/domain/gst"
	"github.com/novacredit/engine/internal/domain/identity"
	"github.com/novacredit/engine/internal/domain/jws"
	"github.com/novacredit/engine/internal/domain/quiz"
	"github.com/novacredit/engine/internal/domain/scoring"
	"github.com/novacredit/engine/internal/domain/social"
	"github.com/novacredit/engine/internal/domain/transactions"
	"github.com/novacredit/engine/internal/domain/upi"
	"github.com/novacredit/engine/internal/domain/utility"
	"github.com/novacredit/engine/internal/platform/config"
	"github.com/novacredit/engine/internal/platform/logging"
	"github.com/novacredit/engine/internal/platform/metrics"
	"github.com/novacredit/engine/internal/platform/sms"
)

// Stores encapsulates the persistence dependencies that have a real-backend
// choice. Nil fields default to the in-memory implementation, the same
// posture the teacher's Stores.applyDefaults takes.
type Stores struct {
	ConsentPrimary  consent.Store
	IdentityTracker identity.Tracker
}

// Option customises the application's ambient and upstream wiring.
type Option func(*options)

type options struct {
	logger         *logging.Logger
	metrics        *metrics.Metrics
	aadhaarBackend aadhaar.Backend
	aaBackend      aa.Backend
	smsSender      sms.Sender
	jwsSigner      *jws.Signer
	gstFetcher     gst.GSPFetcher
	utilityFetcher utility.BBPSFetcher
	socialFetcher  social.PlatformFetcher
}

// WithLogger overrides the structured logger every service shares.
func WithLogger(l *logging.Logger) Option { return func(o *options) { o.logger = l } }

// WithMetrics overrides the Prometheus metrics recorder.
func WithMetrics(m *metrics.Metrics) Option { return func(o *options) { o.metrics = m } }

// WithAadhaarBackend injects the UIDAI transport.
func WithAadhaarBackend(b aadhaar.Backend) Option { return func(o *options) { o.aadhaarBackend = b } }

// WithAABackend injects the Account Aggregator transport.
func WithAABackend(b aa.Backend) Option { return func(o *options) { o.aaBackend = b } }

// WithSMSSender injects the OTP delivery capability.
func WithSMSSender(s sms.Sender) Option { return func(o *options) { o.smsSender = s } }

// WithJWSSigner injects the detached-JWS signer used for AA payloads.
func WithJWSSigner(s *jws.Signer) Option { return func(o *options) { o.jwsSigner = s } }

// WithGSTFetcher injects the GSP capability behind gst.fetch.
func WithGSTFetcher(f gst.GSPFetcher) Option { return func(o *options) { o.gstFetcher = f } }

// WithUtilityFetcher injects the BBPS capability behind utility.fetch.
func WithUtilityFetcher(f utility.BBPSFetcher) Option { return func(o *options) { o.utilityFetcher = f } }

// WithSocialFetcher injects the per-platform metadata capability behind social.connect.
func WithSocialFetcher(f social.PlatformFetcher) Option { return func(o *options) { o.socialFetcher = f } }

// Application ties every domain service together and manages the
// background sweeper's lifecycle.
type Application struct {
	Aadhaar *aadhaar.Service
	Consent *consent.Service
	AA      *aa.Service
	Social  *social.Aggregator

	gstFetcher     gst.GSPFetcher
	utilityFetcher utility.BBPSFetcher

	identityTracker identity.Tracker
	logger          *logging.Logger
	metrics         *metrics.Metrics
	cron            *cron.Cron
}

// New builds a fully wired Application from cfg and stores.
func New(cfg *config.Config, stores Stores, opts ...Option) (*Application, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.logger == nil {
		o.logger = logging.NewFromEnv(cfg.ServiceName)
	}
	if o.metrics == nil {
		// Unregistered collectors: the process entry point injects the
		// default-registered instance; constructing a second Application
		// (tests, tools) must not collide on the global registry.
		o.metrics = metrics.NewWithRegistry(cfg.ServiceName, nil)
	}
	if o.smsSender == nil {
		o.smsSender = sms.NewNoopSender()
	}
	if o.gstFetcher == nil {
		o.gstFetcher = gst.NewSampleGSPFetcher()
	}
	if o.utilityFetcher == nil {
		o.utilityFetcher = utility.NewSampleBBPSFetcher()
	}
	if o.socialFetcher == nil {
		o.socialFetcher = social.NewSampleFetcher()
	}
	uidaiPublicKeyPEM, err := readKeyPEM(cfg.UIDAIPublicKeyPath, cfg.DegradedModeAllowed, o.logger, "uidai_public_key")
	if err != nil {
		return nil, err
	}
	aaPrivateKeyPEM, err := readKeyPEM(cfg.AAPrivateKeyPath, cfg.DegradedModeAllowed, o.logger, "aa_private_key")
	if err != nil {
		return nil, err
	}

	if o.jwsSigner == nil {
		o.jwsSigner = jws.NewSigner(jws.Config{
			ClientID:            cfg.ServiceName,
			PrivateKeyPEM:       aaPrivateKeyPEM,
			HMACSecret:          []byte(cfg.JWTSecret),
			DegradedModeAllowed: cfg.DegradedModeAllowed,
		}, o.logger)
	}
	if o.aadhaarBackend == nil {
		return nil, fmt.Errorf("aadhaar backend must be configured")
	}
	if o.aaBackend == nil {
		return nil, fmt.Errorf("account aggregator backend must be configured")
	}

	tracker := stores.IdentityTracker
	if tracker == nil {
		tracker = identity.NewStore(cfg.AadhaarMaxTries, cfg.AadhaarLockout)
	}

	aadhaarService := aadhaar.NewService(tracker, o.smsSender, o.aadhaarBackend, aadhaar.Config{
		UIDAIPublicKeyPEM:   uidaiPublicKeyPEM,
		JWTSecret:           []byte(cfg.JWTSecret),
		JWTExpiry:           cfg.JWTExpiry,
		TestOTP:             cfg.TestOTP,
		DegradedModeAllowed: cfg.DegradedModeAllowed,
	})

	consentService := consent.NewService(stores.ConsentPrimary, memory.New(), o.logger)

	aaService := aa.NewService(o.aaBackend, o.jwsSigner, aa.NewSessionStore(), aa.Config{
		DegradedAllowed: cfg.DegradedModeAllowed,
	}, o.logger)

	socialAggregator := social.NewAggregator(o.socialFetcher)

	return &Application{
		Aadhaar:         aadhaarService,
		Consent:         consentService,
		AA:              aaService,
		Social:          socialAggregator,
		gstFetcher:      o.gstFetcher,
		utilityFetcher:  o.utilityFetcher,
		identityTracker: tracker,
		logger:          o.logger,
		metrics:         o.metrics,
	}, nil
}

// readKeyPEM loads a key PEM at startup, the one file read the concurrency
// model permits. A missing path is not an error (the component runs without
// the key); a configured-but-unreadable path is fatal unless degraded mode
// is allowed, in which case the affected pipeline falls back to its
// documented sentinel behaviour.
func readKeyPEM(path string, degradedAllowed bool, logger *logging.Logger, label string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		if !degradedAllowed {
			return nil, fmt.Errorf("read %s: %w", label, err)
		}
		if logger != nil {
			logger.LogDegraded(context.Background(), label, err.Error())
		}
		return nil, nil
	}
	return pemBytes, nil
}

// Start begins the application's background maintenance sweeper: identity
// lockout-record cleanup on a fixed interval, mirroring the teacher's
// manager.Start lifecycle hook.
func (a *Application) Start(ctx context.Context) error {
	a.cron = cron.New()
	type sweepable interface{ Sweep() int }
	if sweeper, ok := a.identityTracker.(sweepable); ok {
		_, err := a.cron.AddFunc("@every 5m", func() {
			cleared := sweeper.Sweep()
			if cleared > 0 && a.logger != nil {
				a.logger.WithFields(map[string]interface{}{"cleared": cleared}).Info("identity sweep completed")
			}
		})
		if err != nil {
			return fmt.Errorf("schedule identity sweep: %w", err)
		}
	}
	a.cron.Start()
	return nil
}

// Stop halts the background sweeper, waiting for any in-flight run to finish.
func (a *Application) Stop(ctx context.Context) error {
	if a.cron != nil {
		stopCtx := a.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// FIFetch runs fi.fetch (C7): retrieves and decrypts the financial data
// for sessionID, then hands the plaintext to the transaction parser (C8)
// and returns the cashflow analysis alongside the request metadata.
func (a *Application) FIFetch(ctx context.Context, sessionID, fipID string, linkRefNumbers []string) (aa.FetchResult, transactions.Analytics, error) {
	result, err := a.AA.FetchFI(ctx, sessionID, fipID, linkRefNumbers)
	if err != nil {
		return aa.FetchResult{}, transactions.Analytics{}, err
	}
	txns, err := transactions.ParseTransactions(result.Plaintext)
	if err != nil {
		return aa.FetchResult{}, transactions.Analytics{}, err
	}
	return result, transactions.Analyse(txns), nil
}

// UPIAnalyse runs the UPI analyser (C9) over raw transaction records.
func (a *Application) UPIAnalyse(raw []byte) (upi.Analytics, error) {
	txns, err := transactions.ParseTransactions(raw)
	if err != nil {
		return upi.Analytics{}, err
	}
	inputs := make([]upi.Input, 0, len(txns))
	for _, t := range txns {
		inputs = append(inputs, upi.Input{
			Date:      t.Date.Format(time.RFC3339),
			Mode:      t.Mode,
			Amount:    t.Amount,
			Narration: t.Narration,
		})
	}
	return upi.Analyse(inputs), nil
}

// TransactionsAnalyse runs the cashflow analyser (C8) over raw transaction records.
func (a *Application) TransactionsAnalyse(raw []byte) (transactions.Analytics, error) {
	txns, err := transactions.ParseTransactions(raw)
	if err != nil {
		return transactions.Analytics{}, err
	}
	return transactions.Analyse(txns), nil
}

// GSTFetch runs gst.fetch (C10): retrieve a GSTIN's filing history via the
// configured GSPFetcher and score its compliance.
func (a *Application) GSTFetch(ctx context.Context, gstin string, returnTypes []gst.ReturnType) (gst.Report, bool, error) {
	filings, degraded, err := a.gstFetcher.FetchFilings(ctx, gstin, returnTypes)
	if err != nil {
		return gst.Report{}, false, err
	}
	return gst.AnalyseFilings(filings), degraded, nil
}

// UtilityFetch runs utility.fetch (C11): retrieve a mobile number's bill
// history via the configured BBPSFetcher and score its reliability.
func (a *Application) UtilityFetch(ctx context.Context, mobile string, categories []string) (utility.Report, bool, error) {
	bills, degraded, err := a.utilityFetcher.FetchBills(ctx, mobile, categories)
	if err != nil {
		return utility.Report{}, false, err
	}
	return utility.AnalyseBills(bills), degraded, nil
}

// QuizQuestions runs behaviour.questions (C12): selects a fresh randomised
// question set. The second return value is the ids of the selected
// questions; QuizSubmit does not check responses against them.
func (a *Application) QuizQuestions() ([]quiz.PresentedQuestion, []int) {
	return quiz.SelectQuestions()
}

// QuizSubmit runs behaviour.submit (C12): validates and scores responses.
func (a *Application) QuizSubmit(responses []quiz.Response) (quiz.ScoredQuiz, error) {
	if err := quiz.ValidateResponses(responses); err != nil {
		return quiz.ScoredQuiz{}, err
	}
	return quiz.Score(responses)
}

// SocialConnect runs social.connect (C13): validates profile URLs, fetches
// per-platform metadata, and returns the aggregated social score.
func (a *Application) SocialConnect(ctx context.Context, profileURLs []string) (social.ScoreResult, social.Record, error) {
	return a.Social.Connect(ctx, profileURLs)
}

// ScoreApplication is the NovaScore façade (C14): it combines whatever
// signals the caller has already computed from the upstream analysers into
// a single score. Per DESIGN.md's Open Question #1, it does not itself
// re-run every upstream analyser — callers assemble scoring.Input from the
// operations they've already invoked.
func (a *Application) ScoreApplication(in scoring.Input) (scoring.Result, error) {
	return scoring.Compute(in, time.Now())
}
