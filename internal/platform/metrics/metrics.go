// Package metrics exposes Prometheus collectors for the HTTP surface and
// for the domain lifecycles worth watching operationally: OTP attempts,
// consent transitions, FI fetch latency and scoring runs.
package metrics

import (
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every collector the engine registers.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	ErrorsTotal *prometheus.CounterVec

	OTPAttemptsTotal     *prometheus.CounterVec
	OTPLockoutsTotal     prometheus.Counter
	ConsentTransitions   *prometheus.CounterVec
	FIFetchDuration      *prometheus.HistogramVec
	FIFetchFailuresTotal *prometheus.CounterVec
	ScoringRunsTotal     *prometheus.CounterVec
	ScoringDuration      prometheus.Histogram

	ServiceInfo *prometheus.GaugeVec
}

// New creates a Metrics instance registered against the default registerer.
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Metrics instance registered against registerer;
// a nil registerer skips registration (useful for isolated unit tests).
func NewWithRegistry(serviceName string, registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total number of HTTP requests"},
			[]string{"service", "method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service", "method", "path"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "http_requests_in_flight", Help: "Requests currently being processed"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "errors_total", Help: "Total number of errors by kind and operation"},
			[]string{"service", "code", "operation"},
		),
		OTPAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "aadhaar_otp_attempts_total", Help: "Aadhaar OTP verification attempts"},
			[]string{"service", "result"},
		),
		OTPLockoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "aadhaar_otp_lockouts_total", Help: "Identities placed into OTP lockout"},
		),
		ConsentTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "consent_transitions_total", Help: "Consent artefact lifecycle transitions"},
			[]string{"service", "from_status", "to_status"},
		),
		FIFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "aa_fi_fetch_duration_seconds",
				Help:    "Account Aggregator FI data fetch duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"service", "fi_type"},
		),
		FIFetchFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "aa_fi_fetch_failures_total", Help: "Account Aggregator FI data fetch failures"},
			[]string{"service", "reason"},
		),
		ScoringRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "scoring_runs_total", Help: "NovaScore computations by degraded-input outcome"},
			[]string{"service", "degraded"},
		),
		ScoringDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "scoring_duration_seconds",
				Help:    "Time to assemble a NovaScore across all analysers",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		ServiceInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "service_info", Help: "Static service metadata"},
			[]string{"service", "environment"},
		),
	}

	if registerer != nil {
		registerer.MustRegister(
			m.RequestsTotal,
			m.RequestDuration,
			m.RequestsInFlight,
			m.ErrorsTotal,
			m.OTPAttemptsTotal,
			m.OTPLockoutsTotal,
			m.ConsentTransitions,
			m.FIFetchDuration,
			m.FIFetchFailuresTotal,
			m.ScoringRunsTotal,
			m.ScoringDuration,
			m.ServiceInfo,
		)
	}

	m.ServiceInfo.WithLabelValues(serviceName, environment()).Set(1)
	return m
}

// RecordHTTPRequest records one completed HTTP request.
func (m *Metrics) RecordHTTPRequest(service, method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(service, method, path, status).Inc()
	m.RequestDuration.WithLabelValues(service, method, path).Observe(duration.Seconds())
}

// RecordError increments the error counter for a service error code.
func (m *Metrics) RecordError(service, code, operation string) {
	m.ErrorsTotal.WithLabelValues(service, code, operation).Inc()
}

// RecordOTPAttempt records an Aadhaar OTP verification outcome ("success",
// "mismatch", "expired", "locked").
func (m *Metrics) RecordOTPAttempt(service, result string) {
	m.OTPAttemptsTotal.WithLabelValues(service, result).Inc()
}

// RecordOTPLockout records an identity entering lockout.
func (m *Metrics) RecordOTPLockout() {
	m.OTPLockoutsTotal.Inc()
}

// RecordConsentTransition records a consent artefact moving between states.
func (m *Metrics) RecordConsentTransition(service, from, to string) {
	m.ConsentTransitions.WithLabelValues(service, from, to).Inc()
}

// RecordFIFetch records the latency of one Account Aggregator FI fetch.
func (m *Metrics) RecordFIFetch(service, fiType string, duration time.Duration) {
	m.FIFetchDuration.WithLabelValues(service, fiType).Observe(duration.Seconds())
}

// RecordFIFetchFailure records a failed FI fetch by reason ("timeout",
// "unreachable", "decrypt_failed").
func (m *Metrics) RecordFIFetchFailure(service, reason string) {
	m.FIFetchFailuresTotal.WithLabelValues(service, reason).Inc()
}

// RecordScoringRun records one NovaScore computation; degraded is true when
// one or more analysers fell back to neutral/absent-signal handling.
func (m *Metrics) RecordScoringRun(service string, degraded bool, duration time.Duration) {
	label := "false"
	if degraded {
		label = "true"
	}
	m.ScoringRunsTotal.WithLabelValues(service, label).Inc()
	m.ScoringDuration.Observe(duration.Seconds())
}

// IncrementInFlight / DecrementInFlight track concurrent in-flight requests.
func (m *Metrics) IncrementInFlight() { m.RequestsInFlight.Inc() }
func (m *Metrics) DecrementInFlight() { m.RequestsInFlight.Dec() }

func environment() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		return "development"
	}
	return env
}

// Enabled reports whether Prometheus metrics should be exposed, mirroring
// the opt-out-in-dev / opt-in-in-prod convention.
func Enabled() bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("METRICS_ENABLED")))
	if raw == "" {
		return environment() != "production"
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
