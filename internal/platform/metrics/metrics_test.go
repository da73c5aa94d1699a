package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	m := <-ch
	var pb dto.Metric
	require.NoError(t, m.Write(&pb))
	if pb.Counter != nil {
		return pb.Counter.GetValue()
	}
	return 0
}

func TestRecordOTPAttemptIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("engine-test", reg)

	m.RecordOTPAttempt("engine-test", "success")
	m.RecordOTPAttempt("engine-test", "success")

	assert.Equal(t, float64(2), counterValue(t, m.OTPAttemptsTotal.WithLabelValues("engine-test", "success")))
}

func TestRecordOTPLockoutIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("engine-test", reg)

	m.RecordOTPLockout()

	assert.Equal(t, float64(1), counterValue(t, m.OTPLockoutsTotal))
}

func TestRecordConsentTransitionLabelsFromAndTo(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("engine-test", reg)

	m.RecordConsentTransition("engine-test", "PENDING", "ACTIVE")

	assert.Equal(t, float64(1), counterValue(t, m.ConsentTransitions.WithLabelValues("engine-test", "PENDING", "ACTIVE")))
}

func TestRecordScoringRunTracksDegradedLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("engine-test", reg)

	m.RecordScoringRun("engine-test", true, 50*time.Millisecond)

	assert.Equal(t, float64(1), counterValue(t, m.ScoringRunsTotal.WithLabelValues("engine-test", "true")))
}

func TestEnabledDefaultsByEnvironment(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	t.Setenv("APP_ENV", "production")
	assert.False(t, Enabled())

	t.Setenv("APP_ENV", "development")
	assert.True(t, Enabled())
}

func TestEnabledHonoursExplicitOverride(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("METRICS_ENABLED", "true")
	assert.True(t, Enabled())
}
