package gst

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSTR1OnTimeAndDelayed(t *testing.T) {
	onTime, err := Classify(Filing{
		ReturnType: ReturnGSTR1,
		Period:     "2025-06",
		FilingDate: time.Date(2025, 7, 11, 23, 59, 59, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, OnTime, onTime.Classification)

	delayed, err := Classify(Filing{
		ReturnType: ReturnGSTR1,
		Period:     "2025-06",
		FilingDate: time.Date(2025, 7, 12, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, Delayed, delayed.Classification)
	assert.GreaterOrEqual(t, delayed.DelayDays, 1)
}

func TestGSTR3BBoundary(t *testing.T) {
	onTime, err := Classify(Filing{
		ReturnType: ReturnGSTR3B,
		Period:     "2025-06",
		FilingDate: time.Date(2025, 7, 20, 23, 59, 59, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, OnTime, onTime.Classification)

	delayed, err := Classify(Filing{
		ReturnType: ReturnGSTR3B,
		Period:     "2025-06",
		FilingDate: time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, Delayed, delayed.Classification)
}

func TestComplianceScoreAndBreakdown(t *testing.T) {
	var filings []Filing
	for i := 0; i < 12; i++ {
		period := time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		filed := time.Date(2024, time.Month(i+1)+1, 20, 23, 59, 59, 0, time.UTC)
		if i < 3 {
			filed = filed.AddDate(0, 0, 1)
		}
		filings = append(filings, Filing{
			ReturnType: ReturnGSTR3B,
			Period:     period,
			FilingDate: filed,
			Turnover:   100000,
			TaxPaid:    18000,
		})
	}

	report := AnalyseFilings(filings)
	assert.Equal(t, 0.7500, report.ComplianceScore)
	breakdown := report.Breakdown[ReturnGSTR3B]
	assert.Equal(t, 12, breakdown.Total)
	assert.Equal(t, 9, breakdown.OnTime)
	assert.Equal(t, 3, breakdown.Delayed)
	assert.Equal(t, 0.7500, breakdown.ComplianceRate)
}

func TestGSTINPattern(t *testing.T) {
	assert.True(t, GSTINPattern.MatchString("29ABCDE1234F1Z5"))
	assert.False(t, GSTINPattern.MatchString("invalid"))
}
