package gst

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleGSPFetcherDefaultsReturnTypes(t *testing.T) {
	f := NewSampleGSPFetcher()
	filings, degraded, err := f.FetchFilings(context.Background(), "29ABCDE1234F1Z5", nil)
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.NotEmpty(t, filings)

	seen := map[ReturnType]bool{}
	for _, filing := range filings {
		seen[filing.ReturnType] = true
		assert.NotEmpty(t, filing.Period)
		assert.True(t, filing.FilingDate.Before(filing.FilingDate.AddDate(0, 0, 1)))
	}
	assert.True(t, seen[ReturnGSTR1])
	assert.True(t, seen[ReturnGSTR3B])
}

func TestSampleGSPFetcherHonoursRequestedReturnTypes(t *testing.T) {
	f := NewSampleGSPFetcher()
	filings, _, err := f.FetchFilings(context.Background(), "29ABCDE1234F1Z5", []ReturnType{ReturnGSTR1})
	require.NoError(t, err)
	for _, filing := range filings {
		assert.Equal(t, ReturnGSTR1, filing.ReturnType)
	}
}
