package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURLsDropsInvalidKeepsValid(t *testing.T) {
	profiles, err := ValidateURLs([]string{
		"https://www.linkedin.com/in/jane-doe",
		"not a url",
		"https://twitter.com/janedoe",
	})
	require.NoError(t, err)
	require.Len(t, profiles, 2)
}

func TestValidateURLsAllInvalidErrors(t *testing.T) {
	_, err := ValidateURLs([]string{"not a url", "also not a url"})
	assert.Error(t, err)
}

func TestConnectComputesScoreAndOmitsHandles(t *testing.T) {
	agg := NewAggregator(NewSampleFetcher())
	result, record, err := agg.Connect(context.Background(), []string{
		"https://www.linkedin.com/in/jane-doe",
		"https://instagram.com/jane.doe",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.SocialScore, 0.0)
	assert.LessOrEqual(t, result.SocialScore, 1.0)
	assert.Len(t, result.PlatformsUsed, 2)

	assert.NotEmpty(t, record.SessionID)
	assert.Equal(t, result.SocialScore, record.SocialScore)
}

func TestNormalizeClamps(t *testing.T) {
	assert.Equal(t, 0.0, normalize(-10, 0, 100))
	assert.Equal(t, 1.0, normalize(200, 0, 100))
	assert.Equal(t, 0.5, normalize(50, 0, 100))
}
