package social

import "context"

// SampleFetcher is a PlatformFetcher that never reaches a live network and
// always falls through to GenerateSample — the default wiring when no real
// OAuth-backed or headless-scraper fetcher is configured, matching the
// degraded-mode posture the rest of the engine uses for unavailable
// upstreams.
type SampleFetcher struct{}

// NewSampleFetcher returns a fetcher that always falls back to samples.
func NewSampleFetcher() *SampleFetcher { return &SampleFetcher{} }

// Fetch always reports no live data so the caller falls back to GenerateSample.
func (SampleFetcher) Fetch(ctx context.Context, platform Platform, identifier string) (PlatformMetadata, bool, error) {
	return PlatformMetadata{}, false, nil
}

// samplesByPlatform gives each platform a distinct, plausible placeholder
// shape rather than one generic number repeated everywhere.
var samplesByPlatform = map[Platform]PlatformMetadata{
	PlatformLinkedIn:  {NetworkSize: 800, TotalPostsLast6Months: 12, AccountAgeDays: 1800, InteractionRate: 45},
	PlatformTwitter:   {NetworkSize: 1500, TotalPostsLast6Months: 60, AccountAgeDays: 2500, InteractionRate: 20},
	PlatformInstagram: {NetworkSize: 2200, TotalPostsLast6Months: 36, AccountAgeDays: 1200, InteractionRate: 80},
	PlatformYouTube:   {NetworkSize: 500, TotalPostsLast6Months: 6, AccountAgeDays: 900, InteractionRate: 120},
}

// GenerateSample returns a fixed, documented dev-mode metadata shape per platform.
func (SampleFetcher) GenerateSample(platform Platform) PlatformMetadata {
	if sample, ok := samplesByPlatform[platform]; ok {
		return sample
	}
	return PlatformMetadata{NetworkSize: 100, TotalPostsLast6Months: 4, AccountAgeDays: 365, InteractionRate: 10}
}
