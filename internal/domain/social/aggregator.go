package social

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

// ValidateURLs matches each raw URL against every platform pattern,
// dropping (not erroring on) individual invalid URLs; it returns an error
// only when nothing at all validates, since §4.13 requires at least one
// valid connected profile.
func ValidateURLs(rawURLs []string) ([]ValidatedProfile, error) {
	var valid []ValidatedProfile
	for _, raw := range rawURLs {
		for platform, pattern := range urlPatterns {
			match := pattern.FindStringSubmatch(raw)
			if match == nil {
				continue
			}
			identifier := match[len(match)-1]
			valid = append(valid, ValidatedProfile{Platform: platform, Identifier: identifier, URL: raw})
			break
		}
	}
	if len(valid) == 0 {
		return nil, platerrors.Validation("at least one valid social profile URL is required", nil)
	}
	return valid, nil
}

// Aggregator implements social.connect: validating profile URLs, fetching
// per-platform metadata through the injected PlatformFetcher, and
// computing the weighted social score.
type Aggregator struct {
	fetcher PlatformFetcher
}

// NewAggregator wires an Aggregator against a PlatformFetcher capability.
func NewAggregator(fetcher PlatformFetcher) *Aggregator {
	return &Aggregator{fetcher: fetcher}
}

// Connect validates profileURLs, gathers per-platform metadata, and
// returns the scored result plus the persisted (handle-free) Record.
func (a *Aggregator) Connect(ctx context.Context, profileURLs []string) (ScoreResult, Record, error) {
	profiles, err := ValidateURLs(profileURLs)
	if err != nil {
		return ScoreResult{}, Record{}, err
	}

	var totalNetwork, totalPosts, oldestAgeDays int
	var interactionSum float64
	platformsUsed := make([]string, 0, len(profiles))

	for _, p := range profiles {
		meta, fromLive, fetchErr := a.fetcher.Fetch(ctx, p.Platform, p.Identifier)
		if fetchErr != nil || !fromLive {
			meta = a.fetcher.GenerateSample(p.Platform)
		}

		totalNetwork += meta.NetworkSize
		totalPosts += meta.TotalPostsLast6Months
		interactionSum += meta.InteractionRate
		if meta.AccountAgeDays > oldestAgeDays {
			oldestAgeDays = meta.AccountAgeDays
		}
		platformsUsed = append(platformsUsed, string(p.Platform))
	}

	postFrequency := float64(totalPosts) / 6
	avgInteractionRate := interactionSum / float64(len(profiles))

	breakdown := map[string]float64{
		"network":          normalize(float64(totalNetwork), 0, networkMax),
		"post_frequency":   normalize(postFrequency, 0, postFrequencyMax),
		"account_age":      normalize(float64(oldestAgeDays), 0, accountAgeDaysMax),
		"interaction_rate": normalize(avgInteractionRate, 0, interactionRateMax),
	}

	score := round4(0.25*breakdown["network"] +
		0.25*breakdown["post_frequency"] +
		0.25*breakdown["account_age"] +
		0.25*breakdown["interaction_rate"])

	result := ScoreResult{SocialScore: score, PlatformsUsed: platformsUsed, Breakdown: breakdown}
	record := Record{
		SessionID:     uuid.New().String(),
		SocialScore:   score,
		PlatformsUsed: platformsUsed,
		CreatedAt:     time.Now().UTC(),
	}
	return result, record, nil
}

// normalize clamps (x-min)/(max-min) to [0,1].
func normalize(x, min, max float64) float64 {
	if max <= min {
		return 0
	}
	n := (x - min) / (max - min)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
