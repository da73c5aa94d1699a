package scoring

import (
	"encoding/json"
	"math"
	"time"

	platcrypto "github.com/novacredit/engine/internal/platform/crypto"
	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

// Compute combines in into a NovaScore: the base is adjusted by three
// fixed tie-breaks (§4.14), clamped to [300, 900], and tiered per §3's
// thresholds. now is accepted as a parameter (rather than read internally)
// so the audit hash is reproducible in tests.
func Compute(in Input, now time.Time) (Result, error) {
	score := baseScore
	var explanations []Explanation

	if in.UPITotalOutflow > 0 && in.UPITotalInflow/in.UPITotalOutflow >= 1.2 {
		score += 40
		explanations = append(explanations, Explanation{
			Feature: "upi_inflow_outflow_ratio", Impact: 40,
			Reasoning: "UPI inflow-to-outflow ratio at or above 1.2 indicates healthy surplus cashflow",
		})
	} else {
		score += 10
		explanations = append(explanations, Explanation{
			Feature: "upi_inflow_outflow_ratio", Impact: 10,
			Reasoning: "UPI inflow-to-outflow ratio below 1.2 indicates thinner surplus cashflow",
		})
	}

	if in.NetworkStrength > 0.8 {
		score += 30
		explanations = append(explanations, Explanation{
			Feature: "network_strength", Impact: 30,
			Reasoning: "validation-derived network strength above 0.8 supports identity and relationship confidence",
		})
	}

	if turnoverVariance(in.GSTAvgTurnover, in.BankAvgTurnover) > 0.15 {
		score -= 50
		explanations = append(explanations, Explanation{
			Feature: "gst_bank_turnover_variance", Impact: -50,
			Reasoning: "GST-reported turnover diverges from bank-observed turnover by more than 15%",
		})
	}

	score = clamp(score, minScore, maxScore)

	digest, err := inputsDigest(in)
	if err != nil {
		return Result{}, platerrors.Internal("compute inputs digest", err)
	}

	auditHash, err := computeAuditHash(score, digest, now)
	if err != nil {
		return Result{}, platerrors.Internal("compute audit hash", err)
	}

	return Result{
		Score:        score,
		Tier:         tierFor(score),
		Confidence:   confidence(in),
		Explanations: explanations,
		AuditHash:    auditHash,
	}, nil
}

// turnoverVariance reports the relative difference between GST and bank
// turnover, 0 when either side is unavailable (no comparison possible).
func turnoverVariance(gst, bank float64) float64 {
	if gst <= 0 || bank <= 0 {
		return 0
	}
	diff := math.Abs(gst - bank)
	denom := math.Max(gst, bank)
	return diff / denom
}

func tierFor(score int) Tier {
	switch {
	case score >= primeThreshold:
		return TierPrime
	case score >= goodThreshold:
		return TierGood
	default:
		return TierSubPrime
	}
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// confidence is a simple completeness heuristic over the signals actually
// supplied: each of the four inputs present (non-zero) contributes 0.25,
// since spec.md leaves confidence's derivation open.
func confidence(in Input) float64 {
	var present float64
	if in.UPITotalInflow > 0 || in.UPITotalOutflow > 0 {
		present += 0.25
	}
	if in.NetworkStrength > 0 {
		present += 0.25
	}
	if in.GSTAvgTurnover > 0 {
		present += 0.25
	}
	if in.BankAvgTurnover > 0 {
		present += 0.25
	}
	return present
}

func inputsDigest(in Input) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", err
	}
	return platcrypto.SHA256Hex(payload), nil
}

func computeAuditHash(score int, inputsDigest string, now time.Time) (string, error) {
	payload, err := json.Marshal(auditPayload{
		Score:        score,
		InputsDigest: inputsDigest,
		TimestampMs:  now.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return platcrypto.SHA256Hex(payload), nil
}
