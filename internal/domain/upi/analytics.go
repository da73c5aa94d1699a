package upi

import (
	"math"
	"sort"
	"strings"
)

// Analyse filters inputs to UPI-mode transactions (case-insensitive) and
// computes the full §4.9 analytics: volume/frequency, MCC inference and
// rollup, the Shannon-entropy merchant-diversity score, and top merchants.
func Analyse(inputs []Input) Analytics {
	upiTxns := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if strings.EqualFold(strings.TrimSpace(in.Mode), "UPI") {
			upiTxns = append(upiTxns, in)
		}
	}

	monthlyFrequency := make(map[string]int)
	mccCounts := make(map[string]int)
	mccVolumes := make(map[string]float64)
	mccCategories := make(map[string]string)
	merchantCounts := make(map[string]int)
	merchantVolumes := make(map[string]float64)

	var totalVolume float64
	for _, t := range upiTxns {
		totalVolume += t.Amount

		if len(t.Date) >= 7 {
			monthlyFrequency[t.Date[:7]]++
		}

		mcc, category := resolveMCC(t)
		mccCounts[mcc]++
		mccVolumes[mcc] = round2(mccVolumes[mcc] + t.Amount)
		mccCategories[mcc] = category

		merchantCounts[t.Narration]++
		merchantVolumes[t.Narration] = round2(merchantVolumes[t.Narration] + t.Amount)
	}

	count := len(upiTxns)
	totalVolume = round2(totalVolume)

	var avg float64
	if count > 0 {
		avg = round2(totalVolume / float64(count))
	}

	return Analytics{
		TransactionCount:       count,
		TotalVolume:            totalVolume,
		AvgTransactionAmt:      avg,
		MonthlyFrequency:       monthlyFrequency,
		MCCBreakdown:           buildMCCRollup(mccCounts, mccVolumes, mccCategories),
		MerchantDiversityScore: diversityScore(mccCounts, count),
		TopMerchants:           buildTopMerchants(merchantCounts, merchantVolumes),
	}
}

// resolveMCC returns the transaction's MCC (and category), preferring an
// explicit field and falling back to narration-keyword inference.
func resolveMCC(t Input) (mcc, category string) {
	if t.MCC != "" {
		return t.MCC, mccCategoryFor(t.MCC)
	}
	lower := strings.ToLower(t.Narration)
	for _, p := range mccPatterns {
		if strings.Contains(lower, p.keyword) {
			return p.mcc, p.category
		}
	}
	return uncategorizedMCC, uncategorizedCategory
}

func mccCategoryFor(mcc string) string {
	for _, p := range mccPatterns {
		if p.mcc == mcc {
			return p.category
		}
	}
	return uncategorizedCategory
}

func buildMCCRollup(counts map[string]int, volumes map[string]float64, categories map[string]string) []MCCRollup {
	out := make([]MCCRollup, 0, len(counts))
	for mcc, count := range counts {
		out = append(out, MCCRollup{
			MCC:      mcc,
			Category: categories[mcc],
			Count:    count,
			Volume:   volumes[mcc],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MCC < out[j].MCC })
	return out
}

// diversityScore computes the normalised Shannon entropy over MCC category
// proportions: 0 for a single category or an empty set, 1.0 for a perfectly
// even spread across n > 1 categories.
func diversityScore(mccCounts map[string]int, total int) float64 {
	n := len(mccCounts)
	if n <= 1 || total == 0 {
		return 0
	}

	var entropy float64
	for _, count := range mccCounts {
		p := float64(count) / float64(total)
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}

	score := entropy / math.Log(float64(n))
	return math.Round(score*1000) / 1000
}

func buildTopMerchants(counts map[string]int, volumes map[string]float64) []MerchantRollup {
	out := make([]MerchantRollup, 0, len(counts))
	for merchant, count := range counts {
		out = append(out, MerchantRollup{Merchant: merchant, Count: count, Volume: volumes[merchant]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Volume != out[j].Volume {
			return out[i].Volume > out[j].Volume
		}
		return out[i].Merchant < out[j].Merchant
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
