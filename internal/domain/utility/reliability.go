package utility

import (
	"math"
	"sort"
	"strings"
)

// ClassifyBill applies the §4.11 severity rules to a single bill.
func ClassifyBill(b Bill) BillResult {
	if strings.EqualFold(b.Status, "UNPAID") || b.PaidDate == nil {
		return result(b, ClassUnpaid, 0)
	}
	if b.DueDate.IsZero() || b.PaidDate.IsZero() {
		return result(b, ClassMajorDelay, 0)
	}
	if !b.PaidDate.After(b.DueDate) {
		return result(b, ClassOnTime, 0)
	}

	delaySeconds := b.PaidDate.Sub(b.DueDate).Seconds()
	delayDays := int(math.Ceil(delaySeconds / 86400))
	if delayDays <= 5 {
		return result(b, ClassMinorDelay, delayDays)
	}
	return result(b, ClassMajorDelay, delayDays)
}

func result(b Bill, class Classification, delayDays int) BillResult {
	return BillResult{Bill: b, Classification: class, DelayDays: delayDays, EarnedPoints: earnedPoints[class]}
}

// AnalyseBills classifies every bill and aggregates the §4.11 report:
// weighted reliability score, integer consistency score, a 3-bill trend
// signal, and a per-category rollup.
func AnalyseBills(bills []Bill) Report {
	results := make([]BillResult, 0, len(bills))
	rollup := make(map[string]CategoryRollup)

	var onTime, minor, major, unpaid, earnedSum int
	for _, b := range bills {
		r := ClassifyBill(b)
		results = append(results, r)
		earnedSum += r.EarnedPoints

		cr := rollup[b.Category]
		cr.Total++
		cr.TotalAmount = round2(cr.TotalAmount + b.Amount)
		switch r.Classification {
		case ClassOnTime:
			onTime++
			cr.OnTime++
		case ClassMinorDelay:
			minor++
			cr.MinorDelay++
		case ClassMajorDelay:
			major++
			cr.MajorDelay++
		case ClassUnpaid:
			unpaid++
			cr.Unpaid++
		}
		rollup[b.Category] = cr
	}

	for category, cr := range rollup {
		if cr.Total > 0 {
			earned := cr.OnTime*10 + cr.MinorDelay*6 + cr.MajorDelay*2
			cr.WeightedScore = round2(float64(earned) / float64(cr.Total*10) * 100)
		}
		rollup[category] = cr
	}

	total := len(bills)
	var reliability float64
	var consistency int
	if total > 0 {
		reliability = round2(float64(earnedSum) / float64(total*10) * 100)
		consistency = int(math.Round(float64(onTime) / float64(total) * 100))
	}

	return Report{
		ReliabilityScore: reliability,
		ConsistencyScore: consistency,
		Trend:            detectTrend(results),
		OnTime:           onTime,
		MinorDelays:      minor,
		MajorDelays:      major,
		Unpaid:           unpaid,
		Results:          results,
		CategoryRollup:   rollup,
	}
}

// detectTrend compares the mean earned points of the last 3 bills
// (chronological, by due date) to the overall mean. Fewer than 4 bills is
// always STABLE — there isn't enough history to call a trend.
func detectTrend(results []BillResult) Trend {
	if len(results) < 4 {
		return TrendStable
	}

	sorted := make([]BillResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Bill.DueDate.Before(sorted[j].Bill.DueDate) })

	var overallSum int
	for _, r := range sorted {
		overallSum += r.EarnedPoints
	}
	overallMean := float64(overallSum) / float64(len(sorted))

	recent := sorted[len(sorted)-3:]
	var recentSum int
	for _, r := range recent {
		recentSum += r.EarnedPoints
	}
	recentMean := float64(recentSum) / 3

	diff := recentMean - overallMean
	switch {
	case diff > 1:
		return TrendImproving
	case diff < -1:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
