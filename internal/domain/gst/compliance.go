package gst

import (
	"math"
	"time"
)

// DueDate computes the due date for a filing period: day 11 (GSTR-1) or
// day 20 (GSTR-3B) of the month after the filing period, at 23:59:59.
// Unrecognised return types default to the GSTR-3B day, the more lenient
// due date, since this implementation never rejects a return type outright.
func DueDate(returnType ReturnType, period string) (time.Time, error) {
	periodStart, err := time.Parse("2006-01", period)
	if err != nil {
		return time.Time{}, err
	}
	day, ok := dueDay[returnType]
	if !ok {
		day = dueDay[ReturnGSTR3B]
	}
	dueMonth := periodStart.AddDate(0, 1, 0)
	return time.Date(dueMonth.Year(), dueMonth.Month(), day, 23, 59, 59, 0, periodStart.Location()), nil
}

// Classify evaluates a single filing against its computed due date.
func Classify(f Filing) (FilingResult, error) {
	due, err := DueDate(f.ReturnType, f.Period)
	if err != nil {
		return FilingResult{}, err
	}

	if !f.FilingDate.After(due) {
		return FilingResult{Filing: f, DueDate: due, Classification: OnTime, DelayDays: 0}, nil
	}

	delaySeconds := f.FilingDate.Sub(due).Seconds()
	delayDays := int(math.Ceil(delaySeconds / 86400))
	return FilingResult{Filing: f, DueDate: due, Classification: Delayed, DelayDays: delayDays}, nil
}

// AnalyseFilings classifies every filing and aggregates the §4.10 report:
// an overall complianceScore, average turnover, and a per-return-type
// breakdown. Filings whose period cannot be parsed are skipped.
func AnalyseFilings(filings []Filing) Report {
	results := make([]FilingResult, 0, len(filings))
	breakdown := make(map[ReturnType]TypeBreakdown)

	var onTimeCount int
	var turnoverSum float64
	for _, f := range filings {
		result, err := Classify(f)
		if err != nil {
			continue
		}
		results = append(results, result)
		turnoverSum += f.Turnover

		b := breakdown[f.ReturnType]
		b.Total++
		b.TotalTurnover = round2(b.TotalTurnover + f.Turnover)
		b.TotalTaxPaid = round2(b.TotalTaxPaid + f.TaxPaid)
		if result.Classification == OnTime {
			b.OnTime++
			onTimeCount++
		} else {
			b.Delayed++
		}
		breakdown[f.ReturnType] = b
	}

	for returnType, b := range breakdown {
		if b.Total > 0 {
			b.ComplianceRate = round4(float64(b.OnTime) / float64(b.Total))
		}
		breakdown[returnType] = b
	}

	var complianceScore, avgTurnover float64
	if len(results) > 0 {
		complianceScore = round4(float64(onTimeCount) / float64(len(results)))
		avgTurnover = round2(turnoverSum / float64(len(results)))
	}

	return Report{
		ComplianceScore: complianceScore,
		AvgTurnover:     avgTurnover,
		Results:         results,
		Breakdown:       breakdown,
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
