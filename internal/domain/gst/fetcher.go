package gst

import (
	"context"
	"fmt"
	"time"
)

// GSPFetcher is the injectable capability behind gst.fetch: a real
// implementation authenticates against a GST Suvidha Provider (out of this
// core's scope, §2 non-goals); SampleGSPFetcher generates a deterministic
// placeholder return history for environments without live GSP access.
type GSPFetcher interface {
	FetchFilings(ctx context.Context, gstin string, returnTypes []ReturnType) ([]Filing, bool, error)
}

// SampleGSPFetcher synthesises a plausible filing history relative to the
// current date; the gstin argument does not affect the result. It mirrors
// the social package's sample-fetcher degraded-mode pattern.
type SampleGSPFetcher struct{}

// NewSampleGSPFetcher builds a sample fetcher.
func NewSampleGSPFetcher() *SampleGSPFetcher {
	return &SampleGSPFetcher{}
}

// FetchFilings always succeeds with a generated sample, reporting degraded=true.
func (f *SampleGSPFetcher) FetchFilings(ctx context.Context, gstin string, returnTypes []ReturnType) ([]Filing, bool, error) {
	if len(returnTypes) == 0 {
		returnTypes = []ReturnType{ReturnGSTR1, ReturnGSTR3B}
	}
	now := time.Now()
	filings := make([]Filing, 0, len(returnTypes)*3)
	for monthsAgo := 3; monthsAgo >= 1; monthsAgo-- {
		periodStart := now.AddDate(0, -monthsAgo, 0)
		period := fmt.Sprintf("%04d-%02d", periodStart.Year(), periodStart.Month())
		for _, rt := range returnTypes {
			due, err := DueDate(rt, period)
			if err != nil {
				continue
			}
			filings = append(filings, Filing{
				ReturnType: rt,
				Period:     period,
				FilingDate: due.AddDate(0, 0, -2),
				Turnover:   500000 + float64(monthsAgo)*25000,
				TaxPaid:    45000 + float64(monthsAgo)*2000,
			})
		}
	}
	return filings, true, nil
}
