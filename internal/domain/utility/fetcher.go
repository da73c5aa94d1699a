package utility

import (
	"context"
	"time"
)

// BBPSFetcher is the injectable capability behind utility.fetch: a real
// implementation authenticates against the Bharat Bill Payment System (out
// of this core's scope, §2 non-goals); SampleBBPSFetcher generates a
// deterministic placeholder bill history for environments without live
// BBPS access.
type BBPSFetcher interface {
	FetchBills(ctx context.Context, mobile string, categories []string) ([]Bill, bool, error)
}

// SampleBBPSFetcher synthesises a plausible bill-payment history.
type SampleBBPSFetcher struct{}

// NewSampleBBPSFetcher builds a sample fetcher.
func NewSampleBBPSFetcher() *SampleBBPSFetcher {
	return &SampleBBPSFetcher{}
}

// FetchBills always succeeds with a generated sample, reporting degraded=true.
func (f *SampleBBPSFetcher) FetchBills(ctx context.Context, mobile string, categories []string) ([]Bill, bool, error) {
	if len(categories) == 0 {
		categories = []string{"ELECTRICITY", "WATER", "GAS"}
	}
	now := time.Now()
	bills := make([]Bill, 0, len(categories)*3)
	for monthsAgo := 3; monthsAgo >= 1; monthsAgo-- {
		due := now.AddDate(0, -monthsAgo, 5)
		for _, category := range categories {
			paid := due.AddDate(0, 0, -1)
			bills = append(bills, Bill{
				Category: category,
				DueDate:  due,
				PaidDate: &paid,
				Amount:   1200 + float64(monthsAgo)*150,
			})
		}
	}
	return bills, true, nil
}
