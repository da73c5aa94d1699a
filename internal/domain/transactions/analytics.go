package transactions

import (
	"fmt"
	"math"
	"sort"
)

const sampleCap = 50

// Analyse partitions transactions into credits/debits and derives the
// cashflow summary described in §4.8: inflow/outflow/net/savings, a
// category breakdown over every transaction, and recurring-payment groups.
func Analyse(txns []Transaction) Analytics {
	var credits, debits []Transaction
	categoryBreakdown := make(map[string]CategoryBreakdown)

	var totalInflow, totalOutflow float64
	for _, t := range txns {
		if t.Type == TypeCredit {
			credits = append(credits, t)
			totalInflow += t.Amount
		} else {
			debits = append(debits, t)
			totalOutflow += t.Amount
		}

		cb := categoryBreakdown[t.Category]
		cb.Count++
		cb.Amount = round2(cb.Amount + t.Amount)
		categoryBreakdown[t.Category] = cb
	}

	totalInflow = round2(totalInflow)
	totalOutflow = round2(totalOutflow)
	netFlow := round2(totalInflow - totalOutflow)

	var savingsRate float64
	if totalInflow != 0 {
		savingsRate = netFlow / totalInflow
	}

	return Analytics{
		TotalInflow:       totalInflow,
		TotalOutflow:      totalOutflow,
		NetFlow:           netFlow,
		SavingsRate:       savingsRate,
		CreditCount:       len(credits),
		DebitCount:        len(debits),
		CategoryBreakdown: categoryBreakdown,
		RecurringPayments: detectRecurring(debits),
		SampleCredits:     capSample(credits, sampleCap),
		SampleDebits:      capSample(debits, sampleCap),
	}
}

func capSample(txns []Transaction, n int) []Transaction {
	if len(txns) <= n {
		return txns
	}
	return txns[:n]
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// detectRecurring groups debits by amount and the first 10 narration
// characters, keeping groups that repeat at least twice, labelling
// Weekly/Biweekly groups that occur more than 5 times and Monthly
// otherwise, truncated to the first 5 groups by detection order.
func detectRecurring(debits []Transaction) []RecurringGroup {
	type bucket struct {
		key       string
		narration string
		count     int
		amount    float64
		order     int
	}
	buckets := make(map[string]*bucket)
	order := 0

	for _, t := range debits {
		narrPrefix := t.Narration
		if len(narrPrefix) > 10 {
			narrPrefix = narrPrefix[:10]
		}
		key := fmt.Sprintf("%.2f|%s", t.Amount, narrPrefix)
		b, ok := buckets[key]
		if !ok {
			order++
			b = &bucket{key: key, narration: t.Narration, order: order}
			buckets[key] = b
		}
		b.count++
		b.amount = round2(b.amount + t.Amount)
	}

	filtered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		if b.count >= 2 {
			filtered = append(filtered, b)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].order < filtered[j].order })

	if len(filtered) > 5 {
		filtered = filtered[:5]
	}

	out := make([]RecurringGroup, 0, len(filtered))
	for _, b := range filtered {
		frequency := "Monthly"
		if b.count > 5 {
			frequency = "Weekly/Biweekly"
		}
		out = append(out, RecurringGroup{
			Key:       b.key,
			Count:     b.count,
			Amount:    b.amount,
			Frequency: frequency,
			Narration: b.narration,
		})
	}
	return out
}
