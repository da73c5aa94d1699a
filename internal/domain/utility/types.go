// Package utility implements utility-bill payment reliability scoring
// (C11): per-bill severity classification, a weighted reliability score,
// a trend signal over the most recent bills, and a per-category rollup.
package utility

import "time"

// Classification is a bill's payment-severity verdict.
type Classification string

const (
	ClassOnTime     Classification = "ON_TIME"
	ClassMinorDelay Classification = "MINOR_DELAY"
	ClassMajorDelay Classification = "MAJOR_DELAY"
	ClassUnpaid     Classification = "UNPAID"
)

// Trend is the reliability trajectory over the most recent bills.
type Trend string

const (
	TrendImproving Trend = "IMPROVING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// earnedPoints maps a classification to its weighted-score contribution,
// out of a fixed weight of 10 per bill.
var earnedPoints = map[Classification]int{
	ClassOnTime:     10,
	ClassMinorDelay: 6,
	ClassMajorDelay: 2,
	ClassUnpaid:     0,
}

// Bill is one utility bill record. PaidDate is nil when unpaid; Status,
// when set to "UNPAID", always classifies as UNPAID regardless of PaidDate.
type Bill struct {
	Category string     `json:"category"`
	DueDate  time.Time  `json:"due_date"`
	PaidDate *time.Time `json:"paid_date,omitempty"`
	Status   string     `json:"status,omitempty"`
	Amount   float64    `json:"amount"`
}

// BillResult is one bill's classification outcome.
type BillResult struct {
	Bill           Bill           `json:"bill"`
	Classification Classification `json:"classification"`
	DelayDays      int            `json:"delay_days"`
	EarnedPoints   int            `json:"earned_points"`
}

// CategoryRollup is the per-category aggregate.
type CategoryRollup struct {
	Total         int     `json:"total"`
	OnTime        int     `json:"on_time"`
	MinorDelay    int     `json:"minor_delay"`
	MajorDelay    int     `json:"major_delay"`
	Unpaid        int     `json:"unpaid"`
	TotalAmount   float64 `json:"total_amount"`
	WeightedScore float64 `json:"weighted_score"`
}

// Report is the full utility-reliability report over a bill history.
type Report struct {
	ReliabilityScore float64                   `json:"reliability_score"`
	ConsistencyScore int                       `json:"consistency_score"`
	Trend            Trend                     `json:"trend"`
	OnTime           int                       `json:"on_time"`
	MinorDelays      int                       `json:"minor_delays"`
	MajorDelays      int                       `json:"major_delays"`
	Unpaid           int                       `json:"unpaid"`
	Results          []BillResult              `json:"results"`
	CategoryRollup   map[string]CategoryRollup `json:"category_rollup"`
}
