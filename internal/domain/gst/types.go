// Package gst implements GST return-filing compliance scoring (C10):
// due-date classification per return type, a weighted compliance score, and
// a per-return-type breakdown.
package gst

import (
	"regexp"
	"time"
)

// ReturnType is a GST return category.
type ReturnType string

const (
	ReturnGSTR1  ReturnType = "GSTR-1"
	ReturnGSTR3B ReturnType = "GSTR-3B"
)

// Classification is a filing's on-time/delayed verdict.
type Classification string

const (
	OnTime  Classification = "ON_TIME"
	Delayed Classification = "DELAYED"
)

// GSTINPattern validates a GSTIN per §6.4.
var GSTINPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Filing is one GST return filing record.
type Filing struct {
	ReturnType ReturnType `json:"return_type"`
	Period     string     `json:"period"` // "YYYY-MM", the filing period
	FilingDate time.Time  `json:"filing_date"`
	Turnover   float64    `json:"turnover"`
	TaxPaid    float64    `json:"tax_paid"`
}

// FilingResult is one filing's classification outcome.
type FilingResult struct {
	Filing         Filing         `json:"filing"`
	DueDate        time.Time      `json:"due_date"`
	Classification Classification `json:"classification"`
	DelayDays      int            `json:"delay_days"`
}

// TypeBreakdown is the per-return-type aggregate.
type TypeBreakdown struct {
	Total          int     `json:"total"`
	OnTime         int     `json:"on_time"`
	Delayed        int     `json:"delayed"`
	TotalTurnover  float64 `json:"total_turnover"`
	TotalTaxPaid   float64 `json:"total_tax_paid"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// Report is the full compliance report over a filing history.
type Report struct {
	ComplianceScore float64                      `json:"compliance_score"`
	AvgTurnover     float64                      `json:"avg_turnover"`
	Results         []FilingResult               `json:"results"`
	Breakdown       map[ReturnType]TypeBreakdown `json:"breakdown"`
}

// dueDay is the due-date day-of-month for each return type (non-QRMP).
var dueDay = map[ReturnType]int{
	ReturnGSTR1:  11,
	ReturnGSTR3B: 20,
}
