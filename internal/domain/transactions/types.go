// Package transactions implements the shape-tolerant bank-statement
// transaction parser and cashflow analytics (C8): normalising whatever
// record shape an Account Aggregator FIP happens to emit into a single
// Transaction schema, then deriving inflow/outflow, category, and
// recurring-payment analytics from the normalised set.
package transactions

import "time"

// Type is a transaction's credit/debit direction.
type Type string

const (
	TypeCredit Type = "CREDIT"
	TypeDebit  Type = "DEBIT"
)

// Transaction is the normalised per-record schema every input shape maps to.
type Transaction struct {
	TxnID     string    `json:"txn_id"`
	Date      time.Time `json:"date"`
	Type      Type      `json:"type"`
	Mode      string    `json:"mode"`
	Amount    float64   `json:"amount"`
	Balance   float64   `json:"balance"`
	Narration string    `json:"narration"`
	Reference string    `json:"reference"`
	Category  string    `json:"category"`
}

// CategoryBreakdown aggregates count and amount for one category.
type CategoryBreakdown struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// RecurringGroup is a detected recurring-payment cluster.
type RecurringGroup struct {
	Key       string  `json:"key"`
	Count     int     `json:"count"`
	Amount    float64 `json:"amount"`
	Frequency string  `json:"frequency"`
	Narration string  `json:"narration"`
}

// Analytics is the cashflow summary produced over a normalised transaction set.
type Analytics struct {
	TotalInflow       float64                      `json:"total_inflow"`
	TotalOutflow      float64                      `json:"total_outflow"`
	NetFlow           float64                      `json:"net_flow"`
	SavingsRate       float64                      `json:"savings_rate"`
	CreditCount       int                          `json:"credit_count"`
	DebitCount        int                          `json:"debit_count"`
	CategoryBreakdown map[string]CategoryBreakdown `json:"category_breakdown"`
	RecurringPayments []RecurringGroup             `json:"recurring_payments"`
	SampleCredits     []Transaction                `json:"sample_credits"`
	SampleDebits      []Transaction                `json:"sample_debits"`
}

// categoryKeywords maps narration substrings (lower-cased) to a category.
// Order matters: the first match wins, so more specific keywords should
// precede generic ones.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"salary", "Salary"},
	{"rent", "Rent"},
	{"electricity", "Utilities"},
	{"water bill", "Utilities"},
	{"utility", "Utilities"},
	{"emi", "EMI"},
	{"loan", "EMI"},
	{"mutual fund", "Investment"},
	{"sip", "Investment"},
	{"investment", "Investment"},
	{"amazon", "Shopping"},
	{"flipkart", "Shopping"},
	{"shopping", "Shopping"},
	{"swiggy", "Food"},
	{"zomato", "Food"},
	{"restaurant", "Food"},
	{"food", "Food"},
	{"uber", "Travel"},
	{"ola", "Travel"},
	{"flight", "Travel"},
	{"travel", "Travel"},
	{"upi", "UPI_Transfer"},
}

const miscCategory = "Misc"
