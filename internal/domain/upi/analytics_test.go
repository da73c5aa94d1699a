package upi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyseFiltersToUPIMode(t *testing.T) {
	inputs := []Input{
		{Mode: "UPI", Amount: 10000, Narration: "RENT PAYMENT", Date: "2025-01-05"},
		{Mode: "UPI", Amount: 1200, Narration: "GROCERIES STORE", Date: "2025-01-10"},
		{Mode: "upi", Amount: 50000, Narration: "SALARY CREDIT", Date: "2025-01-01"},
		{Mode: "NEFT", Amount: 20000, Narration: "RENT PAYMENT", Date: "2025-01-05"},
	}

	analytics := Analyse(inputs)
	assert.Equal(t, 3, analytics.TransactionCount)
	assert.Equal(t, 61200.0, analytics.TotalVolume)
	assert.Len(t, analytics.MCCBreakdown, 3)
}

func TestDiversityScoreSingleCategory(t *testing.T) {
	inputs := []Input{
		{Mode: "UPI", Amount: 100, Narration: "RENT PAYMENT"},
		{Mode: "UPI", Amount: 200, Narration: "RENT PAYMENT"},
	}
	analytics := Analyse(inputs)
	assert.Equal(t, 0.0, analytics.MerchantDiversityScore)
}

func TestDiversityScoreEvenSpread(t *testing.T) {
	inputs := []Input{
		{Mode: "UPI", Amount: 100, Narration: "RENT PAYMENT"},
		{Mode: "UPI", Amount: 100, Narration: "GROCERIES STORE"},
		{Mode: "UPI", Amount: 100, Narration: "SALARY CREDIT"},
	}
	analytics := Analyse(inputs)
	assert.Equal(t, 1.0, analytics.MerchantDiversityScore)
}

func TestDiversityScoreEmptySet(t *testing.T) {
	analytics := Analyse(nil)
	assert.Equal(t, 0.0, analytics.MerchantDiversityScore)
	assert.Equal(t, 0, analytics.TransactionCount)
}

func TestTopMerchantsCappedAtTen(t *testing.T) {
	var inputs []Input
	for i := 0; i < 15; i++ {
		inputs = append(inputs, Input{Mode: "UPI", Amount: float64(i + 1), Narration: merchantName(i)})
	}
	analytics := Analyse(inputs)
	assert.Len(t, analytics.TopMerchants, 10)
}

func merchantName(i int) string {
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O"}
	return names[i]
}
