package transactions

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

// ParseTransactions accepts raw JSON bytes in any of the shapes §4.8
// tolerates and returns the normalised Transaction set. It never returns an
// error for an empty-but-well-formed input; malformed JSON is a
// ValidationError.
func ParseTransactions(raw []byte) ([]Transaction, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, platerrors.Validation("malformed transaction payload", map[string]any{"error": err.Error()})
	}

	records := extractRecords(parsed)
	out := make([]Transaction, 0, len(records))
	for _, rec := range records {
		out = append(out, normalizeRecord(rec))
	}
	return out, nil
}

// extractRecords dispatches on the decoded value's shape, returning a flat
// slice of raw per-transaction maps regardless of how deeply they were
// nested by the originating FIP.
func extractRecords(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out

	case map[string]any:
		if account, ok := t["Account"].(map[string]any); ok {
			if txns, ok := account["Transactions"]; ok {
				return recordsFromTransactionField(txns)
			}
		}
		if txns, ok := t["Transactions"]; ok {
			return recordsFromTransactionField(txns)
		}
		if txns, ok := t["transactions"]; ok {
			return recordsFromTransactionField(txns)
		}
		if data, ok := t["data"]; ok {
			return extractRecords(data)
		}
		if looksLikeTransaction(t) {
			return []map[string]any{t}
		}
		return nil
	}
	return nil
}

// recordsFromTransactionField handles the {Transaction: [...] | {...}}
// wrapper shape as well as a bare array/single-object value.
func recordsFromTransactionField(v any) []map[string]any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := t["Transaction"]; ok {
			return recordsFromTransactionField(inner)
		}
		return []map[string]any{t}
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func looksLikeTransaction(m map[string]any) bool {
	for _, key := range []string{"amount", "Amount", "txnAmount", "narration", "Narration", "date", "Date"} {
		if _, ok := m[key]; ok {
			return true
		}
	}
	return false
}

func getString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func parseFloatValue(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0
		}
		return math.Abs(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return math.Abs(f)
	}
	return 0
}

func getFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return parseFloatValue(v)
		}
	}
	return 0
}

func parseDate(m map[string]any) time.Time {
	raw := getString(m, "date", "Date", "txnDate", "valueDate", "transactionTimestamp")
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02", "02-01-2006", "02/01/2006"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// detectType resolves the CREDIT/DEBIT direction: an explicit field wins,
// then narration keywords, defaulting to DEBIT.
func detectType(m map[string]any, narration string) Type {
	explicit := strings.ToUpper(getString(m, "type", "Type", "txnType", "drcr", "crDr"))
	switch explicit {
	case "CREDIT", "CR", "C":
		return TypeCredit
	case "DEBIT", "DR", "D":
		return TypeDebit
	}

	lower := strings.ToLower(narration)
	for _, kw := range []string{"credit", "received", "deposit"} {
		if strings.Contains(lower, kw) {
			return TypeCredit
		}
	}
	return TypeDebit
}

// inferCategory scans narration for the first matching keyword, defaulting
// to Misc when nothing matches.
func inferCategory(narration string) string {
	lower := strings.ToLower(narration)
	for _, entry := range categoryKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.category
		}
	}
	return miscCategory
}

func normalizeRecord(m map[string]any) Transaction {
	narration := getString(m, "narration", "Narration", "description", "remarks", "particulars")
	mode := getString(m, "mode", "Mode", "channel", "txnMode")
	return Transaction{
		TxnID:     getString(m, "txnId", "txn_id", "TxnId", "id"),
		Date:      parseDate(m),
		Type:      detectType(m, narration),
		Mode:      mode,
		Amount:    getFloat(m, "amount", "Amount", "txnAmount"),
		Balance:   getFloat(m, "balance", "Balance", "currentBalance"),
		Narration: narration,
		Reference: getString(m, "reference", "Reference", "refNumber", "chequeNum"),
		Category:  inferCategory(narration),
	}
}
