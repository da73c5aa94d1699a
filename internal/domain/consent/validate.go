package consent

import (
	"strings"

	platerrors "github.com/novacredit/engine/internal/platform/errors"
)

// ValidateCreateInput rejects malformed consent.create input before any
// persistence attempt, per the consent store's validation contract.
func ValidateCreateInput(in CreateInput) error {
	if strings.TrimSpace(in.UserReferenceID) == "" {
		return platerrors.Validation("user_reference_id is required", nil)
	}
	if len(in.FITypes) == 0 {
		return platerrors.Validation("fi_types must be non-empty", nil)
	}
	for _, ft := range in.FITypes {
		if !AllowedFITypes[ft] {
			return platerrors.Validation("unsupported fi_type", map[string]any{"fi_type": ft})
		}
	}
	if in.DataRange.From.IsZero() || in.DataRange.To.IsZero() {
		return platerrors.Validation("data_range.from and data_range.to are required", nil)
	}
	if !in.DataRange.From.Before(in.DataRange.To) {
		return platerrors.Validation("data_range.from must be before data_range.to", nil)
	}
	switch in.DataLife.Unit {
	case DataLifeDay, DataLifeMonth, DataLifeYear, DataLifeInf:
	default:
		return platerrors.Validation("data_life.unit must be DAY, MONTH, YEAR or INF", nil)
	}
	if in.DataLife.Value < 0 {
		return platerrors.Validation("data_life.value must be non-negative", nil)
	}
	return nil
}
