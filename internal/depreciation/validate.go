package depreciation

import (
	"fmt"

	"github.com/andrifm/depreciation-engine/internal/domain"
)

// ValidateDepreciationEntry gate-checks a proposed depreciation amount against
// the asset's accumulated state before it may be posted. Purely advisory: it
// never clamps or corrects the amount, the caller decides what to do with a
// rejection. Reasons are preserved verbatim for audit logging.
func ValidateDepreciationEntry(asset *domain.FixedAsset, proposedAmount int64) domain.ValidationResult {
	if proposedAmount <= 0 {
		return domain.ValidationResult{
			Valid: false,
			Error: "amount must be positive",
		}
	}

	remaining := CalculateRemainingDepreciable(asset.Cost, asset.SalvageValue, asset.AccumulatedDepreciation)
	if proposedAmount > remaining {
		return domain.ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("amount %d exceeds remaining depreciable %d", proposedAmount, remaining),
		}
	}

	// Simulate the posting. Implied by the remaining-balance check for
	// well-formed inputs, but catches amounts computed against a stale
	// accumulated total.
	newAccumulated := asset.AccumulatedDepreciation + proposedAmount
	newBookValue := CalculateBookValue(asset.Cost, newAccumulated)
	if newBookValue < asset.SalvageValue {
		return domain.ValidationResult{
			Valid: false,
			Error: fmt.Sprintf("posting would reduce book value to %d, below salvage value %d", newBookValue, asset.SalvageValue),
		}
	}

	return domain.ValidationResult{Valid: true}
}
