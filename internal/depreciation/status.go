package depreciation

import "github.com/andrifm/depreciation-engine/internal/domain"

// DetermineAssetStatus derives the lifecycle status from current totals:
// FULLY_DEPRECIATED once book value is at or below salvage, ACTIVE otherwise.
// Idempotent, and never produces DISPOSED — disposal is an external, one-way
// transition that keeps an asset out of this engine entirely.
func DetermineAssetStatus(cost, salvageValue, accumulatedDepreciation int64) string {
	if CalculateBookValue(cost, accumulatedDepreciation) <= salvageValue {
		return domain.AssetStatusFullyDepreciated
	}
	return domain.AssetStatusActive
}
