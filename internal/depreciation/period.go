package depreciation

import (
	"fmt"
	"time"

	"github.com/andrifm/depreciation-engine/internal/domain"
)

// ShouldDepreciateInPeriod decides whether the given accounting period should
// generate a depreciation entry for the asset. Ineligibility is an advisory
// result with a reason, not an error: callers skip and move on.
//
// Duplicate postings for the same period are not checked here; that guard is
// the persistence layer's unique (asset, period) constraint.
func ShouldDepreciateInPeriod(asset *domain.FixedAsset, periodYear, periodMonth int) domain.DepreciationCheckResult {
	if asset.Status != domain.AssetStatusActive {
		return domain.DepreciationCheckResult{
			ShouldDepreciate: false,
			Reason:           fmt.Sprintf("asset status is %s, only ACTIVE assets depreciate", asset.Status),
		}
	}

	// Compare first-of-month to first-of-month; day-of-month never matters.
	target := time.Date(periodYear, time.Month(periodMonth), 1, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(asset.PurchaseDate.Year(), asset.PurchaseDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	if target.Before(purchase) {
		return domain.DepreciationCheckResult{
			ShouldDepreciate: false,
			Reason: fmt.Sprintf("period %d-%02d is before purchase date %s",
				periodYear, periodMonth, asset.PurchaseDate.Format("2006-01-02")),
		}
	}

	return domain.DepreciationCheckResult{ShouldDepreciate: true}
}

// PeriodIndex returns the 1-based position of the target period in the
// asset's life, counting from the purchase month. Periods before the purchase
// month yield values of zero or less.
func PeriodIndex(purchaseDate time.Time, periodYear, periodMonth int) int {
	return (periodYear-purchaseDate.Year())*12 + periodMonth - int(purchaseDate.Month()) + 1
}

// PreviousPeriod returns the calendar year and month immediately before t.
// The scheduler posts each month's depreciation at the start of the next one.
func PreviousPeriod(t time.Time) (year, month int) {
	prev := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}
