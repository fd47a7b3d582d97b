// Package depreciation implements straight-line depreciation over integer
// minor currency units. Every function here is pure: no I/O, no shared state,
// no floating point. Persistence, idempotency, and concurrency control belong
// to the calling service.
package depreciation

import (
	"time"

	"github.com/andrifm/depreciation-engine/internal/domain"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"
)

// CalculateMonthlyDepreciation returns the per-period straight-line amount:
// floor((cost - salvage) / usefulLifeMonths).
//
// Flooring is deliberate: the engine never over-depreciates in early periods.
// The truncation residue accumulates and is absorbed by the final schedule
// period, not rounded away. A non-positive useful life is a fatal input error;
// cost at or below salvage yields zero, never a negative amount.
func CalculateMonthlyDepreciation(cost, salvageValue int64, usefulLifeMonths int) (int64, error) {
	if usefulLifeMonths <= 0 {
		return 0, customError.WrapInvalidUsefulLife(usefulLifeMonths)
	}

	if cost <= salvageValue {
		return 0, nil
	}

	// Operands are non-negative here, so integer division floors.
	return (cost - salvageValue) / int64(usefulLifeMonths), nil
}

// CalculateBookValue returns cost minus accumulated depreciation. No clamping:
// a negative result means the caller supplied an out-of-invariant accumulated
// total and should be surfaced, not hidden.
func CalculateBookValue(cost, accumulatedDepreciation int64) int64 {
	return cost - accumulatedDepreciation
}

// CalculateRemainingDepreciable returns the depreciable balance still open,
// never negative. This is the authoritative ceiling the entry validator
// checks proposed amounts against.
func CalculateRemainingDepreciable(cost, salvageValue, accumulatedDepreciation int64) int64 {
	remaining := (cost - salvageValue) - accumulatedDepreciation
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GenerateSchedule projects the full straight-line schedule, one entry per
// calendar month starting at startDate, for at most usefulLifeMonths entries.
//
// Each period posts min(monthlyAmount, remaining); the final period posts the
// whole remaining balance so the cumulative total lands exactly on
// cost - salvage with the flooring residue absorbed. The schedule terminates
// early once book value reaches the salvage floor, and the last entry emitted
// is always flagged fully depreciated.
func GenerateSchedule(cost, salvageValue int64, usefulLifeMonths int, startDate time.Time) ([]domain.DepreciationScheduleEntry, error) {
	monthlyAmount, err := CalculateMonthlyDepreciation(cost, salvageValue, usefulLifeMonths)
	if err != nil {
		return nil, err
	}

	schedule := make([]domain.DepreciationScheduleEntry, 0, usefulLifeMonths)

	var accumulated int64
	month := int(startDate.Month())
	year := startDate.Year()

	for period := 1; period <= usefulLifeMonths; period++ {
		remaining := CalculateRemainingDepreciable(cost, salvageValue, accumulated)

		amount := monthlyAmount
		if amount > remaining {
			amount = remaining
		}
		if period == usefulLifeMonths {
			// Final period absorbs the truncation residue.
			amount = remaining
		}

		accumulated += amount
		bookValue := CalculateBookValue(cost, accumulated)
		fullyDepreciated := bookValue <= salvageValue

		schedule = append(schedule, domain.DepreciationScheduleEntry{
			Month:              month,
			Year:               year,
			MonthlyAmount:      amount,
			AccumulatedTotal:   accumulated,
			BookValue:          bookValue,
			IsFullyDepreciated: fullyDepreciated,
		})

		if fullyDepreciated {
			break
		}

		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	return schedule, nil
}
