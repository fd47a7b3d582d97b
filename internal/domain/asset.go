package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AssetStatusActive           = "ACTIVE"
	AssetStatusFullyDepreciated = "FULLY_DEPRECIATED"
	AssetStatusDisposed         = "DISPOSED"
)

// FixedAsset represents a capitalized asset. All monetary fields are integers
// in minor currency units; floating point is never used for money.
type FixedAsset struct {
	ID                      uuid.UUID `json:"id" db:"id"`
	AssetID                 string    `json:"asset_id" db:"asset_id"`
	Name                    string    `json:"name" db:"name"`
	Cost                    int64     `json:"cost" db:"cost"`
	SalvageValue            int64     `json:"salvage_value" db:"salvage_value"`
	AccumulatedDepreciation int64     `json:"accumulated_depreciation" db:"accumulated_depreciation"`
	UsefulLifeMonths        int       `json:"useful_life_months" db:"useful_life_months"`
	PurchaseDate            time.Time `json:"purchase_date" db:"purchase_date"`
	Status                  string    `json:"status" db:"status"`
	Version                 int64     `json:"version" db:"version"`
	CreatedAt               time.Time `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time `json:"updated_at" db:"updated_at"`
}

// DTOs for requests and responses

type RegisterAssetRequest struct {
	AssetID          string `json:"asset_id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Cost             int64  `json:"cost" validate:"required,gt=0"`
	UsefulLifeMonths int    `json:"useful_life_months" validate:"omitempty,gt=0"`
	PurchaseDate     string `json:"purchase_date" validate:"required,datetime=2006-01-02"`

	// SalvageValue is optional; when nil the configured default salvage rate
	// is applied against the cost.
	SalvageValue *int64 `json:"salvage_value" validate:"omitempty,gte=0"`
}

// SalvageFromRate applies the given rate to the request cost, truncated to
// minor units.
func (r *RegisterAssetRequest) SalvageFromRate(rate decimal.Decimal) int64 {
	return decimal.NewFromInt(r.Cost).Mul(rate).IntPart()
}

type RegisterAssetResponse struct {
	Asset    *FixedAsset                 `json:"asset"`
	Schedule []DepreciationScheduleEntry `json:"schedule"`
}

type BookValueResponse struct {
	AssetID              string `json:"asset_id"`
	BookValue            int64  `json:"book_value"`
	RemainingDepreciable int64  `json:"remaining_depreciable"`
	AccumulatedToDate    int64  `json:"accumulated_to_date"`
	Status               string `json:"status"`
}

type RunPeriodRequest struct {
	Year  int `json:"year" validate:"required,gte=1900"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}
