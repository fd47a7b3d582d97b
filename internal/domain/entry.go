package domain

import (
	"time"

	"github.com/google/uuid"
)

// DepreciationEntry is one posted depreciation amount for an asset and period.
// The unique (asset_id, period_year, period_month) index in storage is the
// idempotency guard against double-posting a period.
type DepreciationEntry struct {
	ID             uuid.UUID `json:"id" db:"id"`
	AssetID        string    `json:"asset_id" db:"asset_id"`
	PeriodYear     int       `json:"period_year" db:"period_year"`
	PeriodMonth    int       `json:"period_month" db:"period_month"`
	Amount         int64     `json:"amount" db:"amount"`
	BookValueAfter int64     `json:"book_value_after" db:"book_value_after"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type EntriesResponse struct {
	AssetID string               `json:"asset_id"`
	Entries []*DepreciationEntry `json:"entries"`
}

// PeriodRunResult reports the outcome of one asset's period run. Exactly one
// of Posted/Skipped is set; a skipped run carries the advisory reason verbatim.
type PeriodRunResult struct {
	AssetID   string `json:"asset_id"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Posted    bool   `json:"posted"`
	Skipped   bool   `json:"skipped"`
	Reason    string `json:"reason,omitempty"`
	Amount    int64  `json:"amount,omitempty"`
	NewStatus string `json:"new_status,omitempty"`
}
