package domain

// DepreciationScheduleEntry is one projected period in an asset's straight-line
// schedule. Derived and ephemeral: regenerated on every request, never persisted.
type DepreciationScheduleEntry struct {
	Month              int   `json:"month"`
	Year               int   `json:"year"`
	MonthlyAmount      int64 `json:"monthly_amount"`
	AccumulatedTotal   int64 `json:"accumulated_total"`
	BookValue          int64 `json:"book_value"`
	IsFullyDepreciated bool  `json:"is_fully_depreciated"`
}

type ScheduleResponse struct {
	AssetID  string                      `json:"asset_id"`
	Schedule []DepreciationScheduleEntry `json:"schedule"`
}

// DepreciationCheckResult is the advisory outcome of the period eligibility
// check. Reason is set only when ShouldDepreciate is false and must be
// preserved verbatim for audit logging.
type DepreciationCheckResult struct {
	ShouldDepreciate bool   `json:"should_depreciate"`
	Reason           string `json:"reason,omitempty"`
}

// ValidationResult is the advisory outcome of gate-checking a proposed
// depreciation amount. The engine never clamps or fixes an invalid amount;
// the caller decides what to do with a rejection.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}
