package repository

import (
	"context"

	"github.com/andrifm/depreciation-engine/internal/domain"
)

// AssetRepository defines the interface for fixed-asset data operations
type AssetRepository interface {
	// Create creates a new fixed asset
	Create(ctx context.Context, asset *domain.FixedAsset) error

	// GetByAssetID retrieves an asset by its external asset ID
	GetByAssetID(ctx context.Context, assetID string) (*domain.FixedAsset, error)

	// ListActive retrieves all assets still eligible for depreciation
	ListActive(ctx context.Context) ([]*domain.FixedAsset, error)

	// UpdateStatus transitions an asset's status with an optimistic version
	// check; returns ErrAssetConflict when the snapshot is stale
	UpdateStatus(ctx context.Context, assetID, status string, expectedVersion int64) error
}

// EntryRepository defines the interface for posted depreciation entries
type EntryRepository interface {
	// Post atomically inserts the entry and applies it to the asset's
	// accumulated total, status, and version. The unique
	// (asset_id, period_year, period_month) index rejects duplicate periods;
	// a stale version yields ErrAssetConflict
	Post(ctx context.Context, entry *domain.DepreciationEntry, newStatus string, expectedVersion int64) error

	// GetByAssetID retrieves all posted entries for an asset, ordered by period
	GetByAssetID(ctx context.Context, assetID string) ([]*domain.DepreciationEntry, error)

	// ExistsForPeriod reports whether an entry is already posted for the period
	ExistsForPeriod(ctx context.Context, assetID string, year, month int) (bool, error)
}
