package repository

import (
	"context"
	"time"

	"github.com/andrifm/depreciation-engine/internal/domain"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
)

type assetRepository struct {
	db *sqlx.DB
}

func NewAssetRepository(db *sqlx.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.FixedAsset) error {
	query := `
		INSERT INTO fixed_assets (id, asset_id, name, cost, salvage_value, accumulated_depreciation,
			useful_life_months, purchase_date, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.AssetID,
		asset.Name,
		asset.Cost,
		asset.SalvageValue,
		asset.AccumulatedDepreciation,
		asset.UsefulLifeMonths,
		asset.PurchaseDate,
		asset.Status,
		asset.Version,
		asset.CreatedAt,
		asset.UpdatedAt,
	)

	return err
}

func (r *assetRepository) GetByAssetID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	query := `
		SELECT id, asset_id, name, cost, salvage_value, accumulated_depreciation,
			useful_life_months, purchase_date, status, version, created_at, updated_at
		FROM fixed_assets
		WHERE asset_id = $1
	`

	var asset domain.FixedAsset
	err := r.db.GetContext(ctx, &asset, query, assetID)
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (r *assetRepository) ListActive(ctx context.Context) ([]*domain.FixedAsset, error) {
	query := `
		SELECT id, asset_id, name, cost, salvage_value, accumulated_depreciation,
			useful_life_months, purchase_date, status, version, created_at, updated_at
		FROM fixed_assets
		WHERE status = $1
		ORDER BY asset_id
	`

	var assets []*domain.FixedAsset
	err := r.db.SelectContext(ctx, &assets, query, domain.AssetStatusActive)
	if err != nil {
		return nil, err
	}

	return assets, nil
}

func (r *assetRepository) UpdateStatus(ctx context.Context, assetID, status string, expectedVersion int64) error {
	query := `
		UPDATE fixed_assets
		SET status = $2, version = version + 1, updated_at = $3
		WHERE asset_id = $1 AND version = $4
	`

	result, err := r.db.ExecContext(ctx, query, assetID, status, time.Now(), expectedVersion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.ErrAssetConflict
	}

	return nil
}
