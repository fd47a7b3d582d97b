package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andrifm/depreciation-engine/internal/domain"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

type entryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Post runs the read-validate-write cycle's write half in one transaction:
// the entry insert and the asset update either both land or neither does.
// The version predicate serializes concurrent period runs per asset.
func (r *entryRepository) Post(ctx context.Context, entry *domain.DepreciationEntry, newStatus string, expectedVersion int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO depreciation_entries (id, asset_id, period_year, period_month, amount, book_value_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.ExecContext(ctx, insertQuery,
		entry.ID,
		entry.AssetID,
		entry.PeriodYear,
		entry.PeriodMonth,
		entry.Amount,
		entry.BookValueAfter,
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return customError.ErrEntryAlreadyExists
		}
		return err
	}

	updateQuery := `
		UPDATE fixed_assets
		SET accumulated_depreciation = accumulated_depreciation + $2,
			status = $3, version = version + 1, updated_at = $4
		WHERE asset_id = $1 AND version = $5
	`

	result, err := tx.ExecContext(ctx, updateQuery,
		entry.AssetID,
		entry.Amount,
		newStatus,
		time.Now(),
		expectedVersion,
	)
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

	return tx.Commit()
}

func (r *entryRepository) GetByAssetID(ctx context.Context, assetID string) ([]*domain.DepreciationEntry, error) {
	query := `
		SELECT id, asset_id, period_year, period_month, amount, book_value_after, created_at
		FROM depreciation_entries
		WHERE asset_id = $1
		ORDER BY period_year, period_month
	`

	var entries []*domain.DepreciationEntry
	err := r.db.SelectContext(ctx, &entries, query, assetID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *entryRepository) ExistsForPeriod(ctx context.Context, assetID string, year, month int) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM depreciation_entries
			WHERE asset_id = $1 AND period_year = $2 AND period_month = $3
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, assetID, year, month)
	if err != nil {
		return false, err
	}

	return exists, nil
}
