package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/andrifm/depreciation-engine/internal/config"
	"github.com/andrifm/depreciation-engine/internal/depreciation"
	"github.com/andrifm/depreciation-engine/internal/domain"
	"github.com/andrifm/depreciation-engine/internal/repository"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DepreciationService orchestrates the per-period cycle around the pure
// engine: load a fresh asset snapshot, gate eligibility, compute the amount,
// validate it, then persist the entry and re-derived status atomically.
type DepreciationService struct {
	assetRepo repository.AssetRepository
	entryRepo repository.EntryRepository
	redis     *redis.Client
	config    *config.Config
}

func NewDepreciationService(
	assetRepo repository.AssetRepository,
	entryRepo repository.EntryRepository,
	redis *redis.Client,
	config *config.Config,
) *DepreciationService {
	return &DepreciationService{
		assetRepo: assetRepo,
		entryRepo: entryRepo,
		redis:     redis,
		config:    config,
	}
}

// RegisterAsset capitalizes a new asset and returns it with its projected
// depreciation schedule.
func (s *DepreciationService) RegisterAsset(ctx context.Context, request *domain.RegisterAssetRequest) (*domain.FixedAsset, []domain.DepreciationScheduleEntry, error) {
	existing, err := s.assetRepo.GetByAssetID(ctx, request.AssetID)
	if err == nil && existing != nil {
		return nil, nil, customError.WrapAssetAlreadyExists(request.AssetID)
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	purchaseDate, err := time.Parse("2006-01-02", request.PurchaseDate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid purchase date: %w", err)
	}

	usefulLife := request.UsefulLifeMonths
	if usefulLife == 0 {
		usefulLife = s.config.Business.DefaultUsefulLifeMonths
	}
	if usefulLife <= 0 {
		return nil, nil, customError.WrapInvalidUsefulLife(usefulLife)
	}

	salvage := request.SalvageFromRate(s.config.GetDefaultSalvageRate())
	if request.SalvageValue != nil {
		salvage = *request.SalvageValue
	}
	// The engine clamps a salvage above cost to a zero depreciable base, but
	// nothing legitimate registers an asset that way. Reject it at the door.
	if salvage > request.Cost {
		return nil, nil, customError.WrapInvalidSalvage(salvage, request.Cost)
	}

	schedule, err := depreciation.GenerateSchedule(request.Cost, salvage, usefulLife, purchaseDate)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	asset := &domain.FixedAsset{
		ID:                      uuid.New(),
		AssetID:                 request.AssetID,
		Name:                    request.Name,
		Cost:                    request.Cost,
		SalvageValue:            salvage,
		AccumulatedDepreciation: 0,
		UsefulLifeMonths:        usefulLife,
		PurchaseDate:            purchaseDate,
		Status:                  depreciation.DetermineAssetStatus(request.Cost, salvage, 0),
		Version:                 1,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return asset, schedule, nil
}

// GetAsset returns the current snapshot of an asset.
func (s *DepreciationService) GetAsset(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	asset, err := s.assetRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapAssetNotFound(assetID)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return asset, nil
}

// GetBookValue returns the asset's current book value and open depreciable balance.
func (s *DepreciationService) GetBookValue(ctx context.Context, assetID string) (*domain.BookValueResponse, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	return &domain.BookValueResponse{
		AssetID:              asset.AssetID,
		BookValue:            depreciation.CalculateBookValue(asset.Cost, asset.AccumulatedDepreciation),
		RemainingDepreciable: depreciation.CalculateRemainingDepreciable(asset.Cost, asset.SalvageValue, asset.AccumulatedDepreciation),
		AccumulatedToDate:    asset.AccumulatedDepreciation,
		Status:               asset.Status,
	}, nil
}

// PreviewSchedule regenerates the asset's full schedule. The projection only
// changes when the asset does, so it is cached in redis and invalidated on
// every posting.
func (s *DepreciationService) PreviewSchedule(ctx context.Context, assetID string) ([]domain.DepreciationScheduleEntry, error) {
	cacheKey := scheduleCacheKey(assetID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var schedule []domain.DepreciationScheduleEntry
			if err := json.Unmarshal([]byte(cached), &schedule); err == nil {
				return schedule, nil
			}
		}
	}

	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	schedule, err := depreciation.GenerateSchedule(asset.Cost, asset.SalvageValue, asset.UsefulLifeMonths, asset.PurchaseDate)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(schedule); err == nil {
			if err := s.redis.Set(ctx, cacheKey, payload, s.config.GetScheduleCacheTTL()).Err(); err != nil {
				log.Printf("failed to cache schedule for asset %s: %v", assetID, err)
			}
		}
	}

	return schedule, nil
}

// GetEntries returns all posted depreciation entries for an asset.
func (s *DepreciationService) GetEntries(ctx context.Context, assetID string) ([]*domain.DepreciationEntry, error) {
	if _, err := s.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.GetByAssetID(ctx, assetID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}

// RunPeriod executes one depreciation cycle for an asset and accounting
// period. Ineligible and exhausted assets come back as skipped results with
// the advisory reason preserved verbatim; only infrastructure failures and
// fatal input errors are returned as errors.
func (s *DepreciationService) RunPeriod(ctx context.Context, assetID string, year, month int) (*domain.PeriodRunResult, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	result := &domain.PeriodRunResult{AssetID: assetID, Year: year, Month: month}

	check := depreciation.ShouldDepreciateInPeriod(asset, year, month)
	if !check.ShouldDepreciate {
		result.Skipped = true
		result.Reason = check.Reason
		return result, nil
	}

	exists, err := s.entryRepo.ExistsForPeriod(ctx, assetID, year, month)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if exists {
		result.Skipped = true
		result.Reason = fmt.Sprintf("entry already posted for period %d-%02d", year, month)
		return result, nil
	}

	monthlyAmount, err := depreciation.CalculateMonthlyDepreciation(asset.Cost, asset.SalvageValue, asset.UsefulLifeMonths)
	if err != nil {
		return nil, err
	}

	// Caller-side final-period rounding: the engine floors every monthly
	// amount, so once the asset's last scheduled period is reached the run
	// posts whatever balance is still open, mirroring the schedule preview.
	remaining := depreciation.CalculateRemainingDepreciable(asset.Cost, asset.SalvageValue, asset.AccumulatedDepreciation)
	amount := monthlyAmount
	if amount > remaining {
		amount = remaining
	}
	if depreciation.PeriodIndex(asset.PurchaseDate, year, month) >= asset.UsefulLifeMonths {
		amount = remaining
	}
	if amount <= 0 {
		result.Skipped = true
		if remaining > 0 {
			result.Reason = fmt.Sprintf("monthly amount floors to zero, remaining balance %d posts in the final period", remaining)
		} else {
			result.Reason = "no remaining depreciable balance"
		}
		return result, nil
	}

	validation := depreciation.ValidateDepreciationEntry(asset, amount)
	if !validation.Valid {
		return nil, customError.WrapEntryRejected(assetID, validation.Error)
	}

	newAccumulated := asset.AccumulatedDepreciation + amount
	newStatus := depreciation.DetermineAssetStatus(asset.Cost, asset.SalvageValue, newAccumulated)

	entry := &domain.DepreciationEntry{
		ID:             uuid.New(),
		AssetID:        assetID,
		PeriodYear:     year,
		PeriodMonth:    month,
		Amount:         amount,
		BookValueAfter: depreciation.CalculateBookValue(asset.Cost, newAccumulated),
		CreatedAt:      time.Now(),
	}

	if err := s.entryRepo.Post(ctx, entry, newStatus, asset.Version); err != nil {
		switch {
		case errors.Is(err, customError.ErrEntryAlreadyExists):
			return nil, customError.WrapEntryAlreadyExists(assetID, year, month)
		case errors.Is(err, customError.ErrAssetConflict):
			return nil, customError.WrapAssetConflict(assetID)
		default:
			return nil, customError.WrapDatabaseError(err)
		}
	}

	s.invalidateCaches(ctx, assetID)

	result.Posted = true
	result.Amount = amount
	result.NewStatus = newStatus
	return result, nil
}

// RunPeriodAll runs the period for every active asset. Per-asset failures are
// logged and reported in the result set without aborting the batch.
func (s *DepreciationService) RunPeriodAll(ctx context.Context, year, month int) ([]*domain.PeriodRunResult, error) {
	assets, err := s.assetRepo.ListActive(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	results := make([]*domain.PeriodRunResult, 0, len(assets))
	for _, asset := range assets {
		result, err := s.RunPeriod(ctx, asset.AssetID, year, month)
		if err != nil {
			log.Printf("period run failed for asset %s (%d-%02d): %v", asset.AssetID, year, month, err)
			results = append(results, &domain.PeriodRunResult{
				AssetID: asset.AssetID,
				Year:    year,
				Month:   month,
				Skipped: true,
				Reason:  err.Error(),
			})
			continue
		}
		results = append(results, result)
	}

	return results, nil
}

// DisposeAsset marks an asset DISPOSED. One-way: a disposed asset is never
// fed back into the engine.
func (s *DepreciationService) DisposeAsset(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if asset.Status == domain.AssetStatusDisposed {
		return nil, customError.WrapAssetNotActive(assetID, asset.Status)
	}

	if err := s.assetRepo.UpdateStatus(ctx, assetID, domain.AssetStatusDisposed, asset.Version); err != nil {
		if errors.Is(err, customError.ErrAssetConflict) {
			return nil, customError.WrapAssetConflict(assetID)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	s.invalidateCaches(ctx, assetID)

	asset.Status = domain.AssetStatusDisposed
	asset.Version++
	return asset, nil
}

func (s *DepreciationService) invalidateCaches(ctx context.Context, assetID string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, scheduleCacheKey(assetID)).Err(); err != nil {
		log.Printf("failed to invalidate schedule cache for asset %s: %v", assetID, err)
	}
}

func scheduleCacheKey(assetID string) string {
	return fmt.Sprintf("asset:schedule:%s", assetID)
}
