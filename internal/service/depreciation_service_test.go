package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/andrifm/depreciation-engine/internal/config"
	"github.com/andrifm/depreciation-engine/internal/domain"
	"github.com/andrifm/depreciation-engine/internal/mocks"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			DefaultSalvageRate:      "0.10",
			DefaultUsefulLifeMonths: 60,
			ScheduleCacheTTL:        "24h",
		},
	}
}

func newTestService() (*DepreciationService, *mocks.MockAssetRepository, *mocks.MockEntryRepository) {
	assetRepo := &mocks.MockAssetRepository{}
	entryRepo := &mocks.MockEntryRepository{}
	svc := NewDepreciationService(assetRepo, entryRepo, nil, testConfig())
	return svc, assetRepo, entryRepo
}

func activeAsset(accumulated int64) *domain.FixedAsset {
	return &domain.FixedAsset{
		AssetID:                 "AST-001",
		Name:                    "CNC milling machine",
		Cost:                    120_000_000,
		SalvageValue:            20_000_000,
		AccumulatedDepreciation: accumulated,
		UsefulLifeMonths:        60,
		PurchaseDate:            time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status:                  domain.AssetStatusActive,
		Version:                 3,
	}
}

func TestRegisterAsset_Success(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	salvage := int64(20_000_000)
	request := &domain.RegisterAssetRequest{
		AssetID:          "AST-001",
		Name:             "CNC milling machine",
		Cost:             120_000_000,
		SalvageValue:     &salvage,
		UsefulLifeMonths: 60,
		PurchaseDate:     "2024-03-15",
	}

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(nil, sql.ErrNoRows)
	assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(asset *domain.FixedAsset) bool {
		return asset.AssetID == "AST-001" &&
			asset.Status == domain.AssetStatusActive &&
			asset.AccumulatedDepreciation == 0 &&
			asset.Version == 1
	})).Return(nil)

	asset, schedule, err := svc.RegisterAsset(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, int64(20_000_000), asset.SalvageValue)
	assert.Len(t, schedule, 60)
	assert.Equal(t, int64(100_000_000), schedule[59].AccumulatedTotal)

	assetRepo.AssertExpectations(t)
}

func TestRegisterAsset_CostEqualsSalvageIsFullyDepreciated(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	// Nothing to depreciate: the asset is born fully depreciated rather than
	// sitting in the active pool forever.
	salvage := int64(1000)
	request := &domain.RegisterAssetRequest{
		AssetID:          "AST-005",
		Name:             "spare fixture",
		Cost:             1000,
		SalvageValue:     &salvage,
		UsefulLifeMonths: 12,
		PurchaseDate:     "2024-03-15",
	}

	assetRepo.On("GetByAssetID", mock.Anything, "AST-005").Return(nil, sql.ErrNoRows)
	assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(asset *domain.FixedAsset) bool {
		return asset.Status == domain.AssetStatusFullyDepreciated
	})).Return(nil)

	asset, _, err := svc.RegisterAsset(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusFullyDepreciated, asset.Status)

	assetRepo.AssertExpectations(t)
}

func TestRegisterAsset_DefaultSalvageFromRate(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	request := &domain.RegisterAssetRequest{
		AssetID:      "AST-002",
		Name:         "Delivery van",
		Cost:         1_000_000,
		PurchaseDate: "2024-01-01",
		// UsefulLifeMonths omitted: falls back to the configured default.
	}

	assetRepo.On("GetByAssetID", mock.Anything, "AST-002").Return(nil, sql.ErrNoRows)
	assetRepo.On("Create", mock.Anything, mock.MatchedBy(func(asset *domain.FixedAsset) bool {
		return asset.SalvageValue == 100_000 && asset.UsefulLifeMonths == 60
	})).Return(nil)

	asset, _, err := svc.RegisterAsset(context.Background(), request)

	require.NoError(t, err)
	assert.Equal(t, int64(100_000), asset.SalvageValue)
	assert.Equal(t, 60, asset.UsefulLifeMonths)

	assetRepo.AssertExpectations(t)
}

func TestRegisterAsset_AlreadyExists(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)

	asset, schedule, err := svc.RegisterAsset(context.Background(), &domain.RegisterAssetRequest{
		AssetID:      "AST-001",
		Name:         "duplicate",
		Cost:         1000,
		PurchaseDate: "2024-01-01",
	})

	assert.Nil(t, asset)
	assert.Nil(t, schedule)
	assert.ErrorIs(t, err, customError.ErrAssetAlreadyExists)
}

func TestRegisterAsset_SalvageAboveCostRejected(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	salvage := int64(5000)
	assetRepo.On("GetByAssetID", mock.Anything, "AST-003").Return(nil, sql.ErrNoRows)

	asset, _, err := svc.RegisterAsset(context.Background(), &domain.RegisterAssetRequest{
		AssetID:      "AST-003",
		Name:         "misentered asset",
		Cost:         1000,
		SalvageValue: &salvage,
		PurchaseDate: "2024-01-01",
	})

	assert.Nil(t, asset)
	assert.ErrorIs(t, err, customError.ErrInvalidSalvage)
	assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRunPeriod_PostsMonthlyAmount(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2024, 4).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.MatchedBy(func(entry *domain.DepreciationEntry) bool {
		return entry.AssetID == "AST-001" &&
			entry.PeriodYear == 2024 &&
			entry.PeriodMonth == 4 &&
			entry.Amount == 1_666_666 &&
			entry.BookValueAfter == 118_333_334
	}), domain.AssetStatusActive, int64(3)).Return(nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2024, 4)

	require.NoError(t, err)
	assert.True(t, result.Posted)
	assert.Equal(t, int64(1_666_666), result.Amount)
	assert.Equal(t, domain.AssetStatusActive, result.NewStatus)

	entryRepo.AssertExpectations(t)
}

func TestRunPeriod_FinalPeriodAbsorbsResidue(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	// 59 months posted: remaining depreciable is 4, well under the floored
	// monthly amount. The caller rounds down to the open balance and the
	// asset flips to FULLY_DEPRECIATED.
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(99_999_996), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2029, 2).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.MatchedBy(func(entry *domain.DepreciationEntry) bool {
		return entry.Amount == 4 && entry.BookValueAfter == 20_000_000
	}), domain.AssetStatusFullyDepreciated, int64(3)).Return(nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2029, 2)

	require.NoError(t, err)
	assert.True(t, result.Posted)
	assert.Equal(t, int64(4), result.Amount)
	assert.Equal(t, domain.AssetStatusFullyDepreciated, result.NewStatus)
}

func TestRunPeriod_FinalPeriodAbsorbsResidueAboveMonthly(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	// 59 floored months posted: the open balance of 1,666,706 exceeds the
	// monthly amount. Period 60 is the last scheduled one, so the run posts
	// the full balance exactly as the preview schedule projects.
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(98_333_294), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2029, 2).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.MatchedBy(func(entry *domain.DepreciationEntry) bool {
		return entry.Amount == 1_666_706 && entry.BookValueAfter == 20_000_000
	}), domain.AssetStatusFullyDepreciated, int64(3)).Return(nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2029, 2)

	require.NoError(t, err)
	assert.True(t, result.Posted)
	assert.Equal(t, int64(1_666_706), result.Amount)
	assert.Equal(t, domain.AssetStatusFullyDepreciated, result.NewStatus)

	entryRepo.AssertExpectations(t)
}

func TestRunPeriod_ZeroMonthlyAssetPostsResidueInFinalPeriod(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	// Depreciable base smaller than the life: the monthly amount floors to
	// zero everywhere, and the whole base posts in the final period.
	asset := &domain.FixedAsset{
		AssetID:          "AST-004",
		Name:             "label printer",
		Cost:             1004,
		SalvageValue:     1000,
		UsefulLifeMonths: 6,
		PurchaseDate:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:           domain.AssetStatusActive,
		Version:          1,
	}
	assetRepo.On("GetByAssetID", mock.Anything, "AST-004").Return(asset, nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-004", 2024, 6).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.MatchedBy(func(entry *domain.DepreciationEntry) bool {
		return entry.Amount == 4 && entry.BookValueAfter == 1000
	}), domain.AssetStatusFullyDepreciated, int64(1)).Return(nil)

	result, err := svc.RunPeriod(context.Background(), "AST-004", 2024, 6)

	require.NoError(t, err)
	assert.True(t, result.Posted)
	assert.Equal(t, int64(4), result.Amount)
	assert.Equal(t, domain.AssetStatusFullyDepreciated, result.NewStatus)

	entryRepo.AssertExpectations(t)
}

func TestRunPeriod_ZeroMonthlySkipReasonStatesBalance(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	asset := &domain.FixedAsset{
		AssetID:          "AST-004",
		Cost:             1004,
		SalvageValue:     1000,
		UsefulLifeMonths: 6,
		PurchaseDate:     time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:           domain.AssetStatusActive,
		Version:          1,
	}
	assetRepo.On("GetByAssetID", mock.Anything, "AST-004").Return(asset, nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-004", 2024, 3).Return(false, nil)

	// Period 3 of 6: nothing to post yet, but the reason must name the open
	// balance instead of claiming it is gone.
	result, err := svc.RunPeriod(context.Background(), "AST-004", 2024, 3)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Reason, "remaining balance 4")
	entryRepo.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPeriod_SkipsPrePurchasePeriod(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2024, 2)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Reason, "before purchase date")
	entryRepo.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPeriod_SkipsNonActiveAsset(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	asset := activeAsset(100_000_000)
	asset.Status = domain.AssetStatusFullyDepreciated
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(asset, nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2029, 3)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Reason, domain.AssetStatusFullyDepreciated)
	entryRepo.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPeriod_SkipsAlreadyPostedPeriod(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(1_666_666), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2024, 4).Return(true, nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2024, 4)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Reason, "already posted")
	entryRepo.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPeriod_SkipsExhaustedBalance(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	// Status still reads ACTIVE but the depreciable balance is gone; the run
	// skips rather than posting a zero entry.
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(100_000_000), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2029, 3).Return(false, nil)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2029, 3)

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Contains(t, result.Reason, "no remaining depreciable balance")
	entryRepo.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunPeriod_ConflictOnStaleSnapshot(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, "AST-001", 2024, 4).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(customError.ErrAssetConflict)

	result, err := svc.RunPeriod(context.Background(), "AST-001", 2024, 4)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrAssetConflict)
}

func TestRunPeriod_AssetNotFound(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "MISSING").Return(nil, sql.ErrNoRows)

	result, err := svc.RunPeriod(context.Background(), "MISSING", 2024, 4)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrAssetNotFound)
}

func TestRunPeriodAll_MixedOutcomes(t *testing.T) {
	svc, assetRepo, entryRepo := newTestService()

	eligible := activeAsset(0)
	exhausted := activeAsset(100_000_000)
	exhausted.AssetID = "AST-002"

	assetRepo.On("ListActive", mock.Anything).Return([]*domain.FixedAsset{eligible, exhausted}, nil)
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(eligible, nil)
	assetRepo.On("GetByAssetID", mock.Anything, "AST-002").Return(exhausted, nil)
	entryRepo.On("ExistsForPeriod", mock.Anything, mock.Anything, 2024, 4).Return(false, nil)
	entryRepo.On("Post", mock.Anything, mock.MatchedBy(func(entry *domain.DepreciationEntry) bool {
		return entry.AssetID == "AST-001"
	}), domain.AssetStatusActive, int64(3)).Return(nil)

	results, err := svc.RunPeriodAll(context.Background(), 2024, 4)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Posted)
	assert.True(t, results[1].Skipped)
	assert.Contains(t, results[1].Reason, "no remaining depreciable balance")
}

func TestGetBookValue(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(99_999_996), nil)

	bookValue, err := svc.GetBookValue(context.Background(), "AST-001")

	require.NoError(t, err)
	assert.Equal(t, int64(20_000_004), bookValue.BookValue)
	assert.Equal(t, int64(4), bookValue.RemainingDepreciable)
	assert.Equal(t, int64(99_999_996), bookValue.AccumulatedToDate)
}

func TestDisposeAsset(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)
	assetRepo.On("UpdateStatus", mock.Anything, "AST-001", domain.AssetStatusDisposed, int64(3)).Return(nil)

	asset, err := svc.DisposeAsset(context.Background(), "AST-001")

	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusDisposed, asset.Status)
	assetRepo.AssertExpectations(t)
}

func TestDisposeAsset_AlreadyDisposed(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	disposed := activeAsset(0)
	disposed.Status = domain.AssetStatusDisposed
	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(disposed, nil)

	asset, err := svc.DisposeAsset(context.Background(), "AST-001")

	assert.Nil(t, asset)
	assert.ErrorIs(t, err, customError.ErrAssetNotActive)
	assetRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPreviewSchedule_WithoutCache(t *testing.T) {
	svc, assetRepo, _ := newTestService()

	assetRepo.On("GetByAssetID", mock.Anything, "AST-001").Return(activeAsset(0), nil)

	schedule, err := svc.PreviewSchedule(context.Background(), "AST-001")

	require.NoError(t, err)
	require.Len(t, schedule, 60)
	assert.Equal(t, int64(100_000_000), schedule[59].AccumulatedTotal)
	assert.True(t, schedule[59].IsFullyDepreciated)
}
