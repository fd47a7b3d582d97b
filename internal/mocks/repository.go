// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/andrifm/depreciation-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.FixedAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) GetByAssetID(ctx context.Context, assetID string) (*domain.FixedAsset, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) ListActive(ctx context.Context) ([]*domain.FixedAsset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.FixedAsset), args.Error(1)
}

func (m *MockAssetRepository) UpdateStatus(ctx context.Context, assetID, status string, expectedVersion int64) error {
	args := m.Called(ctx, assetID, status, expectedVersion)
	return args.Error(0)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Post(ctx context.Context, entry *domain.DepreciationEntry, newStatus string, expectedVersion int64) error {
	args := m.Called(ctx, entry, newStatus, expectedVersion)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByAssetID(ctx context.Context, assetID string) ([]*domain.DepreciationEntry, error) {
	args := m.Called(ctx, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DepreciationEntry), args.Error(1)
}

func (m *MockEntryRepository) ExistsForPeriod(ctx context.Context, assetID string, year, month int) (bool, error) {
	args := m.Called(ctx, assetID, year, month)
	return args.Bool(0), args.Error(1)
}
