package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrAssetAlreadyExists = errors.New("asset already exists")
	ErrAssetNotActive     = errors.New("asset is not active")
	ErrInvalidUsefulLife  = errors.New("useful life must be greater than zero")
	ErrInvalidSalvage     = errors.New("salvage value exceeds cost")
	ErrEntryAlreadyExists = errors.New("depreciation entry already exists for period")
	ErrEntryRejected      = errors.New("depreciation entry rejected")
	ErrAssetConflict      = errors.New("asset was modified concurrently")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeAssetNotFound      = "ASSET_NOT_FOUND"
	ErrCodeAssetAlreadyExists = "ASSET_ALREADY_EXISTS"
	ErrCodeAssetNotActive     = "ASSET_NOT_ACTIVE"
	ErrCodeInvalidUsefulLife  = "INVALID_USEFUL_LIFE"
	ErrCodeInvalidSalvage     = "INVALID_SALVAGE_VALUE"
	ErrCodeEntryAlreadyExists = "ENTRY_ALREADY_EXISTS"
	ErrCodeEntryRejected      = "ENTRY_REJECTED"
	ErrCodeAssetConflict      = "ASSET_CONFLICT"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeCacheError         = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapAssetNotFound(assetID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssetNotFound,
		fmt.Sprintf("Asset with ID %s not found", assetID),
		ErrAssetNotFound,
	)
}

func WrapAssetAlreadyExists(assetID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssetAlreadyExists,
		fmt.Sprintf("Asset with ID %s already exists", assetID),
		ErrAssetAlreadyExists,
	)
}

func WrapAssetNotActive(assetID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssetNotActive,
		fmt.Sprintf("Asset with ID %s has status %s", assetID, status),
		ErrAssetNotActive,
	)
}

func WrapInvalidUsefulLife(months int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidUsefulLife,
		fmt.Sprintf("Useful life of %d months is not valid", months),
		ErrInvalidUsefulLife,
	)
}

func WrapInvalidSalvage(salvage, cost int64) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidSalvage,
		fmt.Sprintf("Salvage value %d exceeds cost %d", salvage, cost),
		ErrInvalidSalvage,
	)
}

func WrapEntryAlreadyExists(assetID string, year, month int) *BusinessError {
	return NewBusinessError(
		ErrCodeEntryAlreadyExists,
		fmt.Sprintf("Asset %s already has a depreciation entry for %d-%02d", assetID, year, month),
		ErrEntryAlreadyExists,
	)
}

// WrapEntryRejected carries the validator's reason verbatim for audit logging.
func WrapEntryRejected(assetID, reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeEntryRejected,
		fmt.Sprintf("Depreciation entry for asset %s rejected: %s", assetID, reason),
		ErrEntryRejected,
	)
}

func WrapAssetConflict(assetID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAssetConflict,
		fmt.Sprintf("Asset %s was modified by a concurrent update, retry with a fresh snapshot", assetID),
		ErrAssetConflict,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
