package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andrifm/depreciation-engine/internal/domain"
	"github.com/andrifm/depreciation-engine/internal/service"
	customError "github.com/andrifm/depreciation-engine/pkg/errors"
	"github.com/andrifm/depreciation-engine/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type AssetHandler struct {
	service   *service.DepreciationService
	validator *validator.Validate
}

func NewAssetHandler(service *service.DepreciationService) *AssetHandler {
	return &AssetHandler{
		service:   service,
		validator: validator.New(),
	}
}

// RegisterAsset handles POST /api/v1/assets
func (h *AssetHandler) RegisterAsset(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	asset, schedule, err := h.service.RegisterAsset(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Created(w, domain.RegisterAssetResponse{Asset: asset, Schedule: schedule})
}

// GetAsset handles GET /api/v1/assets/{assetId}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	asset, err := h.service.GetAsset(r.Context(), assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, asset)
}

// GetBookValue handles GET /api/v1/assets/{assetId}/book-value
func (h *AssetHandler) GetBookValue(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	bookValue, err := h.service.GetBookValue(r.Context(), assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, bookValue)
}

// GetSchedule handles GET /api/v1/assets/{assetId}/schedule
func (h *AssetHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	schedule, err := h.service.PreviewSchedule(r.Context(), assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.ScheduleResponse{AssetID: assetID, Schedule: schedule})
}

// GetEntries handles GET /api/v1/assets/{assetId}/entries
func (h *AssetHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	entries, err := h.service.GetEntries(r.Context(), assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, domain.EntriesResponse{AssetID: assetID, Entries: entries})
}

// Depreciate handles POST /api/v1/assets/{assetId}/depreciate
func (h *AssetHandler) Depreciate(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	var req domain.RunPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	result, err := h.service.RunPeriod(r.Context(), assetID, req.Year, req.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, result)
}

// Dispose handles POST /api/v1/assets/{assetId}/dispose
func (h *AssetHandler) Dispose(w http.ResponseWriter, r *http.Request) {
	assetID := mux.Vars(r)["assetId"]

	asset, err := h.service.DisposeAsset(r.Context(), assetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, asset)
}

// RunPeriodAll handles POST /api/v1/periods/run
func (h *AssetHandler) RunPeriodAll(w http.ResponseWriter, r *http.Request) {
	var req domain.RunPeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		response.BadRequest(w, "request validation failed", err)
		return
	}

	results, err := h.service.RunPeriodAll(r.Context(), req.Year, req.Month)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.Success(w, results)
}

// writeServiceError maps domain errors onto HTTP status codes, keeping the
// business error message intact for the operator.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, customError.ErrAssetNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, customError.ErrAssetAlreadyExists),
		errors.Is(err, customError.ErrEntryAlreadyExists),
		errors.Is(err, customError.ErrAssetConflict),
		errors.Is(err, customError.ErrAssetNotActive):
		response.Conflict(w, err.Error(), err)
	case errors.Is(err, customError.ErrInvalidUsefulLife),
		errors.Is(err, customError.ErrInvalidSalvage):
		response.BadRequest(w, err.Error(), err)
	case errors.Is(err, customError.ErrEntryRejected):
		response.UnprocessableEntity(w, err.Error(), err)
	default:
		response.InternalServerError(w, "internal server error", err)
	}
}
