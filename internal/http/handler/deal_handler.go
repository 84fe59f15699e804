package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/auth"
	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/mapper"
	"github.com/pipecrest/crm-api/internal/service"
)

// DealHandler exposes the deal surface the reporting engine owns: CRUD plus
// the stage transition that drives probability snapshots and close dates.
type DealHandler struct {
	deals  *service.DealService
	logger *zap.Logger
}

func NewDealHandler(deals *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		deals:  deals,
		logger: logger,
	}
}

// Create handles POST /deals
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.deals.CreateDeal(r.Context(), requestUserID(r), req)
	if err != nil {
		if errors.Is(err, service.ErrStageNotFound) {
			respondWithError(w, http.StatusBadRequest, "Pipeline stage not found")
			return
		}
		h.logger.Error("failed to create deal", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create deal")
		return
	}

	w.Header().Set("Location", "/api/v1/deals/"+deal.ID.String())
	respondJSON(w, http.StatusCreated, mapper.ToDealDTO(deal))
}

// GetByID handles GET /deals/{id}
func (h *DealHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	deal, err := h.deals.GetDeal(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToDealDTO(deal))
}

// List handles GET /deals. The date and owner filters mirror the report
// endpoints so a dashboard can drill from an aggregate into its rows.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	deals, total, err := h.deals.ListDeals(r.Context(), scopeParams(r), page, pageSize)
	if err != nil {
		h.logger.Error("failed to list deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deals")
		return
	}

	respondJSON(w, http.StatusOK, domain.NewPaginatedResponse(mapper.ToDealDTOs(deals), total, page, pageSize))
}

// Update handles PUT /deals/{id}
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.deals.UpdateDeal(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to update deal", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to update deal")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToDealDTO(deal))
}

// Transition handles POST /deals/{id}/transition
func (h *DealHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	var req domain.TransitionDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.deals.TransitionStage(r.Context(), id, req.StageID, requestUserID(r), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDealNotFound):
			respondWithError(w, http.StatusNotFound, "Deal not found")
		case errors.Is(err, service.ErrStageNotFound):
			respondWithError(w, http.StatusBadRequest, "Pipeline stage not found")
		default:
			h.logger.Error("failed to transition deal", zap.Error(err), zap.String("deal_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to transition deal")
		}
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToDealDTO(deal))
}

// StageHistory handles GET /deals/{id}/history
func (h *DealHandler) StageHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID: must be a valid UUID")
		return
	}

	history, err := h.deals.StageHistory(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDealNotFound) {
			respondWithError(w, http.StatusNotFound, "Deal not found")
			return
		}
		h.logger.Error("failed to get stage history", zap.Error(err), zap.String("deal_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToStageHistoryDTOs(history))
}

// Stages handles GET /stages
func (h *DealHandler) Stages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.deals.ListStages(r.Context())
	if err != nil {
		h.logger.Error("failed to list pipeline stages", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list pipeline stages")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToPipelineStageDTOs(stages))
}

// requestUserID returns the authenticated user's id, or "" when the request
// carries no user context.
func requestUserID(r *http.Request) string {
	if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
		return userCtx.UserID
	}
	return ""
}
