package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/auth"
	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/service"
)

// ReportHandler exposes the reporting facade over HTTP. Every endpoint is a
// GET taking the shared filter parameters date_from, date_to, owner_id and
// team_id.
type ReportHandler struct {
	reports *service.ReportingService
	logger  *zap.Logger
}

func NewReportHandler(reports *service.ReportingService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		logger:  logger,
	}
}

// scopeParams reads the shared report filters from the query string. Users
// without the manager or admin role are pinned to their own records
// regardless of what they asked for.
func scopeParams(r *http.Request) reporting.ScopeParams {
	params := reporting.ScopeParams{
		From:    parseDateParam(r, "date_from"),
		To:      parseDateParam(r, "date_to"),
		OwnerID: r.URL.Query().Get("owner_id"),
		TeamID:  r.URL.Query().Get("team_id"),
	}

	if userCtx, ok := auth.FromContext(r.Context()); ok && !userCtx.CanViewAllOwners() {
		params.OwnerID = userCtx.UserID
		params.TeamID = ""
	}

	return params
}

// SalesSummary handles GET /reports/sales
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.GetSalesSummary(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build sales summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build sales summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Performance handles GET /reports/performance. An unknown granularity
// value falls back to monthly.
func (h *ReportHandler) Performance(w http.ResponseWriter, r *http.Request) {
	granularity := domain.PeriodGranularity(r.URL.Query().Get("granularity"))

	periods, err := h.reports.GetPerformanceByPeriod(r.Context(), granularity, scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build performance report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build performance report")
		return
	}
	respondJSON(w, http.StatusOK, periods)
}

// Pipeline handles GET /reports/pipeline
func (h *ReportHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	stages, err := h.reports.GetPipelineAnalytics(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build pipeline analytics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build pipeline analytics")
		return
	}
	respondJSON(w, http.StatusOK, stages)
}

// Forecast handles GET /reports/forecast
func (h *ReportHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.reports.GetSalesForecast(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build sales forecast", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build sales forecast")
		return
	}
	respondJSON(w, http.StatusOK, forecast)
}

// Team handles GET /reports/team
func (h *ReportHandler) Team(w http.ResponseWriter, r *http.Request) {
	members, err := h.reports.GetTeamPerformance(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build team performance", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build team performance")
		return
	}
	respondJSON(w, http.StatusOK, members)
}

// Funnel handles GET /reports/funnel
func (h *ReportHandler) Funnel(w http.ResponseWriter, r *http.Request) {
	funnel, err := h.reports.GetConversionFunnel(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build conversion funnel", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build conversion funnel")
		return
	}
	respondJSON(w, http.StatusOK, funnel)
}

// Activities handles GET /reports/activities
func (h *ReportHandler) Activities(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.GetActivitySummary(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build activity summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build activity summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Customers handles GET /reports/customers
func (h *ReportHandler) Customers(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.reports.GetCustomerAnalytics(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build customer analytics", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build customer analytics")
		return
	}
	respondJSON(w, http.StatusOK, analytics)
}

// Productivity handles GET /reports/productivity
func (h *ReportHandler) Productivity(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.GetProductivitySummary(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build productivity summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build productivity summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Executive handles GET /reports/executive
func (h *ReportHandler) Executive(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reports.GetExecutiveSummary(r.Context(), scopeParams(r))
	if err != nil {
		h.logger.Error("failed to build executive summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build executive summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
