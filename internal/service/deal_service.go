package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/repository"
)

// DealService owns deal lifecycle operations, most importantly the stage
// transition that drives status and close-date side effects.
type DealService struct {
	deals    *repository.DealRepository
	stages   *repository.StageRepository
	history  *repository.DealStageHistoryRepository
	resolver *reporting.Resolver
	clock    reporting.Clock
	logger   *zap.Logger
}

// NewDealService creates a deal service
func NewDealService(
	deals *repository.DealRepository,
	stages *repository.StageRepository,
	history *repository.DealStageHistoryRepository,
	resolver *reporting.Resolver,
	clock reporting.Clock,
	logger *zap.Logger,
) *DealService {
	return &DealService{
		deals:    deals,
		stages:   stages,
		history:  history,
		resolver: resolver,
		clock:    clock,
		logger:   logger,
	}
}

// CreateDeal creates an open deal in the given stage, snapshotting the
// stage's probability.
func (s *DealService) CreateDeal(ctx context.Context, userID string, req domain.CreateDealRequest) (*domain.Deal, error) {
	stage, err := s.stages.GetByID(ctx, req.StageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("loading stage: %w", err)
	}

	owner := req.OwnerID
	if owner == "" {
		owner = userID
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	deal := &domain.Deal{
		Title:             req.Title,
		Description:       req.Description,
		Amount:            req.Amount,
		Currency:          currency,
		Status:            domain.DealStatusOpen,
		StageID:           stage.ID,
		Probability:       stage.EffectiveProbability(),
		ExpectedCloseDate: req.ExpectedCloseDate,
		OwnerID:           owner,
		ContactID:         req.ContactID,
		OrganizationID:    req.OrganizationID,
		Source:            req.Source,
		Notes:             req.Notes,
	}

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, fmt.Errorf("creating deal: %w", err)
	}

	s.logger.Info("deal created",
		zap.String("deal_id", deal.ID.String()),
		zap.String("owner_id", owner),
		zap.Float64("amount", deal.Amount))
	return deal, nil
}

// GetDeal loads one deal with its stage.
func (s *DealService) GetDeal(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("loading deal: %w", err)
	}
	return deal, nil
}

// ListDeals pages through deals inside the resolved scope.
func (s *DealService) ListDeals(ctx context.Context, params reporting.ScopeParams, page, pageSize int) ([]domain.Deal, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	scope := s.resolver.Resolve(ctx, params)
	deals, total, err := s.deals.List(ctx, scope, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("listing deals: %w", err)
	}
	return deals, total, nil
}

// ListStages returns the active pipeline stages in display order.
func (s *DealService) ListStages(ctx context.Context) ([]domain.PipelineStage, error) {
	stages, err := s.stages.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}
	return stages, nil
}

// UpdateDeal applies the non-nil fields of req to the deal. Stage and
// status moves go through TransitionStage, not here.
func (s *DealService) UpdateDeal(ctx context.Context, id uuid.UUID, req domain.UpdateDealRequest) (*domain.Deal, error) {
	deal, err := s.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Description != nil {
		deal.Description = *req.Description
	}
	if req.Amount != nil {
		deal.Amount = *req.Amount
	}
	if req.Currency != nil {
		deal.Currency = *req.Currency
	}
	if req.ExpectedCloseDate != nil {
		deal.ExpectedCloseDate = req.ExpectedCloseDate
	}
	if req.OwnerID != nil {
		deal.OwnerID = *req.OwnerID
	}
	if req.ContactID != nil {
		deal.ContactID = req.ContactID
	}
	if req.OrganizationID != nil {
		deal.OrganizationID = req.OrganizationID
	}
	if req.Source != nil {
		deal.Source = *req.Source
	}
	if req.Notes != nil {
		deal.Notes = *req.Notes
	}

	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("updating deal: %w", err)
	}
	return deal, nil
}

// TransitionStage moves a deal into another pipeline stage. Terminal
// stages force the matching status and stamp the close date; mid-pipeline
// moves only change stage and probability. The deal row, the stage history
// entry, and the activity record are written in one transaction, so a
// failed transition leaves no partial state.
func (s *DealService) TransitionStage(ctx context.Context, dealID, stageID uuid.UUID, userID, notes string) (*domain.Deal, error) {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	stage, err := s.stages.GetByID(ctx, stageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("loading stage: %w", err)
	}

	fromStageID := deal.StageID
	now := s.clock.Now()
	reporting.ApplyStageTransition(deal, stage, now)

	updates := map[string]interface{}{
		"stage_id":    deal.StageID,
		"probability": deal.Probability,
		"status":      deal.Status,
		"close_date":  deal.CloseDate,
		"updated_at":  now,
	}
	history := &domain.DealStageHistory{
		ID:          uuid.New(),
		DealID:      deal.ID,
		FromStageID: &fromStageID,
		ToStageID:   stage.ID,
		ChangedByID: userID,
		Notes:       notes,
		ChangedAt:   now,
	}
	activity := &domain.Activity{
		Action:     "deal stage changed",
		Subject:    domain.DealRef(deal.ID),
		ActorID:    userID,
		OccurredAt: now,
		Details:    fmt.Sprintf("moved to %s", stage.Name),
	}

	if err := s.deals.TransitionStage(ctx, deal.ID, updates, history, activity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("transitioning deal stage: %w", err)
	}

	s.logger.Info("deal stage transitioned",
		zap.String("deal_id", deal.ID.String()),
		zap.String("to_stage", stage.Name),
		zap.String("status", string(deal.Status)))
	return deal, nil
}

// StageHistory returns a deal's stage transitions, most recent first.
func (s *DealService) StageHistory(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistory, error) {
	if _, err := s.GetDeal(ctx, dealID); err != nil {
		return nil, err
	}
	history, err := s.history.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("loading stage history: %w", err)
	}
	return history, nil
}
