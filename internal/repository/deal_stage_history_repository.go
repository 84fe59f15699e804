package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
)

type DealStageHistoryRepository struct {
	db *gorm.DB
}

func NewDealStageHistoryRepository(db *gorm.DB) *DealStageHistoryRepository {
	return &DealStageHistoryRepository{db: db}
}

// ListByDeal returns a deal's stage transitions, most recent first.
func (r *DealStageHistoryRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.DealStageHistory, error) {
	var history []domain.DealStageHistory
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("changed_at DESC").
		Find(&history).Error
	return history, err
}
