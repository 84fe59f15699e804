package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
)

type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineStage, error) {
	var stage domain.PipelineStage
	err := r.db.WithContext(ctx).First(&stage, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

// ListActive returns active pipeline stages in display order.
func (r *StageRepository) ListActive(ctx context.Context) ([]domain.PipelineStage, error) {
	var stages []domain.PipelineStage
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order").
		Find(&stages).Error
	return stages, err
}
