package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Stage").
		First(&deal, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) List(ctx context.Context, scope reporting.Scope, page, pageSize int) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	base := scoped(r.db.WithContext(ctx).Model(&domain.Deal{}), scope, "owner_id", "created_at")
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := scoped(r.db.WithContext(ctx), scope, "owner_id", "created_at").
		Preload("Stage").
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&deals).Error

	return deals, total, err
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Save(deal).Error
}

// CreatedInRange returns deals created within the scope's range, with the
// owner filter applied.
func (r *DealRepository) CreatedInRange(ctx context.Context, scope reporting.Scope) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := scoped(r.db.WithContext(ctx), scope, "owner_id", "created_at").
		Find(&deals).Error
	return deals, err
}

// ClosedInRange returns deals whose close date falls within the scope's
// range.
func (r *DealRepository) ClosedInRange(ctx context.Context, scope reporting.Scope) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := scoped(r.db.WithContext(ctx), scope, "owner_id", "close_date").
		Where("close_date IS NOT NULL").
		Find(&deals).Error
	return deals, err
}

// Open returns the currently open deals under the scope's owner filter,
// with stages preloaded for probability lookups.
func (r *DealRepository) Open(ctx context.Context, scope reporting.Scope) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Preload("Stage").
		Where("status = ?", domain.DealStatusOpen).
		Find(&deals).Error
	return deals, err
}

// WonClosedSince returns won-class deals closed at or after since,
// ignoring any date-range scope. Feeds the recent-revenue buckets and the
// trailing revenue trend.
func (r *DealRepository) WonClosedSince(ctx context.Context, scope reporting.Scope, since time.Time) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Where("status IN ?", []domain.DealStatus{domain.DealStatusWon, domain.DealStatusClosedWon}).
		Where("close_date >= ?", since).
		Find(&deals).Error
	return deals, err
}

// WonAll returns every won-class deal under the scope's owner filter,
// regardless of close date. Customer revenue attribution needs the full
// history.
func (r *DealRepository) WonAll(ctx context.Context, scope reporting.Scope) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Where("status IN ?", []domain.DealStatus{domain.DealStatusWon, domain.DealStatusClosedWon}).
		Find(&deals).Error
	return deals, err
}

// CountCreatedInRange counts deals created within the scope.
func (r *DealRepository) CountCreatedInRange(ctx context.Context, scope reporting.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&domain.Deal{}), scope, "owner_id", "created_at").
		Count(&count).Error
	return count, err
}

// CountWonClosedInRange counts won-class deals closed within the scope.
func (r *DealRepository) CountWonClosedInRange(ctx context.Context, scope reporting.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&domain.Deal{}), scope, "owner_id", "close_date").
		Where("status IN ?", []domain.DealStatus{domain.DealStatusWon, domain.DealStatusClosedWon}).
		Count(&count).Error
	return count, err
}

// TransitionStage persists a stage transition atomically: the deal row is
// updated in one statement and the history plus activity records are
// written in the same transaction, so no partial transition is ever
// visible.
func (r *DealRepository) TransitionStage(ctx context.Context, dealID uuid.UUID, updates map[string]interface{}, history *domain.DealStageHistory, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Deal{}).Where("id = ?", dealID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		if activity != nil {
			if err := tx.Create(activity).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
