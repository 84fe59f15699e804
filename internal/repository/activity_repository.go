package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// InRange returns activities that occurred within the scope, the owner
// filter applied to the actor.
func (r *ActivityRepository) InRange(ctx context.Context, scope reporting.Scope) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := scoped(r.db.WithContext(ctx), scope, "actor_id", "occurred_at").
		Order("occurred_at").
		Find(&activities).Error
	return activities, err
}
