package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CountCreatedInRange counts contacts created within the scope.
func (r *ContactRepository) CountCreatedInRange(ctx context.Context, scope reporting.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&domain.Contact{}), scope, "owner_id", "created_at").
		Count(&count).Error
	return count, err
}

// ListOwned returns the contacts held by the scope's owners, all of them
// when the scope is unrestricted.
func (r *ContactRepository) ListOwned(ctx context.Context, scope reporting.Scope) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Where("is_active = ?", true).
		Find(&contacts).Error
	return contacts, err
}
