package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// ListCustomerClass returns organizations of type customer or
// former_customer under the scope's owner filter. Date filtering is left
// to the reducer, which needs the full population for retention figures.
func (r *OrganizationRepository) ListCustomerClass(ctx context.Context, scope reporting.Scope) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Where("type IN ?", []domain.OrganizationType{
			domain.OrganizationTypeCustomer,
			domain.OrganizationTypeFormerCustomer,
		}).
		Find(&orgs).Error
	return orgs, err
}

// ListOwned returns all organizations held by the scope's owners.
func (r *OrganizationRepository) ListOwned(ctx context.Context, scope reporting.Scope) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := owned(r.db.WithContext(ctx), scope, "owner_id").
		Find(&orgs).Error
	return orgs, err
}

// CountByType counts organizations of the given type, unscoped by date.
func (r *OrganizationRepository) CountByType(ctx context.Context, orgType domain.OrganizationType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Organization{}).
		Where("type = ?", orgType).
		Count(&count).Error
	return count, err
}

// CountProspectsCreatedInRange counts prospect organizations created
// within the scope. The funnel's Leads stage.
func (r *OrganizationRepository) CountProspectsCreatedInRange(ctx context.Context, scope reporting.Scope) (int64, error) {
	var count int64
	err := scoped(r.db.WithContext(ctx).Model(&domain.Organization{}), scope, "owner_id", "created_at").
		Where("type = ?", domain.OrganizationTypeProspect).
		Count(&count).Error
	return count, err
}
