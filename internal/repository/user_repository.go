package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListActive returns active users ordered by name.
func (r *UserRepository) ListActive(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name").
		Find(&users).Error
	return users, err
}

// CountActive counts active users.
func (r *UserRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// TeamMemberIDs returns the ids of active users on the given team. The
// scope resolver depends on this to expand team filters.
func (r *UserRepository) TeamMemberIDs(ctx context.Context, teamID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("team_id = ? AND is_active = ?", teamID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
