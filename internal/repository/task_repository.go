package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreatedInRange returns tasks created within the scope, the owner filter
// applied to the assignee.
func (r *TaskRepository) CreatedInRange(ctx context.Context, scope reporting.Scope) ([]domain.Task, error) {
	var tasks []domain.Task
	err := scoped(r.db.WithContext(ctx), scope, "assignee_id", "created_at").
		Find(&tasks).Error
	return tasks, err
}

// ListAssigned returns all tasks assigned to the scope's owners.
func (r *TaskRepository) ListAssigned(ctx context.Context, scope reporting.Scope) ([]domain.Task, error) {
	var tasks []domain.Task
	err := owned(r.db.WithContext(ctx), scope, "assignee_id").
		Find(&tasks).Error
	return tasks, err
}

// CountActive counts tasks that are pending or in progress, unscoped.
func (r *TaskRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("status IN ?", []domain.TaskStatus{domain.TaskStatusPending, domain.TaskStatusInProgress}).
		Count(&count).Error
	return count, err
}
