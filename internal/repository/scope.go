package repository

import (
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/reporting"
)

// scoped applies a resolved reporting scope to a query: the date range on
// dateColumn and, when the scope is restricted, the owner filter on
// ownerColumn. An empty (non-nil) owner list matches nothing.
func scoped(q *gorm.DB, scope reporting.Scope, ownerColumn, dateColumn string) *gorm.DB {
	q = q.Where(dateColumn+" >= ? AND "+dateColumn+" <= ?", scope.From, scope.To)
	return owned(q, scope, ownerColumn)
}

// owned applies only the scope's owner filter.
func owned(q *gorm.DB, scope reporting.Scope, ownerColumn string) *gorm.DB {
	if scope.OwnerIDs != nil {
		q = q.Where(ownerColumn+" IN ?", scope.OwnerIDs)
	}
	return q
}
