package auth

import (
	"context"
)

// Role names carried in JWT claims.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSales   = "sales"
	RoleViewer  = "viewer"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID      string
	DisplayName string
	Email       string
	Roles       []string
	TeamID      string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// IsAdmin checks if user is an administrator
func (u *UserContext) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// CanViewAllOwners reports whether the user may run unrestricted reports.
// Non-managers are limited to their own records; handlers enforce this by
// pinning the owner filter before calling the reporting facade.
func (u *UserContext) CanViewAllOwners() bool {
	return u.HasAnyRole(RoleAdmin, RoleManager)
}
