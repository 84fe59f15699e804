package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ScopeParams are the raw, optional inputs a caller supplies for a report.
// Nil/empty fields fall back to resolver defaults.
type ScopeParams struct {
	From    *time.Time
	To      *time.Time
	OwnerID string
	TeamID  string
}

// Scope is the canonical window every aggregation runs over. OwnerIDs nil
// means unrestricted; non-nil means "only these owners".
type Scope struct {
	From     time.Time
	To       time.Time
	OwnerIDs []string
}

// Unrestricted reports whether the scope has no owner filter.
func (s Scope) Unrestricted() bool {
	return s.OwnerIDs == nil
}

// IncludesOwner reports whether records owned by id fall inside the scope.
func (s Scope) IncludesOwner(id string) bool {
	if s.OwnerIDs == nil {
		return true
	}
	for _, o := range s.OwnerIDs {
		if o == id {
			return true
		}
	}
	return false
}

// Contains reports whether t falls inside the scope's date range.
func (s Scope) Contains(t time.Time) bool {
	return !t.Before(s.From) && !t.After(s.To)
}

// Key returns a deterministic encoding of the scope for cache keys.
func (s Scope) Key() string {
	owners := "all"
	if s.OwnerIDs != nil {
		owners = strings.Join(s.OwnerIDs, ",")
	}
	return fmt.Sprintf("%s:%s:%s", s.From.Format("2006-01-02"), s.To.Format("2006-01-02"), owners)
}

// TeamDirectory resolves a team id to its member user ids. The user
// repository implements it.
type TeamDirectory interface {
	TeamMemberIDs(ctx context.Context, teamID string) ([]string, error)
}

// Resolver turns ScopeParams into a canonical Scope.
type Resolver struct {
	clock     Clock
	directory TeamDirectory
	logger    *zap.Logger
}

// NewResolver creates a scope resolver
func NewResolver(clock Clock, directory TeamDirectory, logger *zap.Logger) *Resolver {
	return &Resolver{clock: clock, directory: directory, logger: logger}
}

// Resolve produces a canonical scope. It never fails: missing dates default
// to Jan 1 of the current year through today, an inverted range is swapped,
// and a team lookup failure degrades to an unrestricted scope with a logged
// warning so the dashboard still renders.
func (r *Resolver) Resolve(ctx context.Context, p ScopeParams) Scope {
	now := r.clock.Now()

	from := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	if p.From != nil {
		from = *p.From
	}
	to := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if p.To != nil {
		to = *p.To
	}
	if from.After(to) {
		from, to = to, from
	}

	scope := Scope{From: from, To: to}

	switch {
	case p.OwnerID != "":
		scope.OwnerIDs = []string{p.OwnerID}
	case p.TeamID != "":
		members, err := r.directory.TeamMemberIDs(ctx, p.TeamID)
		if err != nil {
			r.logger.Warn("team lookup failed, falling back to unrestricted scope",
				zap.String("team_id", p.TeamID),
				zap.Error(err))
			break
		}
		if members == nil {
			members = []string{}
		}
		scope.OwnerIDs = members
	}

	return scope
}
