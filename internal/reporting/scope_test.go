package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go.uber.org/zap"
)

type stubDirectory struct {
	members map[string][]string
	err     error
}

func (d *stubDirectory) TeamMemberIDs(_ context.Context, teamID string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.members[teamID], nil
}

func TestResolverResolve(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	clock := FixedClock{T: now}

	newResolver := func(dir *stubDirectory) *Resolver {
		if dir == nil {
			dir = &stubDirectory{}
		}
		return NewResolver(clock, dir, zap.NewNop())
	}

	t.Run("defaults to year start through today", func(t *testing.T) {
		scope := newResolver(nil).Resolve(context.Background(), ScopeParams{})

		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), scope.From)
		assert.Equal(t, time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC), scope.To)
		assert.True(t, scope.Unrestricted())
	})

	t.Run("swaps an inverted range", func(t *testing.T) {
		from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

		scope := newResolver(nil).Resolve(context.Background(), ScopeParams{From: &from, To: &to})

		assert.True(t, scope.From.Before(scope.To))
		assert.Equal(t, to, scope.From)
		assert.Equal(t, from, scope.To)
	})

	t.Run("owner id wins over team id", func(t *testing.T) {
		dir := &stubDirectory{members: map[string][]string{"sales": {"a", "b"}}}

		scope := newResolver(dir).Resolve(context.Background(), ScopeParams{OwnerID: "u1", TeamID: "sales"})

		assert.Equal(t, []string{"u1"}, scope.OwnerIDs)
	})

	t.Run("team id resolves to member list", func(t *testing.T) {
		dir := &stubDirectory{members: map[string][]string{"sales": {"a", "b"}}}

		scope := newResolver(dir).Resolve(context.Background(), ScopeParams{TeamID: "sales"})

		assert.Equal(t, []string{"a", "b"}, scope.OwnerIDs)
		assert.False(t, scope.Unrestricted())
		assert.True(t, scope.IncludesOwner("a"))
		assert.False(t, scope.IncludesOwner("c"))
	})

	t.Run("team lookup failure degrades to unrestricted", func(t *testing.T) {
		dir := &stubDirectory{err: errors.New("directory down")}

		scope := newResolver(dir).Resolve(context.Background(), ScopeParams{TeamID: "sales"})

		assert.True(t, scope.Unrestricted())
	})

	t.Run("unknown team restricts to nobody", func(t *testing.T) {
		dir := &stubDirectory{members: map[string][]string{}}

		scope := newResolver(dir).Resolve(context.Background(), ScopeParams{TeamID: "ghost"})

		assert.NotNil(t, scope.OwnerIDs)
		assert.Empty(t, scope.OwnerIDs)
		assert.False(t, scope.IncludesOwner("a"))
	})

	t.Run("cache key is deterministic", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
		params := ScopeParams{From: &from, To: &to, OwnerID: "u1"}

		r := newResolver(nil)
		first := r.Resolve(context.Background(), params)
		second := r.Resolve(context.Background(), params)

		assert.Equal(t, first.Key(), second.Key())
		assert.Equal(t, "2025-01-01:2025-03-31:u1", first.Key())
	})
}
