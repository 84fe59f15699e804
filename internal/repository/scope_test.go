package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/tests/testutil"
)

func seedScopedDeals(t *testing.T, db *gorm.DB) {
	t.Helper()
	stage := &domain.PipelineStage{Name: "Lead", DisplayOrder: 1, IsActive: true}
	require.NoError(t, db.Create(stage).Error)

	for _, d := range []struct {
		owner   string
		created time.Time
	}{
		{"u1", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"u2", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"u1", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)},
	} {
		deal := &domain.Deal{
			BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: d.created, UpdatedAt: d.created},
			Title:     "deal",
			Currency:  "USD",
			Status:    domain.DealStatusOpen,
			StageID:   stage.ID,
			OwnerID:   d.owner,
		}
		require.NoError(t, db.Create(deal).Error)
	}
}

func TestScopedDateAndOwnerFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedScopedDeals(t, db)
	repo := NewDealRepository(db)

	scope := reporting.Scope{
		From:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		OwnerIDs: []string{"u1"},
	}

	deals, err := repo.CreatedInRange(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "u1", deals[0].OwnerID)
}

func TestScopedNilOwnersIsUnrestricted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedScopedDeals(t, db)
	repo := NewDealRepository(db)

	scope := reporting.Scope{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
	}

	deals, err := repo.CreatedInRange(context.Background(), scope)
	require.NoError(t, err)
	assert.Len(t, deals, 2)
}

func TestScopedEmptyOwnersMatchesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	seedScopedDeals(t, db)
	repo := NewDealRepository(db)

	scope := reporting.Scope{
		From:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		OwnerIDs: []string{},
	}

	deals, err := repo.CreatedInRange(context.Background(), scope)
	require.NoError(t, err)
	assert.Empty(t, deals)
}

func TestTeamMemberIDsOnlyActiveMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepository(db)

	team := "t1"
	for _, u := range []domain.User{
		{ID: "u1", Email: "u1@example.com", DisplayName: "Dana", Roles: []string{"sales"}, TeamID: &team, IsActive: true},
		{ID: "u2", Email: "u2@example.com", DisplayName: "Kim", Roles: []string{"sales"}, TeamID: &team, IsActive: false},
		{ID: "u3", Email: "u3@example.com", DisplayName: "Ravi", Roles: []string{"sales"}, IsActive: true},
	} {
		user := u
		require.NoError(t, db.Create(&user).Error)
	}

	ids, err := repo.TeamMemberIDs(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}
