package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/repository"
	"github.com/pipecrest/crm-api/tests/testutil"
)

var dealNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newDealService(t *testing.T, db *gorm.DB) *DealService {
	t.Helper()
	clock := reporting.FixedClock{T: dealNow}
	users := repository.NewUserRepository(db)
	resolver := reporting.NewResolver(clock, users, zap.NewNop())
	return NewDealService(
		repository.NewDealRepository(db),
		repository.NewStageRepository(db),
		repository.NewDealStageHistoryRepository(db),
		resolver,
		clock,
		zap.NewNop(),
	)
}

func TestCreateDealSnapshotsStageProbability(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	stage := seedStage(t, db, "Qualified", 2, intPtr(25))

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "New rollout",
		Amount:  12000,
		StageID: stage.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DealStatusOpen, deal.Status)
	assert.Equal(t, 25, deal.Probability)
	assert.Equal(t, "USD", deal.Currency)
	assert.Equal(t, "u1", deal.OwnerID)
}

func TestCreateDealNoProbabilityDefaultsToFifty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	stage := seedStage(t, db, "Legacy", 1, nil)

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Imported",
		Amount:  500,
		StageID: stage.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 50, deal.Probability)
}

func TestCreateDealUnknownStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)

	_, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Orphan",
		StageID: uuid.New(),
	})
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestTransitionStageMidPipeline(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	qualified := seedStage(t, db, "Qualified", 2, intPtr(25))
	negotiation := seedStage(t, db, "Negotiation", 4, intPtr(75))

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Mid move",
		Amount:  9000,
		StageID: qualified.ID,
	})
	require.NoError(t, err)

	moved, err := svc.TransitionStage(context.Background(), deal.ID, negotiation.ID, "u1", "pricing agreed")
	require.NoError(t, err)

	assert.Equal(t, negotiation.ID, moved.StageID)
	assert.Equal(t, 75, moved.Probability)
	assert.Equal(t, domain.DealStatusOpen, moved.Status)
	assert.Nil(t, moved.CloseDate)

	history, err := svc.StageHistory(context.Background(), deal.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, qualified.ID, *history[0].FromStageID)
	assert.Equal(t, negotiation.ID, history[0].ToStageID)
	assert.Equal(t, "u1", history[0].ChangedByID)
	assert.Equal(t, "pricing agreed", history[0].Notes)
}

func TestTransitionStageTerminalWon(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	qualified := seedStage(t, db, "Qualified", 2, intPtr(25))
	closedWon := seedStage(t, db, "Closed Won", 5, intPtr(100))

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Closing",
		Amount:  20000,
		StageID: qualified.ID,
	})
	require.NoError(t, err)

	won, err := svc.TransitionStage(context.Background(), deal.ID, closedWon.ID, "u1", "")
	require.NoError(t, err)

	assert.Equal(t, domain.DealStatusWon, won.Status)
	assert.Equal(t, 100, won.Probability)
	require.NotNil(t, won.CloseDate)
	assert.Equal(t, dealNow, *won.CloseDate)

	// The transition also lands in the activity log.
	var activities []domain.Activity
	require.NoError(t, db.Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, "deal stage changed", activities[0].Action)
	assert.Equal(t, domain.EntityKindDeal, activities[0].Subject.Kind)
}

func TestTransitionStageTerminalLost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	negotiation := seedStage(t, db, "Negotiation", 4, intPtr(75))
	closedLost := seedStage(t, db, "Closed Lost", 6, intPtr(0))

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Slipping",
		Amount:  7000,
		StageID: negotiation.ID,
	})
	require.NoError(t, err)

	lost, err := svc.TransitionStage(context.Background(), deal.ID, closedLost.ID, "u1", "went with competitor")
	require.NoError(t, err)

	assert.Equal(t, domain.DealStatusLost, lost.Status)
	require.NotNil(t, lost.CloseDate)
}

func TestTransitionStageUnknownDeal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	stage := seedStage(t, db, "Qualified", 2, intPtr(25))

	_, err := svc.TransitionStage(context.Background(), uuid.New(), stage.ID, "u1", "")
	assert.ErrorIs(t, err, ErrDealNotFound)
}

func TestUpdateDealPatchesOnlyProvidedFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDealService(t, db)
	stage := seedStage(t, db, "Qualified", 2, intPtr(25))

	deal, err := svc.CreateDeal(context.Background(), "u1", domain.CreateDealRequest{
		Title:   "Original",
		Amount:  100,
		StageID: stage.ID,
	})
	require.NoError(t, err)

	amount := 250.0
	updated, err := svc.UpdateDeal(context.Background(), deal.ID, domain.UpdateDealRequest{Amount: &amount})
	require.NoError(t, err)

	assert.Equal(t, "Original", updated.Title)
	assert.InDelta(t, 250.0, updated.Amount, 0.001)
}
