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

	"github.com/pipecrest/crm-api/internal/cache"
	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/repository"
	"github.com/pipecrest/crm-api/tests/testutil"
)

var reportNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newReportingService(t *testing.T, db *gorm.DB, reportCache cache.ReportCache) *ReportingService {
	t.Helper()
	clock := reporting.FixedClock{T: reportNow}
	users := repository.NewUserRepository(db)
	resolver := reporting.NewResolver(clock, users, zap.NewNop())
	return NewReportingService(
		repository.NewDealRepository(db),
		repository.NewStageRepository(db),
		repository.NewContactRepository(db),
		repository.NewOrganizationRepository(db),
		repository.NewTaskRepository(db),
		repository.NewActivityRepository(db),
		users,
		resolver,
		reportCache,
		clock,
		time.Hour,
		zap.NewNop(),
	)
}

func seedStage(t *testing.T, db *gorm.DB, name string, order int, probability *int) *domain.PipelineStage {
	t.Helper()
	stage := &domain.PipelineStage{
		Name:         name,
		DisplayOrder: order,
		Probability:  probability,
		IsActive:     true,
	}
	require.NoError(t, db.Create(stage).Error)
	return stage
}

func seedDeal(t *testing.T, db *gorm.DB, stage *domain.PipelineStage, status domain.DealStatus, amount float64, owner string, created time.Time, closed *time.Time) *domain.Deal {
	t.Helper()
	deal := &domain.Deal{
		BaseModel: domain.BaseModel{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
		Title:     "deal",
		Amount:    amount,
		Currency:  "USD",
		Status:    status,
		StageID:   stage.ID,
		OwnerID:   owner,
		CloseDate: closed,
	}
	require.NoError(t, db.Create(deal).Error)
	return deal
}

func seedUser(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	user := &domain.User{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: name,
		Roles:       []string{"sales"},
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
}

func datePtr(t time.Time) *time.Time { return &t }

func TestGetSalesSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})
	stage := seedStage(t, db, "Proposal", 3, nil)

	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seedDeal(t, db, stage, domain.DealStatusWon, 5000, "u1", created, datePtr(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)))
	seedDeal(t, db, stage, domain.DealStatusLost, 3000, "u1", created, datePtr(time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)))
	seedDeal(t, db, stage, domain.DealStatusOpen, 2000, "u1", created, nil)

	summary, err := svc.GetSalesSummary(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)

	assert.Equal(t, int64(3), summary.TotalDeals)
	assert.Equal(t, int64(1), summary.WonDeals)
	assert.Equal(t, int64(1), summary.LostDeals)
	assert.Equal(t, int64(1), summary.OpenDeals)
	assert.InDelta(t, 5000.0, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 33.3, summary.WinRate, 0.001)
}

func TestGetSalesSummaryCachesResult(t *testing.T) {
	db := testutil.SetupTestDB(t)
	clock := reporting.FixedClock{T: reportNow}
	svc := newReportingService(t, db, cache.NewDatabaseCache(db, clock))
	stage := seedStage(t, db, "Proposal", 3, nil)

	created := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	seedDeal(t, db, stage, domain.DealStatusOpen, 1000, "u1", created, nil)

	first, err := svc.GetSalesSummary(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)
	require.Equal(t, int64(1), first.TotalDeals)

	// New rows inside the freshness window are invisible until expiry.
	seedDeal(t, db, stage, domain.DealStatusOpen, 2000, "u1", created, nil)

	second, err := svc.GetSalesSummary(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.TotalDeals)
}

func TestGetSalesSummaryStoreFailureReturnsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})

	require.NoError(t, db.Exec("DROP TABLE deals").Error)

	summary, err := svc.GetSalesSummary(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)
	assert.Equal(t, domain.SalesSummary{}, summary)
}

func TestGetPerformanceByPeriodFallsBackToMonthly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})
	stage := seedStage(t, db, "Closed Won", 5, nil)

	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	seedDeal(t, db, stage, domain.DealStatusWon, 4000, "u1", created, datePtr(time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)))

	periods, err := svc.GetPerformanceByPeriod(context.Background(), domain.PeriodGranularity("hourly"), reporting.ScopeParams{})
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "2025-02", periods[0].Period)
	assert.Equal(t, int64(1), periods[0].WonDeals)
}

func TestGetPipelineAnalyticsEmptyStagesPresent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})
	lead := seedStage(t, db, "Lead", 1, intPtr(10))
	proposal := seedStage(t, db, "Proposal", 2, intPtr(50))

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seedDeal(t, db, proposal, domain.DealStatusOpen, 10000, "u1", created, nil)

	stages, err := svc.GetPipelineAnalytics(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)
	require.Len(t, stages, 2)

	assert.Equal(t, lead.ID, stages[0].StageID)
	assert.Equal(t, int64(0), stages[0].DealCount)
	assert.Equal(t, proposal.ID, stages[1].StageID)
	assert.Equal(t, int64(1), stages[1].DealCount)
	assert.InDelta(t, 5000.0, stages[1].WeightedValue, 0.001)
}

func TestGetTeamPerformanceScopesUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})
	stage := seedStage(t, db, "Proposal", 3, nil)
	seedUser(t, db, "u1", "Dana")
	seedUser(t, db, "u2", "Kim")

	created := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	seedDeal(t, db, stage, domain.DealStatusWon, 8000, "u1", created, datePtr(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)))
	seedDeal(t, db, stage, domain.DealStatusWon, 6000, "u2", created, datePtr(time.Date(2025, 4, 12, 0, 0, 0, 0, time.UTC)))

	members, err := svc.GetTeamPerformance(context.Background(), reporting.ScopeParams{OwnerID: "u1"})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "u1", members[0].UserID)
	assert.Equal(t, "Dana", members[0].Name)
	assert.InDelta(t, 8000.0, members[0].TotalRevenue, 0.001)
}

func TestGetConversionFunnelEmptyStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newReportingService(t, db, cache.Disabled{})

	funnel, err := svc.GetConversionFunnel(context.Background(), reporting.ScopeParams{})
	require.NoError(t, err)
	require.Len(t, funnel, 4)
	for _, stage := range funnel {
		assert.Equal(t, int64(0), stage.Count)
		assert.Equal(t, 0.0, stage.ConversionRate)
	}
}

func intPtr(v int) *int { return &v }
