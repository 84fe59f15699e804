package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/pipecrest/crm-api/internal/cache"
	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
	"github.com/pipecrest/crm-api/internal/repository"
)

// recentRevenueWindow bounds the won-deal fetch feeding the today/week/
// month revenue buckets. 31 days covers any calendar month and any ISO
// week containing today.
const recentRevenueWindow = 31 * 24 * time.Hour

// ReportingService is the reporting facade: it resolves scopes, consults
// the report cache, fetches entity snapshots, and runs the pure reducers.
// Entity store failures are logged and surface as zeroed reports, never as
// request errors; cache failures degrade to recomputation.
type ReportingService struct {
	deals      *repository.DealRepository
	stages     *repository.StageRepository
	contacts   *repository.ContactRepository
	orgs       *repository.OrganizationRepository
	tasks      *repository.TaskRepository
	activities *repository.ActivityRepository
	users      *repository.UserRepository
	resolver   *reporting.Resolver
	cache      cache.ReportCache
	clock      reporting.Clock
	ttl        time.Duration
	logger     *zap.Logger
}

// NewReportingService creates the reporting facade
func NewReportingService(
	deals *repository.DealRepository,
	stages *repository.StageRepository,
	contacts *repository.ContactRepository,
	orgs *repository.OrganizationRepository,
	tasks *repository.TaskRepository,
	activities *repository.ActivityRepository,
	users *repository.UserRepository,
	resolver *reporting.Resolver,
	reportCache cache.ReportCache,
	clock reporting.Clock,
	ttl time.Duration,
	logger *zap.Logger,
) *ReportingService {
	return &ReportingService{
		deals:      deals,
		stages:     stages,
		contacts:   contacts,
		orgs:       orgs,
		tasks:      tasks,
		activities: activities,
		users:      users,
		resolver:   resolver,
		cache:      reportCache,
		clock:      clock,
		ttl:        ttl,
		logger:     logger,
	}
}

// cacheGet tries the report cache, unmarshalling into out. Any cache or
// decode error is a logged miss.
func (s *ReportingService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	payload, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		s.logger.Warn("cached report payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// cacheSet stores a computed report. Failures are logged and swallowed.
func (s *ReportingService) cacheSet(ctx context.Context, key string, report interface{}) {
	payload, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("report payload marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// storeFailed logs an entity store read failure. The caller returns a
// zeroed report; analytics refresh on the next user action.
func (s *ReportingService) storeFailed(report string, err error) {
	s.logger.Error("entity store read failed, returning empty report",
		zap.String("report", report),
		zap.Error(err))
}

// GetSalesSummary aggregates deals created within the scope.
func (s *ReportingService) GetSalesSummary(ctx context.Context, params reporting.ScopeParams) (domain.SalesSummary, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("sales_summary", scope, now)

	var out domain.SalesSummary
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	deals, err := s.deals.CreatedInRange(ctx, scope)
	if err != nil {
		s.storeFailed("sales_summary", err)
		return domain.SalesSummary{}, nil
	}
	recentWon, err := s.deals.WonClosedSince(ctx, scope, now.Add(-recentRevenueWindow))
	if err != nil {
		s.storeFailed("sales_summary", err)
		return domain.SalesSummary{}, nil
	}

	out = reporting.SummarizeSales(deals, recentWon, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetPerformanceByPeriod buckets closed deals by the given granularity.
// Invalid granularities fall back to monthly.
func (s *ReportingService) GetPerformanceByPeriod(ctx context.Context, granularity domain.PeriodGranularity, params reporting.ScopeParams) ([]domain.PeriodPerformance, error) {
	if !granularity.IsValid() {
		granularity = domain.PeriodMonthly
	}
	scope := s.resolver.Resolve(ctx, params)
	key := cache.Key("performance_"+string(granularity), scope, s.clock.Now())

	var out []domain.PeriodPerformance
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	deals, err := s.deals.ClosedInRange(ctx, scope)
	if err != nil {
		s.storeFailed("performance_by_period", err)
		return []domain.PeriodPerformance{}, nil
	}

	out = reporting.PerformanceByPeriod(deals, granularity)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetPipelineAnalytics produces one row per active stage over open deals.
func (s *ReportingService) GetPipelineAnalytics(ctx context.Context, params reporting.ScopeParams) ([]domain.StagePipeline, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("pipeline", scope, now)

	var out []domain.StagePipeline
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	stages, err := s.stages.ListActive(ctx)
	if err != nil {
		s.storeFailed("pipeline", err)
		return []domain.StagePipeline{}, nil
	}
	openDeals, err := s.deals.Open(ctx, scope)
	if err != nil {
		s.storeFailed("pipeline", err)
		return []domain.StagePipeline{}, nil
	}

	out = reporting.PipelineAnalytics(stages, openDeals, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetSalesForecast projects open deals expected to close this year.
func (s *ReportingService) GetSalesForecast(ctx context.Context, params reporting.ScopeParams) (domain.SalesForecast, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("forecast", scope, now)

	var out domain.SalesForecast
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	openDeals, err := s.deals.Open(ctx, scope)
	if err != nil {
		s.storeFailed("forecast", err)
		return domain.SalesForecast{}, nil
	}

	out = reporting.Forecast(openDeals, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetTeamPerformance produces one row per active user inside the scope.
func (s *ReportingService) GetTeamPerformance(ctx context.Context, params reporting.ScopeParams) ([]domain.TeamMemberPerformance, error) {
	scope := s.resolver.Resolve(ctx, params)
	key := cache.Key("team_performance", scope, s.clock.Now())

	var out []domain.TeamMemberPerformance
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	users, err := s.users.ListActive(ctx)
	if err != nil {
		s.storeFailed("team_performance", err)
		return []domain.TeamMemberPerformance{}, nil
	}
	scopedUsers := users[:0:0]
	for _, u := range users {
		if scope.IncludesOwner(u.ID) {
			scopedUsers = append(scopedUsers, u)
		}
	}

	in := reporting.TeamInput{Users: scopedUsers}
	fetches := []func() error{
		func() (e error) { in.ClosedDeals, e = s.deals.ClosedInRange(ctx, scope); return },
		func() (e error) { in.OpenDeals, e = s.deals.Open(ctx, scope); return },
		func() (e error) { in.CreatedDeals, e = s.deals.CreatedInRange(ctx, scope); return },
		func() (e error) { in.Contacts, e = s.contacts.ListOwned(ctx, scope); return },
		func() (e error) { in.Organizations, e = s.orgs.ListOwned(ctx, scope); return },
		func() (e error) { in.Tasks, e = s.tasks.ListAssigned(ctx, scope); return },
	}
	for _, fetch := range fetches {
		if err := fetch(); err != nil {
			s.storeFailed("team_performance", err)
			return []domain.TeamMemberPerformance{}, nil
		}
	}

	out = reporting.TeamPerformance(in)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetConversionFunnel computes the Leads → Contacts → Opportunities →
// Customers funnel over the scope.
func (s *ReportingService) GetConversionFunnel(ctx context.Context, params reporting.ScopeParams) ([]domain.FunnelStage, error) {
	scope := s.resolver.Resolve(ctx, params)
	key := cache.Key("funnel", scope, s.clock.Now())

	var out []domain.FunnelStage
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	var counts reporting.FunnelCounts
	fetches := []func() error{
		func() (e error) { counts.Leads, e = s.orgs.CountProspectsCreatedInRange(ctx, scope); return },
		func() (e error) { counts.Contacts, e = s.contacts.CountCreatedInRange(ctx, scope); return },
		func() (e error) { counts.Opportunities, e = s.deals.CountCreatedInRange(ctx, scope); return },
		func() (e error) { counts.Customers, e = s.deals.CountWonClosedInRange(ctx, scope); return },
	}
	for _, fetch := range fetches {
		if err := fetch(); err != nil {
			s.storeFailed("funnel", err)
			return reporting.ConversionFunnel(reporting.FunnelCounts{}), nil
		}
	}

	out = reporting.ConversionFunnel(counts)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetActivitySummary aggregates the activity log within the scope.
func (s *ReportingService) GetActivitySummary(ctx context.Context, params reporting.ScopeParams) (domain.ActivitySummary, error) {
	scope := s.resolver.Resolve(ctx, params)
	key := cache.Key("activity", scope, s.clock.Now())

	var out domain.ActivitySummary
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	activities, err := s.activities.InRange(ctx, scope)
	if err != nil {
		s.storeFailed("activity", err)
		return domain.ActivitySummary{}, nil
	}

	out = reporting.SummarizeActivities(activities)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetCustomerAnalytics aggregates customer-class organizations.
func (s *ReportingService) GetCustomerAnalytics(ctx context.Context, params reporting.ScopeParams) (domain.CustomerAnalytics, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("customers", scope, now)

	var out domain.CustomerAnalytics
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	orgs, err := s.orgs.ListCustomerClass(ctx, scope)
	if err != nil {
		s.storeFailed("customers", err)
		return domain.CustomerAnalytics{}, nil
	}
	wonDeals, err := s.deals.WonAll(ctx, scope)
	if err != nil {
		s.storeFailed("customers", err)
		return domain.CustomerAnalytics{}, nil
	}

	out = reporting.CustomerAnalytics(orgs, wonDeals, scope.From, scope.To, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetProductivitySummary aggregates tasks created within the scope.
func (s *ReportingService) GetProductivitySummary(ctx context.Context, params reporting.ScopeParams) (domain.ProductivitySummary, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("productivity", scope, now)

	var out domain.ProductivitySummary
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	tasks, err := s.tasks.CreatedInRange(ctx, scope)
	if err != nil {
		s.storeFailed("productivity", err)
		return domain.ProductivitySummary{}, nil
	}

	out = reporting.SummarizeProductivity(tasks, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}

// GetExecutiveSummary assembles the mixed-scope dashboard bundle.
func (s *ReportingService) GetExecutiveSummary(ctx context.Context, params reporting.ScopeParams) (domain.ExecutiveSummary, error) {
	scope := s.resolver.Resolve(ctx, params)
	now := s.clock.Now()
	key := cache.Key("executive", scope, now)

	var out domain.ExecutiveSummary
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	// The global figures deliberately ignore the requested range.
	global := reporting.Scope{From: time.Time{}, To: now}
	trailingStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	var in reporting.ExecutiveInput
	fetches := []func() error{
		func() (e error) { in.OpenDeals, e = s.deals.Open(ctx, global); return },
		func() (e error) { in.ClosedInRange, e = s.deals.ClosedInRange(ctx, scope); return },
		func() (e error) { in.TrailingWon, e = s.deals.WonClosedSince(ctx, global, trailingStart); return },
		func() (e error) { in.Users, e = s.users.ListActive(ctx); return },
		func() (e error) { in.NewContacts, e = s.contacts.CountCreatedInRange(ctx, scope); return },
		func() (e error) { in.Customers, e = s.orgs.CountByType(ctx, domain.OrganizationTypeCustomer); return },
		func() (e error) { in.Prospects, e = s.orgs.CountByType(ctx, domain.OrganizationTypeProspect); return },
		func() (e error) { in.ActiveTasks, e = s.tasks.CountActive(ctx); return },
		func() (e error) { in.ActiveUsers, e = s.users.CountActive(ctx); return },
	}
	for _, fetch := range fetches {
		if err := fetch(); err != nil {
			s.storeFailed("executive", err)
			return domain.ExecutiveSummary{}, nil
		}
	}

	out = reporting.ExecutiveSummary(in, now)
	s.cacheSet(ctx, key, out)
	return out, nil
}
