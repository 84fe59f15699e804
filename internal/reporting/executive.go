package reporting

import (
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// topPerformerLimit caps the executive top-performer list.
const topPerformerLimit = 5

// ExecutiveInput carries the mixed-scope figures the executive dashboard
// combines. OpenDeals and TrailingWon are unscoped by the requested range;
// ClosedInRange and the plain counts are scoped.
type ExecutiveInput struct {
	OpenDeals     []domain.Deal
	ClosedInRange []domain.Deal
	TrailingWon   []domain.Deal
	Users         []domain.User
	NewContacts   int64
	Customers     int64
	Prospects     int64
	ActiveTasks   int64
	ActiveUsers   int64
}

// ExecutiveSummary reduces ExecutiveInput to the dashboard bundle: global
// open pipeline, scoped period revenue, a 12-month trailing revenue trend,
// and the top five users by won revenue in range.
func ExecutiveSummary(in ExecutiveInput, now time.Time) domain.ExecutiveSummary {
	out := domain.ExecutiveSummary{
		NewContacts: in.NewContacts,
		Customers:   in.Customers,
		Prospects:   in.Prospects,
		ActiveTasks: in.ActiveTasks,
		ActiveUsers: in.ActiveUsers,
	}

	for i := range in.OpenDeals {
		d := &in.OpenDeals[i]
		if !d.Status.IsOpen() {
			continue
		}
		out.OpenOpportunities++
		out.PipelineValue += d.Amount
	}

	wonByOwner := make(map[string]*domain.TopPerformer)
	for i := range in.ClosedInRange {
		d := &in.ClosedInRange[i]
		out.DealsClosed++
		if !d.Status.IsWon() {
			continue
		}
		out.PeriodRevenue += d.Amount
		p, ok := wonByOwner[d.OwnerID]
		if !ok {
			p = &domain.TopPerformer{UserID: d.OwnerID, Name: d.OwnerID}
			wonByOwner[d.OwnerID] = p
		}
		p.WonRevenue += d.Amount
		p.WonDeals++
	}

	out.RevenueTrend = trailingRevenueTrend(in.TrailingWon, now)
	out.TopPerformers = topPerformers(wonByOwner, in.Users)
	return out
}

// trailingRevenueTrend buckets won deals into the trailing twelve calendar
// months ending this month. Every month appears, empty ones as zeros.
func trailingRevenueTrend(wonDeals []domain.Deal, now time.Time) []domain.MonthlyRevenue {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	trend := make([]domain.MonthlyRevenue, 12)
	index := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		trend[i] = domain.MonthlyRevenue{Month: key}
		index[key] = i
	}

	for i := range wonDeals {
		d := &wonDeals[i]
		if !d.Status.IsWon() || d.CloseDate == nil {
			continue
		}
		if pos, ok := index[d.CloseDate.Format("2006-01")]; ok {
			trend[pos].Revenue += d.Amount
			trend[pos].DealsWon++
		}
	}
	return trend
}

func topPerformers(wonByOwner map[string]*domain.TopPerformer, users []domain.User) []domain.TopPerformer {
	names := make(map[string]string, len(users))
	for i := range users {
		names[users[i].ID] = users[i].FullName()
	}

	out := make([]domain.TopPerformer, 0, len(wonByOwner))
	for _, p := range wonByOwner {
		if name, ok := names[p.UserID]; ok && name != "" {
			p.Name = name
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WonRevenue > out[j].WonRevenue })
	if len(out) > topPerformerLimit {
		out = out[:topPerformerLimit]
	}
	return out
}
