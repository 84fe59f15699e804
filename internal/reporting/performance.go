package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// PerformanceByPeriod buckets closed deals by period key and reduces each
// bucket. Deals without a close date are skipped. Buckets come back ordered
// ascending by period key.
func PerformanceByPeriod(deals []domain.Deal, granularity domain.PeriodGranularity) []domain.PeriodPerformance {
	buckets := make(map[string]*domain.PeriodPerformance)

	for i := range deals {
		d := &deals[i]
		if d.CloseDate == nil {
			continue
		}
		key := periodKey(*d.CloseDate, granularity)
		b, ok := buckets[key]
		if !ok {
			b = &domain.PeriodPerformance{Period: key}
			buckets[key] = b
		}
		b.DealsClosed++
		switch {
		case d.Status.IsWon():
			b.WonDeals++
			b.TotalRevenue += d.Amount
		case d.Status.IsLost():
			b.LostDeals++
		}
	}

	out := make([]domain.PeriodPerformance, 0, len(buckets))
	for _, b := range buckets {
		b.AvgDealSize = mean(b.TotalRevenue, b.WonDeals)
		b.WinRate = rate(b.WonDeals, b.WonDeals+b.LostDeals)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// periodKey formats a close date into its bucket key. All formats sort
// lexicographically in chronological order.
func periodKey(t time.Time, granularity domain.PeriodGranularity) string {
	switch granularity {
	case domain.PeriodDaily:
		return t.Format("2006-01-02")
	case domain.PeriodWeekly:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case domain.PeriodQuarterly:
		quarter := (int(t.Month())-1)/3 + 1
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarter)
	default:
		return t.Format("2006-01")
	}
}
