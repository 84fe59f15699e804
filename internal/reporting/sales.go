package reporting

import (
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// SummarizeSales reduces deals created within a scope to the sales summary.
// deals is the scoped slice; recentWon is won deals closed near now,
// independent of the requested range, feeding the today/week/month revenue
// buckets. Statuses outside the open/won/lost classes count toward totals
// only.
func SummarizeSales(deals []domain.Deal, recentWon []domain.Deal, now time.Time) domain.SalesSummary {
	var out domain.SalesSummary

	var cycleSum float64
	var cycleCount int64
	for i := range deals {
		d := &deals[i]
		out.TotalDeals++
		switch {
		case d.Status.IsWon():
			out.WonDeals++
			out.TotalRevenue += d.Amount
			if d.CloseDate != nil {
				cycleSum += daysBetween(d.CreatedAt, *d.CloseDate)
				cycleCount++
			}
		case d.Status.IsLost():
			out.LostDeals++
		case d.Status.IsOpen():
			out.OpenDeals++
			out.PipelineValue += d.Amount
		}
	}

	out.AvgDealSize = mean(out.TotalRevenue, out.WonDeals)
	out.AvgSalesCycleDays = round1(mean(cycleSum, cycleCount))
	out.WinRate = rate(out.WonDeals, out.TotalDeals)

	nowYear, nowWeek := now.ISOWeek()
	for i := range recentWon {
		d := &recentWon[i]
		if !d.Status.IsWon() || d.CloseDate == nil {
			continue
		}
		closed := *d.CloseDate
		if sameDay(closed, now) {
			out.RevenueToday += d.Amount
		}
		if y, w := closed.ISOWeek(); y == nowYear && w == nowWeek {
			out.RevenueThisWeek += d.Amount
		}
		if closed.Year() == now.Year() && closed.Month() == now.Month() {
			out.RevenueThisMonth += d.Amount
		}
	}

	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
