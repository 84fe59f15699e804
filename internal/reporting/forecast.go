package reporting

import (
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// maxForecastMonths caps the monthly forecast breakdown.
const maxForecastMonths = 6

// Forecast projects open deals expected to close in the current year.
// Deals without an expected close date count as in-year and are bucketed at
// today+30d; the stored record is never touched.
func Forecast(openDeals []domain.Deal, now time.Time) domain.SalesForecast {
	var out domain.SalesForecast
	monthly := make(map[string]*domain.ForecastMonth)

	for i := range openDeals {
		d := &openDeals[i]
		if !d.Status.IsOpen() {
			continue
		}
		expected := d.ExpectedCloseDate
		if expected != nil && expected.Year() != now.Year() {
			continue
		}

		p := dealProbability(d)
		out.TotalOpportunities++
		out.WeightedForecast += d.Amount * float64(p) / 100
		if p >= 75 {
			out.BestCase += d.Amount
		}
		if p >= 50 {
			out.LikelyCase += d.Amount
		}
		if p >= 25 {
			out.WorstCase += d.Amount
		}

		bucketAt := now.AddDate(0, 0, 30)
		if expected != nil {
			bucketAt = *expected
		}
		key := bucketAt.Format("2006-01")
		m, ok := monthly[key]
		if !ok {
			m = &domain.ForecastMonth{Month: key}
			monthly[key] = m
		}
		m.DealCount++
		m.TotalAmount += d.Amount
		m.WeightedAmount += d.Amount * float64(p) / 100
	}

	out.Monthly = make([]domain.ForecastMonth, 0, len(monthly))
	for _, m := range monthly {
		out.Monthly = append(out.Monthly, *m)
	}
	sort.Slice(out.Monthly, func(i, j int) bool { return out.Monthly[i].Month < out.Monthly[j].Month })
	if len(out.Monthly) > maxForecastMonths {
		out.Monthly = out.Monthly[:maxForecastMonths]
	}
	return out
}
