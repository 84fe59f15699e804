package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/crm-api/internal/domain"
)

func TestForecast(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	open := func(amount float64, probability int, expected *time.Time) domain.Deal {
		return domain.Deal{
			Amount:            amount,
			Status:            domain.DealStatusOpen,
			Probability:       probability,
			ExpectedCloseDate: expected,
		}
	}

	t.Run("bands and weighted total", func(t *testing.T) {
		april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		deals := []domain.Deal{
			open(1000, 80, &april),
			open(2000, 50, &may),
			open(4000, 30, &may),
			open(8000, 10, &april),
		}

		out := Forecast(deals, now)

		assert.Equal(t, int64(4), out.TotalOpportunities)
		assert.InDelta(t, 1000*0.8+2000*0.5+4000*0.3+8000*0.1, out.WeightedForecast, 0.001)
		assert.InDelta(t, 1000.0, out.BestCase, 0.001)
		assert.InDelta(t, 3000.0, out.LikelyCase, 0.001)
		assert.InDelta(t, 7000.0, out.WorstCase, 0.001)
	})

	t.Run("next-year deals are excluded", func(t *testing.T) {
		nextYear := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
		out := Forecast([]domain.Deal{open(1000, 50, &nextYear)}, now)

		assert.Zero(t, out.TotalOpportunities)
		assert.Empty(t, out.Monthly)
	})

	t.Run("nil expected close bucketed thirty days out", func(t *testing.T) {
		out := Forecast([]domain.Deal{open(1000, 50, nil)}, now)

		assert.Equal(t, int64(1), out.TotalOpportunities)
		require.Len(t, out.Monthly, 1)
		assert.Equal(t, "2025-04", out.Monthly[0].Month)
	})

	t.Run("monthly breakdown capped at six buckets", func(t *testing.T) {
		var deals []domain.Deal
		for m := time.January; m <= time.August; m++ {
			expected := time.Date(2025, m, 15, 0, 0, 0, 0, time.UTC)
			deals = append(deals, open(100, 50, &expected))
		}

		out := Forecast(deals, now)

		require.Len(t, out.Monthly, 6)
		assert.Equal(t, "2025-01", out.Monthly[0].Month)
		assert.Equal(t, "2025-06", out.Monthly[5].Month)
	})

	t.Run("closed deals are ignored", func(t *testing.T) {
		d := open(1000, 80, nil)
		d.Status = domain.DealStatusWon
		out := Forecast([]domain.Deal{d}, now)

		assert.Zero(t, out.TotalOpportunities)
	})
}
