package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/crm-api/internal/domain"
)

func TestPerformanceByPeriod(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	feb2 := time.Date(2025, 2, 25, 0, 0, 0, 0, time.UTC)

	deals := []domain.Deal{
		dealWith(1000, domain.DealStatusWon, created, &jan),
		dealWith(2000, domain.DealStatusWon, created, &feb),
		dealWith(3000, domain.DealStatusLost, created, &feb2),
		dealWith(500, domain.DealStatusOpen, created, nil),
	}

	t.Run("monthly buckets ascending", func(t *testing.T) {
		out := PerformanceByPeriod(deals, domain.PeriodMonthly)

		require.Len(t, out, 2)
		assert.Equal(t, "2025-01", out[0].Period)
		assert.Equal(t, "2025-02", out[1].Period)

		assert.Equal(t, int64(1), out[0].DealsClosed)
		assert.InDelta(t, 100.0, out[0].WinRate, 0.001)

		assert.Equal(t, int64(2), out[1].DealsClosed)
		assert.Equal(t, int64(1), out[1].WonDeals)
		assert.Equal(t, int64(1), out[1].LostDeals)
		assert.InDelta(t, 2000.0, out[1].TotalRevenue, 0.001)
		assert.InDelta(t, 2000.0, out[1].AvgDealSize, 0.001)
		assert.InDelta(t, 50.0, out[1].WinRate, 0.001)
	})

	t.Run("quarterly key format", func(t *testing.T) {
		out := PerformanceByPeriod(deals, domain.PeriodQuarterly)

		require.Len(t, out, 1)
		assert.Equal(t, "2025-Q1", out[0].Period)
		assert.Equal(t, int64(3), out[0].DealsClosed)
	})

	t.Run("weekly key format", func(t *testing.T) {
		out := PerformanceByPeriod(deals[:1], domain.PeriodWeekly)

		require.Len(t, out, 1)
		assert.Equal(t, "2025-W04", out[0].Period)
	})

	t.Run("deals without close date are skipped", func(t *testing.T) {
		out := PerformanceByPeriod([]domain.Deal{dealWith(500, domain.DealStatusOpen, created, nil)}, domain.PeriodDaily)
		assert.Empty(t, out)
	})

	t.Run("lost-only bucket has zero win rate", func(t *testing.T) {
		out := PerformanceByPeriod([]domain.Deal{dealWith(3000, domain.DealStatusLost, created, &feb2)}, domain.PeriodMonthly)

		require.Len(t, out, 1)
		assert.Zero(t, out[0].WinRate)
		assert.Zero(t, out[0].AvgDealSize)
	})
}
