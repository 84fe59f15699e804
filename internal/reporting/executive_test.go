package reporting

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/crm-api/internal/domain"
)

func TestExecutiveSummary(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	won := func(owner string, amount float64, closedAt time.Time) domain.Deal {
		d := dealWith(amount, domain.DealStatusWon, created, &closedAt)
		d.OwnerID = owner
		return d
	}

	may := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	april := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	twoYearsAgo := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)

	in := ExecutiveInput{
		OpenDeals: []domain.Deal{
			dealWith(1000, domain.DealStatusOpen, created, nil),
			dealWith(2000, domain.DealStatusOpen, created, nil),
		},
		ClosedInRange: []domain.Deal{
			won("alice", 5000, may),
			won("bob", 3000, may),
			dealWith(700, domain.DealStatusLost, created, &may),
		},
		TrailingWon: []domain.Deal{
			won("alice", 5000, may),
			won("bob", 3000, april),
			won("bob", 9999, twoYearsAgo),
		},
		Users: []domain.User{
			{ID: "alice", DisplayName: "Alice Ames"},
		},
		NewContacts: 7,
		Customers:   12,
		Prospects:   30,
		ActiveTasks: 4,
		ActiveUsers: 9,
	}

	out := ExecutiveSummary(in, now)

	t.Run("global open pipeline", func(t *testing.T) {
		assert.Equal(t, int64(2), out.OpenOpportunities)
		assert.InDelta(t, 3000.0, out.PipelineValue, 0.001)
	})

	t.Run("scoped period figures", func(t *testing.T) {
		assert.Equal(t, int64(3), out.DealsClosed)
		assert.InDelta(t, 8000.0, out.PeriodRevenue, 0.001)
		assert.Equal(t, int64(7), out.NewContacts)
		assert.Equal(t, int64(12), out.Customers)
		assert.Equal(t, int64(30), out.Prospects)
	})

	t.Run("trailing trend has twelve months with gaps zeroed", func(t *testing.T) {
		require.Len(t, out.RevenueTrend, 12)
		assert.Equal(t, "2024-07", out.RevenueTrend[0].Month)
		assert.Equal(t, "2025-06", out.RevenueTrend[11].Month)

		byMonth := make(map[string]domain.MonthlyRevenue)
		for _, m := range out.RevenueTrend {
			byMonth[m.Month] = m
		}
		assert.InDelta(t, 5000.0, byMonth["2025-05"].Revenue, 0.001)
		assert.InDelta(t, 3000.0, byMonth["2025-04"].Revenue, 0.001)
		assert.Zero(t, byMonth["2025-01"].Revenue)
	})

	t.Run("old wins fall outside the trend", func(t *testing.T) {
		var total float64
		for _, m := range out.RevenueTrend {
			total += m.Revenue
		}
		assert.InDelta(t, 8000.0, total, 0.001)
	})

	t.Run("top performers resolve names when known", func(t *testing.T) {
		require.Len(t, out.TopPerformers, 2)
		assert.Equal(t, "alice", out.TopPerformers[0].UserID)
		assert.Equal(t, "Alice Ames", out.TopPerformers[0].Name)
		assert.Equal(t, "bob", out.TopPerformers[1].UserID)
		assert.Equal(t, "bob", out.TopPerformers[1].Name)
	})

	t.Run("top performer list capped at five", func(t *testing.T) {
		var closed []domain.Deal
		for i := 0; i < 8; i++ {
			closed = append(closed, won(fmt.Sprintf("u%d", i), float64(100*(i+1)), may))
		}
		capped := ExecutiveSummary(ExecutiveInput{ClosedInRange: closed}, now)

		require.Len(t, capped.TopPerformers, 5)
		assert.Equal(t, "u7", capped.TopPerformers[0].UserID)
	})
}
