package reporting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipecrest/crm-api/internal/domain"
)

func stageWith(name string, order int, probability *int) domain.PipelineStage {
	s := domain.PipelineStage{Name: name, DisplayOrder: order, Probability: probability, IsActive: true}
	s.ID = uuid.New()
	return s
}

func TestPipelineAnalytics(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	stages := []domain.PipelineStage{
		stageWith("Qualification", 1, intPtr(20)),
		stageWith("Proposal", 2, intPtr(60)),
		stageWith("Negotiation", 3, nil),
	}

	openDeal := func(stageID uuid.UUID, amount float64, ageDays int) domain.Deal {
		d := domain.Deal{Amount: amount, Status: domain.DealStatusOpen, StageID: stageID}
		d.CreatedAt = now.AddDate(0, 0, -ageDays)
		return d
	}

	deals := []domain.Deal{
		openDeal(stages[0].ID, 1000, 10),
		openDeal(stages[0].ID, 3000, 20),
		openDeal(stages[2].ID, 2000, 5),
	}

	out := PipelineAnalytics(stages, deals, now)
	require.Len(t, out, 3)

	t.Run("rows follow display order", func(t *testing.T) {
		assert.Equal(t, "Qualification", out[0].StageName)
		assert.Equal(t, "Proposal", out[1].StageName)
		assert.Equal(t, "Negotiation", out[2].StageName)
	})

	t.Run("stage aggregates", func(t *testing.T) {
		assert.Equal(t, int64(2), out[0].DealCount)
		assert.InDelta(t, 4000.0, out[0].TotalValue, 0.001)
		assert.InDelta(t, 2000.0, out[0].AvgDealSize, 0.001)
		assert.InDelta(t, 800.0, out[0].WeightedValue, 0.001)
		assert.InDelta(t, 15.0, out[0].AvgDaysInStage, 0.001)
	})

	t.Run("stage with no deals is zeroed but present", func(t *testing.T) {
		assert.Zero(t, out[1].DealCount)
		assert.Zero(t, out[1].TotalValue)
		assert.Zero(t, out[1].AvgDealSize)
		assert.Zero(t, out[1].AvgDaysInStage)
	})

	t.Run("nil probability weights at 50", func(t *testing.T) {
		assert.InDelta(t, 1000.0, out[2].WeightedValue, 0.001)
	})

	t.Run("weighted value never exceeds total value", func(t *testing.T) {
		for _, row := range out {
			assert.LessOrEqual(t, row.WeightedValue, row.TotalValue)
		}
	})
}
