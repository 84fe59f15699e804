package reporting

import (
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// PipelineAnalytics produces one row per pipeline stage over the currently
// open deals. Stages with no open deals still get a zeroed row. Rows come
// back in display order.
func PipelineAnalytics(stages []domain.PipelineStage, openDeals []domain.Deal, now time.Time) []domain.StagePipeline {
	type stageAccum struct {
		value   float64
		count   int64
		daysSum float64
	}
	accum := make(map[string]*stageAccum, len(stages))
	for i := range stages {
		accum[stages[i].ID.String()] = &stageAccum{}
	}

	for i := range openDeals {
		d := &openDeals[i]
		if !d.Status.IsOpen() {
			continue
		}
		a, ok := accum[d.StageID.String()]
		if !ok {
			// Deal points at an unknown or inactive stage; not part of
			// the rendered pipeline.
			continue
		}
		a.count++
		a.value += d.Amount
		a.daysSum += daysBetween(d.CreatedAt, now)
	}

	out := make([]domain.StagePipeline, 0, len(stages))
	for i := range stages {
		s := &stages[i]
		a := accum[s.ID.String()]
		row := domain.StagePipeline{
			StageID:      s.ID,
			StageName:    s.Name,
			DisplayOrder: s.DisplayOrder,
			DealCount:    a.count,
			TotalValue:   a.value,
			AvgDealSize:  mean(a.value, a.count),
			WeightedValue: WeightedPipelineValue([]StageValuation{
				{Value: a.value, Count: a.count, Probability: s.Probability},
			}),
			AvgDaysInStage: round1(mean(a.daysSum, a.count)),
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}
