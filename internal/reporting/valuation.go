package reporting

import (
	"math"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// StageValuation is the per-stage input to the valuation helpers: the summed
// open amount, the open deal count, and the stage's close probability
// (nil when the stage carries none).
type StageValuation struct {
	Value       float64
	Count       int64
	Probability *int
}

// defaultStageProbability is assumed when a stage has no probability set.
const defaultStageProbability = 50

// WeightedPipelineValue sums each stage's value weighted by its close
// probability. Unset probabilities fall back to 50.
func WeightedPipelineValue(stages []StageValuation) float64 {
	var total float64
	for _, s := range stages {
		p := defaultStageProbability
		if s.Probability != nil {
			p = *s.Probability
		}
		total += s.Value * float64(p) / 100
	}
	return total
}

// AverageDealSize divides the total stage value by the total deal count,
// returning 0 when there are no deals.
func AverageDealSize(stages []StageValuation) float64 {
	var value float64
	var count int64
	for _, s := range stages {
		value += s.Value
		count += s.Count
	}
	if count == 0 {
		return 0
	}
	return value / float64(count)
}

// ApplyStageTransition computes the field changes a move to stage implies
// and applies them to deal in memory. The caller persists the result in a
// single atomic update. Moving into a terminal stage forces the matching
// status and stamps the close date; a mid-pipeline move leaves status and
// close date untouched.
func ApplyStageTransition(deal *domain.Deal, stage *domain.PipelineStage, now time.Time) {
	deal.StageID = stage.ID
	deal.Stage = stage
	deal.Probability = stage.EffectiveProbability()

	if status, ok := stage.TerminalStatus(); ok {
		deal.Status = status
		closed := now
		deal.CloseDate = &closed
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// rate returns num/den as a percentage rounded to one decimal, 0 when the
// denominator is 0.
func rate(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

// mean returns sum/n, 0 when n is 0.
func mean(sum float64, n int64) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// dealProbability returns the effective close probability for a deal,
// preferring the loaded stage's value over the deal's own snapshot.
func dealProbability(d *domain.Deal) int {
	if d.Stage != nil {
		return d.Stage.EffectiveProbability()
	}
	return d.Probability
}

// daysBetween returns the elapsed time between two instants in days.
func daysBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}
