package reporting

import "github.com/pipecrest/crm-api/internal/domain"

// Funnel stage labels, in order.
const (
	FunnelStageLeads         = "Leads"
	FunnelStageContacts      = "Contacts"
	FunnelStageOpportunities = "Opportunities"
	FunnelStageCustomers     = "Customers"
)

// FunnelCounts are the independently computed stage counts: prospect
// organizations, contacts created in range, deals created in range, and won
// deals closed in range.
type FunnelCounts struct {
	Leads         int64
	Contacts      int64
	Opportunities int64
	Customers     int64
}

// ConversionFunnel turns the four stage counts into the ordered funnel.
// Each stage's conversion rate is relative to the previous stage; the first
// stage and any stage following an empty one report 0.
func ConversionFunnel(c FunnelCounts) []domain.FunnelStage {
	counts := []struct {
		name  string
		count int64
	}{
		{FunnelStageLeads, c.Leads},
		{FunnelStageContacts, c.Contacts},
		{FunnelStageOpportunities, c.Opportunities},
		{FunnelStageCustomers, c.Customers},
	}

	out := make([]domain.FunnelStage, len(counts))
	for i, s := range counts {
		stage := domain.FunnelStage{Name: s.name, Count: s.count}
		if i > 0 {
			stage.ConversionRate = rate(s.count, counts[i-1].count)
		}
		out[i] = stage
	}
	return out
}
