package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionFunnel(t *testing.T) {
	t.Run("stage ordering and rates", func(t *testing.T) {
		out := ConversionFunnel(FunnelCounts{Leads: 200, Contacts: 100, Opportunities: 40, Customers: 10})

		require.Len(t, out, 4)
		assert.Equal(t, FunnelStageLeads, out[0].Name)
		assert.Equal(t, FunnelStageContacts, out[1].Name)
		assert.Equal(t, FunnelStageOpportunities, out[2].Name)
		assert.Equal(t, FunnelStageCustomers, out[3].Name)

		assert.Zero(t, out[0].ConversionRate)
		assert.InDelta(t, 50.0, out[1].ConversionRate, 0.001)
		assert.InDelta(t, 40.0, out[2].ConversionRate, 0.001)
		assert.InDelta(t, 25.0, out[3].ConversionRate, 0.001)
	})

	t.Run("zero prior stage gives zero rate", func(t *testing.T) {
		out := ConversionFunnel(FunnelCounts{Leads: 0, Contacts: 5, Opportunities: 0, Customers: 3})

		assert.Zero(t, out[1].ConversionRate)
		assert.Zero(t, out[2].ConversionRate)
		assert.Zero(t, out[3].ConversionRate)
	})

	t.Run("empty funnel is all zeroes", func(t *testing.T) {
		out := ConversionFunnel(FunnelCounts{})

		require.Len(t, out, 4)
		for _, stage := range out {
			assert.Zero(t, stage.Count)
			assert.Zero(t, stage.ConversionRate)
		}
	})

	t.Run("rates stay within bounds", func(t *testing.T) {
		out := ConversionFunnel(FunnelCounts{Leads: 3, Contacts: 2, Opportunities: 1, Customers: 1})
		for _, stage := range out {
			assert.GreaterOrEqual(t, stage.ConversionRate, 0.0)
			assert.LessOrEqual(t, stage.ConversionRate, 100.0)
		}
	})
}
