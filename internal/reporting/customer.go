package reporting

import (
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// CustomerAnalytics reduces customer-class organizations (type customer or
// former_customer) plus their won deals. New customers are those created
// inside [from, to]; revenue attribution sums won deal amounts per
// organization.
func CustomerAnalytics(orgs []domain.Organization, wonDeals []domain.Deal, from, to, now time.Time) domain.CustomerAnalytics {
	var out domain.CustomerAnalytics

	revenueByOrg := make(map[string]float64)
	for i := range wonDeals {
		d := &wonDeals[i]
		if !d.Status.IsWon() || d.OrganizationID == nil {
			continue
		}
		revenueByOrg[d.OrganizationID.String()] += d.Amount
	}

	type industryAccum struct {
		count    int64
		retained int64
		ageSum   float64
		revenue  float64
	}
	industries := make(map[string]*industryAccum)

	for i := range orgs {
		o := &orgs[i]
		if o.Type != domain.OrganizationTypeCustomer && o.Type != domain.OrganizationTypeFormerCustomer {
			continue
		}
		out.TotalCustomers++
		if !o.CreatedAt.Before(from) && !o.CreatedAt.After(to) {
			out.NewCustomers++
		}
		if o.Status == domain.OrganizationStatusActive {
			out.ActiveCustomers++
		}
		if o.Status == domain.OrganizationStatusChurned || o.Type == domain.OrganizationTypeFormerCustomer {
			out.ChurnedCustomers++
		}

		revenue := revenueByOrg[o.ID.String()]
		out.TotalCustomerRevenue += revenue

		industry := o.Industry
		if industry == "" {
			industry = "Unknown"
		}
		acc, ok := industries[industry]
		if !ok {
			acc = &industryAccum{}
			industries[industry] = acc
		}
		acc.count++
		if o.Status == domain.OrganizationStatusActive {
			acc.retained++
		}
		acc.ageSum += daysBetween(o.CreatedAt, now)
		acc.revenue += revenue
	}

	out.AvgCustomerRevenue = mean(out.TotalCustomerRevenue, out.TotalCustomers)

	out.ByIndustry = make([]domain.IndustryRetention, 0, len(industries))
	for industry, acc := range industries {
		out.ByIndustry = append(out.ByIndustry, domain.IndustryRetention{
			Industry:           industry,
			CustomerCount:      acc.count,
			RetainedCustomers:  acc.retained,
			AvgCustomerAgeDays: round1(mean(acc.ageSum, acc.count)),
			IndustryRevenue:    acc.revenue,
			RetentionRate:      rate(acc.retained, acc.count),
		})
	}
	sort.Slice(out.ByIndustry, func(i, j int) bool {
		a, b := out.ByIndustry[i], out.ByIndustry[j]
		if a.CustomerCount != b.CustomerCount {
			return a.CustomerCount > b.CustomerCount
		}
		return a.Industry < b.Industry
	})

	return out
}
