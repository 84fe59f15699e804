package reporting

import (
	"sort"

	"github.com/pipecrest/crm-api/internal/domain"
)

// Fixed activity-score weights. A simple heuristic, not a statistical model.
const (
	scoreWeightDealCreated   = 10
	scoreWeightDealWon       = 25
	scoreWeightContact       = 2
	scoreWeightCompletedTask = 5
)

// TeamInput carries the per-concern slices the team performance report
// reduces. closedDeals are deals closed within the scope, openDeals the
// currently open ones, createdDeals those created within the scope;
// contacts, organizations, and tasks are the users' current holdings.
type TeamInput struct {
	Users         []domain.User
	ClosedDeals   []domain.Deal
	OpenDeals     []domain.Deal
	CreatedDeals  []domain.Deal
	Contacts      []domain.Contact
	Organizations []domain.Organization
	Tasks         []domain.Task
}

// TeamPerformance reduces TeamInput to one row per user, ordered by won
// revenue descending. Records owned by users outside in.Users are ignored.
func TeamPerformance(in TeamInput) []domain.TeamMemberPerformance {
	rows := make(map[string]*domain.TeamMemberPerformance, len(in.Users))
	cycles := make(map[string]*struct {
		sum   float64
		count int64
	})
	for i := range in.Users {
		u := &in.Users[i]
		rows[u.ID] = &domain.TeamMemberPerformance{UserID: u.ID, Name: u.FullName()}
		cycles[u.ID] = &struct {
			sum   float64
			count int64
		}{}
	}

	for i := range in.ClosedDeals {
		d := &in.ClosedDeals[i]
		row, ok := rows[d.OwnerID]
		if !ok {
			continue
		}
		switch {
		case d.Status.IsWon():
			row.WonDeals++
			row.TotalRevenue += d.Amount
			if d.CloseDate != nil {
				c := cycles[d.OwnerID]
				c.sum += daysBetween(d.CreatedAt, *d.CloseDate)
				c.count++
			}
		case d.Status.IsLost():
			row.LostDeals++
		}
	}
	for i := range in.OpenDeals {
		d := &in.OpenDeals[i]
		if row, ok := rows[d.OwnerID]; ok && d.Status.IsOpen() {
			row.OpenDeals++
		}
	}
	for i := range in.CreatedDeals {
		if row, ok := rows[in.CreatedDeals[i].OwnerID]; ok {
			row.DealsCreated++
		}
	}
	for i := range in.Contacts {
		if row, ok := rows[in.Contacts[i].OwnerID]; ok {
			row.Contacts++
		}
	}
	for i := range in.Organizations {
		if row, ok := rows[in.Organizations[i].OwnerID]; ok {
			row.Organizations++
		}
	}
	for i := range in.Tasks {
		t := &in.Tasks[i]
		row, ok := rows[t.AssigneeID]
		if !ok {
			continue
		}
		row.Tasks++
		if t.Status == domain.TaskStatusCompleted {
			row.CompletedTasks++
		}
	}

	out := make([]domain.TeamMemberPerformance, 0, len(in.Users))
	for i := range in.Users {
		row := rows[in.Users[i].ID]
		row.TotalDeals = row.WonDeals + row.LostDeals + row.OpenDeals
		row.AvgDealSize = mean(row.TotalRevenue, row.WonDeals)
		c := cycles[row.UserID]
		row.AvgSalesCycleDays = round1(mean(c.sum, c.count))
		row.WinRate = rate(row.WonDeals, row.WonDeals+row.LostDeals)
		row.TaskCompletionRate = rate(row.CompletedTasks, row.Tasks)
		row.ActivityScore = row.DealsCreated*scoreWeightDealCreated +
			row.WonDeals*scoreWeightDealWon +
			row.Contacts*scoreWeightContact +
			row.CompletedTasks*scoreWeightCompletedTask
		out = append(out, *row)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalRevenue > out[j].TotalRevenue })
	return out
}
