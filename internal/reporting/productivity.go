package reporting

import (
	"sort"
	"time"

	"github.com/pipecrest/crm-api/internal/domain"
)

// SummarizeProductivity reduces tasks created within a scope to the
// productivity summary. Overdue means due before today and neither
// completed nor cancelled.
func SummarizeProductivity(tasks []domain.Task, now time.Time) domain.ProductivitySummary {
	var out domain.ProductivitySummary

	var hoursSum float64
	var hoursCount int64

	type categoryAccum struct {
		count      int64
		completed  int64
		hoursSum   float64
		hoursCount int64
	}
	categories := make(map[string]*categoryAccum)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := range tasks {
		t := &tasks[i]
		out.TotalTasks++

		switch t.Status {
		case domain.TaskStatusCompleted:
			out.CompletedTasks++
			if t.ActualHours != nil {
				hoursSum += *t.ActualHours
				hoursCount++
			}
			if t.CompletionDate != nil && t.DueDate != nil && !t.CompletionDate.After(*t.DueDate) {
				out.OnTimeCompletions++
			}
		case domain.TaskStatusPending:
			out.PendingTasks++
		case domain.TaskStatusInProgress:
			out.InProgressTasks++
		}

		if t.DueDate != nil && t.DueDate.Before(today) &&
			t.Status != domain.TaskStatusCompleted && t.Status != domain.TaskStatusCancelled {
			out.OverdueTasks++
		}

		category := t.Category
		if category == "" {
			category = "Uncategorized"
		}
		acc, ok := categories[category]
		if !ok {
			acc = &categoryAccum{}
			categories[category] = acc
		}
		acc.count++
		if t.Status == domain.TaskStatusCompleted {
			acc.completed++
			if t.ActualHours != nil {
				acc.hoursSum += *t.ActualHours
				acc.hoursCount++
			}
		}
	}

	out.AvgCompletionHours = round1(mean(hoursSum, hoursCount))
	out.CompletionRate = rate(out.CompletedTasks, out.TotalTasks)
	out.OnTimeRate = rate(out.OnTimeCompletions, out.CompletedTasks)

	out.ByCategory = make([]domain.CategoryProductivity, 0, len(categories))
	for category, acc := range categories {
		out.ByCategory = append(out.ByCategory, domain.CategoryProductivity{
			Category:       category,
			Count:          acc.count,
			Completed:      acc.completed,
			AvgActualHours: round1(mean(acc.hoursSum, acc.hoursCount)),
		})
	}
	sort.Slice(out.ByCategory, func(i, j int) bool {
		a, b := out.ByCategory[i], out.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	return out
}
