package reporting

import (
	"sort"
	"strings"

	"github.com/pipecrest/crm-api/internal/domain"
)

// SummarizeActivities reduces activity log entries to the activity summary.
// Keyword classification is a substring match on the lowercased action, so
// one entry can land in several classes.
func SummarizeActivities(activities []domain.Activity) domain.ActivitySummary {
	var out domain.ActivitySummary

	users := make(map[string]struct{})
	days := make(map[string]struct{})
	byKind := make(map[domain.EntityKind]*domain.EntityTypeActivity)
	entities := make(map[domain.EntityKind]map[string]struct{})
	daily := make(map[string]*domain.DailyActivity)
	dailyUsers := make(map[string]map[string]struct{})

	for i := range activities {
		a := &activities[i]
		out.TotalActivities++

		action := strings.ToLower(a.Action)
		if strings.Contains(action, "created") {
			out.Created++
		}
		if strings.Contains(action, "updated") {
			out.Updated++
		}
		if strings.Contains(action, "deleted") {
			out.Deleted++
		}
		if strings.Contains(action, "email") {
			out.Emails++
		}
		if strings.Contains(action, "call") {
			out.Calls++
		}
		if strings.Contains(action, "meeting") {
			out.Meetings++
		}

		users[a.ActorID] = struct{}{}
		day := a.OccurredAt.Format("2006-01-02")
		days[day] = struct{}{}

		if a.Subject.Kind != domain.EntityKindNone {
			row, ok := byKind[a.Subject.Kind]
			if !ok {
				row = &domain.EntityTypeActivity{EntityType: a.Subject.Kind}
				byKind[a.Subject.Kind] = row
				entities[a.Subject.Kind] = make(map[string]struct{})
			}
			row.Count++
			if a.Subject.ID != nil {
				entities[a.Subject.Kind][a.Subject.ID.String()] = struct{}{}
			}
		}

		trend, ok := daily[day]
		if !ok {
			trend = &domain.DailyActivity{Date: day}
			daily[day] = trend
			dailyUsers[day] = make(map[string]struct{})
		}
		trend.Count++
		dailyUsers[day][a.ActorID] = struct{}{}
	}

	out.ActiveUsers = int64(len(users))
	out.ActiveDays = int64(len(days))

	out.ByEntityType = make([]domain.EntityTypeActivity, 0, len(byKind))
	for kind, row := range byKind {
		row.DistinctEntities = int64(len(entities[kind]))
		out.ByEntityType = append(out.ByEntityType, *row)
	}
	sort.Slice(out.ByEntityType, func(i, j int) bool {
		return out.ByEntityType[i].EntityType < out.ByEntityType[j].EntityType
	})

	out.DailyTrend = make([]domain.DailyActivity, 0, len(daily))
	for day, trend := range daily {
		trend.ActiveUsers = int64(len(dailyUsers[day]))
		out.DailyTrend = append(out.DailyTrend, *trend)
	}
	sort.Slice(out.DailyTrend, func(i, j int) bool {
		return out.DailyTrend[i].Date < out.DailyTrend[j].Date
	})

	return out
}
