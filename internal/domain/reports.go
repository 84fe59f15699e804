package domain

import "github.com/google/uuid"

// Report payloads returned by the reporting facade. These are plain data
// carriers: the page controllers render them as JSON or HTML and the report
// cache stores them verbatim, so every field must marshal cleanly and zero
// values must be meaningful (0 counts, 0 rates, empty slices).

// SalesSummary aggregates deals created within a scope.
type SalesSummary struct {
	TotalDeals        int64   `json:"totalDeals"`
	OpenDeals         int64   `json:"openDeals"`
	WonDeals          int64   `json:"wonDeals"`
	LostDeals         int64   `json:"lostDeals"`
	TotalRevenue      float64 `json:"totalRevenue"`
	PipelineValue     float64 `json:"pipelineValue"`
	AvgDealSize       float64 `json:"avgDealSize"`
	AvgSalesCycleDays float64 `json:"avgSalesCycleDays"`
	// WinRate is won/total*100. The denominator deliberately includes open
	// deals, matching the historical dashboard formula.
	WinRate          float64 `json:"winRate"`
	RevenueToday     float64 `json:"revenueToday"`
	RevenueThisWeek  float64 `json:"revenueThisWeek"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
}

// PeriodGranularity selects the bucket size for performance-by-period.
type PeriodGranularity string

const (
	PeriodDaily     PeriodGranularity = "daily"
	PeriodWeekly    PeriodGranularity = "weekly"
	PeriodMonthly   PeriodGranularity = "monthly"
	PeriodQuarterly PeriodGranularity = "quarterly"
)

// IsValid checks if the PeriodGranularity is a valid enum value
func (g PeriodGranularity) IsValid() bool {
	switch g {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return true
	}
	return false
}

// PeriodPerformance is one bucket of closed deals.
type PeriodPerformance struct {
	Period       string  `json:"period"`
	DealsClosed  int64   `json:"dealsClosed"`
	WonDeals     int64   `json:"wonDeals"`
	LostDeals    int64   `json:"lostDeals"`
	TotalRevenue float64 `json:"totalRevenue"`
	AvgDealSize  float64 `json:"avgDealSize"`
	WinRate      float64 `json:"winRate"`
}

// StagePipeline is one pipeline-analytics row. Stages with no open deals
// still appear with zero counts.
type StagePipeline struct {
	StageID        uuid.UUID `json:"stageId"`
	StageName      string    `json:"stageName"`
	DisplayOrder   int       `json:"displayOrder"`
	DealCount      int64     `json:"dealCount"`
	TotalValue     float64   `json:"totalValue"`
	AvgDealSize    float64   `json:"avgDealSize"`
	WeightedValue  float64   `json:"weightedValue"`
	AvgDaysInStage float64   `json:"avgDaysInStage"`
}

// ForecastMonth is one monthly bucket of the sales forecast.
type ForecastMonth struct {
	Month          string  `json:"month"`
	DealCount      int64   `json:"dealCount"`
	TotalAmount    float64 `json:"totalAmount"`
	WeightedAmount float64 `json:"weightedAmount"`
}

// SalesForecast projects open deals expected to close this year.
type SalesForecast struct {
	WeightedForecast   float64         `json:"weightedForecast"`
	BestCase           float64         `json:"bestCase"`
	LikelyCase         float64         `json:"likelyCase"`
	WorstCase          float64         `json:"worstCase"`
	TotalOpportunities int64           `json:"totalOpportunities"`
	Monthly            []ForecastMonth `json:"monthly"`
}

// TeamMemberPerformance is one team-performance row.
type TeamMemberPerformance struct {
	UserID             string  `json:"userId"`
	Name               string  `json:"name"`
	TotalDeals         int64   `json:"totalDeals"`
	WonDeals           int64   `json:"wonDeals"`
	LostDeals          int64   `json:"lostDeals"`
	OpenDeals          int64   `json:"openDeals"`
	DealsCreated       int64   `json:"dealsCreated"`
	TotalRevenue       float64 `json:"totalRevenue"`
	AvgDealSize        float64 `json:"avgDealSize"`
	AvgSalesCycleDays  float64 `json:"avgSalesCycleDays"`
	WinRate            float64 `json:"winRate"`
	Contacts           int64   `json:"contacts"`
	Organizations      int64   `json:"organizations"`
	Tasks              int64   `json:"tasks"`
	CompletedTasks     int64   `json:"completedTasks"`
	TaskCompletionRate float64 `json:"taskCompletionRate"`
	ActivityScore      int64   `json:"activityScore"`
}

// FunnelStage is one stage of the conversion funnel. ConversionRate is
// relative to the previous stage and always 0 for the first stage.
type FunnelStage struct {
	Name           string  `json:"name"`
	Count          int64   `json:"count"`
	ConversionRate float64 `json:"conversionRate"`
}

// EntityTypeActivity is the activity breakdown for one entity kind.
type EntityTypeActivity struct {
	EntityType       EntityKind `json:"entityType"`
	Count            int64      `json:"count"`
	DistinctEntities int64      `json:"distinctEntities"`
}

// DailyActivity is one day of the activity trend.
type DailyActivity struct {
	Date        string `json:"date"`
	Count       int64  `json:"count"`
	ActiveUsers int64  `json:"activeUsers"`
}

// ActivitySummary aggregates the activity log within a scope.
// Keyword class counts are not mutually exclusive: an action labelled
// "updated email" counts as both updated and email.
type ActivitySummary struct {
	TotalActivities int64                `json:"totalActivities"`
	Created         int64                `json:"created"`
	Updated         int64                `json:"updated"`
	Deleted         int64                `json:"deleted"`
	Emails          int64                `json:"emails"`
	Calls           int64                `json:"calls"`
	Meetings        int64                `json:"meetings"`
	ActiveUsers     int64                `json:"activeUsers"`
	ActiveDays      int64                `json:"activeDays"`
	ByEntityType    []EntityTypeActivity `json:"byEntityType"`
	DailyTrend      []DailyActivity      `json:"dailyTrend"`
}

// IndustryRetention is the per-industry customer retention breakdown.
type IndustryRetention struct {
	Industry           string  `json:"industry"`
	CustomerCount      int64   `json:"customerCount"`
	RetainedCustomers  int64   `json:"retainedCustomers"`
	AvgCustomerAgeDays float64 `json:"avgCustomerAgeDays"`
	IndustryRevenue    float64 `json:"industryRevenue"`
	RetentionRate      float64 `json:"retentionRate"`
}

// CustomerAnalytics aggregates customer-type organizations.
type CustomerAnalytics struct {
	TotalCustomers       int64               `json:"totalCustomers"`
	NewCustomers         int64               `json:"newCustomers"`
	ActiveCustomers      int64               `json:"activeCustomers"`
	ChurnedCustomers     int64               `json:"churnedCustomers"`
	TotalCustomerRevenue float64             `json:"totalCustomerRevenue"`
	AvgCustomerRevenue   float64             `json:"avgCustomerRevenue"`
	ByIndustry           []IndustryRetention `json:"byIndustry"`
}

// CategoryProductivity is the per-category task breakdown.
type CategoryProductivity struct {
	Category       string  `json:"category"`
	Count          int64   `json:"count"`
	Completed      int64   `json:"completed"`
	AvgActualHours float64 `json:"avgActualHours"`
}

// ProductivitySummary aggregates tasks created within a scope.
type ProductivitySummary struct {
	TotalTasks         int64                  `json:"totalTasks"`
	CompletedTasks     int64                  `json:"completedTasks"`
	PendingTasks       int64                  `json:"pendingTasks"`
	InProgressTasks    int64                  `json:"inProgressTasks"`
	OverdueTasks       int64                  `json:"overdueTasks"`
	OnTimeCompletions  int64                  `json:"onTimeCompletions"`
	AvgCompletionHours float64                `json:"avgCompletionHours"`
	CompletionRate     float64                `json:"completionRate"`
	OnTimeRate         float64                `json:"onTimeRate"`
	ByCategory         []CategoryProductivity `json:"byCategory"`
}

// MonthlyRevenue is one month of the trailing revenue trend.
type MonthlyRevenue struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	DealsWon int64   `json:"dealsWon"`
}

// TopPerformer is one row of the executive top-performer list.
type TopPerformer struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	WonRevenue float64 `json:"wonRevenue"`
	WonDeals   int64   `json:"wonDeals"`
}

// ExecutiveSummary is the fixed dashboard bundle. Open-opportunity figures
// and the revenue trend ignore the requested date range; the rest is scoped.
type ExecutiveSummary struct {
	OpenOpportunities int64            `json:"openOpportunities"`
	PipelineValue     float64          `json:"pipelineValue"`
	PeriodRevenue     float64          `json:"periodRevenue"`
	DealsClosed       int64            `json:"dealsClosed"`
	NewContacts       int64            `json:"newContacts"`
	Customers         int64            `json:"customers"`
	Prospects         int64            `json:"prospects"`
	ActiveTasks       int64            `json:"activeTasks"`
	ActiveUsers       int64            `json:"activeUsers"`
	RevenueTrend      []MonthlyRevenue `json:"revenueTrend"`
	TopPerformers     []TopPerformer   `json:"topPerformers"`
}
