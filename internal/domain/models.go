package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the id client-side so inserts also work on databases
// without gen_random_uuid, sqlite in tests included.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// DealStatus represents the lifecycle status of a deal
type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
	// DealStatusClosedWon is a legacy synonym for won still present in
	// imported data. Every aggregation must treat it as won.
	DealStatusClosedWon DealStatus = "closed_won"
)

// IsWon reports whether the status belongs to the won class.
// won and closed_won are the same class everywhere.
func (s DealStatus) IsWon() bool {
	return s == DealStatusWon || s == DealStatusClosedWon
}

// IsOpen reports whether the deal is still in play.
func (s DealStatus) IsOpen() bool {
	return s == DealStatusOpen
}

// IsLost reports whether the deal was lost.
func (s DealStatus) IsLost() bool {
	return s == DealStatusLost
}

// PipelineStage represents a stage in the sales pipeline
type PipelineStage struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	DisplayOrder int    `gorm:"not null;default:0;column:display_order;index"`
	// Probability is the likelihood (0-100) that a deal in this stage
	// eventually closes won. Nullable: legacy stages carry no value and
	// valuation falls back to 50.
	Probability *int `gorm:"type:int"`
	IsActive    bool `gorm:"not null;default:true;column:is_active"`
}

// terminalOutcome maps normalized terminal stage names to the deal status
// they force. Mid-pipeline stages are absent.
var terminalOutcome = map[string]DealStatus{
	"won":         DealStatusWon,
	"closed won":  DealStatusWon,
	"closed_won":  DealStatusWon,
	"lost":        DealStatusLost,
	"closed lost": DealStatusLost,
	"closed_lost": DealStatusLost,
}

// TerminalStatus returns the deal status a move into this stage forces,
// or false when the stage is not terminal. Matching is case-insensitive.
func (s *PipelineStage) TerminalStatus() (DealStatus, bool) {
	status, ok := terminalOutcome[strings.ToLower(strings.TrimSpace(s.Name))]
	return status, ok
}

// EffectiveProbability returns the stage probability, defaulting to 50
// when unset.
func (s *PipelineStage) EffectiveProbability() int {
	if s.Probability == nil {
		return 50
	}
	return *s.Probability
}

// Deal represents a sales opportunity in the pipeline
type Deal struct {
	BaseModel
	Title             string         `gorm:"type:varchar(200);not null"`
	Description       string         `gorm:"type:text"`
	Amount            float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Currency          string         `gorm:"type:varchar(3);not null;default:'USD'"`
	Status            DealStatus     `gorm:"type:varchar(50);not null;default:'open';index"`
	StageID           uuid.UUID      `gorm:"type:uuid;not null;index;column:stage_id"`
	Stage             *PipelineStage `gorm:"foreignKey:StageID"`
	Probability       int            `gorm:"type:int;not null;default:0"`
	CloseDate         *time.Time     `gorm:"type:date;column:close_date"`
	ExpectedCloseDate *time.Time     `gorm:"type:date;column:expected_close_date"`
	OwnerID           string         `gorm:"type:varchar(100);not null;column:owner_id;index"`
	ContactID         *uuid.UUID     `gorm:"type:uuid;index;column:contact_id"`
	Contact           *Contact       `gorm:"foreignKey:ContactID"`
	OrganizationID    *uuid.UUID     `gorm:"type:uuid;index;column:organization_id"`
	Organization      *Organization  `gorm:"foreignKey:OrganizationID"`
	Source            string         `gorm:"type:varchar(100)"`
	Notes             string         `gorm:"type:text"`
}

// WeightedAmount returns the probability-adjusted deal amount.
func (d *Deal) WeightedAmount() float64 {
	return d.Amount * float64(d.Probability) / 100
}

// DealStageHistory tracks stage changes for audit purposes
type DealStageHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	DealID      uuid.UUID  `gorm:"type:uuid;not null;index;column:deal_id"`
	Deal        *Deal      `gorm:"foreignKey:DealID"`
	FromStageID *uuid.UUID `gorm:"type:uuid;column:from_stage_id"`
	ToStageID   uuid.UUID  `gorm:"type:uuid;not null;column:to_stage_id"`
	ChangedByID string     `gorm:"type:varchar(100);column:changed_by_id"`
	Notes       string     `gorm:"type:text"`
	ChangedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default table name to match the migration
func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}

// BeforeCreate assigns the id client-side, mirroring BaseModel.
func (h *DealStageHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Contact represents an individual person
type Contact struct {
	BaseModel
	FirstName      string        `gorm:"type:varchar(100);not null;column:first_name"`
	LastName       string        `gorm:"type:varchar(100);not null;column:last_name"`
	Email          string        `gorm:"type:varchar(255);index"`
	Phone          string        `gorm:"type:varchar(50)"`
	Title          string        `gorm:"type:varchar(100)"`
	OrganizationID *uuid.UUID    `gorm:"type:uuid;index;column:organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID"`
	OwnerID        string        `gorm:"type:varchar(100);not null;column:owner_id;index"`
	IsActive       bool          `gorm:"not null;default:true;column:is_active"`
}

// FullName returns the contact's full name
func (c *Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// OrganizationType classifies an organization's relationship to the business
type OrganizationType string

const (
	OrganizationTypeProspect       OrganizationType = "prospect"
	OrganizationTypeCustomer       OrganizationType = "customer"
	OrganizationTypeFormerCustomer OrganizationType = "former_customer"
	OrganizationTypePartner        OrganizationType = "partner"
	OrganizationTypeVendor         OrganizationType = "vendor"
	OrganizationTypeCompetitor     OrganizationType = "competitor"
	OrganizationTypeOther          OrganizationType = "other"
)

// IsValid checks if the OrganizationType is a valid enum value
func (ot OrganizationType) IsValid() bool {
	switch ot {
	case OrganizationTypeProspect, OrganizationTypeCustomer, OrganizationTypeFormerCustomer,
		OrganizationTypePartner, OrganizationTypeVendor, OrganizationTypeCompetitor, OrganizationTypeOther:
		return true
	}
	return false
}

// OrganizationStatus represents the status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive   OrganizationStatus = "active"
	OrganizationStatusInactive OrganizationStatus = "inactive"
	OrganizationStatusChurned  OrganizationStatus = "churned"
)

// Organization represents a company record in the CRM
type Organization struct {
	BaseModel
	Name          string             `gorm:"type:varchar(200);not null;index"`
	Type          OrganizationType   `gorm:"type:varchar(50);not null;default:'prospect';index"`
	Status        OrganizationStatus `gorm:"type:varchar(50);not null;default:'active';index"`
	Industry      string             `gorm:"type:varchar(100);index"`
	AnnualRevenue *float64           `gorm:"type:decimal(15,2);column:annual_revenue"`
	EmployeeCount *int               `gorm:"column:employee_count"`
	Website       string             `gorm:"type:varchar(255)"`
	// ParentID forms the organization tree. Acyclicity is enforced at
	// validation time by the CRUD layer, not here.
	ParentID *uuid.UUID    `gorm:"type:uuid;column:parent_id"`
	Parent   *Organization `gorm:"foreignKey:ParentID"`
	OwnerID  string        `gorm:"type:varchar(100);not null;column:owner_id;index"`
}

// TaskStatus represents the status of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
	TaskStatusWaiting    TaskStatus = "waiting"
)

// IsValid checks if the TaskStatus is a valid enum value
func (ts TaskStatus) IsValid() bool {
	switch ts {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled, TaskStatusWaiting:
		return true
	}
	return false
}

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Task represents a unit of work assigned to a user
type Task struct {
	BaseModel
	Title          string       `gorm:"type:varchar(200);not null"`
	Description    string       `gorm:"type:text"`
	Status         TaskStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`
	Priority       TaskPriority `gorm:"type:varchar(50);not null;default:'medium'"`
	Category       string       `gorm:"type:varchar(100);index"`
	DueDate        *time.Time   `gorm:"type:date;column:due_date"`
	CompletionDate *time.Time   `gorm:"column:completion_date"`
	EstimatedHours *float64     `gorm:"type:decimal(8,2);column:estimated_hours"`
	ActualHours    *float64     `gorm:"type:decimal(8,2);column:actual_hours"`
	AssigneeID     string       `gorm:"type:varchar(100);not null;column:assignee_id;index"`
	CreatorID      string       `gorm:"type:varchar(100);column:creator_id"`
	Related        EntityRef    `gorm:"embedded"`
}

// Activity represents an event log entry for any entity
type Activity struct {
	BaseModel
	// Action is a free-form label ("created", "updated", "email sent", ...)
	// used by reporting for coarse keyword classification.
	Action     string    `gorm:"type:varchar(200);not null;index"`
	Subject    EntityRef `gorm:"embedded"`
	ActorID    string    `gorm:"type:varchar(100);not null;column:actor_id;index"`
	OccurredAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
	Details    string    `gorm:"type:text"`
}

// CachedReport is one memoized reporting payload, upserted by key.
// Rows past their expiry are inert; readers must treat them as misses.
type CachedReport struct {
	Key       string    `gorm:"type:varchar(255);primaryKey;column:cache_key"`
	Payload   []byte    `gorm:"type:jsonb;not null"`
	ExpiresAt time.Time `gorm:"not null;index;column:expires_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName returns the table name for CachedReport
func (CachedReport) TableName() string {
	return "cached_reports"
}

// User represents a user in the system
type User struct {
	ID          string         `gorm:"type:varchar(100);primaryKey" json:"id"`
	Email       string         `gorm:"type:varchar(255);not null;unique" json:"email"`
	FirstName   string         `gorm:"type:varchar(100);column:first_name" json:"firstName,omitempty"`
	LastName    string         `gorm:"type:varchar(100);column:last_name" json:"lastName,omitempty"`
	DisplayName string         `gorm:"type:varchar(200);not null;column:name" json:"displayName"`
	Roles       pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	TeamID      *string        `gorm:"type:varchar(100);column:team_id;index" json:"teamId,omitempty"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"isActive"`
	LastLoginAt *time.Time     `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// FullName returns the user's full name, or display name if first/last not set
func (u *User) FullName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.DisplayName
}
