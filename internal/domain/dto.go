package domain

import (
	"time"

	"github.com/google/uuid"
)

// CreateDealRequest is the payload for creating a deal
type CreateDealRequest struct {
	Title             string     `json:"title" validate:"required,max=200"`
	Description       string     `json:"description,omitempty" validate:"max=5000"`
	Amount            float64    `json:"amount" validate:"gte=0"`
	Currency          string     `json:"currency,omitempty" validate:"omitempty,len=3"`
	StageID           uuid.UUID  `json:"stageId" validate:"required"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	OwnerID           string     `json:"ownerId,omitempty" validate:"max=100"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	OrganizationID    *uuid.UUID `json:"organizationId,omitempty"`
	Source            string     `json:"source,omitempty" validate:"max=100"`
	Notes             string     `json:"notes,omitempty" validate:"max=5000"`
}

// UpdateDealRequest is the payload for updating a deal. Pointer fields
// distinguish "leave unchanged" from "set to zero value".
type UpdateDealRequest struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description       *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	Amount            *float64   `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Currency          *string    `json:"currency,omitempty" validate:"omitempty,len=3"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	OwnerID           *string    `json:"ownerId,omitempty" validate:"omitempty,max=100"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	OrganizationID    *uuid.UUID `json:"organizationId,omitempty"`
	Source            *string    `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes             *string    `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// TransitionDealRequest is the payload for moving a deal to another stage
type TransitionDealRequest struct {
	StageID uuid.UUID `json:"stageId" validate:"required"`
	Notes   string    `json:"notes,omitempty" validate:"max=5000"`
}

// DealDTO is the API representation of a deal
type DealDTO struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	Status            DealStatus `json:"status"`
	StageID           uuid.UUID  `json:"stageId"`
	StageName         string     `json:"stageName,omitempty"`
	Probability       int        `json:"probability"`
	CloseDate         *time.Time `json:"closeDate,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	OwnerID           string     `json:"ownerId"`
	ContactID         *uuid.UUID `json:"contactId,omitempty"`
	OrganizationID    *uuid.UUID `json:"organizationId,omitempty"`
	Source            string     `json:"source,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// StageHistoryDTO is the API representation of one stage transition
type StageHistoryDTO struct {
	ID          uuid.UUID  `json:"id"`
	DealID      uuid.UUID  `json:"dealId"`
	FromStageID *uuid.UUID `json:"fromStageId,omitempty"`
	ToStageID   uuid.UUID  `json:"toStageId"`
	ChangedByID string     `json:"changedById,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ChangedAt   time.Time  `json:"changedAt"`
}

// PipelineStageDTO is the API representation of a pipeline stage
type PipelineStageDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"displayOrder"`
	Probability  *int      `json:"probability,omitempty"`
	IsActive     bool      `json:"isActive"`
}

// PaginatedResponse wraps list results with paging metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// NewPaginatedResponse builds a PaginatedResponse from a result page
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
