package mapper

import (
	"github.com/pipecrest/crm-api/internal/domain"
)

// ToDealDTO converts Deal to DealDTO
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:                deal.ID,
		Title:             deal.Title,
		Description:       deal.Description,
		Amount:            deal.Amount,
		Currency:          deal.Currency,
		Status:            deal.Status,
		StageID:           deal.StageID,
		Probability:       deal.Probability,
		CloseDate:         deal.CloseDate,
		ExpectedCloseDate: deal.ExpectedCloseDate,
		OwnerID:           deal.OwnerID,
		ContactID:         deal.ContactID,
		OrganizationID:    deal.OrganizationID,
		Source:            deal.Source,
		Notes:             deal.Notes,
		CreatedAt:         deal.CreatedAt,
		UpdatedAt:         deal.UpdatedAt,
	}
	if deal.Stage != nil {
		dto.StageName = deal.Stage.Name
	}
	return dto
}

// ToDealDTOs converts a slice of Deals
func ToDealDTOs(deals []domain.Deal) []domain.DealDTO {
	out := make([]domain.DealDTO, len(deals))
	for i := range deals {
		out[i] = ToDealDTO(&deals[i])
	}
	return out
}

// ToStageHistoryDTO converts DealStageHistory to StageHistoryDTO
func ToStageHistoryDTO(h *domain.DealStageHistory) domain.StageHistoryDTO {
	return domain.StageHistoryDTO{
		ID:          h.ID,
		DealID:      h.DealID,
		FromStageID: h.FromStageID,
		ToStageID:   h.ToStageID,
		ChangedByID: h.ChangedByID,
		Notes:       h.Notes,
		ChangedAt:   h.ChangedAt,
	}
}

// ToStageHistoryDTOs converts a slice of DealStageHistory
func ToStageHistoryDTOs(history []domain.DealStageHistory) []domain.StageHistoryDTO {
	out := make([]domain.StageHistoryDTO, len(history))
	for i := range history {
		out[i] = ToStageHistoryDTO(&history[i])
	}
	return out
}

// ToPipelineStageDTO converts PipelineStage to PipelineStageDTO
func ToPipelineStageDTO(stage *domain.PipelineStage) domain.PipelineStageDTO {
	return domain.PipelineStageDTO{
		ID:           stage.ID,
		Name:         stage.Name,
		DisplayOrder: stage.DisplayOrder,
		Probability:  stage.Probability,
		IsActive:     stage.IsActive,
	}
}

// ToPipelineStageDTOs converts a slice of PipelineStages
func ToPipelineStageDTOs(stages []domain.PipelineStage) []domain.PipelineStageDTO {
	out := make([]domain.PipelineStageDTO, len(stages))
	for i := range stages {
		out[i] = ToPipelineStageDTO(&stages[i])
	}
	return out
}
