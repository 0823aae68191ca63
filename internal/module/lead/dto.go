package lead

import (
	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
)

// CreateLeadRequest represents the input for creating a lead. The page form
// posts the same fields.
type CreateLeadRequest struct {
	Name       string `json:"name" form:"name" binding:"required,min=1,max=200"`
	Email      string `json:"email" form:"email" binding:"required,email,max=254"`
	Company    string `json:"company" form:"company" binding:"required,max=200"`
	Title      string `json:"title" form:"title" binding:"required,max=200"`
	CampaignID string `json:"campaign_id" form:"campaign_id" binding:"required,uuid"`
	Status     string `json:"status" form:"status" binding:"omitempty,oneof=pending contacted responded converted"`
}

func (r CreateLeadRequest) toNewLead() domain.NewLead {
	return domain.NewLead{
		Name:       r.Name,
		Email:      r.Email,
		Company:    r.Company,
		Title:      r.Title,
		CampaignID: uuid.MustParse(r.CampaignID),
		Status:     domain.LeadStatus(r.Status),
	}
}

// toPatch converts a full form submission into a patch. The status is only
// part of the patch when it differs from current, so saving an unchanged
// form keeps the last contact date.
func (r CreateLeadRequest) toPatch(current domain.LeadStatus) domain.LeadPatch {
	campaignID := uuid.MustParse(r.CampaignID)
	patch := domain.LeadPatch{
		Name:       &r.Name,
		Email:      &r.Email,
		Company:    &r.Company,
		Title:      &r.Title,
		CampaignID: &campaignID,
	}
	if s := domain.LeadStatus(r.Status); s != "" && s != current {
		patch.Status = &s
	}
	return patch
}

// UpdateLeadRequest represents a partial lead update. Absent fields are left
// untouched.
type UpdateLeadRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email      *string `json:"email" binding:"omitempty,email,max=254"`
	Company    *string `json:"company" binding:"omitempty,max=200"`
	Title      *string `json:"title" binding:"omitempty,max=200"`
	CampaignID *string `json:"campaign_id" binding:"omitempty,uuid"`
	Status     *string `json:"status" binding:"omitempty,oneof=pending contacted responded converted"`
}

func (r UpdateLeadRequest) toPatch() domain.LeadPatch {
	patch := domain.LeadPatch{
		Name:    r.Name,
		Email:   r.Email,
		Company: r.Company,
		Title:   r.Title,
	}
	if r.CampaignID != nil {
		id := uuid.MustParse(*r.CampaignID)
		patch.CampaignID = &id
	}
	if r.Status != nil {
		s := domain.LeadStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}

// UpdateStatusRequest represents the input for a lead status change.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required,oneof=pending contacted responded converted"`
}
