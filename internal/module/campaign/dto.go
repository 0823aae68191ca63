package campaign

import "github.com/simp-lee/leadboard/internal/domain"

// CreateCampaignRequest represents the input for creating a campaign. The
// page form posts the same fields.
type CreateCampaignRequest struct {
	Name            string `json:"name" form:"name" binding:"required,min=1,max=200"`
	Status          string `json:"status" form:"status" binding:"omitempty,oneof=draft active paused completed"`
	TotalLeads      int    `json:"total_leads" form:"total_leads" binding:"min=0"`
	SuccessfulLeads int    `json:"successful_leads" form:"successful_leads" binding:"min=0"`
	ResponseRate    *int   `json:"response_rate" form:"-" binding:"omitempty,min=0,max=100"`
}

func (r CreateCampaignRequest) toNewCampaign() domain.NewCampaign {
	return domain.NewCampaign{
		Name:            r.Name,
		Status:          domain.CampaignStatus(r.Status),
		TotalLeads:      r.TotalLeads,
		SuccessfulLeads: r.SuccessfulLeads,
		ResponseRate:    r.ResponseRate,
	}
}

// toPatch converts a full form submission into a patch that sets every field,
// so the response rate is re-derived from the submitted counters.
func (r CreateCampaignRequest) toPatch() domain.CampaignPatch {
	status := domain.CampaignStatus(r.Status)
	if status == "" {
		status = domain.CampaignActive
	}
	return domain.CampaignPatch{
		Name:            &r.Name,
		Status:          &status,
		TotalLeads:      &r.TotalLeads,
		SuccessfulLeads: &r.SuccessfulLeads,
		ResponseRate:    r.ResponseRate,
	}
}

// UpdateCampaignRequest represents a partial campaign update. Absent fields
// are left untouched.
type UpdateCampaignRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=200"`
	Status          *string `json:"status" binding:"omitempty,oneof=draft active paused completed"`
	TotalLeads      *int    `json:"total_leads" binding:"omitempty,min=0"`
	SuccessfulLeads *int    `json:"successful_leads" binding:"omitempty,min=0"`
	ResponseRate    *int    `json:"response_rate" binding:"omitempty,min=0,max=100"`
}

func (r UpdateCampaignRequest) toPatch() domain.CampaignPatch {
	patch := domain.CampaignPatch{
		Name:            r.Name,
		TotalLeads:      r.TotalLeads,
		SuccessfulLeads: r.SuccessfulLeads,
		ResponseRate:    r.ResponseRate,
	}
	if r.Status != nil {
		s := domain.CampaignStatus(*r.Status)
		patch.Status = &s
	}
	return patch
}
