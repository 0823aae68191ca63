package campaign

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// CampaignHandler handles REST API requests for the campaign resource.
type CampaignHandler struct {
	svc domain.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler with the given service.
func NewCampaignHandler(svc domain.CampaignService) *CampaignHandler {
	return &CampaignHandler{svc: svc}
}

// List handles GET /api/v1/campaigns.
func (h *CampaignHandler) List(c *gin.Context) {
	params := pkg.ParsePaginationParams(c)
	opts := pkg.CalculatePagination(params)

	page, err := h.svc.ListCampaigns(c.Request.Context(), params)
	pkg.List(c, pkg.PackagePage(page, err, opts.Limit))
}

// Get handles GET /api/v1/campaigns/:id.
func (h *CampaignHandler) Get(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	campaign, err := h.svc.GetCampaign(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, campaign)
}

// Create handles POST /api/v1/campaigns.
func (h *CampaignHandler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	campaign, err := h.svc.CreateCampaign(c.Request.Context(), req.toNewCampaign())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, campaign)
}

// Update handles PATCH /api/v1/campaigns/:id.
func (h *CampaignHandler) Update(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateCampaignRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	campaign, err := h.svc.UpdateCampaign(c.Request.Context(), id, req.toPatch())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, campaign)
}

// Delete handles DELETE /api/v1/campaigns/:id and returns the deleted campaign.
func (h *CampaignHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	campaign, err := h.svc.DeleteCampaign(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, campaign)
}
