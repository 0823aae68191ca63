package lead

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// LeadHandler handles REST API requests for leads and the activity feed.
type LeadHandler struct {
	svc domain.LeadService
}

// NewLeadHandler creates a new LeadHandler with the given service.
func NewLeadHandler(svc domain.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// List handles GET /api/v1/leads.
func (h *LeadHandler) List(c *gin.Context) {
	params := pkg.ParsePaginationParams(c)
	opts := pkg.CalculatePagination(params)

	page, err := h.svc.ListLeads(c.Request.Context(), params)
	pkg.List(c, pkg.PackagePage(page, err, opts.Limit))
}

// Activity handles GET /api/v1/activity.
func (h *LeadHandler) Activity(c *gin.Context) {
	params := pkg.ParsePaginationParams(c)
	opts := pkg.CalculatePagination(params)

	page, err := h.svc.RecentActivity(c.Request.Context(), params)
	pkg.List(c, pkg.PackagePage(page, err, opts.Limit))
}

// Get handles GET /api/v1/leads/:id.
func (h *LeadHandler) Get(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	l, err := h.svc.GetLead(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, l)
}

// Create handles POST /api/v1/leads.
func (h *LeadHandler) Create(c *gin.Context) {
	var req CreateLeadRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	l, err := h.svc.CreateLead(c.Request.Context(), req.toNewLead())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, l)
}

// Update handles PATCH /api/v1/leads/:id.
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateLeadRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	l, err := h.svc.UpdateLead(c.Request.Context(), id, req.toPatch())
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, l)
}

// UpdateStatus handles PATCH /api/v1/leads/:id/status.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	var req UpdateStatusRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	l, err := h.svc.UpdateLeadStatus(c.Request.Context(), id, domain.LeadStatus(req.Status))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, l)
}

// Delete handles DELETE /api/v1/leads/:id and returns the deleted lead.
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	l, err := h.svc.DeleteLead(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Success(c, l)
}
