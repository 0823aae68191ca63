package lead

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// LeadPageHandler handles page rendering and htmx endpoints for leads.
type LeadPageHandler struct {
	svc       domain.LeadService
	campaigns domain.CampaignService
	window    int
}

// NewLeadPageHandler creates a new LeadPageHandler. window is the number of
// page links shown by pagination controls.
func NewLeadPageHandler(svc domain.LeadService, campaigns domain.CampaignService, window int) *LeadPageHandler {
	return &LeadPageHandler{svc: svc, campaigns: campaigns, window: window}
}

// ListPage renders the lead list with search, status and campaign filters.
// GET /leads
func (h *LeadPageHandler) ListPage(c *gin.Context) {
	params := pkg.ParsePaginationParams(c)
	opts := pkg.CalculatePagination(params)

	page, err := h.svc.ListLeads(c.Request.Context(), params)
	resp := pkg.PackagePage(page, err, opts.Limit)

	c.HTML(http.StatusOK, "leads/list.html", gin.H{
		"Title":         "Leads",
		"Leads":         resp.Data,
		"Error":         resp.Error,
		"Pager":         pkg.NewPager("/leads", params, resp.Meta, h.window),
		"Params":        params,
		"StatusOptions": domain.LeadStatuses,
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}

// NewPage renders the new lead form. A campaign_id query parameter
// preselects the campaign.
// GET /leads/new
func (h *LeadPageHandler) NewPage(c *gin.Context) {
	l := &domain.Lead{Status: domain.LeadPending}
	if id, err := pkg.ParseUUIDQuery(c, "campaign_id"); err == nil {
		l.CampaignID = id
	}
	h.renderForm(c, l, false, "")
}

// EditPage renders the edit lead form.
// GET /leads/:id/edit
func (h *LeadPageHandler) EditPage(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{"Title": "Bad Request"})
		return
	}

	l, err := h.svc.GetLead(c.Request.Context(), id)
	if err != nil {
		renderLoadError(c, err)
		return
	}
	h.renderForm(c, l, true, "")
}

// CreateHTMX handles lead creation via htmx form submission.
// POST /leads
func (h *LeadPageHandler) CreateHTMX(c *gin.Context) {
	var req CreateLeadRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.DebugContext(c.Request.Context(), "create lead: bind error", slog.Any("error", err))
		h.renderForm(c, formLead(req), false, "Please check the highlighted fields")
		return
	}

	if _, err := h.svc.CreateLead(c.Request.Context(), req.toNewLead()); err != nil {
		h.renderForm(c, formLead(req), false, pkg.PageErrorMessage(err, "Failed to create lead"))
		return
	}

	pkg.SetToast(c, "Lead created", "success")
	pkg.HXRedirect(c, "/leads")
}

// UpdateHTMX handles lead updates via htmx form submission.
// PUT /leads/:id
func (h *LeadPageHandler) UpdateHTMX(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{"Title": "Bad Request"})
		return
	}

	current, err := h.svc.GetLead(c.Request.Context(), id)
	if err != nil {
		renderLoadError(c, err)
		return
	}

	var req CreateLeadRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.DebugContext(c.Request.Context(), "update lead: bind error", slog.Any("error", err), slog.String("id", id.String()))
		h.renderForm(c, current, true, "Please check the highlighted fields")
		return
	}

	if _, err := h.svc.UpdateLead(c.Request.Context(), id, req.toPatch(current.Status)); err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{"Title": "Not Found"})
			return
		}
		h.renderForm(c, current, true, pkg.PageErrorMessage(err, "Failed to update lead"))
		return
	}

	pkg.SetToast(c, "Lead updated", "success")
	pkg.HXRedirect(c, "/leads")
}

// UpdateStatusHTMX changes a lead's status from the inline select and
// refreshes the page so the new contact date shows.
// PUT /leads/:id/status
func (h *LeadPageHandler) UpdateStatusHTMX(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.ToastError(c, "Invalid lead ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		pkg.ToastError(c, "Invalid status")
		return
	}

	if _, err := h.svc.UpdateLeadStatus(c.Request.Context(), id, domain.LeadStatus(req.Status)); err != nil {
		pkg.ToastError(c, pkg.PageErrorMessage(err, "Failed to update lead status"))
		return
	}

	pkg.SetToast(c, "Lead status updated", "success")
	c.Header("HX-Refresh", "true")
	c.Status(http.StatusOK)
}

// DeleteHTMX handles lead deletion via htmx. The empty response replaces
// the lead's row.
// DELETE /leads/:id
func (h *LeadPageHandler) DeleteHTMX(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.ToastError(c, "Invalid lead ID")
		return
	}

	if _, err := h.svc.DeleteLead(c.Request.Context(), id); err != nil {
		pkg.ToastError(c, pkg.PageErrorMessage(err, "Failed to delete lead"))
		return
	}

	pkg.SetToast(c, "Lead deleted", "success")
	c.Status(http.StatusOK)
}

func (h *LeadPageHandler) renderForm(c *gin.Context, l *domain.Lead, isEdit bool, msg string) {
	// The select offers at most one page of the newest campaigns.
	campaigns, err := h.campaigns.ListCampaigns(c.Request.Context(), domain.PaginationParams{Limit: pkg.MaxPageSize})
	var options []domain.Campaign
	if err == nil {
		options = campaigns.Items
	} else if msg == "" {
		msg = "Failed to fetch campaigns"
	}

	title := "New lead"
	if isEdit {
		title = "Edit lead"
	}
	c.HTML(http.StatusOK, "leads/form.html", gin.H{
		"Title":         title,
		"Lead":          l,
		"IsEdit":        isEdit,
		"Error":         msg,
		"Campaigns":     options,
		"StatusOptions": domain.LeadStatuses,
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}

// formLead echoes a rejected submission back into the form.
func formLead(req CreateLeadRequest) *domain.Lead {
	l := &domain.Lead{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Title:   req.Title,
		Status:  domain.LeadStatus(req.Status),
	}
	if l.Status == "" {
		l.Status = domain.LeadPending
	}
	if id, err := pkg.ParseUUID(req.CampaignID); err == nil {
		l.CampaignID = id
	}
	return l
}

func renderLoadError(c *gin.Context, err error) {
	if domain.IsNotFound(err) {
		c.HTML(http.StatusNotFound, "errors/404.html", gin.H{"Title": "Not Found"})
		return
	}
	c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{"Title": "Internal Server Error"})
}
