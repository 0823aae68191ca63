package campaign

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// Select options for the list filter and the campaign form.
var (
	filterOptions = []string{domain.CampaignFilterAll, domain.CampaignFilterActive, domain.CampaignFilterInactive,
		string(domain.CampaignDraft), string(domain.CampaignPaused), string(domain.CampaignCompleted)}
	statusOptions = []domain.CampaignStatus{domain.CampaignDraft, domain.CampaignActive, domain.CampaignPaused, domain.CampaignCompleted}
)

// CampaignPageHandler handles page rendering and htmx endpoints for campaigns.
type CampaignPageHandler struct {
	svc    domain.CampaignService
	leads  domain.LeadService
	window int
}

// NewCampaignPageHandler creates a new CampaignPageHandler. window is the
// number of page links shown by pagination controls.
func NewCampaignPageHandler(svc domain.CampaignService, leads domain.LeadService, window int) *CampaignPageHandler {
	return &CampaignPageHandler{svc: svc, leads: leads, window: window}
}

// ListPage renders the campaign list with search, status filter and pagination.
// GET /campaigns
func (h *CampaignPageHandler) ListPage(c *gin.Context) {
	params := pkg.ParsePaginationParams(c)
	opts := pkg.CalculatePagination(params)

	page, err := h.svc.ListCampaigns(c.Request.Context(), params)
	resp := pkg.PackagePage(page, err, opts.Limit)

	c.HTML(http.StatusOK, "campaigns/list.html", gin.H{
		"Title":         "Campaigns",
		"Campaigns":     resp.Data,
		"Error":         resp.Error,
		"Pager":         pkg.NewPager("/campaigns", params, resp.Meta, h.window),
		"Params":        params,
		"FilterOptions": filterOptions,
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}

// DetailPage renders one campaign with its leads.
// GET /campaigns/:id
func (h *CampaignPageHandler) DetailPage(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}

	params := pkg.ParsePaginationParams(c)
	params.CampaignID = campaign.ID.String()
	params.Campaign = ""
	opts := pkg.CalculatePagination(params)

	page, err := h.leads.ListLeads(c.Request.Context(), params)
	resp := pkg.PackagePage(page, err, opts.Limit)

	pagerParams := params
	pagerParams.CampaignID = ""
	c.HTML(http.StatusOK, "campaigns/detail.html", gin.H{
		"Title":         campaign.Name,
		"Campaign":      campaign,
		"Leads":         resp.Data,
		"Error":         resp.Error,
		"Pager":         pkg.NewPager("/campaigns/"+campaign.ID.String(), pagerParams, resp.Meta, h.window),
		"Params":        params,
		"StatusOptions": domain.LeadStatuses,
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}

// NewPage renders the new campaign form.
// GET /campaigns/new
func (h *CampaignPageHandler) NewPage(c *gin.Context) {
	h.renderForm(c, nil, "")
}

// EditPage renders the edit campaign form.
// GET /campaigns/:id/edit
func (h *CampaignPageHandler) EditPage(c *gin.Context) {
	campaign, ok := h.loadCampaign(c)
	if !ok {
		return
	}
	h.renderForm(c, campaign, "")
}

// CreateHTMX handles campaign creation via htmx form submission.
// POST /campaigns
func (h *CampaignPageHandler) CreateHTMX(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.DebugContext(c.Request.Context(), "create campaign: bind error", slog.Any("error", err))
		h.renderForm(c, nil, "Please check the highlighted fields")
		return
	}

	if _, err := h.svc.CreateCampaign(c.Request.Context(), req.toNewCampaign()); err != nil {
		h.renderForm(c, nil, pkg.PageErrorMessage(err, "Failed to create campaign"))
		return
	}

	pkg.SetToast(c, "Campaign created", "success")
	pkg.HXRedirect(c, "/campaigns")
}

// UpdateHTMX handles campaign updates via htmx form submission.
// PUT /campaigns/:id
func (h *CampaignPageHandler) UpdateHTMX(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{"Title": "Bad Request"})
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.DebugContext(c.Request.Context(), "update campaign: bind error", slog.Any("error", err), slog.String("id", id.String()))
		h.rerenderEdit(c, id, "Please check the highlighted fields")
		return
	}

	if _, err := h.svc.UpdateCampaign(c.Request.Context(), id, req.toPatch()); err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{"Title": "Not Found"})
			return
		}
		h.rerenderEdit(c, id, pkg.PageErrorMessage(err, "Failed to update campaign"))
		return
	}

	pkg.SetToast(c, "Campaign updated", "success")
	pkg.HXRedirect(c, "/campaigns/"+id.String())
}

// DeleteHTMX handles campaign deletion via htmx.
// DELETE /campaigns/:id
func (h *CampaignPageHandler) DeleteHTMX(c *gin.Context) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		pkg.ToastError(c, "Invalid campaign ID")
		return
	}

	if _, err := h.svc.DeleteCampaign(c.Request.Context(), id); err != nil {
		pkg.ToastError(c, pkg.PageErrorMessage(err, "Failed to delete campaign"))
		return
	}

	pkg.SetToast(c, "Campaign deleted", "success")
	pkg.HXRedirect(c, "/campaigns")
}

// loadCampaign resolves the :id parameter, rendering an error page on failure.
func (h *CampaignPageHandler) loadCampaign(c *gin.Context) (*domain.Campaign, bool) {
	id, err := pkg.ParseUUIDParam(c, "id")
	if err != nil {
		c.HTML(http.StatusBadRequest, "errors/400.html", gin.H{"Title": "Bad Request"})
		return nil, false
	}

	campaign, err := h.svc.GetCampaign(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{"Title": "Not Found"})
			return nil, false
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{"Title": "Internal Server Error"})
		return nil, false
	}
	return campaign, true
}

func (h *CampaignPageHandler) rerenderEdit(c *gin.Context, id uuid.UUID, msg string) {
	campaign, err := h.svc.GetCampaign(c.Request.Context(), id)
	if err != nil {
		if domain.IsNotFound(err) {
			c.HTML(http.StatusNotFound, "errors/404.html", gin.H{"Title": "Not Found"})
			return
		}
		c.HTML(http.StatusInternalServerError, "errors/500.html", gin.H{"Title": "Internal Server Error"})
		return
	}
	h.renderForm(c, campaign, msg)
}

func (h *CampaignPageHandler) renderForm(c *gin.Context, campaign *domain.Campaign, msg string) {
	title := "New campaign"
	if campaign != nil {
		title = "Edit campaign"
	}
	c.HTML(http.StatusOK, "campaigns/form.html", gin.H{
		"Title":         title,
		"Campaign":      campaign,
		"IsEdit":        campaign != nil,
		"Error":         msg,
		"StatusOptions": statusOptions,
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}
