package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/leadboard/internal/domain"
	"github.com/simp-lee/leadboard/internal/middleware"
	"github.com/simp-lee/leadboard/internal/pkg"
)

// Query keys for the two independently paginated panels.
const (
	campaignPageKey  = "cp"
	campaignLimitKey = "cl"
	activityPageKey  = "ap"
	activityLimitKey = "al"
)

// DashboardPageHandler renders the home page: a campaign summary next to the
// recent lead activity feed.
type DashboardPageHandler struct {
	campaigns domain.CampaignService
	leads     domain.LeadService
	window    int
}

// NewDashboardPageHandler creates a new DashboardPageHandler.
func NewDashboardPageHandler(campaigns domain.CampaignService, leads domain.LeadService, window int) *DashboardPageHandler {
	return &DashboardPageHandler{campaigns: campaigns, leads: leads, window: window}
}

// Home renders the dashboard.
// GET /
func (h *DashboardPageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Request.URL.Query()

	cParams := pkg.ParsePrefixedPaginationParams(c, campaignPageKey, campaignLimitKey)
	cPage, err := h.campaigns.ListCampaigns(ctx, cParams)
	campaigns := pkg.PackagePage(cPage, err, pkg.CalculatePagination(cParams).Limit)

	aParams := pkg.ParsePrefixedPaginationParams(c, activityPageKey, activityLimitKey)
	aPage, err := h.leads.RecentActivity(ctx, aParams)
	activity := pkg.PackagePage(aPage, err, pkg.CalculatePagination(aParams).Limit)

	c.HTML(http.StatusOK, "home.html", gin.H{
		"Title":         "Dashboard",
		"User":          middleware.CurrentUser(c),
		"Campaigns":     campaigns.Data,
		"CampaignError": campaigns.Error,
		"CampaignPager": pkg.NewPrefixedPager("/", query, campaignPageKey, campaignLimitKey, campaigns.Meta, h.window),
		"Activity":      activity.Data,
		"ActivityError": activity.Error,
		"ActivityPager": pkg.NewPrefixedPager("/", query, activityPageKey, activityLimitKey, activity.Meta, h.window),
		"CSRFToken":     middleware.GetCSRFToken(c),
	})
}
