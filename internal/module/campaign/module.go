package campaign

import "github.com/gin-gonic/gin"

// CampaignModule implements the app.Module interface for the campaign domain.
type CampaignModule struct {
	handler     *CampaignHandler
	pageHandler *CampaignPageHandler
}

// NewModule creates a new CampaignModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *CampaignHandler, ph *CampaignPageHandler) *CampaignModule {
	if h == nil {
		panic("campaign.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("campaign.NewModule: pageHandler must not be nil")
	}
	return &CampaignModule{handler: h, pageHandler: ph}
}

// Name identifies the module in startup logs.
func (m *CampaignModule) Name() string { return "campaign" }

// RegisterRoutes registers campaign API and page routes.
func (m *CampaignModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// API routes
	api.GET("/campaigns", m.handler.List)
	api.POST("/campaigns", m.handler.Create)
	api.GET("/campaigns/:id", m.handler.Get)
	api.PATCH("/campaigns/:id", m.handler.Update)
	api.DELETE("/campaigns/:id", m.handler.Delete)

	// Page routes
	pages.GET("/campaigns", m.pageHandler.ListPage)
	pages.GET("/campaigns/new", m.pageHandler.NewPage)
	pages.GET("/campaigns/:id", m.pageHandler.DetailPage)
	pages.GET("/campaigns/:id/edit", m.pageHandler.EditPage)
	pages.POST("/campaigns", m.pageHandler.CreateHTMX)
	pages.PUT("/campaigns/:id", m.pageHandler.UpdateHTMX)
	pages.DELETE("/campaigns/:id", m.pageHandler.DeleteHTMX)
}
