package lead

import "github.com/gin-gonic/gin"

// LeadModule implements the app.Module interface for the lead domain.
type LeadModule struct {
	handler     *LeadHandler
	pageHandler *LeadPageHandler
}

// NewModule creates a new LeadModule with the given handlers.
// Panics if h or ph is nil.
func NewModule(h *LeadHandler, ph *LeadPageHandler) *LeadModule {
	if h == nil {
		panic("lead.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("lead.NewModule: pageHandler must not be nil")
	}
	return &LeadModule{handler: h, pageHandler: ph}
}

// Name identifies the module in startup logs.
func (m *LeadModule) Name() string { return "lead" }

// RegisterRoutes registers lead and activity API routes and lead page routes.
func (m *LeadModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	// API routes
	api.GET("/leads", m.handler.List)
	api.POST("/leads", m.handler.Create)
	api.GET("/leads/:id", m.handler.Get)
	api.PATCH("/leads/:id", m.handler.Update)
	api.PATCH("/leads/:id/status", m.handler.UpdateStatus)
	api.DELETE("/leads/:id", m.handler.Delete)
	api.GET("/activity", m.handler.Activity)

	// Page routes
	pages.GET("/leads", m.pageHandler.ListPage)
	pages.GET("/leads/new", m.pageHandler.NewPage)
	pages.GET("/leads/:id/edit", m.pageHandler.EditPage)
	pages.POST("/leads", m.pageHandler.CreateHTMX)
	pages.PUT("/leads/:id", m.pageHandler.UpdateHTMX)
	pages.PUT("/leads/:id/status", m.pageHandler.UpdateStatusHTMX)
	pages.DELETE("/leads/:id", m.pageHandler.DeleteHTMX)
}
