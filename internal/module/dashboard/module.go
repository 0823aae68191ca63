package dashboard

import "github.com/gin-gonic/gin"

// DashboardModule implements the app.Module interface for the home page.
type DashboardModule struct {
	pageHandler *DashboardPageHandler
}

// NewModule creates a new DashboardModule.
// Panics if ph is nil.
func NewModule(ph *DashboardPageHandler) *DashboardModule {
	if ph == nil {
		panic("dashboard.NewModule: pageHandler must not be nil")
	}
	return &DashboardModule{pageHandler: ph}
}

// Name identifies the module in startup logs.
func (m *DashboardModule) Name() string { return "dashboard" }

// RegisterRoutes registers the dashboard page. It has no API routes.
func (m *DashboardModule) RegisterRoutes(_ *gin.RouterGroup, pages *gin.RouterGroup) {
	pages.GET("/", m.pageHandler.Home)
}
