package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for the auth domain.
type AuthModule struct {
	handler     *AuthHandler
	pageHandler *AuthPageHandler
}

// NewModule creates a new AuthModule with the given handlers.
// Panics if either handler is nil.
func NewModule(h *AuthHandler, ph *AuthPageHandler) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	if ph == nil {
		panic("auth.NewModule: page handler must not be nil")
	}
	return &AuthModule{handler: h, pageHandler: ph}
}

// Name identifies the module in startup logs.
func (m *AuthModule) Name() string { return "auth" }

// RegisterRoutes registers auth API and page routes.
func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/login", m.handler.Login)
	auth.POST("/register", m.handler.Register)
	auth.POST("/logout", m.handler.Logout)
	auth.GET("/session", m.handler.Session)

	pages.GET("/login", m.pageHandler.LoginPage)
	pages.POST("/login", m.pageHandler.LoginHTMX)
	pages.GET("/signup", m.pageHandler.SignupPage)
	pages.POST("/signup", m.pageHandler.SignupHTMX)
	pages.POST("/logout", m.pageHandler.Logout)
}
