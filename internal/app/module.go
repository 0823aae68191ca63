package app

import "github.com/gin-gonic/gin"

// Module is a self-registering slice of the dashboard (campaigns, leads,
// auth, the home page). Names must be unique within an App.
type Module interface {
	Name() string
	RegisterRoutes(api *gin.RouterGroup, pages *gin.RouterGroup)
}
