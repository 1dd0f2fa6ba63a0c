package analytics

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the organizer dashboards, all behind organizer auth.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	analytics := rg.Group("/analytics")
	analytics.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		analytics.GET("/dashboard", controller.OrganizerDashboard)
		analytics.GET("/events/:eventId", controller.EventDashboard)
	}
}
