package venues

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers venue management routes. All of them reconfigure
// hall layouts, so the whole group is organizer-only and lives under /admin.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		templates := admin.Group("/venue-templates")
		{
			templates.POST("", controller.CreateTemplate)
			templates.GET("", controller.ListTemplates)
			templates.DELETE("/:id", controller.DeleteTemplate)
		}

		adminEvents := admin.Group("/events")
		{
			adminEvents.POST("/:eventId/sections", controller.CreateSection)
			adminEvents.GET("/:eventId/sections", controller.GetSectionsByEvent)
		}

		sections := admin.Group("/sections")
		{
			sections.PUT("/:id", controller.UpdateSection)
			sections.DELETE("/:id", controller.DeleteSection)
		}
	}
}
