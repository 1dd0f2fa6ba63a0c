package events

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers event routes. Listing and detail are public;
// mutation requires an organizer token.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	events := rg.Group("/events")
	{
		events.GET("", controller.ListEvents)
		events.GET("/:id", controller.GetEvent)

		protected := events.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
		{
			protected.POST("", controller.CreateEvent)
			protected.GET("/mine", controller.GetMyEvents)
			protected.PUT("/:id", controller.UpdateEvent)
			protected.DELETE("/:id", controller.DeleteEvent)
		}
	}
}
