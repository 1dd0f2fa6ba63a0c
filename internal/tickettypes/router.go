package tickettypes

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers ticket type routes: one public customer-facing read,
// the rest organizer-only under /admin.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	ticketTypes := rg.Group("/ticket-types")
	{
		ticketTypes.GET("/event/:eventId/customer", controller.GetCustomerView)
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
	{
		admin.POST("/events/:eventId/ticket-types", controller.Create)
		admin.GET("/events/:eventId/ticket-types", controller.GetByEvent)
		admin.PUT("/ticket-types/:id", controller.Update)
		admin.DELETE("/ticket-types/:id", controller.Delete)
	}
}
