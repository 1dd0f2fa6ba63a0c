package seats

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers seat routes. The reserve/release pair and the layout
// and status reads are session-scoped and anonymous; seat management needs
// an organizer token.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	seats := rg.Group("/seats")
	{
		seats.GET("/event/:eventId/layout", controller.EventLayout)
		seats.POST("/reserve", controller.Reserve)
		seats.POST("/release", controller.Release)

		protected := seats.Group("")
		protected.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireOrganizer())
		{
			protected.GET("/section/:sectionId", controller.GetSeatsBySection)
			protected.PUT("/:id/block", controller.BlockSeat)
		}
	}

	reservations := rg.Group("/reservations")
	{
		reservations.GET("/event/:eventId/status", controller.ReservationStatus)
	}
}
