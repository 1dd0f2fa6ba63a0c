package bookings

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers booking reads. Lookups are keyed by booking or
// session identifier, matching the anonymous selection flow.
func SetupRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	{
		bookings.GET("/:id", controller.GetBooking)
		bookings.GET("/session/:sessionId", controller.GetSessionBookings)
	}
}
