package room

import (
	"resort/api/response"
	bookingapp "resort/application/booking"

	"github.com/gin-gonic/gin"
)

// Controller Room controller, public
type Controller struct {
	queries *bookingapp.QueryService
}

// NewController Create room controller
func NewController(queries *bookingapp.QueryService) *Controller {
	return &Controller{queries: queries}
}

// RegisterRoutes Register room routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/rooms/:id/booked-dates", c.BookedDates)
}

// BookedDates Booked stays of a room, for the date picker
// GET /api/v1/rooms/:id/booked-dates
func (c *Controller) BookedDates(ctx *gin.Context) {
	snapshot, err := c.queries.RoomBookedDates(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, snapshot, "booked dates retrieved successfully")
}
