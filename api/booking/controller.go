/*
Package booking exposes the cart and booking lifecycle over HTTP.

Responsibilities:
 1. Read the caller identity set by the identity middleware
 2. Bind request bodies and path parameters
 3. Hand off to the cart and booking services and shape the envelope

Error handling:
 1. Bind failures answer 400 through response.HandleError
 2. Everything the services return goes through response.HandleAppError,
    which maps the domain error to its status code
*/
package booking

import (
	"net/http"

	"resort/api/ctxutil"
	"resort/api/response"
	bookingapp "resort/application/booking"
	"resort/application/cart"

	"github.com/gin-gonic/gin"
)

// Controller Booking controller
type Controller struct {
	carts    *cart.Service
	bookings *bookingapp.Service
	queries  *bookingapp.QueryService
	identity gin.HandlerFunc
}

// NewController Create booking controller. identity guards every route of
// the group; nil leaves the group open (tests set the user themselves).
func NewController(
	carts *cart.Service,
	bookings *bookingapp.Service,
	queries *bookingapp.QueryService,
	identity gin.HandlerFunc,
) *Controller {
	return &Controller{
		carts:    carts,
		bookings: bookings,
		queries:  queries,
		identity: identity,
	}
}

// RegisterRoutes Register booking routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	bookingGroup := router.Group("/bookings")
	if c.identity != nil {
		bookingGroup.Use(c.identity)
	}
	{
		bookingGroup.POST("/add-to-cart", c.AddToCart)
		bookingGroup.GET("/cart", c.GetCart)
		bookingGroup.DELETE("/cart/items/:itemId", c.RemoveCartItem)
		bookingGroup.PUT("/confirm/:bookingId", c.Confirm)
		bookingGroup.PUT("/cancel/:bookingId", c.Cancel)
		bookingGroup.GET("/my-bookings", c.MyBookings)
		bookingGroup.POST("/create", c.CreateDirect)
	}
}

// AddToCart Add a room or game to the caller's pending cart
// POST /api/v1/bookings/add-to-cart
func (c *Controller) AddToCart(ctx *gin.Context) {
	var req cart.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	cartResp, err := c.carts.AddItem(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, cartResp, "item added to cart")
}

// GetCart Get the caller's pending cart, empty when there is none
// GET /api/v1/bookings/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	cartResp, err := c.carts.GetCart(ctx.Request.Context(), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, cartResp, "cart retrieved successfully")
}

// RemoveCartItem Drop one line from the pending cart
// DELETE /api/v1/bookings/cart/items/:itemId
func (c *Controller) RemoveCartItem(ctx *gin.Context) {
	cartResp, err := c.carts.RemoveItem(ctx.Request.Context(), ctxutil.UserID(ctx), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, cartResp, "item removed from cart")
}

// Confirm Commit every room of a pending order to its ledger
// PUT /api/v1/bookings/confirm/:bookingId
func (c *Controller) Confirm(ctx *gin.Context) {
	booked, err := c.bookings.Confirm(ctx.Request.Context(), ctx.Param("bookingId"), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, booked, "booking confirmed")
}

// Cancel Cancel an order or a legacy reservation
// PUT /api/v1/bookings/cancel/:bookingId
func (c *Controller) Cancel(ctx *gin.Context) {
	cancelled, err := c.bookings.Cancel(ctx.Request.Context(), ctx.Param("bookingId"), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, cancelled, "booking cancelled")
}

// MyBookings List the caller's orders and legacy reservations, newest first
// GET /api/v1/bookings/my-bookings
func (c *Controller) MyBookings(ctx *gin.Context) {
	bookings, err := c.queries.ListUserBookings(ctx.Request.Context(), ctxutil.UserID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, bookings, "bookings retrieved successfully")
}

// CreateDirect Book a single room without a cart
// POST /api/v1/bookings/create
func (c *Controller) CreateDirect(ctx *gin.Context) {
	var req bookingapp.CreateDirectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	created, err := c.bookings.CreateDirect(ctx.Request.Context(), ctxutil.UserID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, created, "booking created successfully")
}
