package handler

import (
	"github.com/gin-gonic/gin"

	"housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/domains/booking/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/utils"
)

// =====================================================
// BOOKING HANDLER
// =====================================================

type BookingHandler struct {
	bookingService service.ServiceInterface
}

func NewBookingHandler(bookingService service.ServiceInterface) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking
// POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Call service
	booking, err := h.bookingService.CreateBooking(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Step 3: Return success
	response.Created(c, gin.H{"booking": booking})
}

// ListMyBookings
// GET /api/bookings/my-bookings?status=
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListMyBookings(c.Request.Context(), middleware.GetCaller(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"bookings": bookings})
}

// ListProviderBookings
// GET /api/bookings/provider-bookings?status=
func (h *BookingHandler) ListProviderBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListProviderBookings(c.Request.Context(), middleware.GetCaller(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"bookings": bookings})
}

// GetBooking
// GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Booking not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"booking": booking})
}

// GetHistory
// GET /api/bookings/:id/history
func (h *BookingHandler) GetHistory(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Booking not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	history, err := h.bookingService.GetHistory(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"history": history})
}

// UpdateStatus
// PATCH /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	// Step 1: Parse booking ID
	id, err := utils.ParseUUIDParam(c, "id", "Booking not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	// Step 2: Bind request body
	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 3: Call service
	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"booking": booking})
}
