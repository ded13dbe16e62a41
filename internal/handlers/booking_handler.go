package handlers

import (
	"freightlink/internal/middleware"
	"freightlink/internal/models"
	"freightlink/internal/services"
	"freightlink/internal/utils"
	"freightlink/internal/validators"
	"freightlink/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
	logger         *logger.Logger
}

func NewBookingHandler(bookingService services.BookingService, logger *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// CreateBooking handles POST /bookings. Instant bookings come back already
// matched when a transporter was available; otherwise they stay pending.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var req validators.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Booking")
		return
	}

	utils.CreatedResponse(c, "Booking created successfully", booking)
}

// GetBooking handles GET /bookings/:requestId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	requestID := c.Param("requestId")
	if requestID == "" {
		utils.BadRequestResponse(c, "requestId is required")
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), requestID)
	if err != nil {
		respondError(c, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking retrieved successfully", booking)
}

// AvailableBookings handles GET /bookings/available, the pool of pending
// bookings open to transporters.
func (h *BookingHandler) AvailableBookings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	bookings, total, err := h.bookingService.AvailableBookings(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Booking")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(bookings),
	}
	utils.SuccessResponseWithMeta(c, "Available bookings retrieved successfully", bookings, meta)
}

// MyBookings handles GET /bookings, the caller's own bookings.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)
	bookings, total, err := h.bookingService.UserBookings(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Booking")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(bookings),
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved successfully", bookings, meta)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /bookings/:requestId/status. Transitions are
// conditional on the current status; stale callers get a conflict.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	requestID := c.Param("requestId")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "status is required")
		return
	}

	to := models.BookingStatus(req.Status)
	switch to {
	case models.BookingStatusAccepted, models.BookingStatusInProgress,
		models.BookingStatusPickedUp, models.BookingStatusCompleted,
		models.BookingStatusCancelled:
	default:
		utils.BadRequestResponse(c, "unknown booking status: "+req.Status)
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), requestID, to)
	if err != nil {
		respondError(c, err, "Booking")
		return
	}

	utils.SuccessResponse(c, "Booking status updated successfully", booking)
}
