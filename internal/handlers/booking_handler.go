package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/middleware"
	"github.com/swiftbus/bus-booking-backend/internal/models"
	"github.com/swiftbus/bus-booking-backend/internal/services"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *services.BookingService
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *services.BookingService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, logger: logger}
}

// ============================================================================
// CREATE BOOKING - POST /api/v1/bookings
// ============================================================================

// CreateBooking books seats on a schedule for the authenticated user
// @Summary Create booking
// @Description Reserves the requested seats, debits the wallet and persists the booking atomically
// @Tags Bookings
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateBookingRequest true "Booking request"
// @Success 201 {object} models.BookingConfirmation
// @Failure 400 {object} map[string]interface{} "Validation error"
// @Failure 402 {object} map[string]interface{} "Insufficient balance"
// @Failure 409 {object} map[string]interface{} "Seats unavailable"
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	confirmation, err := h.bookingService.CreateBooking(user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}

// ============================================================================
// CANCEL BOOKING - POST /api/v1/bookings/:id/cancel
// ============================================================================

// CancelBooking cancels a booking, releasing its seats and refunding the wallet
// @Summary Cancel booking
// @Description Idempotent cancellation with full refund
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Booking ID"
// @Success 200 {object} models.CancellationResult
// @Failure 403 {object} map[string]interface{} "Not the booking owner"
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	result, err := h.bookingService.CancelBooking(bookingID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ============================================================================
// GET BOOKING - GET /api/v1/bookings/:id
// ============================================================================

// GetBooking returns one booking with its passengers
// @Summary Get booking
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Booking ID"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/{id} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.bookingService.GetBooking(bookingID, user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ============================================================================
// GET BOOKING BY CODE - GET /api/v1/bookings/code/:code
// ============================================================================

// GetBookingByCode resolves a booking from its booking code
// @Summary Get booking by code
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param code path string true "Booking code"
// @Success 200 {object} models.Booking
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /bookings/code/{code} [get]
func (h *BookingHandler) GetBookingByCode(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	booking, err := h.bookingService.GetBookingByCode(c.Param("code"), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ============================================================================
// LIST BOOKINGS - GET /api/v1/bookings
// ============================================================================

// ListBookings returns the authenticated user's booking history
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} map[string]interface{}
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	bookings, err := h.bookingService.ListBookings(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
