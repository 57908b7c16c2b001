package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// respondError translates engine errors into HTTP responses. Sentinel
// classes map to stable machine-readable codes; anything unclassified
// becomes a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	if suErr, ok := models.AsSeatUnavailable(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "seat_unavailable",
			"message": suErr.Error(),
			"seats":   suErr.SeatNumbers,
			"code":    "SEAT_UNAVAILABLE",
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrScheduleNotFound):
		respond(c, http.StatusNotFound, "schedule_not_found", err, "SCHEDULE_NOT_FOUND")
	case errors.Is(err, models.ErrBookingNotFound):
		respond(c, http.StatusNotFound, "booking_not_found", err, "BOOKING_NOT_FOUND")
	case errors.Is(err, models.ErrWalletNotFound):
		respond(c, http.StatusNotFound, "wallet_not_found", err, "WALLET_NOT_FOUND")
	case errors.Is(err, models.ErrScheduleNotBookable):
		respond(c, http.StatusConflict, "schedule_not_bookable", err, "SCHEDULE_NOT_BOOKABLE")
	case errors.Is(err, models.ErrInvalidSeatSelection):
		respond(c, http.StatusBadRequest, "invalid_seat_selection", err, "INVALID_SEAT_SELECTION")
	case errors.Is(err, models.ErrPassengerDataInvalid):
		respond(c, http.StatusBadRequest, "invalid_passenger_data", err, "INVALID_PASSENGER_DATA")
	case errors.Is(err, models.ErrInsufficientBalance):
		respond(c, http.StatusPaymentRequired, "insufficient_balance", err, "INSUFFICIENT_BALANCE")
	case errors.Is(err, models.ErrBookingForbidden):
		respond(c, http.StatusForbidden, "forbidden", err, "BOOKING_FORBIDDEN")
	case errors.Is(err, models.ErrConcurrencyConflict):
		respond(c, http.StatusConflict, "concurrency_conflict", err, "CONCURRENCY_CONFLICT")
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
			"code":    "INTERNAL_ERROR",
		})
	}
}

func respond(c *gin.Context, status int, errKey string, err error, code string) {
	c.JSON(status, gin.H{
		"error":   errKey,
		"message": err.Error(),
		"code":    code,
	})
}
