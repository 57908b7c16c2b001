package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"Schedule Not Found", models.ErrScheduleNotFound, http.StatusNotFound, "SCHEDULE_NOT_FOUND"},
		{"Booking Not Found", models.ErrBookingNotFound, http.StatusNotFound, "BOOKING_NOT_FOUND"},
		{"Wallet Not Found", models.ErrWalletNotFound, http.StatusNotFound, "WALLET_NOT_FOUND"},
		{"Schedule Not Bookable", models.ErrScheduleNotBookable, http.StatusConflict, "SCHEDULE_NOT_BOOKABLE"},
		{"Invalid Seat Selection", models.ErrInvalidSeatSelection, http.StatusBadRequest, "INVALID_SEAT_SELECTION"},
		{"Invalid Passenger Data", models.ErrPassengerDataInvalid, http.StatusBadRequest, "INVALID_PASSENGER_DATA"},
		{"Insufficient Balance", models.ErrInsufficientBalance, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE"},
		{"Forbidden", models.ErrBookingForbidden, http.StatusForbidden, "BOOKING_FORBIDDEN"},
		{"Concurrency Conflict", models.ErrConcurrencyConflict, http.StatusConflict, "CONCURRENCY_CONFLICT"},
		{"Wrapped Error Keeps Class", fmt.Errorf("context: %w", models.ErrInsufficientBalance), http.StatusPaymentRequired, "INSUFFICIENT_BALANCE"},
		{"Unknown Error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantCode)
		})
	}

	t.Run("Seat Unavailable Includes Seats", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, &models.SeatUnavailableError{SeatNumbers: []string{"A1", "B2"}})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "SEAT_UNAVAILABLE")
		assert.Contains(t, w.Body.String(), `"A1"`)
		assert.Contains(t, w.Body.String(), `"B2"`)
	})

	t.Run("Unknown Error Hides Internals", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		respondError(c, errors.New("pq: password authentication failed"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "password")
	})
}
