package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

func TestClassifyError(t *testing.T) {
	t.Run("Lock Contention Codes", func(t *testing.T) {
		for _, code := range []string{"55P03", "40001", "40P01"} {
			err := classifyError(&pq.Error{Code: pq.ErrorCode(code)})
			assert.True(t, errors.Is(err, models.ErrConcurrencyConflict), "code %s", code)
		}
	})

	t.Run("Wrapped Driver Error", func(t *testing.T) {
		inner := fmt.Errorf("failed to lock seats: %w", &pq.Error{Code: "55P03"})
		err := classifyError(inner)
		assert.True(t, errors.Is(err, models.ErrConcurrencyConflict))
	})

	t.Run("Other Errors Pass Through", func(t *testing.T) {
		plain := errors.New("connection refused")
		assert.Equal(t, plain, classifyError(plain))
		assert.Nil(t, classifyError(nil))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pq.Error{Code: "23505", Constraint: "bookings_booking_code_key"}

	assert.True(t, isUniqueViolation(uniqueErr, "bookings_booking_code_key"))
	assert.True(t, isUniqueViolation(uniqueErr, ""))
	assert.False(t, isUniqueViolation(uniqueErr, "other_constraint"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("not a pq error"), ""))
}
