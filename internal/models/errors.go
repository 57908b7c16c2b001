package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the booking engine. Handlers translate these into
// HTTP statuses with errors.Is; repositories and services wrap them with
// fmt.Errorf("...: %w", err) to add context without losing the class.
var (
	// ErrScheduleNotFound is returned when the referenced bus schedule
	// does not exist.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrScheduleNotBookable is returned when the schedule exists but is
	// cancelled, departed, or its travel date has passed.
	ErrScheduleNotBookable = errors.New("schedule is not open for booking")

	// ErrInvalidSeatSelection is returned for duplicate seat numbers or
	// seats that do not belong to the requested schedule.
	ErrInvalidSeatSelection = errors.New("invalid seat selection")

	// ErrSeatUnavailable is returned when one or more requested seats are
	// already taken. Use AsSeatUnavailable to recover the seat numbers.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrWalletNotFound is returned when the user has no wallet row.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientBalance is returned when a debit would push the
	// wallet balance below zero. No mutation happens.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrPassengerDataInvalid is returned when passenger details are
	// missing or do not match the selected seats.
	ErrPassengerDataInvalid = errors.New("invalid passenger data")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrBookingForbidden is returned when the acting user is neither the
	// booking owner nor an admin.
	ErrBookingForbidden = errors.New("booking belongs to another user")

	// ErrConcurrencyConflict is returned when a lock-wait timeout or
	// serialization failure aborted the operation. The whole operation is
	// safe to retry from scratch.
	ErrConcurrencyConflict = errors.New("concurrent booking conflict, please retry")

	// ErrPersistenceFailure classifies unexpected storage errors raised
	// after validation passed. The enclosing transaction is rolled back,
	// so no seats stay reserved.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// SeatUnavailableError names the seats that were already taken when a
// reservation was attempted. It matches ErrSeatUnavailable under errors.Is.
type SeatUnavailableError struct {
	SeatNumbers []string
}

func (e *SeatUnavailableError) Error() string {
	if len(e.SeatNumbers) == 1 {
		return fmt.Sprintf("seat %s is no longer available", e.SeatNumbers[0])
	}
	return fmt.Sprintf("seats %s are no longer available", strings.Join(e.SeatNumbers, ", "))
}

// Is makes errors.Is(err, ErrSeatUnavailable) succeed for this type.
func (e *SeatUnavailableError) Is(target error) bool {
	return target == ErrSeatUnavailable
}

// AsSeatUnavailable extracts the taken seat numbers from an error chain.
func AsSeatUnavailable(err error) (*SeatUnavailableError, bool) {
	var suErr *SeatUnavailableError
	if errors.As(err, &suErr) {
		return suErr, true
	}
	return nil, false
}
