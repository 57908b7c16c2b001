package models

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents one purchase event. It owns its BookingPassenger
// rows; cancellation flips the status, releases the seats and refunds
// the wallet in one transaction.
type Booking struct {
	ID          int64         `json:"id" db:"id"`
	BookingCode string        `json:"booking_code" db:"booking_code"`
	UserID      int64         `json:"user_id" db:"user_id"`
	ScheduleID  int64         `json:"schedule_id" db:"schedule_id"`
	TotalAmount float64       `json:"total_amount" db:"total_amount"`
	Status      BookingStatus `json:"status" db:"status"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty" db:"cancelled_at"`

	Passengers []BookingPassenger `json:"passengers,omitempty" db:"-"`
}

// BookingPassenger is one passenger occupying one specific seat of a
// booking. Created only together with its booking, never independently.
type BookingPassenger struct {
	ID         int64  `json:"id" db:"id"`
	BookingID  int64  `json:"booking_id" db:"booking_id"`
	SeatID     int64  `json:"seat_id" db:"seat_id"`
	SeatNumber string `json:"seat_number" db:"seat_number"`
	Name       string `json:"name" db:"name"`
	Age        int    `json:"age" db:"age"`
	Gender     string `json:"gender" db:"gender"`
}

// PassengerInput carries passenger details for one seat in a booking request
type PassengerInput struct {
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"`
}

// CreateBookingRequest is the single booking contract; every caller of
// the orchestrator goes through it with equal privileges.
type CreateBookingRequest struct {
	ScheduleID  int64            `json:"schedule_id" binding:"required"`
	SeatNumbers []string         `json:"seat_numbers" binding:"required"`
	Passengers  []PassengerInput `json:"passengers" binding:"required"`
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

// Validate checks seat selection shape and passenger details. Seat
// existence and availability are checked later, inside the booking
// transaction, so stale reads cannot slip through here.
func (r *CreateBookingRequest) Validate() error {
	if len(r.SeatNumbers) == 0 {
		return fmt.Errorf("%w: no seats selected", ErrInvalidSeatSelection)
	}

	seen := make(map[string]bool, len(r.SeatNumbers))
	for _, sn := range r.SeatNumbers {
		sn = strings.TrimSpace(sn)
		if sn == "" {
			return fmt.Errorf("%w: empty seat number", ErrInvalidSeatSelection)
		}
		if seen[sn] {
			return fmt.Errorf("%w: duplicate seat number %s", ErrInvalidSeatSelection, sn)
		}
		seen[sn] = true
	}

	if len(r.Passengers) != len(r.SeatNumbers) {
		return fmt.Errorf("%w: %d passengers for %d seats",
			ErrPassengerDataInvalid, len(r.Passengers), len(r.SeatNumbers))
	}

	for i, p := range r.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: passenger %d has no name", ErrPassengerDataInvalid, i+1)
		}
		if p.Age < 1 || p.Age > 120 {
			return fmt.Errorf("%w: passenger %d has invalid age %d", ErrPassengerDataInvalid, i+1, p.Age)
		}
		if !validGenders[strings.ToLower(strings.TrimSpace(p.Gender))] {
			return fmt.Errorf("%w: passenger %d has invalid gender %q", ErrPassengerDataInvalid, i+1, p.Gender)
		}
	}

	return nil
}

// BookingConfirmation is returned to the caller after a successful booking
type BookingConfirmation struct {
	BookingID   int64         `json:"booking_id"`
	BookingCode string        `json:"booking_code"`
	TotalAmount float64       `json:"total_amount"`
	Status      BookingStatus `json:"status"`
	SeatNumbers []string      `json:"seat_numbers"`
	CreatedAt   time.Time     `json:"created_at"`
}

// CancellationResult is returned after a (possibly idempotent) cancellation
type CancellationResult struct {
	BookingID      int64         `json:"booking_id"`
	Status         BookingStatus `json:"status"`
	RefundedAmount float64       `json:"refunded_amount"`
	AlreadyDone    bool          `json:"already_cancelled"`
}

// BookingListItem is a compact row for a user's booking history
type BookingListItem struct {
	ID          int64         `json:"id" db:"id"`
	BookingCode string        `json:"booking_code" db:"booking_code"`
	ScheduleID  int64         `json:"schedule_id" db:"schedule_id"`
	FromCity    string        `json:"from_city" db:"from_city"`
	ToCity      string        `json:"to_city" db:"to_city"`
	TravelDate  time.Time     `json:"travel_date" db:"travel_date"`
	TotalAmount float64       `json:"total_amount" db:"total_amount"`
	Status      BookingStatus `json:"status" db:"status"`
	SeatCount   int           `json:"seat_count" db:"seat_count"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
