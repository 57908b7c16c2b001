package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SeatDeck identifies which deck a seat belongs to
type SeatDeck string

const (
	SeatDeckLower SeatDeck = "lower"
	SeatDeckUpper SeatDeck = "upper"
)

// SeatSide identifies which side of the aisle a seat is on
type SeatSide string

const (
	SeatSideLeft  SeatSide = "left"
	SeatSideRight SeatSide = "right"
)

// Seat represents one uniquely numbered seat on a schedule. A seat is
// owned by its schedule and is unique per (schedule_id, seat_number).
// BookingPassengerID is a back-reference to the at-most-one active
// booking passenger occupying the seat, not an ownership pointer.
type Seat struct {
	ID                 int64    `json:"id" db:"id"`
	ScheduleID         int64    `json:"schedule_id" db:"schedule_id"`
	SeatNumber         string   `json:"seat_number" db:"seat_number"`
	SeatType           string   `json:"seat_type" db:"seat_type"`
	Price              float64  `json:"price" db:"price"`
	RowNumber          int      `json:"row_number" db:"row_number"`
	ColumnNumber       int      `json:"column_number" db:"column_number"`
	Deck               SeatDeck `json:"deck" db:"deck"`
	Side               SeatSide `json:"side" db:"side"`
	IsWindow           bool     `json:"is_window" db:"is_window"`
	IsLadiesOnly       bool     `json:"is_ladies_only" db:"is_ladies_only"`
	IsAvailable        bool     `json:"is_available" db:"is_available"`
	BookingPassengerID *int64   `json:"booking_passenger_id,omitempty" db:"booking_passenger_id"`
}

// SeatAvailability is the read-only snapshot exposed to callers. It is a
// point-in-time view: availability is re-validated at reservation time.
type SeatAvailability struct {
	SeatNumber   string   `json:"seat_number" db:"seat_number"`
	SeatType     string   `json:"seat_type" db:"seat_type"`
	Price        float64  `json:"price" db:"price"`
	Available    bool     `json:"available" db:"is_available"`
	Deck         SeatDeck `json:"deck" db:"deck"`
	Side         SeatSide `json:"side" db:"side"`
	IsWindow     bool     `json:"is_window" db:"is_window"`
	IsLadiesOnly bool     `json:"is_ladies_only" db:"is_ladies_only"`
}

// ReservationToken identifies the exact seats a successful TryReserve
// flipped to unavailable. It is the handle for the compensating Release.
type ReservationToken struct {
	ID          uuid.UUID `json:"id"`
	ScheduleID  int64     `json:"schedule_id"`
	SeatNumbers []string  `json:"seat_numbers"`
	Total       float64   `json:"total"`
	ReservedAt  time.Time `json:"reserved_at"`
}

// SeatLayout is the validated configuration derived once from a bus
// layout string such as "2+1", "2+2" or "1+1+1". The first group is the
// left column count, the remaining groups sum into the right side.
type SeatLayout struct {
	LeftColumns  int
	RightColumns int
	Decks        int
}

// Columns returns the total number of seat columns per row.
func (l SeatLayout) Columns() int {
	return l.LeftColumns + l.RightColumns
}

// seatColumnLabels are assigned left to right across a row.
var seatColumnLabels = []string{"A", "B", "C", "D", "E"}

// ParseSeatLayout parses and validates a layout string for the given bus
// type. Sleeper buses get two decks, everything else one.
func ParseSeatLayout(layout, busType string) (SeatLayout, error) {
	parts := strings.Split(layout, "+")
	if len(parts) < 2 {
		return SeatLayout{}, fmt.Errorf("invalid seat layout %q: expected at least two groups", layout)
	}

	counts := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 || n > 3 {
			return SeatLayout{}, fmt.Errorf("invalid seat layout %q: group %q must be a number between 1 and 3", layout, p)
		}
		counts = append(counts, n)
	}

	parsed := SeatLayout{LeftColumns: counts[0], Decks: 1}
	for _, n := range counts[1:] {
		parsed.RightColumns += n
	}

	if parsed.Columns() > len(seatColumnLabels) {
		return SeatLayout{}, fmt.Errorf("invalid seat layout %q: at most %d columns supported", layout, len(seatColumnLabels))
	}

	if strings.Contains(busType, "sleeper") {
		parsed.Decks = 2
	}

	return parsed, nil
}

// SeatLabel returns the seat number for a zero-based column within a row,
// e.g. column 0 row 3 -> "A3".
func (l SeatLayout) SeatLabel(column, row int) string {
	return seatColumnLabels[column] + strconv.Itoa(row)
}
