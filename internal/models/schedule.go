package models

import (
	"time"
)

// ScheduleStatus represents the lifecycle status of a bus schedule
type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusDeparted  ScheduleStatus = "departed"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// Schedule represents one bus operating one route on one calendar date.
// AvailableSeats is a denormalized counter used for fast search filtering;
// it is only ever updated in the same transaction as a seat-availability
// change so it always equals count(seats where is_available).
type Schedule struct {
	ID             int64          `json:"id" db:"id"`
	BusNumber      string         `json:"bus_number" db:"bus_number"`
	BusType        string         `json:"bus_type" db:"bus_type"` // seater, sleeper, semi-sleeper, ac-seater, ac-sleeper
	SeatLayout     string         `json:"seat_layout" db:"seat_layout"`
	OperatorName   string         `json:"operator_name" db:"operator_name"`
	FromCity       string         `json:"from_city" db:"from_city"`
	ToCity         string         `json:"to_city" db:"to_city"`
	TravelDate     time.Time      `json:"travel_date" db:"travel_date"`
	DepartureTime  string         `json:"departure_time" db:"departure_time"` // HH:MM, local to the route
	ArrivalTime    string         `json:"arrival_time" db:"arrival_time"`
	BasePrice      float64        `json:"base_price" db:"base_price"`
	TotalSeats     int            `json:"total_seats" db:"total_seats"`
	AvailableSeats int            `json:"available_seats" db:"available_seats"`
	Status         ScheduleStatus `json:"status" db:"status"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}

// IsBookable reports whether new bookings may be taken on this schedule.
// The travel date is compared at day granularity: a bus travelling today
// is still bookable until its status changes to departed.
func (s *Schedule) IsBookable(now time.Time) bool {
	if s.Status != ScheduleStatusScheduled {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !s.TravelDate.Before(today)
}

// CreateScheduleRequest is used by admin tooling and the seeder to create
// a schedule together with its generated seats.
type CreateScheduleRequest struct {
	BusNumber     string  `json:"bus_number" binding:"required"`
	BusType       string  `json:"bus_type" binding:"required"`
	SeatLayout    string  `json:"seat_layout" binding:"required"`
	TotalSeats    int     `json:"total_seats" binding:"required,gt=0"`
	OperatorName  string  `json:"operator_name" binding:"required"`
	FromCity      string  `json:"from_city" binding:"required"`
	ToCity        string  `json:"to_city" binding:"required"`
	TravelDate    string  `json:"travel_date" binding:"required"` // YYYY-MM-DD
	DepartureTime string  `json:"departure_time" binding:"required"`
	ArrivalTime   string  `json:"arrival_time" binding:"required"`
	BasePrice     float64 `json:"base_price" binding:"required,gt=0"`
}
