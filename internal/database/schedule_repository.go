package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// ScheduleRepository handles bus schedule persistence
type ScheduleRepository struct {
	db       *sqlx.DB
	seatRepo *SeatRepository
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *sqlx.DB, seatRepo *SeatRepository) *ScheduleRepository {
	return &ScheduleRepository{db: db, seatRepo: seatRepo}
}

const scheduleColumns = `
	id, bus_number, bus_type, seat_layout, operator_name, from_city, to_city,
	travel_date, departure_time, arrival_time, base_price, total_seats,
	available_seats, status, created_at`

// GetByID fetches a schedule by its primary key.
func (r *ScheduleRepository) GetByID(id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	err := r.db.Get(&schedule,
		`SELECT `+scheduleColumns+` FROM bus_schedules WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	return &schedule, nil
}

// Search returns schedules for a route on a travel date, soonest first.
// Only schedules still open for booking are returned.
func (r *ScheduleRepository) Search(fromCity, toCity string, travelDate time.Time) ([]models.Schedule, error) {
	var schedules []models.Schedule
	err := r.db.Select(&schedules, `
		SELECT `+scheduleColumns+`
		FROM bus_schedules
		WHERE LOWER(from_city) = LOWER($1) AND LOWER(to_city) = LOWER($2)
		  AND travel_date = $3 AND status = $4
		ORDER BY departure_time`,
		fromCity, toCity, travelDate, models.ScheduleStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to search schedules: %w", err)
	}
	return schedules, nil
}

// Create inserts a schedule and bulk-creates its generated seats in one
// transaction; a schedule never exists without its seat inventory.
func (r *ScheduleRepository) Create(req *models.CreateScheduleRequest, seats []models.Seat) (*models.Schedule, error) {
	travelDate, err := time.Parse("2006-01-02", req.TravelDate)
	if err != nil {
		return nil, fmt.Errorf("invalid travel date %q: %w", req.TravelDate, err)
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var schedule models.Schedule
	err = tx.Get(&schedule, `
		INSERT INTO bus_schedules (
			bus_number, bus_type, seat_layout, operator_name, from_city, to_city,
			travel_date, departure_time, arrival_time, base_price, total_seats,
			available_seats, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $12)
		RETURNING `+scheduleColumns,
		req.BusNumber, req.BusType, req.SeatLayout, req.OperatorName,
		req.FromCity, req.ToCity, travelDate, req.DepartureTime, req.ArrivalTime,
		req.BasePrice, len(seats), models.ScheduleStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	for i := range seats {
		seats[i].ScheduleID = schedule.ID
	}
	if err := r.seatRepo.CreateSeatsTx(tx, seats); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateStatus moves a schedule through its lifecycle (scheduled,
// departed, completed, cancelled).
func (r *ScheduleRepository) UpdateStatus(id int64, status models.ScheduleStatus) error {
	res, err := r.db.Exec(
		`UPDATE bus_schedules SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return models.ErrScheduleNotFound
	}
	return nil
}
