package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// SeatRepository is the seat ledger: the single source of truth for
// which seats on a schedule are free. All availability flips go through
// it, always in the same transaction as the schedule's available-seat
// counter so the two can never disagree.
type SeatRepository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *sqlx.DB, lockTimeout time.Duration) *SeatRepository {
	return &SeatRepository{db: db, lockTimeout: lockTimeout}
}

// ============================================================================
// SNAPSHOT READS
// ============================================================================

// GetSeatAvailability returns a point-in-time snapshot of every seat on
// the schedule, ordered for display. Callers must not assume listed
// seats stay free; reservation re-validates under lock.
func (r *SeatRepository) GetSeatAvailability(scheduleID int64) ([]models.SeatAvailability, error) {
	var exists bool
	err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM bus_schedules WHERE id = $1)`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to check schedule: %w", err)
	}
	if !exists {
		return nil, models.ErrScheduleNotFound
	}

	query := `
		SELECT seat_number, seat_type, price, is_available, deck, side, is_window, is_ladies_only
		FROM seats
		WHERE schedule_id = $1
		ORDER BY deck, row_number, column_number`

	var seats []models.SeatAvailability
	if err := r.db.Select(&seats, query, scheduleID); err != nil {
		return nil, fmt.Errorf("failed to fetch seats: %w", err)
	}
	return seats, nil
}

// ListAvailable returns only the currently free seats of a schedule.
func (r *SeatRepository) ListAvailable(scheduleID int64) ([]models.SeatAvailability, error) {
	seats, err := r.GetSeatAvailability(scheduleID)
	if err != nil {
		return nil, err
	}
	available := make([]models.SeatAvailability, 0, len(seats))
	for _, s := range seats {
		if s.Available {
			available = append(available, s)
		}
	}
	return available, nil
}

// ============================================================================
// RESERVATION
// ============================================================================

// TryReserve atomically checks that every named seat is available and
// flips them to unavailable, decrementing the schedule counter in the
// same transaction. If two callers race for a seat exactly one wins;
// the loser gets a SeatUnavailableError naming the taken seats. There
// is no soft hold: the reservation is committed or rejected.
func (r *SeatRepository) TryReserve(scheduleID int64, seatNumbers []string) (*models.ReservationToken, error) {
	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seats, total, err := r.reserveSeatsTx(tx, scheduleID, seatNumbers)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyError(fmt.Errorf("failed to commit reservation: %w", err))
	}

	reserved := make([]string, len(seats))
	for i, s := range seats {
		reserved[i] = s.SeatNumber
	}

	return &models.ReservationToken{
		ID:          uuid.New(),
		ScheduleID:  scheduleID,
		SeatNumbers: reserved,
		Total:       total,
		ReservedAt:  time.Now(),
	}, nil
}

// Release returns the token's seats to the pool. It is idempotent and
// never frees a seat that has since been linked to a booking passenger.
func (r *SeatRepository) Release(token *models.ReservationToken) error {
	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := r.releaseSeatsTx(tx, token.ScheduleID, token.SeatNumbers); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyError(fmt.Errorf("failed to commit release: %w", err))
	}
	return nil
}

// ============================================================================
// TRANSACTION-SCOPED OPERATIONS
// ============================================================================

// reserveSeatsTx locks the requested seat rows, validates that they all
// belong to the schedule and are free, flips them to unavailable and
// decrements the schedule counter. Rows are locked in seat-number order
// so concurrent bookings acquire locks deterministically.
func (r *SeatRepository) reserveSeatsTx(tx *sqlx.Tx, scheduleID int64, seatNumbers []string) ([]models.Seat, float64, error) {
	query := `
		SELECT id, schedule_id, seat_number, seat_type, price, row_number, column_number,
		       deck, side, is_window, is_ladies_only, is_available, booking_passenger_id
		FROM seats
		WHERE schedule_id = $1 AND seat_number = ANY($2)
		ORDER BY seat_number
		FOR UPDATE`

	var seats []models.Seat
	if err := tx.Select(&seats, query, scheduleID, pq.Array(seatNumbers)); err != nil {
		return nil, 0, classifyError(fmt.Errorf("failed to lock seats: %w", err))
	}

	if len(seats) != len(seatNumbers) {
		found := make(map[string]bool, len(seats))
		for _, s := range seats {
			found[s.SeatNumber] = true
		}
		var missing []string
		for _, sn := range seatNumbers {
			if !found[sn] {
				missing = append(missing, sn)
			}
		}
		return nil, 0, fmt.Errorf("%w: seats %v not found on schedule %d",
			models.ErrInvalidSeatSelection, missing, scheduleID)
	}

	var taken []string
	var total float64
	ids := make([]int64, len(seats))
	for i, s := range seats {
		if !s.IsAvailable {
			taken = append(taken, s.SeatNumber)
		}
		ids[i] = s.ID
		total += s.Price
	}
	if len(taken) > 0 {
		return nil, 0, &models.SeatUnavailableError{SeatNumbers: taken}
	}

	if _, err := tx.Exec(`UPDATE seats SET is_available = FALSE WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, 0, classifyError(fmt.Errorf("failed to reserve seats: %w", err))
	}

	res, err := tx.Exec(`
		UPDATE bus_schedules SET available_seats = available_seats - $1 WHERE id = $2`,
		len(seats), scheduleID)
	if err != nil {
		return nil, 0, classifyError(fmt.Errorf("failed to update seat counter: %w", err))
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, 0, models.ErrScheduleNotFound
	}

	return seats, total, nil
}

// releaseSeatsTx flips the named seats back to available and restores
// the counter by the number of rows actually flipped, which makes it
// idempotent. Seats linked to an active booking passenger are skipped.
func (r *SeatRepository) releaseSeatsTx(tx *sqlx.Tx, scheduleID int64, seatNumbers []string) (int, error) {
	rows, err := tx.Query(`
		UPDATE seats SET is_available = TRUE
		WHERE schedule_id = $1 AND seat_number = ANY($2)
		  AND is_available = FALSE AND booking_passenger_id IS NULL
		RETURNING id`,
		scheduleID, pq.Array(seatNumbers))
	if err != nil {
		return 0, classifyError(fmt.Errorf("failed to release seats: %w", err))
	}
	released := 0
	for rows.Next() {
		released++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, classifyError(err)
	}
	rows.Close()

	if released > 0 {
		if _, err := tx.Exec(`
			UPDATE bus_schedules SET available_seats = available_seats + $1 WHERE id = $2`,
			released, scheduleID); err != nil {
			return 0, classifyError(fmt.Errorf("failed to restore seat counter: %w", err))
		}
	}
	return released, nil
}

// releaseBookedSeatsTx frees every seat occupied by the booking's
// passengers, clearing the back-reference, and restores the counter.
// Used by cancellation; idempotent because already-released seats no
// longer carry the booking's passenger reference.
func (r *SeatRepository) releaseBookedSeatsTx(tx *sqlx.Tx, scheduleID, bookingID int64) (int, error) {
	rows, err := tx.Query(`
		UPDATE seats SET is_available = TRUE, booking_passenger_id = NULL
		WHERE is_available = FALSE
		  AND booking_passenger_id IN (SELECT id FROM booking_passengers WHERE booking_id = $1)
		RETURNING id`,
		bookingID)
	if err != nil {
		return 0, classifyError(fmt.Errorf("failed to release booked seats: %w", err))
	}
	released := 0
	for rows.Next() {
		released++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, classifyError(err)
	}
	rows.Close()

	if released > 0 {
		if _, err := tx.Exec(`
			UPDATE bus_schedules SET available_seats = available_seats + $1 WHERE id = $2`,
			released, scheduleID); err != nil {
			return 0, classifyError(fmt.Errorf("failed to restore seat counter: %w", err))
		}
	}
	return released, nil
}

// linkPassengerTx records the back-reference from a seat to the booking
// passenger occupying it.
func (r *SeatRepository) linkPassengerTx(tx *sqlx.Tx, seatID, passengerID int64) error {
	if _, err := tx.Exec(`UPDATE seats SET booking_passenger_id = $1 WHERE id = $2`,
		passengerID, seatID); err != nil {
		return classifyError(fmt.Errorf("failed to link seat %d to passenger: %w", seatID, err))
	}
	return nil
}

// ============================================================================
// SEAT CREATION
// ============================================================================

// CreateSeatsTx bulk-inserts generated seats for a newly created
// schedule. Called by ScheduleRepository inside the creation transaction.
func (r *SeatRepository) CreateSeatsTx(tx *sqlx.Tx, seats []models.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	query := `
		INSERT INTO seats (
			schedule_id, seat_number, seat_type, price, row_number, column_number,
			deck, side, is_window, is_ladies_only, is_available
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	for _, s := range seats {
		if _, err := tx.Exec(query,
			s.ScheduleID, s.SeatNumber, s.SeatType, s.Price, s.RowNumber, s.ColumnNumber,
			s.Deck, s.Side, s.IsWindow, s.IsLadiesOnly, true,
		); err != nil {
			return fmt.Errorf("failed to create seat %s: %w", s.SeatNumber, err)
		}
	}
	return nil
}
