package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// BookingRepository owns booking persistence and the single database
// transaction in which a booking is created or cancelled. Seat and
// wallet changes inside that transaction are delegated to the seat and
// wallet repositories' tx-scoped operations, so the invariants those
// ledgers enforce hold here too.
type BookingRepository struct {
	db           *sqlx.DB
	seatRepo     *SeatRepository
	walletRepo   *WalletRepository
	lockTimeout  time.Duration
	codeAttempts int
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db *sqlx.DB, seatRepo *SeatRepository, walletRepo *WalletRepository, lockTimeout time.Duration, codeAttempts int) *BookingRepository {
	if codeAttempts <= 0 {
		codeAttempts = 10
	}
	return &BookingRepository{
		db:           db,
		seatRepo:     seatRepo,
		walletRepo:   walletRepo,
		lockTimeout:  lockTimeout,
		codeAttempts: codeAttempts,
	}
}

// ============================================================================
// BOOKING CODE GENERATION
// ============================================================================

// generateBookingCode produces a code of the form BK-YYYYMMDD-XXXXXXXX
// where the suffix is 8 uppercase hex characters from crypto/rand.
func generateBookingCode(now time.Time) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate booking code: %w", err)
	}
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf))), nil
}

// ============================================================================
// BOOKING CREATION
// ============================================================================

// CreateBooking runs the whole purchase in one database transaction:
// reserve the seats under lock, insert the booking and its passengers,
// link each seat to its passenger, and debit the wallet. Any failure
// rolls everything back; there is no partial booking. Lock order is
// seats (sorted), then the schedule counter, then the wallet row.
func (r *BookingRepository) CreateBooking(userID int64, req *models.CreateBookingRequest) (*models.Booking, error) {
	seatNumbers := make([]string, len(req.SeatNumbers))
	copy(seatNumbers, req.SeatNumbers)
	sort.Strings(seatNumbers)

	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	seats, total, err := r.seatRepo.reserveSeatsTx(tx, req.ScheduleID, seatNumbers)
	if err != nil {
		return nil, err
	}

	booking, err := r.insertBookingTx(tx, userID, req.ScheduleID, total)
	if err != nil {
		return nil, err
	}

	// Seats come back ordered by seat number; pair each with the
	// passenger whose position in the request matches that seat.
	passengerBySeat := make(map[string]models.PassengerInput, len(req.SeatNumbers))
	for i, sn := range req.SeatNumbers {
		passengerBySeat[sn] = req.Passengers[i]
	}

	for _, seat := range seats {
		p := passengerBySeat[seat.SeatNumber]
		passenger := models.BookingPassenger{
			BookingID:  booking.ID,
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			Name:       strings.TrimSpace(p.Name),
			Age:        p.Age,
			Gender:     strings.ToLower(strings.TrimSpace(p.Gender)),
		}
		if err := r.insertPassengerTx(tx, &passenger); err != nil {
			return nil, err
		}
		if err := r.seatRepo.linkPassengerTx(tx, seat.ID, passenger.ID); err != nil {
			return nil, err
		}
		booking.Passengers = append(booking.Passengers, passenger)
	}

	description := fmt.Sprintf("Booking %s (%d seats)", booking.BookingCode, len(seats))
	if _, err := r.walletRepo.debitTx(tx, userID, total, description, &booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyError(fmt.Errorf("failed to commit booking: %w", err))
	}
	return booking, nil
}

// insertBookingTx inserts the booking row, regenerating the booking
// code on the rare unique-constraint collision.
func (r *BookingRepository) insertBookingTx(tx *sqlx.Tx, userID, scheduleID int64, total float64) (*models.Booking, error) {
	query := `
		INSERT INTO bookings (booking_code, user_id, schedule_id, total_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, booking_code, user_id, schedule_id, total_amount, status, created_at, cancelled_at`

	for attempt := 0; attempt < r.codeAttempts; attempt++ {
		code, err := generateBookingCode(time.Now())
		if err != nil {
			return nil, err
		}

		var booking models.Booking
		err = tx.Get(&booking, query, code, userID, scheduleID, total, models.BookingStatusConfirmed)
		if err == nil {
			return &booking, nil
		}
		if isUniqueViolation(err, "bookings_booking_code_key") {
			continue
		}
		return nil, classifyError(fmt.Errorf("failed to create booking: %w", err))
	}
	return nil, fmt.Errorf("failed to generate unique booking code after %d attempts", r.codeAttempts)
}

func (r *BookingRepository) insertPassengerTx(tx *sqlx.Tx, p *models.BookingPassenger) error {
	err := tx.Get(&p.ID, `
		INSERT INTO booking_passengers (booking_id, seat_id, seat_number, name, age, gender)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.BookingID, p.SeatID, p.SeatNumber, p.Name, p.Age, p.Gender)
	if err != nil {
		return classifyError(fmt.Errorf("failed to create passenger for seat %s: %w", p.SeatNumber, err))
	}
	return nil
}

// ============================================================================
// CANCELLATION
// ============================================================================

// CancelBooking flips the booking to cancelled, releases its seats and
// refunds the full amount, all in one transaction. Cancelling an
// already-cancelled booking is a no-op reported via AlreadyDone; it
// never releases seats or refunds twice.
func (r *BookingRepository) CancelBooking(bookingID int64) (*models.CancellationResult, error) {
	tx, err := beginWithLockTimeout(r.db, r.lockTimeout)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var booking models.Booking
	err = tx.Get(&booking, `
		SELECT id, booking_code, user_id, schedule_id, total_amount, status, created_at, cancelled_at
		FROM bookings WHERE id = $1
		FOR UPDATE`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, classifyError(fmt.Errorf("failed to lock booking: %w", err))
	}

	if booking.Status == models.BookingStatusCancelled {
		return &models.CancellationResult{
			BookingID:   booking.ID,
			Status:      booking.Status,
			AlreadyDone: true,
		}, nil
	}

	if _, err := r.seatRepo.releaseBookedSeatsTx(tx, booking.ScheduleID, booking.ID); err != nil {
		return nil, err
	}

	description := fmt.Sprintf("Refund for booking %s", booking.BookingCode)
	if _, err := r.walletRepo.creditTx(tx, booking.UserID, booking.TotalAmount, description, &booking.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		UPDATE bookings SET status = $1, cancelled_at = NOW() WHERE id = $2`,
		models.BookingStatusCancelled, booking.ID); err != nil {
		return nil, classifyError(fmt.Errorf("failed to cancel booking: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, classifyError(fmt.Errorf("failed to commit cancellation: %w", err))
	}

	return &models.CancellationResult{
		BookingID:      booking.ID,
		Status:         models.BookingStatusCancelled,
		RefundedAmount: booking.TotalAmount,
	}, nil
}

// ============================================================================
// READS
// ============================================================================

// GetByID fetches a booking with its passengers.
func (r *BookingRepository) GetByID(bookingID int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.Get(&booking, `
		SELECT id, booking_code, user_id, schedule_id, total_amount, status, created_at, cancelled_at
		FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}

	err = r.db.Select(&booking.Passengers, `
		SELECT id, booking_id, seat_id, seat_number, name, age, gender
		FROM booking_passengers
		WHERE booking_id = $1
		ORDER BY seat_number`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch passengers: %w", err)
	}
	return &booking, nil
}

// GetByCode fetches a booking by its booking code.
func (r *BookingRepository) GetByCode(code string) (*models.Booking, error) {
	var id int64
	err := r.db.Get(&id, `SELECT id FROM bookings WHERE booking_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return r.GetByID(id)
}

// GetBookingsByUserID returns the user's booking history, newest first.
func (r *BookingRepository) GetBookingsByUserID(userID int64) ([]models.BookingListItem, error) {
	var items []models.BookingListItem
	err := r.db.Select(&items, `
		SELECT b.id, b.booking_code, b.schedule_id, s.from_city, s.to_city,
		       s.travel_date, b.total_amount, b.status, b.created_at,
		       (SELECT COUNT(*) FROM booking_passengers bp WHERE bp.booking_id = b.id) AS seat_count
		FROM bookings b
		JOIN bus_schedules s ON s.id = b.schedule_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	return items, nil
}
