package database

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

func newMockBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	seatRepo := NewSeatRepository(sqlxDB, 3*time.Second)
	walletRepo := NewWalletRepository(sqlxDB, 3*time.Second)
	return NewBookingRepository(sqlxDB, seatRepo, walletRepo, 3*time.Second, 10), mock
}

var bookingColumns = []string{
	"id", "booking_code", "user_id", "schedule_id", "total_amount",
	"status", "created_at", "cancelled_at",
}

// ============================================================================
// BOOKING CODE
// ============================================================================

func TestGenerateBookingCodeFormat(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^BK-20260829-[0-9A-F]{8}$`)

	for i := 0; i < 100; i++ {
		code, err := generateBookingCode(now)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
	}
}

func TestGenerateBookingCodeDistinctness(t *testing.T) {
	// Mirrors the repository's collision handling: a code already seen is
	// regenerated, the same way the DB uniqueness check retries.
	seen := make(map[string]bool, 10000)
	now := time.Now()

	for i := 0; i < 10000; i++ {
		var code string
		for attempt := 0; attempt < 10; attempt++ {
			c, err := generateBookingCode(now)
			require.NoError(t, err)
			if !seen[c] {
				code = c
				break
			}
		}
		require.NotEmpty(t, code, "could not find a fresh code after 10 attempts")
		seen[code] = true
	}

	assert.Len(t, seen, 10000)
}

// ============================================================================
// CREATE BOOKING
// ============================================================================

func TestCreateBooking(t *testing.T) {
	now := time.Now()

	req := &models.CreateBookingRequest{
		ScheduleID:  1,
		SeatNumbers: []string{"B1", "A1"}, // intentionally unsorted
		Passengers: []models.PassengerInput{
			{Name: "Kumari Silva", Age: 29, Gender: "female"},
			{Name: "Nimal Perera", Age: 34, Gender: "male"},
		},
	}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		// Seats locked in sorted order
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(reservedSeatColumns).
				AddRow(seatRow(10, "A1", 450, true)...).
				AddRow(seatRow(11, "B1", 410, true)...))
		mock.ExpectExec(`UPDATE seats SET is_available = FALSE`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE bus_schedules SET available_seats`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(100, "BK-20260829-AB12CD34", 1, 1, 860.0, "confirmed", now, nil))

		// One passenger + seat link per reserved seat
		mock.ExpectQuery(`INSERT INTO booking_passengers`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(200))
		mock.ExpectExec(`UPDATE seats SET booking_passenger_id`).
			WithArgs(int64(200), int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO booking_passengers`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201))
		mock.ExpectExec(`UPDATE seats SET booking_passenger_id`).
			WithArgs(int64(201), int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		// Wallet debit inside the same transaction
		mock.ExpectQuery(`SELECT (.+) FROM wallets WHERE user_id`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(5, 1, 1000.0, now, now))
		mock.ExpectExec(`UPDATE wallets SET balance`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO wallet_transactions`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectCommit()

		booking, err := repo.CreateBooking(1, req)
		require.NoError(t, err)
		assert.Equal(t, "BK-20260829-AB12CD34", booking.BookingCode)
		assert.Equal(t, 860.0, booking.TotalAmount)
		require.Len(t, booking.Passengers, 2)
		// Passengers follow the locked seat order, paired with the
		// request's seat/passenger positions.
		assert.Equal(t, "A1", booking.Passengers[0].SeatNumber)
		assert.Equal(t, "Nimal Perera", booking.Passengers[0].Name)
		assert.Equal(t, "B1", booking.Passengers[1].SeatNumber)
		assert.Equal(t, "Kumari Silva", booking.Passengers[1].Name)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insufficient Balance Rolls Back Everything", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(reservedSeatColumns).
				AddRow(seatRow(10, "A1", 450, true)...).
				AddRow(seatRow(11, "B1", 410, true)...))
		mock.ExpectExec(`UPDATE seats SET is_available = FALSE`).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`UPDATE bus_schedules SET available_seats`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO bookings`).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(100, "BK-20260829-AB12CD34", 1, 1, 860.0, "confirmed", now, nil))
		mock.ExpectQuery(`INSERT INTO booking_passengers`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(200))
		mock.ExpectExec(`UPDATE seats SET booking_passenger_id`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO booking_passengers`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(201))
		mock.ExpectExec(`UPDATE seats SET booking_passenger_id`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM wallets WHERE user_id`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(5, 1, 100.0, now, now))
		mock.ExpectRollback()

		_, err := repo.CreateBooking(1, req)
		assert.True(t, errors.Is(err, models.ErrInsufficientBalance))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Lock Timeout Classified As Conflict", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM seats`).
			WithArgs(int64(1), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "55P03", Message: "canceling statement due to lock timeout"})
		mock.ExpectRollback()

		_, err := repo.CreateBooking(1, req)
		assert.True(t, errors.Is(err, models.ErrConcurrencyConflict))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertBookingCodeCollisionRetry(t *testing.T) {
	repo, mock := newMockBookingRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_booking_code_key"})
	mock.ExpectQuery(`INSERT INTO bookings`).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(100, "BK-20260829-00FF00FF", 1, 1, 500.0, "confirmed", now, nil))
	mock.ExpectCommit()

	tx, err := repo.db.Beginx()
	require.NoError(t, err)

	booking, err := repo.insertBookingTx(tx, 1, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, "BK-20260829-00FF00FF", booking.BookingCode)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ============================================================================
// CANCELLATION
// ============================================================================

func TestCancelBooking(t *testing.T) {
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(100, "BK-20260829-AB12CD34", 1, 1, 860.0, "confirmed", now, nil))
		mock.ExpectQuery(`UPDATE seats SET is_available = TRUE`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))
		mock.ExpectExec(`UPDATE bus_schedules SET available_seats`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT (.+) FROM wallets WHERE user_id`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(walletColumns).AddRow(5, 1, 140.0, now, now))
		mock.ExpectExec(`UPDATE wallets SET balance`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO wallet_transactions`).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(`UPDATE bookings SET status`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		result, err := repo.CancelBooking(100)
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, result.Status)
		assert.Equal(t, 860.0, result.RefundedAmount)
		assert.False(t, result.AlreadyDone)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Already Cancelled Is No-Op", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)
		cancelledAt := now.Add(-time.Hour)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(100)).
			WillReturnRows(sqlmock.NewRows(bookingColumns).
				AddRow(100, "BK-20260829-AB12CD34", 1, 1, 860.0, "cancelled", now, cancelledAt))
		mock.ExpectRollback()

		result, err := repo.CancelBooking(100)
		require.NoError(t, err)
		assert.True(t, result.AlreadyDone)
		assert.Equal(t, 0.0, result.RefundedAmount)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		repo, mock := newMockBookingRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`SET LOCAL lock_timeout`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(bookingColumns))
		mock.ExpectRollback()

		_, err := repo.CancelBooking(404)
		assert.True(t, errors.Is(err, models.ErrBookingNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
