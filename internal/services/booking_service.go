package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/database"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// BookingService is the booking orchestrator: it ties seat reservation,
// wallet debit and booking persistence into one consistent outcome. The
// seat and wallet ledgers never call each other; all cross-entity
// coordination happens here.
type BookingService struct {
	scheduleRepo *database.ScheduleRepository
	seatRepo     *database.SeatRepository
	walletRepo   *database.WalletRepository
	bookingRepo  *database.BookingRepository
	maxRetries   int
	logger       *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(
	scheduleRepo *database.ScheduleRepository,
	seatRepo *database.SeatRepository,
	walletRepo *database.WalletRepository,
	bookingRepo *database.BookingRepository,
	maxRetries int,
	logger *logrus.Logger,
) *BookingService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &BookingService{
		scheduleRepo: scheduleRepo,
		seatRepo:     seatRepo,
		walletRepo:   walletRepo,
		bookingRepo:  bookingRepo,
		maxRetries:   maxRetries,
		logger:       logger,
	}
}

// ============================================================================
// CREATE BOOKING
// ============================================================================

// CreateBooking validates the request, then runs the purchase as a
// single transaction. Lock-wait conflicts are retried transparently a
// bounded number of times; all other failures surface to the caller.
// InsufficientBalance rolls the reservation back with everything else,
// so seats are never held against a payment that will not complete.
func (s *BookingService) CreateBooking(userID int64, req *models.CreateBookingRequest) (*models.BookingConfirmation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.GetByID(req.ScheduleID)
	if err != nil {
		return nil, err
	}
	if !schedule.IsBookable(time.Now()) {
		return nil, models.ErrScheduleNotBookable
	}

	var booking *models.Booking
	for attempt := 0; ; attempt++ {
		booking, err = s.bookingRepo.CreateBooking(userID, req)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrConcurrencyConflict) && attempt < s.maxRetries {
			s.logger.WithFields(logrus.Fields{
				"user_id":     userID,
				"schedule_id": req.ScheduleID,
				"attempt":     attempt + 1,
			}).Warn("Booking hit lock contention, retrying")
			continue
		}
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":     userID,
			"schedule_id": req.ScheduleID,
		}).Error("Booking failed")
		return nil, err
	}

	seatNumbers := make([]string, len(booking.Passengers))
	for i, p := range booking.Passengers {
		seatNumbers[i] = p.SeatNumber
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":   booking.ID,
		"booking_code": booking.BookingCode,
		"user_id":      userID,
		"schedule_id":  req.ScheduleID,
		"seats":        len(seatNumbers),
		"total":        booking.TotalAmount,
	}).Info("Booking confirmed")

	return &models.BookingConfirmation{
		BookingID:   booking.ID,
		BookingCode: booking.BookingCode,
		TotalAmount: booking.TotalAmount,
		Status:      booking.Status,
		SeatNumbers: seatNumbers,
		CreatedAt:   booking.CreatedAt,
	}, nil
}

// ============================================================================
// CANCEL BOOKING
// ============================================================================

// CancelBooking cancels a booking on behalf of actor. Only the booking
// owner or an admin may cancel; cancelling an already-cancelled booking
// reports AlreadyDone instead of failing.
func (s *BookingService) CancelBooking(bookingID int64, actor *models.User) (*models.CancellationResult, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, models.ErrBookingForbidden
	}

	var result *models.CancellationResult
	for attempt := 0; ; attempt++ {
		result, err = s.bookingRepo.CancelBooking(bookingID)
		if err == nil {
			break
		}
		if errors.Is(err, models.ErrConcurrencyConflict) && attempt < s.maxRetries {
			s.logger.WithFields(logrus.Fields{
				"booking_id": bookingID,
				"attempt":    attempt + 1,
			}).Warn("Cancellation hit lock contention, retrying")
			continue
		}
		s.logger.WithError(err).WithField("booking_id", bookingID).Error("Cancellation failed")
		return nil, err
	}

	if !result.AlreadyDone {
		s.logger.WithFields(logrus.Fields{
			"booking_id": bookingID,
			"refunded":   result.RefundedAmount,
			"actor_id":   actor.ID,
		}).Info("Booking cancelled")
	}
	return result, nil
}

// ============================================================================
// READS
// ============================================================================

// GetBooking returns a booking with its passengers. Only the owner or
// an admin may view it.
func (s *BookingService) GetBooking(bookingID int64, actor *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, models.ErrBookingForbidden
	}
	return booking, nil
}

// GetBookingByCode resolves a booking from its user-presentable code.
// Only the owner or an admin may view it.
func (s *BookingService) GetBookingByCode(code string, actor *models.User) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if booking.UserID != actor.ID && !actor.IsAdmin() {
		return nil, models.ErrBookingForbidden
	}
	return booking, nil
}

// ListBookings returns the user's booking history, newest first.
func (s *BookingService) ListBookings(userID int64) ([]models.BookingListItem, error) {
	return s.bookingRepo.GetBookingsByUserID(userID)
}

// GetSeatAvailability returns the point-in-time seat map for a schedule.
func (s *BookingService) GetSeatAvailability(scheduleID int64) ([]models.SeatAvailability, error) {
	return s.seatRepo.GetSeatAvailability(scheduleID)
}

// ListAvailableSeats returns only the currently free seats of a schedule.
func (s *BookingService) ListAvailableSeats(scheduleID int64) ([]models.SeatAvailability, error) {
	return s.seatRepo.ListAvailable(scheduleID)
}
