package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/database"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// ScheduleService manages bus schedules and their generated seat inventory
type ScheduleService struct {
	scheduleRepo *database.ScheduleRepository
	generator    *SeatGenerator
	logger       *logrus.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo *database.ScheduleRepository, generator *SeatGenerator, logger *logrus.Logger) *ScheduleService {
	return &ScheduleService{scheduleRepo: scheduleRepo, generator: generator, logger: logger}
}

// Create generates the seat inventory from the bus layout and persists
// the schedule with its seats in one transaction.
func (s *ScheduleService) Create(req *models.CreateScheduleRequest) (*models.Schedule, error) {
	seats, err := s.generator.Generate(req)
	if err != nil {
		return nil, err
	}

	schedule, err := s.scheduleRepo.Create(req, seats)
	if err != nil {
		s.logger.WithError(err).WithField("bus_number", req.BusNumber).Error("Schedule creation failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"schedule_id": schedule.ID,
		"bus_number":  schedule.BusNumber,
		"route":       schedule.FromCity + " -> " + schedule.ToCity,
		"seats":       len(seats),
	}).Info("Schedule created")

	return schedule, nil
}

// GetByID fetches a single schedule.
func (s *ScheduleService) GetByID(id int64) (*models.Schedule, error) {
	return s.scheduleRepo.GetByID(id)
}

// Search lists bookable schedules for a route and travel date.
func (s *ScheduleService) Search(fromCity, toCity string, travelDate time.Time) ([]models.Schedule, error) {
	return s.scheduleRepo.Search(fromCity, toCity, travelDate)
}

// UpdateStatus moves a schedule through its lifecycle.
func (s *ScheduleService) UpdateStatus(id int64, status models.ScheduleStatus) error {
	return s.scheduleRepo.UpdateStatus(id, status)
}
