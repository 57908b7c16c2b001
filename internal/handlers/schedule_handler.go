package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/swiftbus/bus-booking-backend/internal/models"
	"github.com/swiftbus/bus-booking-backend/internal/services"
)

// ScheduleHandler handles schedule and seat map endpoints
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
	bookingService  *services.BookingService
	logger          *logrus.Logger
}

// NewScheduleHandler creates a new ScheduleHandler
func NewScheduleHandler(scheduleService *services.ScheduleService, bookingService *services.BookingService, logger *logrus.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		bookingService:  bookingService,
		logger:          logger,
	}
}

// Search lists bookable schedules for a route and date
// @Summary Search schedules
// @Tags Schedules
// @Produce json
// @Param from query string true "Origin city"
// @Param to query string true "Destination city"
// @Param date query string true "Travel date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Router /schedules [get]
func (h *ScheduleHandler) Search(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	dateStr := c.Query("date")
	if from == "" || to == "" || dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from, to and date query parameters are required"})
		return
	}

	travelDate, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	schedules, err := h.scheduleService.Search(from, to, travelDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule returns one schedule
// @Summary Get schedule
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Success 200 {object} models.Schedule
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	scheduleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	schedule, err := h.scheduleService.GetByID(scheduleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// GetSeats returns the seat map snapshot for a schedule
// @Summary Get seat availability
// @Description Point-in-time snapshot; availability is re-validated at booking time
// @Tags Schedules
// @Produce json
// @Param id path int true "Schedule ID"
// @Param available query bool false "Return only free seats"
// @Success 200 {object} map[string]interface{}
// @Router /schedules/{id}/seats [get]
func (h *ScheduleHandler) GetSeats(c *gin.Context) {
	scheduleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var seats []models.SeatAvailability
	if c.Query("available") == "true" {
		seats, err = h.bookingService.ListAvailableSeats(scheduleID)
	} else {
		seats, err = h.bookingService.GetSeatAvailability(scheduleID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	available := 0
	for _, s := range seats {
		if s.Available {
			available++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"schedule_id": scheduleID,
		"seats":       seats,
		"total":       len(seats),
		"available":   available,
	})
}

// CreateSchedule creates a schedule with generated seats (admin only)
// @Summary Create schedule
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param request body models.CreateScheduleRequest true "Schedule definition"
// @Success 201 {object} models.Schedule
// @Router /admin/schedules [post]
func (h *ScheduleHandler) CreateSchedule(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	schedule, err := h.scheduleService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// UpdateScheduleStatus moves a schedule through its lifecycle (admin only)
// @Summary Update schedule status
// @Tags Admin
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Schedule ID"
// @Success 200 {object} map[string]interface{}
// @Router /admin/schedules/{id}/status [patch]
func (h *ScheduleHandler) UpdateScheduleStatus(c *gin.Context) {
	scheduleID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid schedule id"})
		return
	}

	var req struct {
		Status models.ScheduleStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	switch req.Status {
	case models.ScheduleStatusScheduled, models.ScheduleStatusDeparted,
		models.ScheduleStatusCompleted, models.ScheduleStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	if err := h.scheduleService.UpdateStatus(scheduleID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule_id": scheduleID, "status": req.Status})
}
