package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleIsBookable(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	t.Run("Future Travel Date", func(t *testing.T) {
		s := &Schedule{Status: ScheduleStatusScheduled, TravelDate: now.AddDate(0, 0, 3)}
		assert.True(t, s.IsBookable(now))
	})

	t.Run("Same Day Still Bookable", func(t *testing.T) {
		s := &Schedule{
			Status:     ScheduleStatusScheduled,
			TravelDate: time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		}
		assert.True(t, s.IsBookable(now))
	})

	t.Run("Past Travel Date", func(t *testing.T) {
		s := &Schedule{Status: ScheduleStatusScheduled, TravelDate: now.AddDate(0, 0, -1)}
		assert.False(t, s.IsBookable(now))
	})

	t.Run("Cancelled Schedule", func(t *testing.T) {
		s := &Schedule{Status: ScheduleStatusCancelled, TravelDate: now.AddDate(0, 0, 3)}
		assert.False(t, s.IsBookable(now))
	})

	t.Run("Departed Schedule", func(t *testing.T) {
		s := &Schedule{Status: ScheduleStatusDeparted, TravelDate: now}
		assert.False(t, s.IsBookable(now))
	})
}
