package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/bus-booking-backend/internal/models"
)

func TestSeatGeneration(t *testing.T) {
	gen := NewSeatGenerator()

	t.Run("Seater 2+2", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "seater",
			SeatLayout: "2+2",
			TotalSeats: 40,
			BasePrice:  400,
		}

		seats, err := gen.Generate(req)
		require.NoError(t, err)
		require.Len(t, seats, 40)

		numbers := make(map[string]bool)
		for _, s := range seats {
			assert.False(t, numbers[s.SeatNumber], "duplicate seat number %s", s.SeatNumber)
			numbers[s.SeatNumber] = true

			assert.Equal(t, models.SeatDeckLower, s.Deck)
			assert.True(t, s.IsAvailable)
			assert.GreaterOrEqual(t, s.Price, req.BasePrice)
		}
	})

	t.Run("Window Seats On Outer Columns", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "seater",
			SeatLayout: "2+2",
			TotalSeats: 8,
			BasePrice:  400,
		}

		seats, err := gen.Generate(req)
		require.NoError(t, err)

		for _, s := range seats {
			switch s.ColumnNumber {
			case 1, 4:
				assert.True(t, s.IsWindow, "seat %s should be a window seat", s.SeatNumber)
			default:
				assert.False(t, s.IsWindow, "seat %s should not be a window seat", s.SeatNumber)
			}
		}
	})

	t.Run("Ladies Only Every Fifth Row Left Side", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "seater",
			SeatLayout: "2+2",
			TotalSeats: 40,
			BasePrice:  400,
		}

		seats, err := gen.Generate(req)
		require.NoError(t, err)

		for _, s := range seats {
			wantLadies := s.Side == models.SeatSideLeft && s.RowNumber%5 == 0
			assert.Equal(t, wantLadies, s.IsLadiesOnly, "seat %s", s.SeatNumber)
		}
	})

	t.Run("Sleeper Splits Rows Across Decks", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "sleeper",
			SeatLayout: "2+1",
			TotalSeats: 36,
			BasePrice:  800,
		}

		seats, err := gen.Generate(req)
		require.NoError(t, err)
		require.Len(t, seats, 36)

		decks := map[models.SeatDeck]int{}
		numbers := make(map[string]bool)
		for _, s := range seats {
			decks[s.Deck]++
			assert.False(t, numbers[s.SeatNumber], "duplicate seat number %s across decks", s.SeatNumber)
			numbers[s.SeatNumber] = true
		}
		assert.Equal(t, 18, decks[models.SeatDeckLower])
		assert.Equal(t, 18, decks[models.SeatDeckUpper])
	})

	t.Run("Invalid Layout Rejected", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "seater",
			SeatLayout: "nope",
			TotalSeats: 40,
			BasePrice:  400,
		}

		_, err := gen.Generate(req)
		assert.Error(t, err)
	})

	t.Run("Too Few Seats For A Row Rejected", func(t *testing.T) {
		req := &models.CreateScheduleRequest{
			BusType:    "seater",
			SeatLayout: "2+2",
			TotalSeats: 3,
			BasePrice:  400,
		}

		_, err := gen.Generate(req)
		assert.Error(t, err)
	})
}
