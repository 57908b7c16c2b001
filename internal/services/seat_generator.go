package services

import (
	"fmt"
	"math/rand"

	"github.com/swiftbus/bus-booking-backend/internal/models"
)

// SeatGenerator produces the seat inventory for a new schedule from its
// bus layout. Generation rules: every 5th row on the left side is
// ladies-only, the outermost column on each side is a window seat, and
// per-seat price is the base price plus a column premium and a small
// random spread. Row numbers continue across decks so seat numbers stay
// unique per schedule.
type SeatGenerator struct{}

// NewSeatGenerator creates a new SeatGenerator
func NewSeatGenerator() *SeatGenerator {
	return &SeatGenerator{}
}

// Generate builds the full seat list for a schedule creation request.
func (g *SeatGenerator) Generate(req *models.CreateScheduleRequest) ([]models.Seat, error) {
	layout, err := models.ParseSeatLayout(req.SeatLayout, req.BusType)
	if err != nil {
		return nil, err
	}

	cols := layout.Columns()
	if req.TotalSeats < cols {
		return nil, fmt.Errorf("total seats %d cannot fill a single %q row", req.TotalSeats, req.SeatLayout)
	}

	rows := req.TotalSeats / cols
	rowsPerDeck := rows / layout.Decks
	if rowsPerDeck == 0 {
		rowsPerDeck = 1
	}

	decks := []models.SeatDeck{models.SeatDeckLower}
	if layout.Decks == 2 {
		decks = append(decks, models.SeatDeckUpper)
	}

	seats := make([]models.Seat, 0, req.TotalSeats)
	row := 0
	for _, deck := range decks {
		for r := 0; r < rowsPerDeck; r++ {
			row++
			for col := 0; col < cols; col++ {
				if len(seats) >= req.TotalSeats {
					break
				}

				onLeft := col < layout.LeftColumns
				side := models.SeatSideRight
				window := col == cols-1
				if onLeft {
					side = models.SeatSideLeft
					window = col == 0
				}

				premium := col
				if !onLeft {
					premium = col - layout.LeftColumns
				}

				seats = append(seats, models.Seat{
					SeatNumber:   layout.SeatLabel(col, row),
					SeatType:     req.BusType,
					Price:        req.BasePrice + float64(premium*10) + float64(rand.Intn(51)),
					RowNumber:    row,
					ColumnNumber: col + 1,
					Deck:         deck,
					Side:         side,
					IsWindow:     window,
					IsLadiesOnly: onLeft && row%5 == 0,
					IsAvailable:  true,
				})
			}
		}
	}

	return seats, nil
}
