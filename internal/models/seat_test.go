package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatLayout(t *testing.T) {
	t.Run("Standard 2+2", func(t *testing.T) {
		layout, err := ParseSeatLayout("2+2", "seater")
		require.NoError(t, err)
		assert.Equal(t, 2, layout.LeftColumns)
		assert.Equal(t, 2, layout.RightColumns)
		assert.Equal(t, 4, layout.Columns())
		assert.Equal(t, 1, layout.Decks)
	})

	t.Run("Sleeper 2+1 Gets Two Decks", func(t *testing.T) {
		layout, err := ParseSeatLayout("2+1", "sleeper")
		require.NoError(t, err)
		assert.Equal(t, 2, layout.Decks)
		assert.Equal(t, 3, layout.Columns())
	})

	t.Run("AC Sleeper 1+1+1", func(t *testing.T) {
		layout, err := ParseSeatLayout("1+1+1", "ac-sleeper")
		require.NoError(t, err)
		assert.Equal(t, 1, layout.LeftColumns)
		assert.Equal(t, 2, layout.RightColumns)
		assert.Equal(t, 2, layout.Decks)
	})

	t.Run("Single Group Rejected", func(t *testing.T) {
		_, err := ParseSeatLayout("4", "seater")
		assert.Error(t, err)
	})

	t.Run("Non Numeric Group Rejected", func(t *testing.T) {
		_, err := ParseSeatLayout("2+x", "seater")
		assert.Error(t, err)
	})

	t.Run("Oversized Group Rejected", func(t *testing.T) {
		_, err := ParseSeatLayout("4+2", "seater")
		assert.Error(t, err)
	})

	t.Run("Too Many Columns Rejected", func(t *testing.T) {
		_, err := ParseSeatLayout("3+3", "seater")
		assert.Error(t, err)
	})
}

func TestSeatLabel(t *testing.T) {
	layout, err := ParseSeatLayout("2+2", "seater")
	require.NoError(t, err)

	assert.Equal(t, "A3", layout.SeatLabel(0, 3))
	assert.Equal(t, "D10", layout.SeatLabel(3, 10))
}
