package venues

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagepass/internal/seats"
)

func TestGenerateSeats(t *testing.T) {
	eventID := uuid.New()
	sectionID := uuid.New()

	t.Run("generates full grid with row labels and positions", func(t *testing.T) {
		generated, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'A',
			RowEnd:      'C',
			SeatsPerRow: 4,
			Price:       50,
		})
		require.NoError(t, err)
		require.Len(t, generated, 12)

		assert.Equal(t, "A", generated[0].Row)
		assert.Equal(t, "A1", generated[0].SeatNumber)
		assert.Equal(t, 1, generated[0].Position)
		assert.Equal(t, "C4", generated[11].SeatNumber)

		for _, seat := range generated {
			assert.Equal(t, eventID, seat.EventID)
			assert.Equal(t, sectionID, seat.SectionID)
			assert.Equal(t, seats.StatusAvailable, seat.Status)
			assert.Equal(t, 50.0, seat.Price)
		}
	})

	t.Run("seats in a row advance horizontally, rows advance vertically", func(t *testing.T) {
		generated, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'A',
			RowEnd:      'B',
			SeatsPerRow: 2,
		})
		require.NoError(t, err)
		require.Len(t, generated, 4)

		assert.Greater(t, generated[1].X, generated[0].X)
		assert.Equal(t, generated[0].Y, generated[1].Y)
		assert.Greater(t, generated[2].Y, generated[0].Y)
		assert.Equal(t, generated[0].X, generated[2].X)
	})

	t.Run("aisle widens the gap after the configured position", func(t *testing.T) {
		plain, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'A',
			RowEnd:      'A',
			SeatsPerRow: 4,
		})
		require.NoError(t, err)

		withAisle, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'A',
			RowEnd:      'A',
			SeatsPerRow: 4,
			AisleAfter:  []int{2},
		})
		require.NoError(t, err)

		assert.Equal(t, plain[1].X, withAisle[1].X)
		assert.Equal(t, plain[2].X+aisleGap, withAisle[2].X)
		assert.Equal(t, plain[3].X+aisleGap, withAisle[3].X)
	})

	t.Run("rejects inverted row range", func(t *testing.T) {
		_, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'D',
			RowEnd:      'A',
			SeatsPerRow: 4,
		})
		assert.Error(t, err)
	})

	t.Run("rejects non-letter row labels", func(t *testing.T) {
		_, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    '1',
			RowEnd:      '5',
			SeatsPerRow: 4,
		})
		assert.Error(t, err)
	})

	t.Run("rejects aisle beyond row width", func(t *testing.T) {
		_, err := GenerateSeats(eventID, sectionID, GridSpec{
			RowStart:    'A',
			RowEnd:      'A',
			SeatsPerRow: 4,
			AisleAfter:  []int{4},
		})
		assert.Error(t, err)
	})

	t.Run("origin offset shifts the whole block down", func(t *testing.T) {
		base, err := GenerateSeats(eventID, sectionID, GridSpec{RowStart: 'A', RowEnd: 'A', SeatsPerRow: 1})
		require.NoError(t, err)
		shifted, err := GenerateSeats(eventID, sectionID, GridSpec{RowStart: 'A', RowEnd: 'A', SeatsPerRow: 1, OriginY: 100})
		require.NoError(t, err)

		assert.Equal(t, base[0].Y+100, shifted[0].Y)
		assert.Equal(t, base[0].X, shifted[0].X)
	})
}

func TestGridSpecHeight(t *testing.T) {
	spec := GridSpec{RowStart: 'A', RowEnd: 'E', SeatsPerRow: 10}
	assert.Equal(t, 5*(seatHeight+seatGapY), spec.Height())

	inverted := GridSpec{RowStart: 'E', RowEnd: 'A'}
	assert.Zero(t, inverted.Height())
}

func TestStage(t *testing.T) {
	stage := Stage(10, 2)
	assert.Equal(t, "STAGE", stage.Label)
	assert.Equal(t, 10*(seatWidth+seatGapX)+2*aisleGap, stage.Width)
	assert.Equal(t, stageHeight, stage.Height)
}
