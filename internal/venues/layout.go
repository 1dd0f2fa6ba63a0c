package venues

import (
	"fmt"

	"github.com/google/uuid"

	"stagepass/internal/seats"
)

// Grid geometry. Coordinates are a logical canvas the client scales; the
// stage sits at the top and rows grow downward.
const (
	seatWidth     = 30.0
	seatHeight    = 30.0
	seatGapX      = 8.0
	seatGapY      = 12.0
	aisleGap      = 24.0
	rowLabelInset = 40.0
	stageHeight   = 60.0
	stageMarginY  = 40.0
)

// GridSpec describes one rectangular block of seats to generate.
type GridSpec struct {
	RowStart    byte
	RowEnd      byte
	SeatsPerRow int
	AisleAfter  []int
	OriginY     float64
	Price       float64
	VIP         bool
}

// RowCount returns how many row letters the spec spans, or an error when the
// range is inverted or not an uppercase letter pair.
func (g GridSpec) RowCount() (int, error) {
	if g.RowStart < 'A' || g.RowStart > 'Z' || g.RowEnd < 'A' || g.RowEnd > 'Z' {
		return 0, fmt.Errorf("row labels must be A-Z, got %q-%q", string(g.RowStart), string(g.RowEnd))
	}
	if g.RowEnd < g.RowStart {
		return 0, fmt.Errorf("row range %q-%q is inverted", string(g.RowStart), string(g.RowEnd))
	}
	return int(g.RowEnd-g.RowStart) + 1, nil
}

// Height returns the vertical extent of the generated block, used to stack
// the next section below this one.
func (g GridSpec) Height() float64 {
	rows, err := g.RowCount()
	if err != nil {
		return 0
	}
	return float64(rows) * (seatHeight + seatGapY)
}

// GenerateSeats produces the seat grid for one section. Every seat carries
// its render geometry so the layout endpoint never recomputes positions.
// Seat numbers are "<row><position>", e.g. "A1".
func GenerateSeats(eventID, sectionID uuid.UUID, spec GridSpec) ([]seats.Seat, error) {
	rows, err := spec.RowCount()
	if err != nil {
		return nil, err
	}
	if spec.SeatsPerRow <= 0 {
		return nil, fmt.Errorf("seats per row must be positive, got %d", spec.SeatsPerRow)
	}

	aisles := make(map[int]bool, len(spec.AisleAfter))
	for _, pos := range spec.AisleAfter {
		if pos >= spec.SeatsPerRow {
			return nil, fmt.Errorf("aisle after position %d exceeds row width %d", pos, spec.SeatsPerRow)
		}
		aisles[pos] = true
	}

	generated := make([]seats.Seat, 0, rows*spec.SeatsPerRow)
	for r := 0; r < rows; r++ {
		rowLabel := string(spec.RowStart + byte(r))
		y := spec.OriginY + stageHeight + stageMarginY + float64(r)*(seatHeight+seatGapY)

		x := rowLabelInset
		for pos := 1; pos <= spec.SeatsPerRow; pos++ {
			generated = append(generated, seats.Seat{
				EventID:    eventID,
				SectionID:  sectionID,
				Row:        rowLabel,
				SeatNumber: fmt.Sprintf("%s%d", rowLabel, pos),
				Position:   pos,
				X:          x,
				Y:          y,
				Width:      seatWidth,
				Height:     seatHeight,
				Price:      spec.Price,
				Status:     seats.StatusAvailable,
				VIP:        spec.VIP,
			})

			x += seatWidth + seatGapX
			if aisles[pos] {
				x += aisleGap
			}
		}
	}

	return generated, nil
}

// Stage returns the stage marker geometry sized to span the widest row.
func Stage(seatsPerRow int, aisleCount int) seats.StageGeometry {
	width := float64(seatsPerRow)*(seatWidth+seatGapX) + float64(aisleCount)*aisleGap
	return seats.StageGeometry{
		X:      rowLabelInset,
		Y:      0,
		Width:  width,
		Height: stageHeight,
		Label:  "STAGE",
	}
}
