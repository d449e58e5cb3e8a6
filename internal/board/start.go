package board

type RenderCell struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Mine bool `json:"mine"`
}

// RenderModel is the initial layout handed to the presentation layer. Mine
// flags are included, hiding them is up to the presenter.
type RenderModel struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	InProgress bool         `json:"in_progress"`
	Cells      []RenderCell `json:"cells"` // row-major
}

// Start discards any previous game, places the mines and returns the initial
// render model.
func (b *Board) Start(r Rand) RenderModel {
	b.cells = make([]CellStatus, b.width*b.height)
	for i := range b.cells {
		b.cells[i] = Unknown
	}
	b.gameOver = false
	b.triggered = nil

	b.placeMines(r)

	return b.renderModel()
}

func (b *Board) placeMines(r Rand) {
	for range b.mineCount {
		x := r.IntN(b.width)
		y := r.IntN(b.height)

		/*
		 * Occupied: walk forward in row-major order, wrapping at the right
		 * and bottom edges, until a free cell turns up.
		 */
		for b.IsMineAt(x, y) {
			x++
			if x >= b.width {
				x = 0
				y++
				if y >= b.height {
					y = 0
				}
			}
		}

		b.setCellStatus(x, y, Mine)
	}
}

func (b *Board) renderModel() RenderModel {
	cells := make([]RenderCell, 0, b.width*b.height)
	for y := range b.height {
		for x := range b.width {
			cells = append(cells, RenderCell{X: x, Y: y, Mine: b.IsMineAt(x, y)})
		}
	}
	return RenderModel{
		Width:      b.width,
		Height:     b.height,
		InProgress: b.State() == InProgress,
		Cells:      cells,
	}
}
