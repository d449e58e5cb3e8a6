package board

import (
	"fmt"
	"strconv"
	"strings"
)

// CellView is what the player knows about a cell.
type CellView int8

const (
	Hidden        CellView = -2
	TriggeredMine CellView = 65
	// 0-8 for revealed cells with given number of mined neighbours
)

func (v CellView) String() string {
	switch v {
	case Hidden:
		return "#"
	case TriggeredMine:
		return "*"
	case 0:
		return "."
	case 1, 2, 3, 4, 5, 6, 7, 8:
		return strconv.Itoa(int(v))
	default:
		return "!"
	}
}

type Grid []CellView

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			if x > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[y*width+x].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

type View struct {
	Width     int   `json:"width"`
	Height    int   `json:"height"`
	MineCount int   `json:"mine_count"`
	State     State `json:"state"`
	Grid      Grid  `json:"grid"` // row-major
}

func (v View) String() string {
	if v.Width == 0 {
		return ""
	}
	return v.Grid.ToString(v.Width)
}

// View hides every mine except the one that ended the game.
func (b *Board) View() View {
	grid := make(Grid, b.width*b.height)
	for y := range b.height {
		for x := range b.width {
			i := y*b.width + x
			switch b.GetCellStatus(x, y) {
			case NoMine:
				grid[i] = 0
			case Numbered:
				grid[i] = CellView(b.AdjacentMines(x, y))
			default:
				grid[i] = Hidden
			}
		}
	}
	if b.triggered != nil {
		grid[b.triggered.Y*b.width+b.triggered.X] = TriggeredMine
	}
	return View{
		Width:     b.width,
		Height:    b.height,
		MineCount: b.mineCount,
		State:     b.State(),
		Grid:      grid,
	}
}
