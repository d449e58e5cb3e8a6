package board

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid board configuration")

// Rand is the source of mine positions. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Board struct {
	width, height, mineCount int

	cells     []CellStatus // nil until Start
	gameOver  bool
	triggered *Point
}

func New(width, height, mineCount int) (*Board, error) {
	if err := Validate(width, height, mineCount); err != nil {
		return nil, err
	}
	b := &Board{
		width:     width,
		height:    height,
		mineCount: mineCount,
	}
	return b, nil
}

// Validate checks a configuration without building a board. Mine placement
// only terminates while at least one cell stays free.
func Validate(width, height, mineCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive (width = %d, height = %d)",
			ErrInvalidConfig, width, height)
	}
	if width > math.MaxInt/height {
		return fmt.Errorf("%w: %dx%d cells overflow int", ErrInvalidConfig, width, height)
	}
	if mineCount < 0 {
		return fmt.Errorf("%w: negative mine count %d", ErrInvalidConfig, mineCount)
	}
	if mineCount >= width*height {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board",
			ErrInvalidConfig, mineCount, width, height)
	}
	return nil
}

func (b *Board) Width() int     { return b.width }
func (b *Board) Height() int    { return b.height }
func (b *Board) MineCount() int { return b.mineCount }
func (b *Board) GameOver() bool { return b.gameOver }

// Triggered returns the mine that ended the game, if any.
func (b *Board) Triggered() (Point, bool) {
	if b.triggered == nil {
		return Point{}, false
	}
	return *b.triggered, true
}

func (b *Board) State() State {
	switch {
	case b.cells == nil:
		return NotStarted
	case b.gameOver:
		return Lost
	default:
		return InProgress
	}
}

func (b *Board) IsValidCell(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) GetCellStatus(x, y int) CellStatus {
	if !b.IsValidCell(x, y) || b.cells == nil {
		return Invalid
	}
	return b.cells[y*b.width+x]
}

func (b *Board) setCellStatus(x, y int, status CellStatus) {
	if b.IsValidCell(x, y) {
		b.cells[y*b.width+x] = status
	}
}

func (b *Board) IsMineAt(x, y int) bool {
	return b.GetCellStatus(x, y) == Mine
}

// neighbours lists the eight surrounding positions in the order NW, N, NE, W,
// E, SW, S, SE. Positions may lie outside the board.
func neighbours(x, y int) [8]Point {
	return [8]Point{
		{x - 1, y - 1},
		{x, y - 1},
		{x + 1, y - 1},
		{x - 1, y},
		{x + 1, y},
		{x - 1, y + 1},
		{x, y + 1},
		{x + 1, y + 1},
	}
}

func (b *Board) AdjacentMines(x, y int) int {
	count := 0
	for _, p := range neighbours(x, y) {
		if b.IsMineAt(p.X, p.Y) {
			count++
		}
	}
	return count
}
