package board

import "fmt"

type OutcomeKind int8

const (
	Ignored OutcomeKind = iota
	Revealed
	MineTriggered
)

func (k OutcomeKind) String() string {
	switch k {
	case Revealed:
		return "revealed"
	case MineTriggered:
		return "mine_triggered"
	default:
		return "ignored"
	}
}

func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *OutcomeKind) UnmarshalText(text []byte) error {
	for _, v := range []OutcomeKind{Ignored, Revealed, MineTriggered} {
		if v.String() == string(text) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// RevealedCell tells the presentation layer to uncover one cell. A zero
// AdjacentMines renders blank.
type RevealedCell struct {
	X             int `json:"x"`
	Y             int `json:"y"`
	AdjacentMines int `json:"adjacent_mines"`
}

func (c RevealedCell) Empty() bool {
	return c.AdjacentMines == 0
}

type Outcome struct {
	Kind    OutcomeKind    `json:"kind"`
	Trigger *Point         `json:"trigger,omitempty"`
	Cells   []RevealedCell `json:"cells,omitempty"`
}

// Reveal uncovers the cell at x, y. Out-of-bounds coordinates, boards that
// were never started and finished games are left untouched.
func (b *Board) Reveal(x, y int) Outcome {
	if b.cells == nil || b.gameOver || !b.IsValidCell(x, y) {
		return Outcome{Kind: Ignored}
	}

	if b.IsMineAt(x, y) {
		b.gameOver = true
		b.triggered = &Point{x, y}
		return Outcome{Kind: MineTriggered, Trigger: &Point{x, y}}
	}

	cells := b.flood(x, y)
	if len(cells) == 0 {
		return Outcome{Kind: Ignored}
	}
	return Outcome{Kind: Revealed, Cells: cells}
}

// flood opens x, y and, through every zero cell it meets, the connected
// region behind it. Only Unknown cells are opened, so every cell is emitted
// at most once and the walk ends.
func (b *Board) flood(x, y int) []RevealedCell {
	var cells []RevealedCell

	todo := []Point{{x, y}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]

		if b.GetCellStatus(p.X, p.Y) != Unknown {
			continue
		}

		n := b.AdjacentMines(p.X, p.Y)
		cells = append(cells, RevealedCell{X: p.X, Y: p.Y, AdjacentMines: n})
		if n > 0 {
			b.setCellStatus(p.X, p.Y, Numbered)
			continue
		}

		b.setCellStatus(p.X, p.Y, NoMine)

		// pushed backwards so NW is visited first
		adj := neighbours(p.X, p.Y)
		for i := len(adj) - 1; i >= 0; i-- {
			if b.GetCellStatus(adj[i].X, adj[i].Y) == Unknown {
				todo = append(todo, adj[i])
			}
		}
	}

	return cells
}
