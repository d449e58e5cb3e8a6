package board

import (
	"fmt"
	"strconv"
)

type CellStatus int8

const (
	Unknown CellStatus = iota + 1
	NoMine
	Mine
	Invalid  // never stored, returned for out-of-bounds reads
	Numbered // revealed with at least one adjacent mine
)

func (s CellStatus) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case NoMine:
		return "no_mine"
	case Mine:
		return "mine"
	case Invalid:
		return "invalid"
	case Numbered:
		return "numbered"
	default:
		return "CellStatus(" + strconv.Itoa(int(s)) + ")"
	}
}

// Revealed reports whether the player has uncovered a cell with this status.
func (s CellStatus) Revealed() bool {
	return s == NoMine || s == Numbered
}

type State int8

const (
	NotStarted State = iota
	InProgress
	Lost
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Lost:
		return "lost"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for _, v := range []State{NotStarted, InProgress, Lost} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown board state %q", text)
}
