package handlers

import (
	"errors"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/mineboard/internal/board"
)

type wsCommand string

const (
	wsView    wsCommand = "g"
	wsReveal  wsCommand = "o"
	wsRestart wsCommand = "s"
)

// Maps known commands to number of arguments
var commandNargs = map[wsCommand]int{
	wsView:    0,
	wsReveal:  2,
	wsRestart: 0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadNargs       = errors.New("invalid number of arguments")
)

func iterBySep(s string, sep string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, sep)
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = errors.New("first argument must be an int")
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = errors.New("second argument must be an int")
		return
	}
	return
}

type command struct {
	name wsCommand
	x, y int
}

func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, ErrUnknownCommand
	}
	name := wsCommand(parts[0])
	nargs, ok := commandNargs[name]
	if !ok {
		return command{}, ErrUnknownCommand
	}
	if nargs != len(parts)-1 {
		return command{}, ErrBadNargs
	}
	c := command{name: name}
	if name == wsReveal {
		x, y, err := parseXY(parts[1:])
		if err != nil {
			return command{}, err
		}
		c.x, c.y = x, y
	}
	return c, nil
}

// WSReply answers one websocket message, however many command lines it held.
type WSReply struct {
	Outcomes []board.Outcome   `json:"outcomes,omitempty"`
	Board    *board.RenderModel `json:"board,omitempty"`
	View     *board.View        `json:"view,omitempty"`
	Error    string             `json:"error,omitempty"`
}
