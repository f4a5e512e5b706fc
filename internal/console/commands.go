package console

import (
	"errors"
	"fmt"
	"iter"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNargs          = errors.New("invalid number of arguments")
	ErrOutOfBounds    = errors.New("invalid square coordinates")
)

var decoder = schema.NewDecoder()

// Maps known commands to number of arguments, -1 meaning any
var commandNargs = map[string]int{
	"new":     -1,
	"click":   2,
	"rclick":  2,
	"restart": 0,
	"save":    1,
	"load":    1,
	"rm":      1,
	"ls":      0,
	"best":    0,
	"show":    0,
	"help":    0,
	"quit":    0,
	"q":       0,
}

const help = `commands:
  new [width=W height=H mine_count=M]  start a new board
  o X Y | open X Y                     open a cell
  f X Y | mark X Y                     toggle a flag
  c X Y | chord X Y                    open around a numbered cell
  click X Y, rclick X Y                primary and secondary button
  restart                              replay the same mines
  save SLOT, load SLOT, rm SLOT, ls    saved games
  best                                 fastest wins on this board size
  show, help, quit
`

type command struct {
	name   string
	args   []string
	action mines.Action
}

// parseCommand splits a line into a command. Move verbs accepted by
// [mines.ParseAction] are resolved to their action.
func parseCommand(line string) (command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return command{}, nil
	}
	cmd := command{name: strings.ToLower(parts[0]), args: parts[1:]}

	nargs, ok := commandNargs[cmd.name]
	if !ok {
		action, err := mines.ParseAction(cmd.name)
		if err != nil {
			return command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
		}
		cmd.action = action
		nargs = 2
	}
	if nargs >= 0 && nargs != len(cmd.args) {
		return command{}, fmt.Errorf("%s: %w", cmd.name, ErrNargs)
	}
	return cmd, nil
}

func parseXY(twoStrings []string) (p mines.Position, err error) {
	if p.X, err = strconv.Atoi(twoStrings[0]); err != nil {
		return p, errors.New("first argument must be an int")
	}
	if p.Y, err = strconv.Atoi(twoStrings[1]); err != nil {
		return p, errors.New("second argument must be an int")
	}
	return p, nil
}

type newGameParams struct {
	Width     int `schema:"width"`
	Height    int `schema:"height"`
	MineCount int `schema:"mine_count"`
}

// parseNewGame reads key=value pairs over the defaults in base.
func parseNewGame(args []string, base mines.Config) (mines.Config, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return base, fmt.Errorf("argument %q is not key=value", arg)
		}
		values.Set(key, value)
	}
	params := newGameParams(base)
	if err := decoder.Decode(&params, values); err != nil {
		return base, err
	}
	return mines.Config(params), nil
}

// byPiece yields the pieces of s between separators, empty ones included.
func byPiece(s string, sep string) iter.Seq2[int, string] {
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
