package mines

import (
	"fmt"
	"strings"
)

type State uint8

const (
	Ready State = iota
	Playing
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Over reports whether s is a terminal state.
func (s State) Over() bool {
	return s == Won || s == Lost
}

// [State] implements [encoding.TextMarshaler]
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Action uint8

const (
	Open Action = iota + 1
	Mark
	OpenAround
)

func (a Action) String() string {
	switch a {
	case Open:
		return "open"
	case Mark:
		return "mark"
	case OpenAround:
		return "openAround"
	default:
		return fmt.Sprintf("Action(%d)", uint8(a))
	}
}

var ErrBadAction = fmt.Errorf("action must be one of 'open', 'mark', 'openAround'")

func ParseAction(s string) (action Action, err error) {
	switch strings.ToLower(s) {
	case "open", "o":
		action = Open
	case "mark", "flag", "f":
		action = Mark
	case "openaround", "chord", "c":
		action = OpenAround
	default:
		err = ErrBadAction
	}
	return
}
