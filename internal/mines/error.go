package mines

import "fmt"

// InvalidConfigError is returned by [Board.Init] for a configuration that can
// never produce a playable board.
type InvalidConfigError struct {
	Config Config
}

// [InvalidConfigError] implements [error]
func (e *InvalidConfigError) Error() string {
	c := e.Config
	switch {
	case c.Width <= 0:
		return fmt.Sprintf("invalid board width %d", c.Width)
	case c.Height <= 0:
		return fmt.Sprintf("invalid board height %d", c.Height)
	default:
		return fmt.Sprintf(
			"invalid mine count %d for %dx%d board (must be in [0, %d))",
			c.MineCount, c.Width, c.Height, c.Width*c.Height,
		)
	}
}

// MalformedSaveError is returned by [Board.Load] when a snapshot does not
// describe a board its own config can hold.
type MalformedSaveError struct {
	Reason string
	Index  int
}

// [MalformedSaveError] implements [error]
func (e *MalformedSaveError) Error() string {
	if e.Index < 0 {
		return "malformed save: " + e.Reason
	}
	return fmt.Sprintf("malformed save: %s (cell %d)", e.Reason, e.Index)
}
