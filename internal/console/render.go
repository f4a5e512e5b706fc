package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func cellRune(c mines.Cell) byte {
	switch {
	case !c.Open && c.Mark:
		return 'F'
	case !c.Open:
		return '.'
	case c.Boom:
		return 'X'
	case c.Mine && c.Mark:
		return 'F'
	case c.Mine:
		return '*'
	case c.Mark:
		return '!'
	}
	n, _ := c.AdjacentMines()
	if n == 0 {
		return ' '
	}
	return byte('0' + n)
}

// Render draws the board one row per line followed by a status line.
//
//	. closed   F flag   * mine   X exploded mine   ! wrong flag
func Render(w io.Writer, b *mines.Board) error {
	var sb strings.Builder
	width := b.Config().Width
	for i, c := range b.Cells() {
		sb.WriteByte(cellRune(c))
		if (i+1)%width == 0 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	fmt.Fprintf(&sb, "%s, flags left %d, %ds\n",
		b.State(), b.FlagsLeft(), int(b.Elapsed().Seconds()))
	_, err := io.WriteString(w, sb.String())
	return err
}
