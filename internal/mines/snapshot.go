package mines

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const (
	bitOpen = 1 << iota
	bitMine
	bitMark
)

// CellBits is one sparse entry of a [Snapshot]: a cell index and its
// open/mine/mark bitmask. It encodes as a two element JSON array.
type CellBits struct {
	Index   int
	Bitmask int
}

// [CellBits] implements [json.Marshaler]
func (c CellBits) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Index, c.Bitmask})
}

// [CellBits] implements [json.Unmarshaler]
func (c *CellBits) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("cell entry must be an [index, bitmask] pair, got %d values", len(pair))
	}
	c.Index, c.Bitmask = pair[0], pair[1]
	return nil
}

// Snapshot is the persisted form of a board:
//
//	{"board":{"w":9,"h":9,"m":10},"cells":[[index,bitmask],...],"duration":1234}
//
// Bits are 1 open, 2 mine, 4 mark; cells with no bit set are omitted.
// Duration is in milliseconds.
type Snapshot struct {
	Board    Config     `json:"board"`
	Cells    []CellBits `json:"cells"`
	Duration int64      `json:"duration"`
}

func (s Snapshot) Elapsed() time.Duration {
	return time.Duration(s.Duration) * time.Millisecond
}

func DecodeSnapshot(buf []byte) (Snapshot, error) {
	var s Snapshot
	err := json.Unmarshal(buf, &s)
	return s, err
}

func (s Snapshot) Bytes() ([]byte, error) {
	return json.Marshal(s)
}

// Dump captures the board without changing it.
func (b *Board) Dump() Snapshot {
	cells := make([]CellBits, 0, len(b.mines)+len(b.marks))
	for _, c := range b.cells {
		bitmask := 0
		if c.Open {
			bitmask |= bitOpen
		}
		if c.Mine {
			bitmask |= bitMine
		}
		if c.Mark {
			bitmask |= bitMark
		}
		if bitmask > 0 {
			cells = append(cells, CellBits{c.Index, bitmask})
		}
	}
	return Snapshot{
		Board:    b.config,
		Cells:    cells,
		Duration: b.Elapsed().Milliseconds(),
	}
}

// Check validates s without touching any board.
func (s Snapshot) Check() error {
	if err := s.Board.Validate(); err != nil {
		return err
	}

	size := s.Board.Size()
	seen := make([]bool, size)
	mines := 0
	for _, c := range s.Cells {
		if c.Index < 0 || c.Index >= size {
			return &MalformedSaveError{"cell index out of range", c.Index}
		}
		if c.Bitmask < 0 || c.Bitmask > bitOpen|bitMine|bitMark {
			return &MalformedSaveError{fmt.Sprintf("invalid bitmask %d", c.Bitmask), c.Index}
		}
		if seen[c.Index] {
			return &MalformedSaveError{"duplicate cell", c.Index}
		}
		seen[c.Index] = true
		if c.Bitmask&bitMine != 0 {
			mines++
		}
	}
	if s.Duration < 0 {
		return &MalformedSaveError{"negative duration", -1}
	}
	// a board dumped before its first move has no mines yet
	if len(s.Cells) > 0 && mines != s.Board.MineCount {
		return &MalformedSaveError{
			fmt.Sprintf("%d mines stored, board expects %d", mines, s.Board.MineCount), -1,
		}
	}
	return nil
}

// Load restores a game from s and resumes its clock. A rejected snapshot
// leaves the board as it was.
//
// A snapshot without cells whose board expects mines comes from a game that
// never started: the board is left [Ready] with the stored duration, which
// keeps counting from the first move.
func (b *Board) Load(s Snapshot) error {
	if err := s.Check(); err != nil {
		return err
	}
	if err := b.Init(s.Board); err != nil {
		return err
	}
	if len(s.Cells) == 0 && s.Board.MineCount > 0 {
		b.timer = timer{duration: s.Elapsed()}
		return nil
	}

	var opened []int
	for _, c := range s.Cells {
		cell := &b.cells[c.Index]
		cell.Open = c.Bitmask&bitOpen != 0
		cell.Mine = c.Bitmask&bitMine != 0
		if cell.Mine {
			b.mines = append(b.mines, c.Index)
		}
		if c.Bitmask&bitMark != 0 {
			b.setMark(c.Index, true)
		}
		if cell.Open {
			opened = append(opened, c.Index)
			if !cell.Mine {
				b.remaining--
			}
		}
	}
	for _, i := range opened {
		b.adjacentMines(i)
	}

	b.timer = timer{duration: s.Elapsed(), start: b.now()}
	b.setState(Playing)

	b.logger.Debug("board loaded",
		slog.Any("config", s.Board),
		slog.Int("cells", len(s.Cells)),
		slog.Int("remaining", b.remaining),
	)
	return nil
}
