package mines

import (
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"
)

var Log *slog.Logger = slog.Default()

type Config struct {
	Width     int `json:"w"`
	Height    int `json:"h"`
	MineCount int `json:"m"`
}

var DefaultConfig = Config{Width: 9, Height: 9, MineCount: 10}

func (c Config) Size() int {
	return c.Width * c.Height
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.MineCount < 0 || c.MineCount >= c.Size() {
		return &InvalidConfigError{c}
	}
	return nil
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Cell struct {
	Index int
	Mine  bool
	Open  bool
	Mark  bool
	Boom  bool

	adjacent int8 // -1 until computed
}

// AdjacentMines returns the cached number of mined neighbours. ok is false
// until the cell has been opened.
func (c Cell) AdjacentMines() (n int, ok bool) {
	return int(c.adjacent), c.adjacent >= 0
}

func (c *Cell) reset() {
	c.Open, c.Mark, c.Boom = false, false, false
}

// Board is a single mine-clearing game. It is not safe for concurrent use;
// the host serializes calls.
type Board struct {
	state     State
	config    Config
	cells     []Cell
	mines     []int
	marks     map[int]struct{}
	siblings  map[int][]int
	remaining int
	timer     timer

	rnd    *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

type Option func(*Board)

func WithRand(r *rand.Rand) Option {
	return func(b *Board) { b.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// New returns an empty board. Call [Board.Init] or [Board.Load] before
// operating on it.
func New(opts ...Option) *Board {
	b := &Board{
		marks:    make(map[int]struct{}),
		siblings: make(map[int][]int),
		rnd:      createRand(),
		now:      time.Now,
		logger:   Log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Init resets the board to [Ready] for a new game of the given size. The
// cell grid and the adjacency cache survive when the dimensions are unchanged.
func (b *Board) Init(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Width != b.config.Width || c.Height != b.config.Height {
		clear(b.siblings)
		b.cells = make([]Cell, c.Size())
		for i := range b.cells {
			b.cells[i] = Cell{Index: i, adjacent: -1}
		}
	} else {
		for i := range b.cells {
			b.cells[i].reset()
			b.cells[i].Mine = false
			b.cells[i].adjacent = -1
		}
	}

	b.config = c
	b.mines = b.mines[:0]
	clear(b.marks)
	b.remaining = c.Size() - c.MineCount
	b.timer = timer{}
	b.state = Ready

	b.logger.Debug("board initialized", "config", c)
	return nil
}

// Restart replays the current layout from scratch: every cell is closed and
// unmarked again, mines stay where they are.
func (b *Board) Restart() {
	if b.state == Ready {
		return
	}
	for i := range b.cells {
		b.cells[i].reset()
	}
	clear(b.marks)
	b.remaining = b.config.Size() - b.config.MineCount
	b.timer = timer{start: b.now()}
	b.state = Playing

	b.logger.Debug("board restarted", "config", b.config)
}

func (b *Board) State() State {
	return b.state
}

func (b *Board) Config() Config {
	return b.config
}

// Remaining is the number of safe cells still closed. Opening a mine ends the
// game without changing it, so on a lost board it still counts the safe
// cells that were left.
func (b *Board) Remaining() int {
	return b.remaining
}

// FlagsLeft is the mine count minus the number of marks. It goes negative
// when the player over-flags.
func (b *Board) FlagsLeft() int {
	return b.config.MineCount - len(b.marks)
}

func (b *Board) Elapsed() time.Duration {
	return b.timer.elapsed(b.now())
}

func (b *Board) InBounds(index int) bool {
	return 0 <= index && index < len(b.cells)
}

func (b *Board) Index(p Position) int {
	return p.Y*b.config.Width + p.X
}

// Position returns the zero Position before the board is initialised.
func (b *Board) Position(index int) Position {
	if b.config.Width == 0 {
		return Position{}
	}
	return Position{X: index % b.config.Width, Y: index / b.config.Width}
}

// ValidatePosition reports whether p lies on the board.
func (b *Board) ValidatePosition(p Position) bool {
	return 0 <= p.X && p.X < b.config.Width && 0 <= p.Y && p.Y < b.config.Height
}

func (b *Board) Cell(index int) (Cell, bool) {
	if !b.InBounds(index) {
		return Cell{}, false
	}
	return b.cells[index], true
}

// Cells returns a copy of the grid in index order.
func (b *Board) Cells() []Cell {
	return slices.Clone(b.cells)
}

func (b *Board) Mines() []int {
	mines := slices.Clone(b.mines)
	slices.Sort(mines)
	return mines
}

func (b *Board) Marks() []int {
	marks := make([]int, 0, len(b.marks))
	for i := range b.marks {
		marks = append(marks, i)
	}
	slices.Sort(marks)
	return marks
}

// Highlighted lists the cells a press on index would act upon: nothing for a
// marked cell, the cell itself while closed, its closed unmarked neighbours
// once open.
func (b *Board) Highlighted(index int) []int {
	if !b.InBounds(index) {
		return nil
	}
	cell := b.cells[index]
	if cell.Mark {
		return nil
	}
	if !cell.Open {
		return []int{index}
	}
	var res []int
	for _, j := range b.Siblings(index) {
		if !b.cells[j].Open && !b.cells[j].Mark {
			res = append(res, j)
		}
	}
	return res
}

// setMark keeps the mark flag and the mark index in lockstep.
func (b *Board) setMark(index int, mark bool) {
	b.cells[index].Mark = mark
	if mark {
		b.marks[index] = struct{}{}
	} else {
		delete(b.marks, index)
	}
}

func (b *Board) setState(s State) {
	if b.state == s {
		return
	}
	b.logger.Debug("board state changed",
		slog.String("from", b.state.String()),
		slog.String("to", s.String()),
	)
	b.state = s
}
