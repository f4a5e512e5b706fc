package console

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/metrics"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/saves"
)

var small = mines.Config{Width: 3, Height: 3, MineCount: 2}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

// newBoard lays out small with mines in the corners 0 and 8, plus any extra
// bits for other cells.
func newBoard(t *testing.T, cells ...mines.CellBits) (*mines.Board, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := mines.New(mines.WithRand(rand.New(rand.NewPCG(1, 2))), mines.WithClock(clock.Now))
	bits := map[int]int{0: 2, 8: 2}
	for _, c := range cells {
		bits[c.Index] |= c.Bitmask
	}
	snap := mines.Snapshot{Board: small}
	for i := range small.Size() {
		if bits[i] != 0 {
			snap.Cells = append(snap.Cells, mines.CellBits{Index: i, Bitmask: bits[i]})
		}
	}
	require.NoError(t, b.Load(snap))
	return b, clock
}

type recordingStore struct {
	saves.Discard
	won       []bool
	durations []int64
}

func (r *recordingStore) Record(_ context.Context, _ mines.Config, won bool, ms int64) error {
	r.won = append(r.won, won)
	r.durations = append(r.durations, ms)
	return nil
}

func (r *recordingStore) Best(context.Context, mines.Config, int) ([]int64, error) {
	return r.durations, nil
}

func newTestSession(t *testing.T, p Params) (*Session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	p.Out = &out
	s, err := NewSession(p)
	require.NoError(t, err)
	return s, &out
}

func TestParseCommand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line   string
		name   string
		action mines.Action
		err    error
	}{
		{"", "", 0, nil},
		{"   ", "", 0, nil},
		{"o 1 2", "o", mines.Open, nil},
		{"OPEN 1 2", "open", mines.Open, nil},
		{"flag 0 0", "flag", mines.Mark, nil},
		{"c 1 1", "c", mines.OpenAround, nil},
		{"openAround 1 1", "openaround", mines.OpenAround, nil},
		{"new width=3 height=3", "new", 0, nil},
		{"new", "new", 0, nil},
		{"save a", "save", 0, nil},
		{"o 1", "", 0, ErrNargs},
		{"save", "", 0, ErrNargs},
		{"quit now", "", 0, ErrNargs},
		{"dance", "", 0, ErrUnknownCommand},
	}
	for _, test := range tests {
		cmd, err := parseCommand(test.line)
		if test.err != nil {
			assert.ErrorIs(t, err, test.err, test.line)
			continue
		}
		require.NoError(t, err, test.line)
		assert.Equal(t, test.name, cmd.name, test.line)
		assert.Equal(t, test.action, cmd.action, test.line)
	}
}

func TestByPiece(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		input string
		sep   string
		array []string
	}{
		{"o 1 1; f 2 2;show", ";", []string{"o 1 1", " f 2 2", "show"}},
		{"show", ";", []string{"show"}},
		{"a;;b;", ";", []string{"a", "", "b", ""}},
	}
	for _, test := range testCases {
		var pieces []string
		for i, p := range byPiece(test.input, test.sep) {
			assert.Equal(t, len(pieces), i)
			pieces = append(pieces, p)
		}
		assert.Equal(t, test.array, pieces, test.input)
	}

	for i := range byPiece("a;b;c", ";") {
		if i == 1 {
			break
		}
	}
}

func TestParseXY(t *testing.T) {
	t.Parallel()
	p, err := parseXY([]string{"4", "7"})
	require.NoError(t, err)
	assert.Equal(t, mines.Position{X: 4, Y: 7}, p)

	_, err = parseXY([]string{"a", "7"})
	assert.Error(t, err)
	_, err = parseXY([]string{"4", "b"})
	assert.Error(t, err)
}

func TestParseNewGame(t *testing.T) {
	t.Parallel()
	c, err := parseNewGame(nil, mines.DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, mines.DefaultConfig, c)

	c, err = parseNewGame([]string{"width=16", "mine_count=40"}, mines.DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, mines.Config{Width: 16, Height: 9, MineCount: 40}, c)

	for _, args := range [][]string{{"width=wide"}, {"depth=3"}, {"width"}} {
		_, err := parseNewGame(args, mines.DefaultConfig)
		assert.Error(t, err, args)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()
	b, _ := newBoard(t, mines.CellBits{Index: 0, Bitmask: 4}, mines.CellBits{Index: 4, Bitmask: 1})

	var out strings.Builder
	require.NoError(t, Render(&out, b))
	assert.Equal(t, "F . .\n. 2 .\n. . .\nplaying, flags left 1, 0s\n", out.String())

	b.Operate(8, mines.Open, false)
	out.Reset()
	require.NoError(t, Render(&out, b))
	assert.Equal(t, "F . .\n. 2 .\n. . X\nlost, flags left 1, 0s\n", out.String())
}

func TestRenderWrongFlag(t *testing.T) {
	t.Parallel()
	b, _ := newBoard(t, mines.CellBits{Index: 1, Bitmask: 4})
	b.Operate(0, mines.Open, false)

	var out strings.Builder
	require.NoError(t, Render(&out, b))
	assert.Equal(t, "X ! .\n. . .\n. . *\nlost, flags left 1, 0s\n", out.String())
}

func TestSessionWinIsRecorded(t *testing.T) {
	t.Parallel()
	b, clock := newBoard(t)
	store := &recordingStore{}
	m := metrics.New()
	s, out := newTestSession(t, Params{Board: b, Store: store, Metrics: m, Settings: mines.DefaultSettings})

	ctx := context.Background()
	require.NoError(t, s.ExecLine(ctx, "o 2 0"))
	clock.now = clock.now.Add(2500 * time.Millisecond)
	require.NoError(t, s.ExecLine(ctx, "o 0 2"))

	assert.Equal(t, mines.Won, b.State())
	assert.Equal(t, []bool{true}, store.won)
	assert.Equal(t, []int64{2500}, store.durations)
	assert.Contains(t, out.String(), "F 1  \n1 2 1\n  1 F\nwon, flags left 0, 2s\n")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("open", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GamesStarted))

	// finished boards ignore moves and do not record twice
	require.NoError(t, s.ExecLine(ctx, "o 1 1"))
	assert.Len(t, store.won, 1)

	out.Reset()
	require.NoError(t, s.ExecLine(ctx, "best"))
	assert.Contains(t, out.String(), "1. 2.5s")
}

func TestSessionSaveLoad(t *testing.T) {
	t.Parallel()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	store, err := saves.NewSQLite(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	b, _ := newBoard(t, mines.CellBits{Index: 4, Bitmask: 1})
	s, out := newTestSession(t, Params{Board: b, Store: store})
	ctx := context.Background()

	require.NoError(t, s.ExecLine(ctx, "save one; ls"))
	assert.Contains(t, out.String(), "saved one\none\n")

	require.NoError(t, s.ExecLine(ctx, "o 2 2"))
	assert.Equal(t, mines.Lost, b.State())

	require.NoError(t, s.ExecLine(ctx, "load one"))
	assert.Equal(t, mines.Playing, b.State())
	assert.Equal(t, 6, b.Remaining())

	out.Reset()
	require.NoError(t, s.ExecLine(ctx, "rm one; ls; load one"))
	assert.Equal(t, "error: "+saves.ErrNotFound.Error()+"\n", out.String())

	out.Reset()
	require.NoError(t, s.ExecLine(ctx, "save ../etc"))
	assert.Contains(t, out.String(), "error: bad save slot name")
}

type fixedStore struct {
	saves.Discard
	snap mines.Snapshot
}

func (f fixedStore) Load(context.Context, string) (mines.Snapshot, error) {
	return f.snap, nil
}

func TestSessionBadLoadKeepsGame(t *testing.T) {
	t.Parallel()
	b, _ := newBoard(t, mines.CellBits{Index: 4, Bitmask: 1}, mines.CellBits{Index: 0, Bitmask: 4})
	corrupt := mines.Snapshot{Board: small, Cells: []mines.CellBits{{Index: 99, Bitmask: 2}}}
	s, out := newTestSession(t, Params{Board: b, Store: fixedStore{snap: corrupt}})

	require.NoError(t, s.ExecLine(context.Background(), "load broken; show"))
	assert.Contains(t, out.String(), "error: malformed save")
	assert.True(t, strings.HasSuffix(out.String(), "F . .\n. 2 .\n. . .\nplaying, flags left 1, 0s\n"))
	assert.Equal(t, mines.Playing, b.State())
	assert.Equal(t, 6, b.Remaining())
}

func TestSessionNewGame(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t, Params{})
	ctx := context.Background()

	require.NoError(t, s.ExecLine(ctx, "new width=4 height=2 mine_count=1"))
	assert.Equal(t, mines.Config{Width: 4, Height: 2, MineCount: 1}, s.Board().Config())
	assert.Equal(t, mines.Ready, s.Board().State())
	assert.Equal(t, ". . . .\n. . . .\nready, flags left 1, 0s\n", out.String())

	out.Reset()
	require.NoError(t, s.ExecLine(ctx, "new mine_count=8"))
	assert.Contains(t, out.String(), "error:")
	assert.Equal(t, mines.Config{Width: 4, Height: 2, MineCount: 1}, s.Board().Config())
}

func TestSessionClickMapping(t *testing.T) {
	t.Parallel()
	board := mines.New(mines.WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, board.Init(mines.DefaultConfig))
	s, _ := newTestSession(t, Params{Board: board, Settings: mines.Settings{OpenFirst: false}})
	ctx := context.Background()

	require.NoError(t, s.ExecLine(ctx, "click 0 0"))
	assert.Equal(t, mines.Playing, board.State())
	assert.Equal(t, []int{0}, board.Marks())

	require.NoError(t, s.ExecLine(ctx, "click 0 0"))
	assert.Empty(t, board.Marks())

	require.NoError(t, s.ExecLine(ctx, "rclick 4 4"))
	cell, _ := board.Cell(board.Index(mines.Position{X: 4, Y: 4}))
	assert.True(t, cell.Open)
}

func TestSessionRestart(t *testing.T) {
	t.Parallel()
	b, _ := newBoard(t)
	s, _ := newTestSession(t, Params{Board: b})
	ctx := context.Background()

	require.NoError(t, s.ExecLine(ctx, "o 0 0"))
	require.Equal(t, mines.Lost, b.State())
	require.NoError(t, s.ExecLine(ctx, "restart"))
	assert.Equal(t, mines.Playing, b.State())
	assert.Equal(t, []int{0, 8}, b.Mines())
}

func TestSessionErrors(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t, Params{})
	ctx := context.Background()

	require.NoError(t, s.ExecLine(ctx, "o 9 9; dance; o x 1; best; show"))
	text := out.String()
	assert.Contains(t, text, "error: "+ErrOutOfBounds.Error())
	assert.Contains(t, text, "error: unknown command \"dance\"")
	assert.Contains(t, text, "error: first argument must be an int")
	assert.Contains(t, text, "does not keep records")
	assert.True(t, strings.HasSuffix(text, "ready, flags left 10, 0s\n"))

	out.Reset()
	require.NoError(t, s.ExecLine(ctx, "help"))
	assert.Contains(t, out.String(), "commands:")
}

func TestRun(t *testing.T) {
	t.Parallel()
	s, out := newTestSession(t, Params{})
	err := s.Run(context.Background(), strings.NewReader("show\nquit\nshow\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out.String(), "ready, flags left"))

	out.Reset()
	require.NoError(t, s.Run(context.Background(), strings.NewReader("show")))
	assert.Equal(t, 1, strings.Count(out.String(), "ready, flags left"))
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, Params{})
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, r) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
