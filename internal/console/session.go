// Package console drives a board from line-oriented text commands.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/journal"
	"github.com/vancomm/minesweeper-engine/internal/metrics"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/saves"
)

type Session struct {
	board       *mines.Board
	settings    mines.Settings
	store       saves.Store
	journal     *journal.Journal
	metrics     *metrics.Metrics
	metricsFile string
	out         io.Writer
	logger      *slog.Logger
}

type Params struct {
	Board       *mines.Board
	Settings    mines.Settings
	Store       saves.Store
	Journal     *journal.Journal
	Metrics     *metrics.Metrics
	MetricsFile string
	Out         io.Writer
	Logger      *slog.Logger
}

// NewSession fills missing collaborators with ones that do nothing.
func NewSession(p Params) (*Session, error) {
	s := &Session{
		board:       p.Board,
		settings:    p.Settings,
		store:       p.Store,
		journal:     p.Journal,
		metrics:     p.Metrics,
		metricsFile: p.MetricsFile,
		out:         p.Out,
		logger:      p.Logger,
	}
	if s.board == nil {
		s.board = mines.New()
		if err := s.board.Init(mines.DefaultConfig); err != nil {
			return nil, err
		}
	}
	if s.store == nil {
		s.store = saves.Discard{}
	}
	if s.journal == nil {
		j, err := journal.New("")
		if err != nil {
			return nil, err
		}
		s.journal = j
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Session) Board() *mines.Board {
	return s.board
}

// Run executes commands from in until quit, end of input or ctx is done.
// Command errors are printed and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				scanErr <- ctx.Err()
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			if err := s.ExecLine(ctx, line); errors.Is(err, ErrQuit) {
				return nil
			}
			s.prompt()
		}
	}
}

func (s *Session) prompt() {
	fmt.Fprint(s.out, "> ")
}

// ExecLine runs every ;-separated command on line, printing errors. It stops
// early only on quit.
func (s *Session) ExecLine(ctx context.Context, line string) error {
	for _, c := range byPiece(line, ";") {
		err := s.Exec(ctx, c)
		if errors.Is(err, ErrQuit) {
			return err
		}
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
	}
	return nil
}

// Exec runs a single command.
func (s *Session) Exec(ctx context.Context, line string) error {
	cmd, err := parseCommand(line)
	if err != nil || cmd.name == "" {
		return err
	}

	switch cmd.name {
	case "new":
		c, err := parseNewGame(cmd.args, s.board.Config())
		if err != nil {
			return err
		}
		if err := s.board.Init(c); err != nil {
			return err
		}
		s.journal.NewGame(c)
		return s.show()
	case "click", "rclick":
		action, chord := s.settings.PrimaryAction(), true
		if cmd.name == "rclick" {
			action, chord = s.settings.SecondaryAction(), s.settings.AutoChord
		}
		return s.move(ctx, cmd.args, action, chord)
	case "restart":
		s.board.Restart()
		return s.show()
	case "save":
		if err := s.store.Save(ctx, cmd.args[0], s.board.Dump()); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "saved %s\n", cmd.args[0])
		return nil
	case "load":
		return s.load(ctx, cmd.args[0])
	case "rm":
		return s.store.Delete(ctx, cmd.args[0])
	case "ls":
		slots, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		for _, slot := range slots {
			fmt.Fprintln(s.out, slot)
		}
		return nil
	case "best":
		return s.best(ctx)
	case "show":
		return s.show()
	case "help":
		_, err := io.WriteString(s.out, help)
		return err
	case "quit", "q":
		return ErrQuit
	}
	return s.move(ctx, cmd.args, cmd.action, cmd.action != mines.OpenAround && s.settings.AutoChord)
}

func (s *Session) show() error {
	return Render(s.out, s.board)
}

func (s *Session) move(ctx context.Context, args []string, action mines.Action, chord bool) error {
	p, err := parseXY(args)
	if err != nil {
		return err
	}
	if !s.board.ValidatePosition(p) {
		return ErrOutOfBounds
	}

	index := s.board.Index(p)
	before := s.board.State()
	changed := s.board.Operate(index, action, chord)
	after := s.board.State()

	s.journal.Move(index, action, after, changed)
	s.metrics.Observe(action, changed, before, after)

	if !before.Over() && after.Over() {
		s.finish(ctx, after)
	}
	if !changed {
		return nil
	}
	return s.show()
}

// finish runs once per game, on the move that ends it.
func (s *Session) finish(ctx context.Context, state mines.State) {
	elapsed := s.board.Elapsed()
	s.journal.GameOver(state, elapsed)

	if rec, ok := s.store.(saves.Recorder); ok {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		err := rec.Record(ctx, s.board.Config(), state == mines.Won, elapsed.Milliseconds())
		if err != nil {
			s.logger.Error("failed to record game", "error", err)
		}
	}
	if err := s.metrics.Flush(s.metricsFile); err != nil {
		s.logger.Error("failed to write metrics", "error", err)
	}
}

func (s *Session) load(ctx context.Context, slot string) error {
	snap, err := s.store.Load(ctx, slot)
	if err != nil {
		return err
	}
	if err := s.board.Load(snap); err != nil {
		return err
	}
	return s.show()
}

func (s *Session) best(ctx context.Context) error {
	rec, ok := s.store.(saves.Recorder)
	if !ok {
		return errors.New("the save backend does not keep records")
	}
	durations, err := rec.Best(ctx, s.board.Config(), 10)
	if err != nil {
		return err
	}
	if len(durations) == 0 {
		fmt.Fprintln(s.out, "no wins yet")
	}
	for i, ms := range durations {
		fmt.Fprintf(s.out, "%2d. %v\n", i+1, time.Duration(ms)*time.Millisecond)
	}
	return nil
}
