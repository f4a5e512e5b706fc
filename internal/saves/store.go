// Package saves keeps named board snapshots in one of several backends.
package saves

import (
	"context"
	"errors"
	"fmt"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	ErrBadName  = errors.New("bad save slot name")
	ErrNotFound = errors.New("save slot not found")
	ErrDisabled = errors.New("saving is disabled")
)

const maxNameLen = 64

type Store interface {
	// Save stores s under slot, replacing whatever was there.
	Save(ctx context.Context, slot string, s mines.Snapshot) error
	// Load returns [ErrNotFound] for an unknown slot.
	Load(ctx context.Context, slot string) (mines.Snapshot, error)
	// Delete does not fail when the slot is missing.
	Delete(ctx context.Context, slot string) error
	// List returns slot names in ascending order.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Recorder is implemented by stores that also keep finished games.
type Recorder interface {
	Record(ctx context.Context, c mines.Config, won bool, durationMs int64) error
	Best(ctx context.Context, c mines.Config, limit int) ([]int64, error)
}

func isNameChar(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' || c == '-' || c == '_'
}

// ValidName reports whether slot may be used as a save slot name: 1 to 64
// Latin letters, digits, dashes and underscores.
func ValidName(slot string) bool {
	if slot == "" || len(slot) > maxNameLen {
		return false
	}
	for _, c := range slot {
		if !isNameChar(c) {
			return false
		}
	}
	return true
}

func checkName(slot string) error {
	if !ValidName(slot) {
		return fmt.Errorf("%w: %q", ErrBadName, slot)
	}
	return nil
}

// Open connects the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Saves) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case config.SaveSQLite:
		store, err = OpenSQLite(cfg.SQLitePath)
	case config.SavePostgres:
		store, err = OpenPostgres(ctx)
	case config.SaveRedis:
		store, err = OpenRedis(ctx, cfg.Redis)
	case config.SaveNone:
		store = Discard{}
	default:
		err = fmt.Errorf("unknown save backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s saves: %w", cfg.Backend, err)
	}
	return store, nil
}

// Discard refuses every write and holds nothing.
type Discard struct{}

func (Discard) Save(context.Context, string, mines.Snapshot) error { return ErrDisabled }

func (Discard) Load(context.Context, string) (mines.Snapshot, error) {
	return mines.Snapshot{}, ErrDisabled
}

func (Discard) Delete(context.Context, string) error   { return ErrDisabled }
func (Discard) List(context.Context) ([]string, error) { return nil, nil }
func (Discard) Close() error                           { return nil }
