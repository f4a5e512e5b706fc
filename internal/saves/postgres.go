package saves

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/repository"
)

// Postgres stores snapshots in the save_slot table and finished games in
// game_record. Tables come from cmd/migrator.
type Postgres struct {
	pool *pgxpool.Pool
	repo *repository.Queries
}

func OpenPostgres(ctx context.Context) (*Postgres, error) {
	pool, err := database.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return NewPostgres(pool), nil
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, repo: repository.New(pool)}
}

// slotNameConstraint is the CHECK on save_slot.slot in the migrations.
const slotNameConstraint = "save_slot_name_check"

// mapError turns a violation of the slot name constraint into [ErrBadName]
// and missing rows into [ErrNotFound].
func mapError(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) &&
		pgErr.ConstraintName == slotNameConstraint:
		return fmt.Errorf("%w: %s", ErrBadName, pgErr.Message)
	}
	return err
}

func (p *Postgres) Save(ctx context.Context, slot string, snap mines.Snapshot) error {
	if err := checkName(slot); err != nil {
		return err
	}
	data, err := snap.Bytes()
	if err != nil {
		return err
	}
	_, err = p.repo.UpsertSaveSlot(ctx, repository.UpsertSaveSlotParams{
		Slot:       slot,
		Width:      snap.Board.Width,
		Height:     snap.Board.Height,
		MineCount:  snap.Board.MineCount,
		State:      data,
		DurationMs: snap.Duration,
	})
	return mapError(err)
}

func (p *Postgres) Load(ctx context.Context, slot string) (mines.Snapshot, error) {
	if err := checkName(slot); err != nil {
		return mines.Snapshot{}, err
	}
	row, err := p.repo.FetchSaveSlot(ctx, slot)
	if err != nil {
		return mines.Snapshot{}, mapError(err)
	}
	return mines.DecodeSnapshot(row.State)
}

func (p *Postgres) Delete(ctx context.Context, slot string) error {
	if err := checkName(slot); err != nil {
		return err
	}
	_, err := p.repo.DeleteSaveSlot(ctx, slot)
	return err
}

func (p *Postgres) List(ctx context.Context) ([]string, error) {
	return p.repo.ListSaveSlots(ctx)
}

func (p *Postgres) Record(ctx context.Context, c mines.Config, won bool, durationMs int64) error {
	_, err := p.repo.InsertRecord(ctx, repository.InsertRecordParams{
		Config:     c,
		Won:        won,
		DurationMs: durationMs,
	})
	return err
}

// Best returns the fastest winning durations for c.
func (p *Postgres) Best(ctx context.Context, c mines.Config, limit int) ([]int64, error) {
	records, err := p.repo.GetRecords(ctx, repository.RecordFilter{
		Config:  &c,
		WonOnly: true,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	durations := make([]int64, len(records))
	for i, r := range records {
		durations[i] = r.DurationMs
	}
	return durations, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
