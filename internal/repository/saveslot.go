package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type SaveSlot struct {
	Slot       string
	Width      int
	Height     int
	MineCount  int
	State      json.RawMessage
	DurationMs int64
	CreatedAt  pgtype.Timestamptz
	UpdatedAt  pgtype.Timestamptz
}

type UpsertSaveSlotParams struct {
	Slot       string
	Width      int
	Height     int
	MineCount  int
	State      json.RawMessage
	DurationMs int64
}

func (q Queries) UpsertSaveSlot(
	ctx context.Context, params UpsertSaveSlotParams,
) (*SaveSlot, error) {
	args := pgx.NamedArgs{
		"slot":        params.Slot,
		"width":       params.Width,
		"height":      params.Height,
		"mine_count":  params.MineCount,
		"state":       params.State,
		"duration_ms": params.DurationMs,
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO save_slot (
			slot, width, height, mine_count, state, duration_ms
		)
		VALUES (
			@slot, @width, @height, @mine_count, @state, @duration_ms
		)
		ON CONFLICT (slot) DO UPDATE SET
			width = excluded.width,
			height = excluded.height,
			mine_count = excluded.mine_count,
			state = excluded.state,
			duration_ms = excluded.duration_ms,
			updated_at = now()
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SaveSlot])
}

func (q Queries) FetchSaveSlot(ctx context.Context, slot string) (*SaveSlot, error) {
	rows, _ := q.db.Query(ctx, "SELECT * FROM save_slot WHERE slot = $1", slot)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[SaveSlot])
}

// DeleteSaveSlot reports whether a row was removed.
func (q Queries) DeleteSaveSlot(ctx context.Context, slot string) (bool, error) {
	tag, err := q.db.Exec(ctx, "DELETE FROM save_slot WHERE slot = $1", slot)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (q Queries) ListSaveSlots(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, "SELECT slot FROM save_slot ORDER BY slot")
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
