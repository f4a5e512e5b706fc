// finished games, fastest first
package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Record struct {
	RecordId   int                `json:"record_id"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	MineCount  int                `json:"mine_count"`
	Won        bool               `json:"won"`
	DurationMs int64              `json:"duration_ms"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type InsertRecordParams struct {
	Config     mines.Config
	Won        bool
	DurationMs int64
}

func (q Queries) InsertRecord(ctx context.Context, params InsertRecordParams) (*Record, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (width, height, mine_count, won, duration_ms)
		VALUES (@width, @height, @mine_count, @won, @duration_ms)
		RETURNING *;`,
		pgx.NamedArgs{
			"width":       params.Config.Width,
			"height":      params.Config.Height,
			"mine_count":  params.Config.MineCount,
			"won":         params.Won,
			"duration_ms": params.DurationMs,
		},
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
}

type RecordFilter struct {
	Config  *mines.Config
	WonOnly bool
	Limit   int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Config != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
		)
		args["width"] = f.Config.Width
		args["height"] = f.Config.Height
		args["mineCount"] = f.Config.MineCount
	}
	if f.WonOnly {
		clauses = append(clauses, "won = true")
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := "SELECT * FROM game_record"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}
	query += " ORDER BY duration_ms, created_at"
	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
