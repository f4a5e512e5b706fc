package repository

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestRecordFilterWhereClause(t *testing.T) {
	t.Parallel()

	where, args := RecordFilter{}.WhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)

	cfg := mines.Config{Width: 9, Height: 9, MineCount: 10}
	where, args = RecordFilter{Config: &cfg, WonOnly: true}.WhereClause()
	assert.Equal(t, "width = @width AND height = @height AND mine_count = @mineCount AND won = true", where)
	assert.Equal(t, pgx.NamedArgs{"width": 9, "height": 9, "mineCount": 10}, args)
}
