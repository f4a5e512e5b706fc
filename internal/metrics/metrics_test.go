package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestObserve(t *testing.T) {
	t.Parallel()
	m := New()

	m.Observe(mines.Mark, true, mines.Ready, mines.Playing)
	m.Observe(mines.Open, true, mines.Playing, mines.Playing)
	m.Observe(mines.Open, false, mines.Playing, mines.Playing)
	m.Observe(mines.Open, true, mines.Playing, mines.Lost)
	m.Observe(mines.Open, false, mines.Lost, mines.Lost)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("lost")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("open", "true")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("open", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("mark", "true")))
}

func TestObserveWinOnFirstMove(t *testing.T) {
	t.Parallel()
	m := New()
	m.Observe(mines.Open, true, mines.Ready, mines.Won)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("won")))
}

func TestFlush(t *testing.T) {
	t.Parallel()
	m := New()
	m.Observe(mines.Open, true, mines.Ready, mines.Playing)

	path := filepath.Join(t.TempDir(), "mines.prom")
	require.NoError(t, m.Flush(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mines_games_started_total 1")
	assert.Contains(t, string(data), `mines_operations_total{action="open",changed="true"} 1`)

	assert.NoError(t, m.Flush(""))
}
