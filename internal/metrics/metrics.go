// Package metrics counts games and moves on a private registry and writes
// them out in the node exporter textfile format.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type Metrics struct {
	registry *prometheus.Registry

	GamesStarted  prometheus.Counter
	GamesFinished *prometheus.CounterVec
	Operations    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GamesStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mines_games_started_total",
				Help: "Games whose first move placed the mines",
			},
		),
		GamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mines_games_finished_total",
				Help: "Finished games by result",
			},
			[]string{"result"},
		),
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mines_operations_total",
				Help: "Operations applied to a board",
			},
			[]string{"action", "changed"},
		),
	}
	m.registry.MustRegister(m.GamesStarted, m.GamesFinished, m.Operations)
	return m
}

// Observe records one operation. before is the board state prior to it.
func (m *Metrics) Observe(action mines.Action, changed bool, before, after mines.State) {
	m.Operations.WithLabelValues(action.String(), strconv.FormatBool(changed)).Inc()
	if before == mines.Ready && after != mines.Ready {
		m.GamesStarted.Inc()
	}
	if !before.Over() && after.Over() {
		m.GamesFinished.WithLabelValues(after.String()).Inc()
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Flush writes every metric to path atomically. An empty path does nothing.
func (m *Metrics) Flush(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
