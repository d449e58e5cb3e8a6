package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vancomm/mineboard/internal/board"
)

type Metrics struct {
	GamesStarted   prometheus.Counter
	Reveals        *prometheus.CounterVec
	CellsRevealed  prometheus.Counter
	ActiveSessions prometheus.Gauge
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mineboard",
			Name:      "games_started_total",
			Help:      "Boards started or restarted.",
		}),
		Reveals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mineboard",
			Name:      "reveals_total",
			Help:      "Reveal requests by outcome.",
		}, []string{"outcome"}),
		CellsRevealed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mineboard",
			Name:      "cells_revealed_total",
			Help:      "Cells uncovered, cascades included.",
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mineboard",
			Name:      "active_sessions",
			Help:      "Live game sessions held in memory.",
		}),
	}
}

func (m *Metrics) ObserveReveal(out board.Outcome) {
	m.Reveals.WithLabelValues(out.Kind.String()).Inc()
	m.CellsRevealed.Add(float64(len(out.Cells)))
}
