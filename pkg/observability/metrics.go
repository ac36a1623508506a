package observability

import (
	"errors"

	"github.com/aretw0/walker/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the walker's Prometheus collectors.
type Metrics struct {
	Actions     *prometheus.CounterVec
	Failures    *prometheus.CounterVec
	CursorMoves *prometheus.CounterVec
	TraceLength prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walker_actions_total",
				Help: "Total number of executed actions",
			},
			[]string{"kind"},
		),
		Failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walker_action_failures_total",
				Help: "Total number of rejected actions",
			},
			[]string{"kind", "reason"},
		),
		CursorMoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walker_cursor_moves_total",
				Help: "Trace cursor movements, appends included",
			},
			[]string{"direction"},
		),
		TraceLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "walker_trace_length",
			Help: "Number of entries in the execution trace",
		}),
	}
	m.TraceLength.Set(1)
	if reg != nil {
		reg.MustRegister(m.Actions, m.Failures, m.CursorMoves, m.TraceLength)
	}
	return m
}

// ActionHooks counts executed and rejected actions.
func (m *Metrics) ActionHooks() domain.ActionHooks {
	return domain.ActionHooks{
		OnExecuted: func(a domain.Action) {
			m.Actions.WithLabelValues(string(a.Kind)).Inc()
		},
		OnRejected: func(a domain.Action, err error) {
			m.Failures.WithLabelValues(string(a.Kind), Reason(err)).Inc()
		},
	}
}

// TraceHooks tracks trace length and cursor movement.
func (m *Metrics) TraceHooks() domain.TraceHooks {
	return domain.TraceHooks{
		OnAppended: func(index int, _ domain.TraceEntry) {
			m.TraceLength.Set(float64(index + 1))
		},
		OnCursorMoved: func(old, new int) {
			switch {
			case new > old:
				m.CursorMoves.WithLabelValues("forward").Inc()
			case new < old:
				m.CursorMoves.WithLabelValues("backward").Inc()
			}
		},
		OnTruncated: func(length int) {
			m.TraceLength.Set(float64(length))
		},
		OnReset: func() {
			m.TraceLength.Set(1)
		},
	}
}

// Reason maps a failure to a short metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBlockedByWall):
		return "blocked_by_wall"
	case errors.Is(err, domain.ErrAlreadyMarked):
		return "already_marked"
	case errors.Is(err, domain.ErrNoMarkerHere):
		return "no_marker"
	case errors.Is(err, domain.ErrUnknownAction):
		return "unknown_action"
	default:
		return "other"
	}
}
