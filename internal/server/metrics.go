package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts engine activity across all sessions.
type Metrics struct {
	registry *prometheus.Registry

	snapshots  prometheus.Counter
	emissions  prometheus.Counter
	suppressed prometheus.Counter
	manual     prometheus.Counter
	resets     prometheus.Counter
	confirms   prometheus.Counter
	sessions   prometheus.Gauge
}

// NewMetrics registers the collectors on a private registry so several
// servers can coexist in one process.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_snapshots_total",
			Help: "Transcription snapshots processed.",
		}),
		emissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_emissions_total",
			Help: "Stabilized counts emitted to clients.",
		}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_suppressed_total",
			Help: "Snapshots whose count was debounced.",
		}),
		manual: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_manual_counts_total",
			Help: "Stateless typed-text counts served.",
		}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_resets_total",
			Help: "Session resets for new recording attempts.",
		}),
		confirms: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "groundcount_confirms_total",
			Help: "Tap-to-confirm requests on sense steps.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "groundcount_sessions_active",
			Help: "Open counting sessions.",
		}),
	}
	m.registry.MustRegister(m.snapshots, m.emissions, m.suppressed, m.manual, m.resets, m.confirms, m.sessions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeSnapshot(emitted bool) {
	m.snapshots.Inc()
	if emitted {
		m.emissions.Inc()
	} else {
		m.suppressed.Inc()
	}
}
