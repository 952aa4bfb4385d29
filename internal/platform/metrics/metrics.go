// Package metrics expose les compteurs Prometheus du viewer.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics regroupe les compteurs de synchronisation et du bridge HTTP.
// Implémente syncengine.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	ticksTotal            prometheus.Counter
	highlightChangesTotal prometheus.Counter
	scrollRequestsTotal   prometheus.Counter
	scrollSuppressedTotal prometheus.Counter
	manualScrollsTotal    prometheus.Counter
	activeSessions        prometheus.Gauge
	requestsTotal         prometheus.Counter
	errorsTotal           prometheus.Counter
}

// New crée et enregistre les métriques dans un registre dédié.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_sync_ticks_total",
			Help: "Total number of sync engine evaluations",
		}),
		highlightChangesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_highlight_changes_total",
			Help: "Total number of highlighted entry changes",
		}),
		scrollRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_scroll_requests_total",
			Help: "Total number of auto-scroll requests sent to the viewport",
		}),
		scrollSuppressedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_scroll_suppressed_total",
			Help: "Total number of auto-scrolls blocked by a manual scroll window",
		}),
		manualScrollsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_manual_scrolls_total",
			Help: "Total number of manual scroll notifications",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ccviewer_active_sessions",
			Help: "Number of open subtitle sessions",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_http_requests_total",
			Help: "Total number of bridge HTTP requests",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ccviewer_http_errors_total",
			Help: "Total number of bridge HTTP responses with status >= 400",
		}),
	}

	m.registry.MustRegister(
		m.ticksTotal,
		m.highlightChangesTotal,
		m.scrollRequestsTotal,
		m.scrollSuppressedTotal,
		m.manualScrollsTotal,
		m.activeSessions,
		m.requestsTotal,
		m.errorsTotal,
	)
	return m
}

func (m *Metrics) IncTicks()            { m.ticksTotal.Inc() }
func (m *Metrics) IncHighlightChanges() { m.highlightChangesTotal.Inc() }
func (m *Metrics) IncScrollRequests()   { m.scrollRequestsTotal.Inc() }
func (m *Metrics) IncScrollSuppressed() { m.scrollSuppressedTotal.Inc() }
func (m *Metrics) IncManualScrolls()    { m.manualScrollsTotal.Inc() }
func (m *Metrics) IncRequests()         { m.requestsTotal.Inc() }
func (m *Metrics) IncErrors()           { m.errorsTotal.Inc() }

// SetActiveSessions met à jour la jauge des sessions ouvertes.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Handler sert le registre au format Prometheus.
// updateGauges est appelé avant chaque collecte (peut être nil).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		h.ServeHTTP(w, r)
	})
}
