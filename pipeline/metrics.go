package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lucasjlepore/trackexport"
)

// Metrics counts one run's work on a private registry. A nil *Metrics records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	activities   *prometheus.CounterVec
	documents    *prometheus.CounterVec
	trackpoints  prometheus.Counter
	telemetry    *prometheus.CounterVec
	interpolated prometheus.Counter
	watermark    prometheus.Gauge
}

// NewMetrics registers the exporter's collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackexport",
			Subsystem: "export",
			Name:      "activities_total",
			Help:      "Activities exported, by sport.",
		}, []string{"sport"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackexport",
			Subsystem: "export",
			Name:      "documents_total",
			Help:      "Documents written, by format.",
		}, []string{"format"}),
		trackpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trackexport",
			Subsystem: "export",
			Name:      "trackpoints_total",
			Help:      "Trackpoints enriched.",
		}),
		telemetry: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trackexport",
			Subsystem: "correlate",
			Name:      "lookups_total",
			Help:      "Telemetry lookups, by result.",
		}, []string{"result"}),
		interpolated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trackexport",
			Subsystem: "cadence",
			Name:      "interpolated_total",
			Help:      "Cadence values carried across telemetry gaps.",
		}),
		watermark: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trackexport",
			Subsystem: "export",
			Name:      "watermark",
			Help:      "Highest activity id exported by the run, -1 when nothing was exported.",
		}),
	}
	m.registry.MustRegister(m.activities, m.documents, m.trackpoints, m.telemetry, m.interpolated, m.watermark)
	return m
}

// Registry returns the run's registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) observeActivity(sport trackexport.Sport, stats trackexport.EnrichStats) {
	if m == nil {
		return
	}
	m.activities.WithLabelValues(string(sport)).Inc()
	m.trackpoints.Add(float64(stats.Trackpoints))
	m.telemetry.WithLabelValues("matched").Add(float64(stats.Matched))
	m.telemetry.WithLabelValues("missed").Add(float64(stats.Missed))
	m.interpolated.Add(float64(stats.Interpolated))
}

func (m *Metrics) observeDocument(format string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(format).Inc()
}

func (m *Metrics) setWatermark(wm trackexport.Watermark) {
	if m == nil {
		return
	}
	m.watermark.Set(float64(wm))
}
