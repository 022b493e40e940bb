package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	Analyses       *prometheus.CounterVec
	PIIDetections  *prometheus.CounterVec
	HardBlocks     prometheus.Counter
	ScanLatency    prometheus.Histogram
	ActiveStreams  prometheus.Gauge
	StreamMessages *prometheus.CounterVec

	scan *scanWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Analyses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by channel and outcome label.",
		}, []string{"channel", "outcome"}),
		PIIDetections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pii_detections_total",
			Help:      "PII matches found by category.",
		}, []string{"category"}),
		HardBlocks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hard_blocks_total",
			Help:      "Analyses refused because a transmission-blocking category was found.",
		}),
		ScanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_latency_ms",
			Help:      "Full pipeline latency per analysis in milliseconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		ActiveStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_streams",
			Help:      "Number of connected scan stream clients.",
		}),
		StreamMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_messages_total",
			Help:      "Scan stream messages by direction and type.",
		}, []string{"direction", "type"}),
		scan: newScanWindow(512),
	}
}

// ObserveScanStage records one pipeline stage duration into the rolling
// quick-scan window; the "total" stage also feeds the Prometheus histogram.
func (m *Metrics) ObserveScanStage(stage string, d time.Duration) {
	ms := float64(d.Microseconds()) / 1000
	m.scan.Observe(stage, ms)
	if stage == StageTotal {
		m.ScanLatency.Observe(ms)
	}
}

// ObserveScanOutcome tallies a verdict label in the rolling window.
func (m *Metrics) ObserveScanOutcome(outcome string) {
	m.scan.ObserveOutcome(outcome)
}

// ScanSnapshot reports rolling latency percentiles for the perf endpoint.
func (m *Metrics) ScanSnapshot() ScanSnapshot {
	return m.scan.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
