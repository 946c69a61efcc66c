package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ScannerMetrics tracks the monitor's polling cycles and quote traffic.
type ScannerMetrics struct {
	Cycles        prometheus.Counter
	NoDecision    prometheus.Counter
	Opportunities prometheus.Counter
	QuoteErrors   *prometheus.CounterVec
	QuoteLatency  prometheus.Histogram
	JournalErrors prometheus.Counter
	BestNet       prometheus.Gauge
}

// NewScannerMetrics registers the monitor's metrics under the namespace.
func NewScannerMetrics(namespace string) *ScannerMetrics {
	return &ScannerMetrics{
		Cycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of polling cycles",
		}),
		NoDecision: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_no_decision_total",
			Help:      "Cycles where both paths failed to quote",
		}),
		Opportunities: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "opportunities_total",
			Help:      "Cycles whose best net difference exceeded the threshold",
		}),
		QuoteErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_errors_total",
			Help:      "Failed quote requests by venue and leg",
		}, []string{"venue", "leg"}),
		QuoteLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_latency_seconds",
			Help:      "Quote request latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		JournalErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Failed opportunity journal writes",
		}),
		BestNet: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_net_base_units",
			Help:      "Best net difference of the latest decided cycle, in base units",
		}),
	}
}

// Serve exposes the default registry on the given endpoint. Blocks; run in
// a goroutine. Listen failures are logged, not fatal.
func Serve(endpoint string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(endpoint, mux); err != nil {
		logger.Error("Metrics endpoint stopped", zap.Error(err))
	}
}
