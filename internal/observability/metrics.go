package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// scan pipeline.
type Metrics struct {
	ScansTotal      prometheus.Counter
	ScanDuration    prometheus.Histogram
	ScanRunning     prometheus.Gauge
	AssetsScanned   prometheus.Counter
	AssetScanErrors prometheus.Counter

	ThreatsScored        prometheus.Counter
	ClassificationErrors prometheus.Counter
	ProviderErrors       *prometheus.CounterVec // labels: provider={weather,news,geocoder}
	PersistenceErrors    prometheus.Counter

	AlertsDispatched *prometheus.CounterVec // labels: outcome={sent,failed}
	AssetMaxRisk     *prometheus.GaugeVec   // labels: asset

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache    *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all scan metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScansTotal,
		m.ScanDuration,
		m.ScanRunning,
		m.AssetsScanned,
		m.AssetScanErrors,
		m.ThreatsScored,
		m.ClassificationErrors,
		m.ProviderErrors,
		m.PersistenceErrors,
		m.AlertsDispatched,
		m.AssetMaxRisk,
		m.GeocodeRequests,
		m.GeocodeCache,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "scans_total",
			Help:      "Total completed scan cycles.",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinel",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a complete scan cycle across all assets.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		ScanRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "scan_running",
			Help:      "1 while a scan cycle is in progress, 0 otherwise.",
		}),
		AssetsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "assets_scanned_total",
			Help:      "Total per-asset evaluations completed.",
		}),
		AssetScanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "asset_scan_errors_total",
			Help:      "Per-asset evaluation failures (isolated, cycle continues).",
		}),
		ThreatsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "threats_scored_total",
			Help:      "Total threat items run through the risk scorer.",
		}),
		ClassificationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "classification_errors_total",
			Help:      "Classifier failures absorbed into ERROR assessments.",
		}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "provider_errors_total",
			Help:      "External provider failures by provider.",
		}, []string{"provider"}),
		PersistenceErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "persistence_errors_total",
			Help:      "Failed store writes (logged, cycle continues).",
		}),
		AlertsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "alerts_dispatched_total",
			Help:      "Alert dispatch attempts by outcome.",
		}, []string{"outcome"}),
		AssetMaxRisk: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "sentinel",
			Name:      "asset_max_risk_score",
			Help:      "Latest max risk score per asset.",
		}, []string{"asset"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinel",
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
	}
}
