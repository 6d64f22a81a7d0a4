// Package metrics exposes Prometheus collectors for harvest and fetch runs.
// The process is a short-lived CLI, so collectors live on a private registry
// that is flushed to a node-exporter text file at the end of a run.
package metrics

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	fetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetstats_fetches_total",
			Help: "Total number of HTTP GETs issued, labeled by site and status.",
		},
		[]string{"site", "status"},
	)

	fetchDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leetstats_fetch_duration_seconds",
			Help:    "Histogram of HTTP GET latencies, labeled by site.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"site"},
	)

	snapshotsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetstats_snapshots_total",
			Help: "Archive snapshots processed, labeled by outcome and extraction source.",
		},
		[]string{"outcome", "source"},
	)

	liveFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leetstats_live_fetches_total",
			Help: "Live GraphQL fetches, labeled by status.",
		},
		[]string{"status"},
	)

	storeRecords = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "leetstats_store_records",
			Help: "Number of records in the store after the last write.",
		},
	)

	lastSuccessTimestamp = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leetstats_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run, labeled by pipeline.",
		},
		[]string{"pipeline"},
	)
)

// Snapshot outcomes.
const (
	OutcomeExtracted = "extracted"
	OutcomeMissed    = "missed"
)

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveFetch records one HTTP GET.
func ObserveFetch(rawURL string, status string, duration time.Duration) {
	site := SanitizeSite(rawURL)
	fetchesTotal.WithLabelValues(site, status).Inc()
	fetchDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
}

// ObserveSnapshot records the outcome of one snapshot extraction.
func ObserveSnapshot(outcome, source string) {
	if source == "" {
		source = "none"
	}
	snapshotsTotal.WithLabelValues(outcome, source).Inc()
}

// ObserveLiveFetch records a live GraphQL fetch.
func ObserveLiveFetch(status string) {
	liveFetchesTotal.WithLabelValues(status).Inc()
}

// ObserveStoreWrite records the size of the store after a successful write.
func ObserveStoreWrite(pipeline string, records int, at time.Time) {
	storeRecords.Set(float64(records))
	lastSuccessTimestamp.WithLabelValues(pipeline).Set(float64(at.Unix()))
}

// WriteTextfile dumps the registry in the Prometheus text format. An empty
// path is a no-op.
func WriteTextfile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
