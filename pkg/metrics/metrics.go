// Package metrics provides the centralized Prometheus registry reference for
// the place-search exporter. All metrics are defined in their respective
// packages (places, session, csvexport) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the exporter.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Upstream Request Metrics (pkg/places):
//   - places_search_requests_total{status} (Counter): Upstream search requests by HTTP status
//   - places_search_request_duration_seconds (Histogram): Upstream request duration
//   - places_search_errors_total{class} (Counter): Upstream errors by class (client, server, network, parse)
//
// Session Metrics (pkg/session):
//   - places_sessions_started_total (Counter): Search sessions created
//   - places_sessions_active (Gauge): Sessions held by the in-memory store
//   - places_pages_fetched_total (Counter): Result pages fetched across all sessions
//   - places_token_wait_seconds (Histogram): Time spent waiting out the continuation token delay
//
// Export Metrics (pkg/csvexport):
//   - places_csv_exports_total{destination} (Counter): CSV exports by destination (stream, file)
//
// Example Prometheus Queries:
//
//   # Upstream Error Rate
//   rate(places_search_errors_total[5m]) / rate(places_search_requests_total[5m])
//
//   # P95 Upstream Latency
//   histogram_quantile(0.95, rate(places_search_request_duration_seconds_bucket[5m]))
//
//   # Pages per Session
//   rate(places_pages_fetched_total[1h]) / rate(places_sessions_started_total[1h])
