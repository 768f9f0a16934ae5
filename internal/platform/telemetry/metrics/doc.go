// Package metrics provides operational metrics collection.
//
// # Metric Categories
//
//   - Inbound: request count and latency by route template and status
//   - Upstream: marketplace API calls by resource, method, and status class
//   - Live: number of open stream status watchers
//   - Auth: throttled login attempts
//
// Metrics are exposed in Prometheus format on the console's /metrics route.
package metrics
