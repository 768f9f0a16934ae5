// Package telemetry groups the console's operational observability.
//
// Tracing lives in platform/otel; Prometheus metrics for inbound requests,
// marketplace API calls, and live-status watchers live in telemetry/metrics.
package telemetry
