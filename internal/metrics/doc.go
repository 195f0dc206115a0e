// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Request counts per command and status
//   - Executed trade counts per side
//   - Active session and open connection gauges
package metrics
