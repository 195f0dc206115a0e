package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts dispatched requests by command and numeric status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ctsp_requests_total",
		Help: "Total number of requests dispatched, by command and status.",
	}, []string{"command", "status"})

	// TradesTotal counts executed trades by side (BUY/SELL).
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ctsp_trades_total",
		Help: "Total number of executed trades, by side.",
	}, []string{"side"})

	// ActiveSessions tracks the number of live session tokens.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ctsp_active_sessions",
		Help: "Number of active sessions.",
	})

	// OpenConnections tracks currently open client connections.
	OpenConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ctsp_open_connections",
		Help: "Number of open client connections.",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
