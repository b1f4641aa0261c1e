// Package metrics holds Prometheus instruments that are used across the
// kit.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ConfigStagesAdded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "config_stages_added_total",
			Help: "Configuration sources layered over the base store, by kind.",
		}, []string{"kind"})

	APIKeyDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apikey_decisions_total",
			Help: "API-key authorization decisions, by outcome (match, mismatch, missing).",
		}, []string{"outcome"})

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Completed HTTP requests, by method and status code.",
		}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		ConfigStagesAdded,
		APIKeyDecisions,
		HTTPRequests,
	)
}
