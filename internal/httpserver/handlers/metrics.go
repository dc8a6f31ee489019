package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navdesk_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"status"}, // success/failure
	)

	configSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navdesk_config_saves_total",
			Help: "Owner document saves",
		},
		[]string{"status"}, // success/invalid/failure
	)

	loginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "navdesk_login_duration_seconds",
			Help:    "Time spent processing login requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	searchResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "navdesk_search_resolutions_total",
			Help: "Search queries by outcome",
		},
		[]string{"result"}, // cache/match/miss/internal
	)
)

// Metrics exposes the Prometheus registry.
func Metrics() http.Handler {
	return promhttp.Handler()
}
