package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicketsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itsm_tickets_submitted_total",
			Help: "Total number of tickets submitted to the integration endpoint",
		},
		[]string{"operation"},
	)

	TicketsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itsm_tickets_failed_total",
			Help: "Total number of failed ticket submissions",
		},
		[]string{"operation", "error_code"},
	)

	StatusQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "itsm_status_queries_total",
			Help: "Total number of ticket status queries by reconciled outcome",
		},
		[]string{"outcome"},
	)

	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "itsm_remote_call_duration_seconds",
			Help: "Duration of integration endpoint calls in seconds",
		},
		[]string{"message_type"},
	)

	RemoteCallsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "itsm_remote_calls_in_flight",
			Help: "Number of remote calls currently in flight",
		},
	)
)
