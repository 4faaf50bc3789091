package client

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

const (
	outcomeOK             = "ok"
	outcomeNetwork        = "network_error"
	outcomeSessionExpired = "session_expired"
	outcomeApplication    = "application_error"
	outcomeInvalidRequest = "invalid_request"
)

// RequestsTotal counts backend calls by HTTP method and normalized outcome.
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of backend requests, labelled by method and outcome.",
	},
	[]string{"method", "outcome"},
)

var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "client_request_duration_seconds",
		Help:      "Duration of backend requests including normalization.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

func observe(method string, err error, d time.Duration) {
	RequestsTotal.WithLabelValues(method, outcome(err)).Inc()
	RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}

func outcome(err error) string {
	var (
		ne *NetworkError
		ae *ApplicationError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &ne):
		return outcomeNetwork
	case errors.Is(err, ErrSessionExpired):
		return outcomeSessionExpired
	case errors.As(err, &ae):
		return outcomeApplication
	default:
		return outcomeInvalidRequest
	}
}
