package aiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded per request
const (
	outcomeOK           = "ok"
	outcomeRequestError = "request_error"
	outcomeParseError   = "parse_error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resume_ai_client_requests_total",
			Help: "AI service calls made by the pipeline, by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	streamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resume_ai_client_stream_duration_seconds",
			Help:    "Time from request start until the response stream was fully drained",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"endpoint"},
	)
)
