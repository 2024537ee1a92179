// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommend_request_duration_seconds",
			Help: "Duration of recommendation request processing in seconds",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_cache_lookups_total",
			Help: "Response cache lookups by result (hit, miss, bypass)",
		},
		[]string{"result"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "recommend_external_call_duration_seconds",
			Help: "Duration of external calls (store, llm, places) in seconds",
		},
		[]string{"target", "status"},
	)

	FallbackResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_fallback_responses_total",
			Help: "Responses served from the template fallback path by reason",
		},
		[]string{"reason"},
	)
)
