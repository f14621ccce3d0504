package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of HTTP handlers by route template
	HTTPRequestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reco_http_request_latency_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Total number of HTTP requests served
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reco_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// Recommendations returned per request
	RecommendationsServed = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reco_recommendations_returned",
		Help:    "Number of recommendations returned per request",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 40},
	})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestLatency,
		HTTPRequests,
		RecommendationsServed,
	)
}
