package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "search_requests_total", Help: "Search requests by outcome (ok, empty, malformed, error)."},
		[]string{"outcome"},
	)
	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "blog", Name: "search_results", Help: "Number of posts returned per search.", Buckets: []float64{0, 1, 3, 5, 10, 25, 50, 100}},
	)
	SimilarRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "similar_requests_total", Help: "Similar-post lookups by outcome (ok, no_tags, error)."},
		[]string{"outcome"},
	)
	Shares = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "shares_total", Help: "Post share emails by outcome (sent, invalid, error)."},
		[]string{"outcome"},
	)
	Exports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "blog", Name: "exports_total", Help: "Sitemap/feed exports to object storage by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(SearchRequests)
	reg.MustRegister(SearchResults)
	reg.MustRegister(SimilarRequests)
	reg.MustRegister(Shares)
	reg.MustRegister(Exports)
}
