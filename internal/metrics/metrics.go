package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litreview_http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litreview_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	FeedPosts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "litreview_feed_posts",
		Help:    "Number of posts returned per composed feed.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	DeniedMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litreview_denied_mutations_total",
		Help: "Edit/delete attempts rejected because the actor is not the author.",
	}, []string{"entity", "action"})

	VisibilityCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litreview_visibility_cache_lookups_total",
		Help: "Visibility set cache lookups by result.",
	}, []string{"result"})
)
