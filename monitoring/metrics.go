package monitoring

import (
	"strconv"
	"time"

	"gamecritic/ingest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Catalog metrics
	TotalReviews = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_reviews_total",
			Help: "Total number of reviews in the catalog",
		},
	)

	TotalCompanies = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_companies_total",
			Help: "Total number of developer/publisher records",
		},
	)

	// Ingestion metrics
	IngestGamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_reviews_created_total",
			Help: "Reviews created by the ingestion pipeline",
		},
	)

	IngestGamesExisting = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_reviews_existing_total",
			Help: "Games skipped because a review already existed",
		},
	)

	IngestGamesSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_reviews_skipped_total",
			Help: "Games skipped by the ingestion pipeline",
		},
		[]string{"reason"},
	)

	IngestFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_fallbacks_total",
			Help: "Best-effort external calls that degraded to a fallback value",
		},
		[]string{"kind"}, // cover or text
	)

	// Moderation metrics
	ModerationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_actions_total",
			Help: "Moderation batch actions applied to user content",
		},
		[]string{"content", "action"}, // content: comment|user_review, action: approve|reject
	)

	// Error metrics
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors",
		},
		[]string{"type", "endpoint"},
	)
)

// InitMetrics registers all Prometheus metrics
func InitMetrics() {
	prometheus.MustRegister(HttpRequestsTotal)
	prometheus.MustRegister(HttpRequestDuration)
	prometheus.MustRegister(TotalReviews)
	prometheus.MustRegister(TotalCompanies)
	prometheus.MustRegister(IngestGamesCreated)
	prometheus.MustRegister(IngestGamesExisting)
	prometheus.MustRegister(IngestGamesSkipped)
	prometheus.MustRegister(IngestFallbacks)
	prometheus.MustRegister(ModerationActions)
	prometheus.MustRegister(ErrorsTotal)
}

// RecordIngestReport feeds one pipeline report into the counters.
func RecordIngestReport(report *ingest.Report) {
	for _, res := range report.Results {
		switch res.Outcome {
		case ingest.OutcomeCreated:
			IngestGamesCreated.Inc()
		case ingest.OutcomeExists:
			IngestGamesExisting.Inc()
		case ingest.OutcomeSkipped:
			IngestGamesSkipped.WithLabelValues(res.SkipReason).Inc()
		}
		if res.CoverFallback {
			IngestFallbacks.WithLabelValues("cover").Inc()
		}
		if res.TextFallback {
			IngestFallbacks.WithLabelValues("text").Inc()
		}
	}
}

// PrometheusMiddleware collects metrics for each request
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		HttpRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		HttpRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)

		if status >= 400 {
			ErrorsTotal.WithLabelValues("http_error", c.FullPath()).Inc()
		}
	}
}

// PrometheusHandler returns the Prometheus metrics handler
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
