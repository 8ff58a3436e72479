package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medbot",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medbot",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// SummariesTotal counts summarizer runs by outcome: generated or fallback
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medbot",
			Subsystem: "summarizer",
			Name:      "summaries_total",
			Help:      "Conversation summaries by outcome",
		},
		[]string{"outcome"},
	)

	// AbsorbedFailuresTotal counts peripheral failures that were logged and swallowed
	AbsorbedFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medbot",
			Subsystem: "summarizer",
			Name:      "absorbed_failures_total",
			Help:      "Sentiment and persistence failures absorbed by the summarizer",
		},
		[]string{"kind"},
	)

	ModelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medbot",
			Subsystem: "summarizer",
			Name:      "model_latency_seconds",
			Help:      "Chat completion latency",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider"},
	)

	SummaryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "medbot",
			Subsystem: "summary_worker",
			Name:      "queue_depth",
			Help:      "Jobs waiting in the background summary queue",
		},
	)
)

// Middleware records request counts and latency per route template
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
