// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "activities_api"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	activityMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activities",
		Name:      "mutations_total",
		Help:      "Successful activity writes by operation.",
	}, []string{"op"})

	contactEmails = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "contact",
		Name:      "emails_total",
		Help:      "Contact form emails by result (sent, failed, rejected).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, activityMutations, contactEmails)
}

// Activity mutation operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Contact email results.
const (
	EmailSent     = "sent"
	EmailFailed   = "failed"
	EmailRejected = "rejected"
)

// Middleware records request counts and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// RecordActivityMutation counts a successful create, update or delete.
func RecordActivityMutation(op string) {
	activityMutations.WithLabelValues(op).Inc()
}

// RecordContactEmail counts a contact form outcome.
func RecordContactEmail(result string) {
	contactEmails.WithLabelValues(result).Inc()
}
