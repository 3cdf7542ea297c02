// Package metrics collects the Prometheus metrics of the API server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"civicsync/models"
)

// Collector holds the server metrics. It registers on the registry it is
// given so tests can use a fresh one.
type Collector struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	issuesCreated prometheus.Counter
	statusUpdates *prometheus.CounterVec
	issues        *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

func NewCollector(reg *prometheus.Registry) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civicsync",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "civicsync",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		issuesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "civicsync",
			Name:      "issues_created_total",
			Help:      "Issues reported.",
		}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "civicsync",
			Name:      "issue_status_updates_total",
			Help:      "Status updates by new status.",
		}, []string{"status"}),
		issues: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "civicsync",
			Name:      "issues",
			Help:      "Issues by status as of the last listing.",
		}, []string{"status"}),
		gatherer: reg,
	}

	reg.MustRegister(c.requests, c.duration, c.issuesCreated, c.statusUpdates, c.issues)
	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) IssueCreated() {
	c.issuesCreated.Inc()
}

func (c *Collector) StatusUpdated(status models.IssueStatus) {
	c.statusUpdates.WithLabelValues(string(status)).Inc()
}

// ObserveAggregates refreshes the per-status gauge.
func (c *Collector) ObserveAggregates(agg models.Aggregates) {
	c.issues.WithLabelValues("total").Set(float64(agg.Total))
	c.issues.WithLabelValues(string(models.Pending)).Set(float64(agg.Pending))
	c.issues.WithLabelValues(string(models.InProgress)).Set(float64(agg.InProgress))
	c.issues.WithLabelValues(string(models.Resolved)).Set(float64(agg.Resolved))
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
