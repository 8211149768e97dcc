package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hreval"

// Collector owns a private registry so several instances can coexist in
// tests. It satisfies evaluation.Observer.
type Collector struct {
	registry *prometheus.Registry

	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	RateLimitedTotal   prometheus.Counter
	TransitionsTotal   *prometheus.CounterVec
	EvaluationsCreated *prometheus.CounterVec
}

func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status code",
		}, []string{"method", "code"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}),
		TransitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "transitions_total",
			Help:      "Evaluation status transitions by source, target and outcome",
		}, []string{"from", "to", "outcome"}),
		EvaluationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "created_total",
			Help:      "Evaluation records generated by review kind",
		}, []string{"kind"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.RequestsTotal,
		c.RequestDuration,
		c.RateLimitedTotal,
		c.TransitionsTotal,
		c.EvaluationsCreated,
	)
	return c
}

func (c *Collector) Record(method string, status int, duration time.Duration) {
	c.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
	if status == http.StatusTooManyRequests {
		c.RateLimitedTotal.Inc()
	}
}

func (c *Collector) ObserveTransition(from, to string, allowed bool) {
	outcome := "allowed"
	if !allowed {
		outcome = "rejected"
	}
	c.TransitionsTotal.WithLabelValues(from, to, outcome).Inc()
}

func (c *Collector) ObserveCreated(kind string, count int) {
	c.EvaluationsCreated.WithLabelValues(kind).Add(float64(count))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
