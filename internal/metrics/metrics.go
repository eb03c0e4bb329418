package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry     *prometheus.Registry
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	Generations  *prometheus.CounterVec
	ContentReady *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentflow_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_ai_generations_total",
			Help: "AI generation requests by provider, kind and outcome",
		}, []string{"provider", "kind", "outcome"}),
		ContentReady: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentflow_content_ready_total",
			Help: "Scheduled content moved to ready, by trigger",
		}, []string{"trigger"}),
	}

	m.registry.MustRegister(m.HTTPRequests, m.HTTPDuration, m.Generations, m.ContentReady)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveGeneration(provider, kind, outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(provider, kind, outcome).Inc()
}

func (m *Metrics) ObserveContentReady(trigger string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.ContentReady.WithLabelValues(trigger).Add(float64(n))
}

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
