// Copyright 2025 The FerroSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ferrostor/ferret/pkg/errors"
)

// metrics holds the facade's Prometheus collectors on a private registry,
// so repeated engine construction (tests, restarts) never trips duplicate
// registration on the global one.
type metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	agentErrors     *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferret_requests_total",
			Help: "The quantity of facade requests per route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ferret_request_duration_seconds",
			Help:    "Facade request latency per route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		agentErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferret_agent_errors_total",
			Help: "The quantity of agent call failures per error kind",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.requestsTotal, m.requestDuration, m.agentErrors)
	return m
}

// middleware records per-route counts and latency. Routes are labeled by
// their template (c.FullPath), not the raw URL, to keep cardinality bounded.
func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if path == "/healthz" || path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		m.requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())

		for _, ginErr := range c.Errors {
			if fe, ok := ginErr.Err.(*errors.FerretError); ok {
				m.agentErrors.WithLabelValues(string(fe.Kind)).Inc()
			}
		}
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
