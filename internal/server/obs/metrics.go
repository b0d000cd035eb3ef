// Package obs exposes Prometheus metrics for the gatekeeper server.
package obs

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gatekeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several servers (and tests) can coexist
// in one process.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
	authDecisions *prometheus.CounterVec
	tokensIssued  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_rpc_requests_total",
			Help: "Total number of gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gatekeeper_rpc_duration_seconds",
			Help:    "gRPC request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_rate_limited_total",
			Help: "Requests rejected by the per-peer rate limiter.",
		}, []string{"method"}),
		authDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_authorization_decisions_total",
			Help: "Guard decisions by method and outcome (allow, unauthenticated, forbidden).",
		}, []string{"method", "outcome"}),
		tokensIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_token_pairs_issued_total",
			Help: "Token pairs handed out by flow (register, login, refresh).",
		}, []string{"flow"}),
	}

	m.registry.MustRegister(
		m.rpcRequests, m.rpcDuration, m.rateLimited, m.authDecisions, m.tokensIssued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRPC(method, code string, took time.Duration) {
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(took.Seconds())
}

func (m *Metrics) RateLimited(method string) {
	m.rateLimited.WithLabelValues(method).Inc()
}

func (m *Metrics) AuthDecision(method, outcome string) {
	m.authDecisions.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) TokenPairIssued(flow string) {
	m.tokensIssued.WithLabelValues(flow).Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics HTTP endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "Starting metrics server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
