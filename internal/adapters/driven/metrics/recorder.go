// Package metrics exports scheduler and join observations to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
	"github.com/custodia-labs/autojoin/internal/logger"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

const namespace = "autojoin"

// DefaultAddr is where the run command serves /metrics when enabled.
const DefaultAddr = "127.0.0.1:9464"

const (
	readTimeout     = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Recorder records into its own registry so tests and multiple instances
// do not collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	pending  prometheus.Gauge
	fired    *prometheus.CounterVec
	missed   *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates a recorder with Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_triggers",
			Help:      "Number of scheduled triggers that have not fired.",
		}),
		fired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_fired_total",
			Help:      "Triggers handed to the joiner.",
		}, []string{"platform"}),
		missed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_missed_total",
			Help:      "Triggers retired because the meeting had ended.",
		}, []string{"platform"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "join_attempts_total",
			Help:      "Join attempts by platform, path and outcome.",
		}, []string{"platform", "path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "join_attempt_duration_seconds",
			Help:      "Time from dispatch to the end of a join attempt.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}, []string{"platform"}),
	}
	r.registry.MustRegister(
		r.pending, r.fired, r.missed, r.attempts, r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// SetPendingTriggers implements driven.MetricsRecorder.
func (r *Recorder) SetPendingTriggers(n int) {
	r.pending.Set(float64(n))
}

// TriggerFired implements driven.MetricsRecorder.
func (r *Recorder) TriggerFired(platform domain.Platform) {
	r.fired.WithLabelValues(string(platform)).Inc()
}

// TriggerMissed implements driven.MetricsRecorder.
func (r *Recorder) TriggerMissed(platform domain.Platform) {
	r.missed.WithLabelValues(string(platform)).Inc()
}

// JoinAttempt implements driven.MetricsRecorder. A successful attempt is
// recorded with result "success", otherwise the failure reason.
func (r *Recorder) JoinAttempt(platform domain.Platform, path domain.JoinPath, reason domain.FailureReason, d time.Duration) {
	result := string(reason)
	if reason == domain.ReasonNone {
		result = "success"
	}
	r.attempts.WithLabelValues(string(platform), string(path), result).Inc()
	r.duration.WithLabelValues(string(platform)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return r.serve(ctx, ln)
}

func (r *Recorder) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: readTimeout}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Component("metrics").Info("serving metrics", slog.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
