package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the engine system. All recording
// methods are safe on a nil receiver, so callers can carry an optional
// *Metrics without guarding every call site.
type Metrics struct {
	config MetricsConfig

	// Resolution metrics
	resolutions        *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec

	// Registry metrics
	registrations     *prometheus.CounterVec
	compositions      *prometheus.CounterVec
	enginesRegistered prometheus.Gauge

	// Error metrics
	errorsByClass *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// Return a no-op metrics instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	// Create a new registry
	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_resolutions_total",
				Help:      "Total number of engine resolution requests",
			},
			[]string{"mode", "outcome"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "engine_resolution_duration_seconds",
				Help:      "Duration of engine resolution in seconds",
				Buckets:   buckets,
			},
			[]string{"mode"},
		),

		registrations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_registrations_total",
				Help:      "Total number of engine registration attempts",
			},
			[]string{"kind", "status"},
		),
		compositions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "engine_compositions_total",
				Help:      "Total number of meta-engine compositions",
			},
			[]string{"meta"},
		),
		enginesRegistered: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "engines_registered",
				Help:      "Current number of registered engine names",
			},
		),

		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		m.resolutions,
		m.resolutionDuration,
		m.registrations,
		m.compositions,
		m.enginesRegistered,
		m.errorsByClass,
	)

	return m, nil
}

// RecordResolution records one resolution request and its outcome.
func (m *Metrics) RecordResolution(mode, outcome string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(mode, outcome).Inc()
}

// ObserveResolutionDuration records how long a resolution took.
func (m *Metrics) ObserveResolutionDuration(mode string, duration time.Duration) {
	if m == nil || m.resolutionDuration == nil {
		return
	}
	m.resolutionDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRegistration records one registration attempt. Kind is "engine" or
// "meta_engine".
func (m *Metrics) RecordRegistration(kind string, ok bool) {
	if m == nil || m.registrations == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.registrations.WithLabelValues(kind, status).Inc()
}

// RecordComposition records one derived engine produced by a meta-engine.
func (m *Metrics) RecordComposition(meta string) {
	if m == nil || m.compositions == nil {
		return
	}
	m.compositions.WithLabelValues(meta).Inc()
}

// SetEnginesRegistered sets the current number of registered engine names.
func (m *Metrics) SetEnginesRegistered(n int) {
	if m == nil || m.enginesRegistered == nil {
		return
	}
	m.enginesRegistered.Set(float64(n))
}

// RecordError records an error by class.
func (m *Metrics) RecordError(errorClass string) {
	if m == nil || m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration is a helper to time an operation and record it.
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Duration().Seconds())
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer starts an HTTP server to expose metrics.
func (m *Metrics) StartMetricsServer() error {
	if m == nil || !m.config.Enabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(m.config.Path, m.Handler())

	server := &http.Server{
		Addr:              m.config.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// Log error but don't fail the application
			fmt.Printf("metrics server error: %v\n", err)
		}
	}()

	return nil
}
