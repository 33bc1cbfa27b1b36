// Package telemetry provides observability instrumentation for the engine
// system.
//
// The package integrates structured logging (zerolog), distributed tracing
// (OpenTelemetry), and metrics (Prometheus) into a unified system for
// monitoring engine registration and resolution.
//
// # Usage
//
// Initialize telemetry at application startup:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.ServiceName = "openplan"
//	cfg.ServiceVersion = "1.0.0"
//
//	logger, err := telemetry.NewLogger(cfg.Logging)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	metrics, err := telemetry.NewMetrics(cfg.Metrics)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tracer, err := telemetry.NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
// # Structured Logging
//
// The logger provides component-specific logging with domain helpers:
//
//	log := logger.NewComponentLogger("factory")
//	log = log.WithEngine("enhsp").WithMode("oneshot_planner")
//	log.Info("Engine resolved")
//	log.WithError(err).Error("Resolution failed")
//
// Log levels: trace, debug, info, warn, error, fatal
//
// # Distributed Tracing
//
// Tracing provides visibility into resolution flow:
//
//	ctx, span := tracer.StartResolutionSpan(ctx, "oneshot_planner")
//	defer span.End()
//
//	if err != nil {
//	    telemetry.RecordError(span, err)
//	}
//
// Supported exporters: OTLP (production), Stdout (development)
//
// # Metrics
//
// Prometheus metrics track registry and resolution behavior:
//
//	metrics.RecordResolution("oneshot_planner", "resolved")
//	metrics.RecordRegistration("engine", true)
//	metrics.SetEnginesRegistered(12)
//
// Key metrics exposed:
//
//   - openplan_engine_resolutions_total{mode,outcome}
//   - openplan_engine_resolution_duration_seconds{mode}
//   - openplan_engine_registrations_total{kind,status}
//   - openplan_engine_compositions_total{meta}
//   - openplan_engines_registered
//   - openplan_errors_by_class_total{class}
//
// Metrics are exposed via HTTP at /metrics (default: :9090/metrics).
// All *Metrics recording methods are nil-receiver safe, so telemetry is
// strictly optional for embedding packages.
//
// # Configuration
//
// The package provides pre-configured setups for different environments:
//
//	// Development (verbose logging, stdout traces, full sampling)
//	cfg := telemetry.DevelopmentConfig()
//
//	// Production (JSON logs, OTLP traces, 10% sampling)
//	cfg := telemetry.ProductionConfig()
package telemetry
