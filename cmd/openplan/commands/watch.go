package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openplan/openplan/pkg/config"
	"github.com/openplan/openplan/pkg/engines/builtin"
	"github.com/openplan/openplan/pkg/factory"
	"github.com/openplan/openplan/pkg/telemetry"
)

func newWatchCommand() *cobra.Command {
	var (
		metricsAddr string
		tracing     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the registry and reload it on configuration changes",
		Long: `Keep a factory running, re-applying the configuration file whenever
it changes on disk. Resolution metrics are exposed on a Prometheus
endpoint while the command runs.`,
		Example: `  # Watch the default configuration file
  openplan watch

  # Watch an explicit file and expose metrics on another port
  openplan watch --config ./up.ini --metrics-addr :9100

  # Emit resolution traces to stdout
  openplan watch --tracing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				found, ok := config.DefaultPath()
				if !ok {
					return fmt.Errorf("no configuration file found, pass --config")
				}
				path = found
			}

			cfg := telemetry.DefaultConfig()
			cfg.Metrics.ListenAddress = metricsAddr
			cfg.Tracing.Enabled = tracing
			if verbose {
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := telemetry.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("initializing logger: %w", err)
			}
			metrics, err := telemetry.NewMetrics(cfg.Metrics)
			if err != nil {
				return fmt.Errorf("initializing metrics: %w", err)
			}

			opts := []factory.Option{
				factory.WithLogger(logger.Zerolog()),
				factory.WithMetrics(metrics),
			}
			var tracer *telemetry.Tracer
			if tracing {
				tracer, err = telemetry.NewTracer(cfg.Tracing, cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
				if err != nil {
					return fmt.Errorf("initializing tracer: %w", err)
				}
				opts = append(opts, factory.WithTracer(tracer))
			}

			zl := logger.Zerolog()
			f := factory.New(builtin.Catalog(), opts...)
			loader := config.NewLoader(zl)
			if err := loader.Apply(f, path); err != nil {
				return err
			}

			if err := metrics.StartMetricsServer(); err != nil {
				return fmt.Errorf("starting metrics server: %w", err)
			}
			zl.Info().
				Str("config", path).
				Str("metrics_addr", metricsAddr).
				Int("engines", len(f.Engines())).
				Msg("Registry running")

			err = loader.Watch(cmd.Context(), f, path)
			if tracer != nil {
				if serr := tracer.Shutdown(context.Background()); serr != nil {
					zl.Warn().Err(serr).Msg("Tracer shutdown failed")
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "metrics endpoint listen address")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "emit resolution traces")

	return cmd
}
