// Package commands implements CLI command handlers for toolfang.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/toolfang/toolfang/internal/config"
	"github.com/toolfang/toolfang/internal/execdriver"
	"github.com/toolfang/toolfang/internal/mcp"
	"github.com/toolfang/toolfang/internal/observability"
	"github.com/toolfang/toolfang/pkg/outpolicy"
	"github.com/toolfang/toolfang/pkg/version"
)

// metricsReadTimeout bounds request reads on the Prometheus endpoint.
const metricsReadTimeout = 10 * time.Second

// metricsScopeName is the instrumentation scope for scrape-path metrics.
const metricsScopeName = "toolfang"

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server wraps developer-tool CLIs and exposes each as a tool that AI
agents can discover and invoke. Every call returns the canonical record as
JSON alongside its deterministic text rendering; oversized records are
replaced by their compact projection unless the call asks for full output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			providers, err := initMCPObservability(cfg, debug)
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			// A scrape endpoint swaps the RED meter onto its own
			// Prometheus registry; OTLP export stays on the push path.
			meter := providers.Meter
			if cfg.Telemetry.MetricsAddr != "" {
				if promMeter := serveMetrics(cfg.Telemetry.MetricsAddr, providers.Logger); promMeter != nil {
					meter = promMeter
				}
			}

			red, redErr := observability.NewREDMetrics(meter)
			if redErr != nil {
				return redErr
			}

			deps := mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: red,
				Tracer:  providers.Tracer,
				Runner:  execdriver.Driver{Timeout: cfg.Exec.Timeout},
				Policy: outpolicy.Policy{
					AlwaysFull:    cfg.Output.AlwaysFull,
					MarginPercent: cfg.Output.MarginPercent,
				},
			}

			srv := mcp.NewServer(deps)

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a toolfang config file")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

func initMCPObservability(cfg *config.Config, debug bool) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = observability.ModeMCP
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = true
	obsCfg.LogLevel = logLevel(cfg.Logging.Level)

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	if debug {
		obsCfg.LogLevel = slog.LevelDebug
	}

	return observability.Init(obsCfg)
}

// logLevel maps a configured level name to its slog severity.
func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// serveMetrics exposes a Prometheus scrape endpoint on its own listener and
// returns the meter backing it. A setup failure is logged, not fatal: the
// stdio server keeps running without a scrape endpoint.
func serveMetrics(addr string, logger *slog.Logger) metric.Meter {
	handler, mp, err := observability.PrometheusHandler()
	if err != nil {
		logger.Warn("prometheus handler setup failed", "error", err)

		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadTimeout: metricsReadTimeout}

	go func() {
		serveErr := srv.ListenAndServe()
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Warn("metrics endpoint failed", "error", serveErr)
		}
	}()

	return mp.Meter(metricsScopeName)
}
